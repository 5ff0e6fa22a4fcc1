package tact

import "strings"

// Kind identifies the concrete variant behind a Signal.  It exists for
// display and serialization; sampling never switches on it.
type Kind int

const (
	KindZero Kind = iota
	KindTime
	KindScalar
	KindRamp
	KindNoise
	KindExpression
	KindSum
	KindProduct
	KindSine
	KindSquare
	KindSaw
	KindTriangle
	KindPwm
	KindChirp
	KindEnvelope
	KindASR
	KindADSR
	KindKeyedEnvelope
	KindSignalEnvelope
	KindPolyBezier
)

var kindNames = [...]string{
	KindZero:           "Zero",
	KindTime:           "Time",
	KindScalar:         "Scalar",
	KindRamp:           "Ramp",
	KindNoise:          "Noise",
	KindExpression:     "Expression",
	KindSum:            "Sum",
	KindProduct:        "Product",
	KindSine:           "Sine",
	KindSquare:         "Square",
	KindSaw:            "Saw",
	KindTriangle:       "Triangle",
	KindPwm:            "PWM",
	KindChirp:          "Chirp",
	KindEnvelope:       "Envelope",
	KindASR:            "ASR",
	KindADSR:           "ADSR",
	KindKeyedEnvelope:  "Keyed Envelope",
	KindSignalEnvelope: "Signal Envelope",
	KindPolyBezier:     "PolyBezier",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Kinds returns every Kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, len(kindNames))
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// ParseKind looks up a Kind by its display name, ignoring case and spaces.
func ParseKind(name string) (Kind, bool) {
	key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	for i, n := range kindNames {
		if strings.ToLower(strings.ReplaceAll(n, " ", "")) == key {
			return Kind(i), true
		}
	}
	return 0, false
}
