package tact

import (
	"math"
	"sort"
)

// Curve shapes the transition into a Key.
type Curve int

const (
	Linear Curve = iota
	Instant
	Smoothstep
	QuadIn
	QuadOut
)

var curveNames = [...]string{"Linear", "Instant", "Smoothstep", "QuadIn", "QuadOut"}

func (c Curve) String() string {
	if c < 0 || int(c) >= len(curveNames) {
		return "Unknown"
	}
	return curveNames[c]
}

// ParseCurve looks up a Curve by name.
func ParseCurve(name string) (Curve, bool) {
	for i, n := range curveNames {
		if n == name {
			return Curve(i), true
		}
	}
	return 0, false
}

// Interp maps a fraction u in [0, 1] of the way from a to b.
func (c Curve) Interp(a, b, u float64) float64 {
	switch c {
	case Instant:
		return b
	case Smoothstep:
		u = u * u * (3 - 2*u)
	case QuadIn:
		u = u * u
	case QuadOut:
		u = u * (2 - u)
	}
	return a + (b-a)*u
}

// Key is an amplitude reached at Time, approached along Curve.
type Key struct {
	Time, Amplitude float64
	Curve           Curve
}

// KeyedEnvelope interpolates between keys.  It starts at zero amplitude at
// time zero unless a key says otherwise.
type KeyedEnvelope struct {
	keys []Key
}

// NewKeyedEnvelope returns an envelope through keys.  Keys are sorted by
// time; keys at negative times are dropped.
func NewKeyedEnvelope(keys ...Key) Signal {
	ks := make([]Key, 0, len(keys)+1)
	for _, k := range keys {
		if k.Time >= 0 && !math.IsNaN(k.Time) {
			ks = append(ks, k)
		}
	}
	sort.SliceStable(ks, func(i, j int) bool { return ks[i].Time < ks[j].Time })
	if len(ks) == 0 || ks[0].Time > 0 {
		ks = append([]Key{{}}, ks...)
	}
	return New(KeyedEnvelope{ks})
}

// Keys returns a copy of the envelope's keys in time order.
func (e KeyedEnvelope) Keys() []Key { return append([]Key(nil), e.keys...) }

func (e KeyedEnvelope) Sample(t float64) float64 {
	if t < 0 || len(e.keys) == 0 || t > e.Length() {
		return 0
	}
	i := sort.Search(len(e.keys), func(i int) bool { return e.keys[i].Time >= t })
	if i == 0 {
		return e.keys[0].Amplitude
	}
	a, b := e.keys[i-1], e.keys[i]
	if b.Time == a.Time {
		return b.Amplitude
	}
	return b.Curve.Interp(a.Amplitude, b.Amplitude, (t-a.Time)/(b.Time-a.Time))
}

func (e KeyedEnvelope) Length() float64 {
	if len(e.keys) == 0 {
		return 0
	}
	return e.keys[len(e.keys)-1].Time
}

func (KeyedEnvelope) Kind() Kind { return KindKeyedEnvelope }
