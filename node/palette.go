package node

import (
	"fmt"
	"strings"

	"github.com/sandeepzgk/tact"
)

// PaletteItem identifies a node type offered by the palette.
type PaletteItem int

const (
	Time PaletteItem = iota
	Scalar
	Ramp
	Noise
	Expression
	Sum
	Product
	Sine
	Square
	Saw
	Triangle
	Chirp
	Envelope
	ASR
	ADSR
	PolyBezier
	numItems
)

var itemNames = [...]string{
	Time:       "Time",
	Scalar:     "Scalar",
	Ramp:       "Ramp",
	Noise:      "Noise",
	Expression: "Expression",
	Sum:        "Sum",
	Product:    "Product",
	Sine:       "Sine",
	Square:     "Square",
	Saw:        "Saw",
	Triangle:   "Triangle",
	Chirp:      "Chirp",
	Envelope:   "Envelope",
	ASR:        "ASR",
	ADSR:       "ADSR",
	PolyBezier: "PolyBezier",
}

func (p PaletteItem) String() string {
	if p < 0 || p >= numItems {
		return fmt.Sprintf("PaletteItem(%d)", int(p))
	}
	return itemNames[p]
}

// Palette returns every item in display order.
func Palette() []PaletteItem {
	items := make([]PaletteItem, numItems)
	for i := range items {
		items[i] = PaletteItem(i)
	}
	return items
}

// ParsePaletteItem returns the item named name, ignoring case.
func ParsePaletteItem(name string) (PaletteItem, error) {
	for i, n := range itemNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return PaletteItem(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// New returns a node of type item with default parameters.
func New(item PaletteItem) (Node, error) {
	switch item {
	case Time:
		return &TimeNode{}, nil
	case Scalar:
		return &ScalarNode{Value: 1}, nil
	case Ramp:
		return &RampNode{Initial: 1, Rate: -1}, nil
	case Noise:
		return NewNoiseNode(), nil
	case Expression:
		return NewExpressionNode(), nil
	case Sum:
		return &SumNode{List: NewList()}, nil
	case Product:
		return &ProductNode{List: NewList()}, nil
	case Sine:
		return &OscillatorNode{Shape: tact.ShapeSine, Frequency: DefaultFrequency}, nil
	case Square:
		return &OscillatorNode{Shape: tact.ShapeSquare, Frequency: DefaultFrequency}, nil
	case Saw:
		return &OscillatorNode{Shape: tact.ShapeSaw, Frequency: DefaultFrequency}, nil
	case Triangle:
		return &OscillatorNode{Shape: tact.ShapeTriangle, Frequency: DefaultFrequency}, nil
	case Chirp:
		return &ChirpNode{Frequency: DefaultFrequency, Rate: 100}, nil
	case Envelope:
		return &EnvelopeNode{Duration: 1, Amplitude: 1}, nil
	case ASR:
		return &ASRNode{Attack: 1, Sustain: 1, Release: 1, Amplitude: 1}, nil
	case ADSR:
		return &ADSRNode{Attack: 1, Decay: 1, Sustain: 1, Release: 1, Peak: 1, Level: 0.5}, nil
	case PolyBezier:
		return NewPolyBezierNode(), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownKind, item)
}
