// Package node holds the editable signal tree behind the editor.
//
// A Node is an editable, typed view of one signal: its fields are the
// parameters the editor exposes, and Signal builds a fresh immutable
// tact.Signal from them.  Sum and Product nodes own a List of child nodes.
package node

import (
	"fmt"

	"github.com/sandeepzgk/tact"
)

// DefaultFrequency is the frequency of new oscillator and chirp nodes.
const DefaultFrequency = 100

// Node is one editable element of a signal tree.
type Node interface {
	// Name is the display name: the signal kind, or the library name.
	Name() string
	// Signal returns the signal described by the node's current parameters.
	Signal() tact.Signal
}

// TimeNode produces elapsed time.
type TimeNode struct{}

func (*TimeNode) Name() string        { return tact.KindTime.String() }
func (*TimeNode) Signal() tact.Signal { return tact.NewTime() }

// ScalarNode produces a constant.
type ScalarNode struct {
	Value float64
}

func (*ScalarNode) Name() string          { return tact.KindScalar.String() }
func (n *ScalarNode) Signal() tact.Signal { return tact.NewScalar(n.Value) }

// RampNode produces Initial + Rate*t.
type RampNode struct {
	Initial, Rate float64
}

func (*RampNode) Name() string          { return tact.KindRamp.String() }
func (n *RampNode) Signal() tact.Signal { return tact.NewRamp(n.Initial, n.Rate) }

// NoiseNode produces scaled, offset white noise.  The seed is fixed when
// the node is created so repeated Signal calls agree.
type NoiseNode struct {
	Gain, Bias float64
	seed       uint64
}

// NewNoiseNode returns a unit-gain noise node with a fresh seed.
func NewNoiseNode() *NoiseNode {
	src := tact.NewNoise().Source().(tact.Noise)
	return &NoiseNode{Gain: 1, seed: src.Seed}
}

func (*NoiseNode) Name() string { return tact.KindNoise.String() }

func (n *NoiseNode) Signal() tact.Signal {
	s := tact.NewNoiseSeed(n.seed)
	s.Gain, s.Bias = n.Gain, n.Bias
	return s
}

// ExpressionNode evaluates a formula of t.  A failed edit leaves the
// previous formula in effect and is reported by OK and Err.
type ExpressionNode struct {
	sig tact.Signal
	err error
}

// NewExpressionNode returns a node holding tact.DefaultExpression.
func NewExpressionNode() *ExpressionNode {
	sig, _ := tact.NewExpression(tact.DefaultExpression)
	return &ExpressionNode{sig: sig}
}

func (*ExpressionNode) Name() string          { return tact.KindExpression.String() }
func (n *ExpressionNode) Signal() tact.Signal { return n.sig }

// Text returns the formula in effect.
func (n *ExpressionNode) Text() string {
	e, ok := n.sig.Source().(tact.Expression)
	if !ok {
		return ""
	}
	return e.Text()
}

// SetText compiles text and, if it is valid, makes it the formula in effect.
func (n *ExpressionNode) SetText(text string) error {
	sig, err := tact.NewExpression(text)
	n.err = err
	if err != nil {
		return err
	}
	n.sig = sig
	return nil
}

// OK reports whether the last edit compiled.
func (n *ExpressionNode) OK() bool { return n.err == nil }

// Err returns the error from the last edit, if any.
func (n *ExpressionNode) Err() error { return n.err }

// SumNode adds its children.
type SumNode struct {
	List *List
}

func (*SumNode) Name() string          { return tact.KindSum.String() }
func (n *SumNode) Signal() tact.Signal { return tact.NewSum(n.List.Signals()...) }

// ProductNode multiplies its children.
type ProductNode struct {
	List *List
}

func (*ProductNode) Name() string          { return tact.KindProduct.String() }
func (n *ProductNode) Signal() tact.Signal { return tact.NewProduct(n.List.Signals()...) }

// OscillatorNode is a periodic waveform of selectable shape.
type OscillatorNode struct {
	Shape     tact.Shape
	Frequency float64
}

func (n *OscillatorNode) Name() string { return n.Shape.String() }

func (n *OscillatorNode) Signal() tact.Signal {
	return tact.NewOscillator(n.Shape, tact.Phase(n.Frequency))
}

// ChirpNode is a sine sweeping upward from Frequency at Rate Hz/s.
type ChirpNode struct {
	Frequency, Rate float64
}

func (*ChirpNode) Name() string          { return tact.KindChirp.String() }
func (n *ChirpNode) Signal() tact.Signal { return tact.NewChirp(n.Frequency, n.Rate) }

// EnvelopeNode is a constant amplitude for a duration.
type EnvelopeNode struct {
	Duration, Amplitude float64
}

func (*EnvelopeNode) Name() string { return tact.KindEnvelope.String() }

func (n *EnvelopeNode) Signal() tact.Signal {
	return tact.NewEnvelope(n.Duration, n.Amplitude)
}

// ASRNode is an attack-sustain-release envelope.
type ASRNode struct {
	Attack, Sustain, Release, Amplitude float64
}

func (*ASRNode) Name() string { return tact.KindASR.String() }

func (n *ASRNode) Signal() tact.Signal {
	return tact.NewASR(n.Attack, n.Sustain, n.Release, n.Amplitude)
}

// ADSRNode is an attack-decay-sustain-release envelope.
type ADSRNode struct {
	Attack, Decay, Sustain, Release float64
	Peak, Level                     float64
}

func (*ADSRNode) Name() string { return tact.KindADSR.String() }

func (n *ADSRNode) Signal() tact.Signal {
	return tact.NewADSR(n.Attack, n.Decay, n.Sustain, n.Release, n.Peak, n.Level)
}

// PolyBezierNode is an editable Bezier curve.  The curve is solved each time
// Signal is called.
type PolyBezierNode struct {
	Groups []tact.PointGroup
}

// NewPolyBezierNode returns an ease from 0 to 1 over one second.
func NewPolyBezierNode() *PolyBezierNode {
	return &PolyBezierNode{Groups: []tact.PointGroup{
		{Left: tact.Point{T: 0, Y: 0}, Center: tact.Point{T: 0, Y: 0}, Right: tact.Point{T: 1.0 / 3, Y: 0}},
		{Left: tact.Point{T: 2.0 / 3, Y: 1}, Center: tact.Point{T: 1, Y: 1}, Right: tact.Point{T: 1, Y: 1}},
	}}
}

func (*PolyBezierNode) Name() string          { return tact.KindPolyBezier.String() }
func (n *PolyBezierNode) Signal() tact.Signal { return tact.NewPolyBezier(n.Groups...) }

// Resolver looks up standalone library signals by name.
type Resolver interface {
	LoadSignal(name string) (tact.Signal, error)
}

// LibraryNode is a signal loaded from the library.  The signal is resolved
// once, when the node is created.
type LibraryNode struct {
	name string
	sig  tact.Signal
}

// NewLibraryNode resolves name through r.
func NewLibraryNode(r Resolver, name string) (*LibraryNode, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %q: no library", ErrUnresolved, name)
	}
	sig, err := r.LoadSignal(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnresolved, name, err)
	}
	return &LibraryNode{name: name, sig: sig}, nil
}

func (n *LibraryNode) Name() string        { return n.name }
func (n *LibraryNode) Signal() tact.Signal { return n.sig }
