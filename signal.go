// Package tact composes time-varying haptic and audio signals.
//
// A Signal is an immutable value wrapping one Source (a primitive generator,
// an envelope, a curve, or a Sum/Product of other Signals) together with a
// gain and a bias. Any Signal can be sampled at any time t >= 0; Length
// reports how long the signal is meaningful, or Inf when it never ends.
package tact

import (
	"fmt"
	"math"
)

// Inf is the length of a signal that never ends.
var Inf = math.Inf(1)

// A Source is one concrete signal implementation.
//
// Sample must be a pure function of t. Length must be O(1).
type Source interface {
	Sample(t float64) float64
	Length() float64
	Kind() Kind
}

// Signal is a value handle over a Source.  Its output is Gain*src(t) + Bias.
// The zero Signal samples 0 everywhere and has length 0.
type Signal struct {
	Gain, Bias float64
	src        Source
}

func New(src Source) Signal {
	return Signal{Gain: 1, src: src}
}

func (s Signal) Sample(t float64) float64 {
	if s.src == nil {
		return s.Bias
	}
	return s.Gain*s.src.Sample(t) + s.Bias
}

func (s Signal) Length() float64 {
	if s.src == nil {
		return 0
	}
	return s.src.Length()
}

func (s Signal) Kind() Kind {
	if s.src == nil {
		return KindZero
	}
	return s.src.Kind()
}

// Source returns the wrapped implementation, or nil for the zero Signal.
func (s Signal) Source() Source { return s.src }

// IsZero reports whether s is the neutral signal.
func (s Signal) IsZero() bool { return s.src == nil && s.Bias == 0 }

// Bounded reports whether s has a finite length.
func (s Signal) Bounded() bool { return !math.IsInf(s.Length(), 1) }

// Scale returns s with its gain and bias multiplied by g.
func (s Signal) Scale(g float64) Signal {
	s.Gain *= g
	s.Bias *= g
	return s
}

// Offset returns s with b added to its bias.
func (s Signal) Offset(b float64) Signal {
	s.Bias += b
	return s
}

func (s Signal) String() string {
	l := "inf"
	if s.Bounded() {
		l = fmt.Sprintf("%gs", s.Length())
	}
	if s.Gain == 1 && s.Bias == 0 {
		return fmt.Sprintf("%s[%s]", s.Kind(), l)
	}
	return fmt.Sprintf("%s[%s]*%g%+g", s.Kind(), l, s.Gain, s.Bias)
}
