package tact

import "math"

// Sum adds its children.  Its length is the longest child's.
type Sum struct {
	children []Signal
	length   float64
}

// NewSum returns the sum of children.  With no children it returns the zero
// Signal.
func NewSum(children ...Signal) Signal {
	if len(children) == 0 {
		return Signal{}
	}
	s := Sum{children: append([]Signal(nil), children...)}
	for _, c := range s.children {
		s.length = math.Max(s.length, c.Length())
	}
	return New(s)
}

func (s Sum) Sample(t float64) float64 {
	y := 0.0
	for _, c := range s.children {
		y += c.Sample(t)
	}
	return y
}

func (s Sum) Length() float64 { return s.length }
func (Sum) Kind() Kind        { return KindSum }

// Children returns a copy of the summed signals.
func (s Sum) Children() []Signal { return append([]Signal(nil), s.children...) }

// Product multiplies its children.  Its length is the shortest child's, so
// an envelope gates whatever it multiplies.
type Product struct {
	children []Signal
	length   float64
}

// NewProduct returns the product of children.  With no children it returns
// the zero Signal.
func NewProduct(children ...Signal) Signal {
	if len(children) == 0 {
		return Signal{}
	}
	p := Product{children: append([]Signal(nil), children...), length: Inf}
	for _, c := range p.children {
		p.length = math.Min(p.length, c.Length())
	}
	return New(p)
}

func (p Product) Sample(t float64) float64 {
	y := 1.0
	for _, c := range p.children {
		y *= c.Sample(t)
	}
	return y
}

func (p Product) Length() float64 { return p.length }
func (Product) Kind() Kind        { return KindProduct }

// Children returns a copy of the multiplied signals.
func (p Product) Children() []Signal { return append([]Signal(nil), p.children...) }

// Add sums signals, flattening operands that are themselves plain sums.
func Add(sigs ...Signal) Signal { return NewSum(flatten(KindSum, sigs)...) }

// Mul multiplies signals, flattening operands that are themselves plain
// products.
func Mul(sigs ...Signal) Signal { return NewProduct(flatten(KindProduct, sigs)...) }

// Children reports the direct children of a Sum or Product signal.
type Children interface {
	Children() []Signal
}

func flatten(k Kind, sigs []Signal) []Signal {
	var out []Signal
	for _, s := range sigs {
		if c, ok := s.Source().(Children); ok && s.Kind() == k && s.Gain == 1 && s.Bias == 0 {
			out = append(out, c.Children()...)
			continue
		}
		out = append(out, s)
	}
	return out
}
