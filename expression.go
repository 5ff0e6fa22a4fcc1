package tact

import "github.com/sandeepzgk/tact/expr"

// DefaultExpression is the formula a new Expression starts with.
const DefaultExpression = "sin(2*pi*100*t)"

// Expression evaluates a compiled formula of t.
type Expression struct {
	prog *expr.Program
}

// NewExpression compiles text into an Expression signal.
func NewExpression(text string) (Signal, error) {
	p, err := expr.Compile(text)
	if err != nil {
		return Signal{}, err
	}
	return New(Expression{p}), nil
}

func (e Expression) Sample(t float64) float64 { return e.prog.Eval(t) }
func (Expression) Length() float64            { return Inf }
func (Expression) Kind() Kind                 { return KindExpression }

// Text returns the formula source.
func (e Expression) Text() string { return e.prog.String() }
