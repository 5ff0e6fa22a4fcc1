// Package expr compiles formulas of the time variable t into functions.
//
// The language has numbers, the variable t, the constants pi, tau and e,
// the operators + - * / % ^ (^ binds tighter than unary minus and is right
// associative), parentheses, and calls to a fixed set of math functions
// (see Functions).
//
//	p, err := expr.Compile("sin(2*pi*100*t) * exp(-3*t)")
//	if err != nil {
//		// handle error
//	}
//	y := p.Eval(0.01)
package expr

import "strings"

// Program is a compiled expression.  It is immutable and safe for
// concurrent use.
type Program struct {
	src string
	f   func(float64) float64
}

// Compile parses text into a Program.  On failure the returned error is an
// *Error wrapping ErrSyntax, ErrUnknownIdent or ErrArity.
func Compile(text string) (*Program, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errorf(0, ErrSyntax, "empty expression")
	}
	p := &parser{lex: lexer{src: text}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := p.sum()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != tokEOF {
		return nil, p.unexpected("operator or end of expression")
	}
	return &Program{src: text, f: n.f}, nil
}

// Eval evaluates the program at time t.
func (p *Program) Eval(t float64) float64 { return p.f(t) }

// String returns the source text the program was compiled from.
func (p *Program) String() string { return p.src }
