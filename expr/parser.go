package expr

import "math"

// node is a compiled subexpression.  Constant subtrees are folded at
// compile time and carry their value in v.
type node struct {
	f func(t float64) float64
	c bool
	v float64
}

func constant(v float64) node {
	return node{f: func(float64) float64 { return v }, c: true, v: v}
}

type parser struct {
	lex lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(typ tokenType, what string) error {
	if p.tok.Type != typ {
		return p.unexpected(what)
	}
	return p.advance()
}

func (p *parser) unexpected(want string) error {
	if p.tok.Type == tokEOF {
		return errorf(p.tok.Pos, ErrSyntax, "unexpected end of expression, expected %s", want)
	}
	return errorf(p.tok.Pos, ErrSyntax, "unexpected %q, expected %s", p.tok.Lit, want)
}

func (p *parser) isOp(ops string) (byte, bool) {
	if p.tok.Type != tokOp {
		return 0, false
	}
	for i := 0; i < len(ops); i++ {
		if p.tok.Lit[0] == ops[i] {
			return ops[i], true
		}
	}
	return 0, false
}

// sum = product { ("+" | "-") product } .
func (p *parser) sum() (node, error) {
	x, err := p.product()
	if err != nil {
		return node{}, err
	}
	for {
		op, ok := p.isOp("+-")
		if !ok {
			return x, nil
		}
		if err := p.advance(); err != nil {
			return node{}, err
		}
		y, err := p.product()
		if err != nil {
			return node{}, err
		}
		x = binary(op, x, y)
	}
}

// product = unary { ("*" | "/" | "%") unary } .
func (p *parser) product() (node, error) {
	x, err := p.unary()
	if err != nil {
		return node{}, err
	}
	for {
		op, ok := p.isOp("*/%")
		if !ok {
			return x, nil
		}
		if err := p.advance(); err != nil {
			return node{}, err
		}
		y, err := p.unary()
		if err != nil {
			return node{}, err
		}
		x = binary(op, x, y)
	}
}

// unary = ("+" | "-") unary | power .
func (p *parser) unary() (node, error) {
	if op, ok := p.isOp("+-"); ok {
		if err := p.advance(); err != nil {
			return node{}, err
		}
		x, err := p.unary()
		if err != nil {
			return node{}, err
		}
		if op == '+' {
			return x, nil
		}
		if x.c {
			return constant(-x.v), nil
		}
		f := x.f
		return node{f: func(t float64) float64 { return -f(t) }}, nil
	}
	return p.power()
}

// power = primary [ "^" unary ] .
func (p *parser) power() (node, error) {
	x, err := p.primary()
	if err != nil {
		return node{}, err
	}
	if _, ok := p.isOp("^"); !ok {
		return x, nil
	}
	if err := p.advance(); err != nil {
		return node{}, err
	}
	y, err := p.unary()
	if err != nil {
		return node{}, err
	}
	return binary('^', x, y), nil
}

// primary = number | "t" | constant | name "(" args ")" | "(" sum ")" .
func (p *parser) primary() (node, error) {
	tok := p.tok
	switch tok.Type {
	case tokNumber:
		return constant(tok.Num), p.advance()
	case tokLParen:
		if err := p.advance(); err != nil {
			return node{}, err
		}
		x, err := p.sum()
		if err != nil {
			return node{}, err
		}
		return x, p.expect(tokRParen, "')'")
	case tokIdent:
		if err := p.advance(); err != nil {
			return node{}, err
		}
		if p.tok.Type == tokLParen {
			return p.call(tok)
		}
		if tok.Lit == "t" {
			return node{f: func(t float64) float64 { return t }}, nil
		}
		if v, ok := constants[tok.Lit]; ok {
			return constant(v), nil
		}
		if _, ok := functions[tok.Lit]; ok {
			return node{}, errorf(tok.Pos, ErrSyntax, "function %s used without arguments", tok.Lit)
		}
		return node{}, errorf(tok.Pos, ErrUnknownIdent, "%q", tok.Lit)
	}
	return node{}, p.unexpected("operand")
}

func (p *parser) call(name token) (node, error) {
	fn, ok := functions[name.Lit]
	if !ok {
		return node{}, errorf(name.Pos, ErrUnknownIdent, "no function %q", name.Lit)
	}
	if err := p.advance(); err != nil {
		return node{}, err
	}
	var args []node
	if p.tok.Type != tokRParen {
		for {
			x, err := p.sum()
			if err != nil {
				return node{}, err
			}
			args = append(args, x)
			if p.tok.Type != tokComma {
				break
			}
			if err := p.advance(); err != nil {
				return node{}, err
			}
		}
	}
	if err := p.expect(tokRParen, "')' or ','"); err != nil {
		return node{}, err
	}
	if len(args) != fn.arity() {
		return node{}, errorf(name.Pos, ErrArity, "%s takes %d, got %d", name.Lit, fn.arity(), len(args))
	}
	return apply(fn, args), nil
}

func apply(fn function, args []node) node {
	allConst := true
	for _, a := range args {
		allConst = allConst && a.c
	}
	switch fn.arity() {
	case 1:
		f, a := fn.f1, args[0].f
		if allConst {
			return constant(f(args[0].v))
		}
		return node{f: func(t float64) float64 { return f(a(t)) }}
	case 2:
		f, a, b := fn.f2, args[0].f, args[1].f
		if allConst {
			return constant(f(args[0].v, args[1].v))
		}
		return node{f: func(t float64) float64 { return f(a(t), b(t)) }}
	}
	f, a, b, c := fn.f3, args[0].f, args[1].f, args[2].f
	if allConst {
		return constant(f(args[0].v, args[1].v, args[2].v))
	}
	return node{f: func(t float64) float64 { return f(a(t), b(t), c(t)) }}
}

func binary(op byte, x, y node) node {
	var f func(a, b float64) float64
	switch op {
	case '+':
		f = func(a, b float64) float64 { return a + b }
	case '-':
		f = func(a, b float64) float64 { return a - b }
	case '*':
		f = func(a, b float64) float64 { return a * b }
	case '/':
		f = func(a, b float64) float64 { return a / b }
	case '%':
		f = math.Mod
	case '^':
		f = math.Pow
	}
	if x.c && y.c {
		return constant(f(x.v, y.v))
	}
	a, b := x.f, y.f
	switch {
	case x.c:
		v := x.v
		return node{f: func(t float64) float64 { return f(v, b(t)) }}
	case y.c:
		v := y.v
		return node{f: func(t float64) float64 { return f(a(t), v) }}
	}
	return node{f: func(t float64) float64 { return f(a(t), b(t)) }}
}
