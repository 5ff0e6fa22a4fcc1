package expr

import (
	"strconv"
	"strings"
	"unicode"
)

type tokenType int

const (
	tokEOF    tokenType = iota // End of input
	tokNumber                  // Numeric literal
	tokIdent                   // Variable, constant or function name
	tokOp                      // One of + - * / % ^
	tokLParen                  // (
	tokRParen                  // )
	tokComma                   // ,
)

type token struct {
	Type tokenType
	Lit  string
	Num  float64
	Pos  int
}

type lexer struct {
	src string
	pos int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && unicode.IsSpace(rune(l.src[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{Type: tokEOF, Pos: l.pos}, nil
	}

	start := l.pos
	ch := l.src[l.pos]
	switch {
	case strings.IndexByte("+-*/%^", ch) >= 0:
		l.pos++
		return token{Type: tokOp, Lit: string(ch), Pos: start}, nil
	case ch == '(':
		l.pos++
		return token{Type: tokLParen, Lit: "(", Pos: start}, nil
	case ch == ')':
		l.pos++
		return token{Type: tokRParen, Lit: ")", Pos: start}, nil
	case ch == ',':
		l.pos++
		return token{Type: tokComma, Lit: ",", Pos: start}, nil
	case isDigit(ch) || ch == '.':
		return l.readNumber()
	case isIdentStart(ch):
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return token{Type: tokIdent, Lit: strings.ToLower(l.src[start:l.pos]), Pos: start}, nil
	}
	return token{}, errorf(start, ErrSyntax, "unexpected character %q", ch)
}

func (l *lexer) readNumber() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.') {
		l.pos++
	}
	// An exponent is only consumed when digits follow, so "2e" stays a
	// syntax error instead of silently swallowing the constant e.
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		j := l.pos + 1
		if j < len(l.src) && (l.src[j] == '+' || l.src[j] == '-') {
			j++
		}
		if j < len(l.src) && isDigit(l.src[j]) {
			for j < len(l.src) && isDigit(l.src[j]) {
				j++
			}
			l.pos = j
		}
	}
	lit := l.src[start:l.pos]
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return token{}, errorf(start, ErrSyntax, "invalid number %q", lit)
	}
	return token{Type: tokNumber, Lit: lit, Num: n, Pos: start}, nil
}

func isDigit(ch byte) bool      { return '0' <= ch && ch <= '9' }
func isIdentStart(ch byte) bool { return ch == '_' || 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' }
func isIdentPart(ch byte) bool  { return isIdentStart(ch) || isDigit(ch) }
