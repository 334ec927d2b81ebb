// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package network

import (
	"unicode"

	"github.com/pkg/errors"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokLParen
	tokRParen
	tokComma
	tokNot
	tokAnd
	tokOr
	tokXor
	tokImp
	tokIff
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func tokenize(input string) ([]token, error) {
	res := []token{}
	runes := []rune(input)
	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
			continue
		case c == '(':
			res = append(res, token{tokLParen, "(", i})
		case c == ')':
			res = append(res, token{tokRParen, ")", i})
		case c == ',':
			res = append(res, token{tokComma, ",", i})
		case c == '!':
			res = append(res, token{tokNot, "!", i})
		case c == '&':
			res = append(res, token{tokAnd, "&", i})
		case c == '|':
			res = append(res, token{tokOr, "|", i})
		case c == '^':
			res = append(res, token{tokXor, "^", i})
		case c == '=' && i+1 < len(runes) && runes[i+1] == '>':
			res = append(res, token{tokImp, "=>", i})
			i++
		case c == '<' && i+2 < len(runes) && runes[i+1] == '=' && runes[i+2] == '>':
			res = append(res, token{tokIff, "<=>", i})
			i += 2
		case c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c):
			start := i
			for i < len(runes) && (runes[i] == '_' || unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i])) {
				i++
			}
			res = append(res, token{tokIdent, string(runes[start:i]), start})
			continue
		default:
			return nil, errors.Errorf("unexpected character %q at position %d", c, i)
		}
		i++
	}
	return append(res, token{tokEOF, "", len(runes)}), nil
}

// fnParser is a recursive descent parser for update functions. Operators, from
// the lowest to the highest priority, are <=>, =>, |, &, ^ and then !.
// Implication is right associative, the others are left associative.
type fnParser struct {
	bn     *BooleanNetwork
	tokens []token
	pos    int
	// params is true when unknown identifiers denote explicit parameters
	params bool
}

// ParseFn parses an update function over the variables of bn. When params is
// true, identifiers that are not variables are declared as explicit parameters
// of bn, with the arity of their first application.
func ParseFn(bn *BooleanNetwork, input string, params bool) (*Fn, error) {
	tokens, err := tokenize(input)
	if err != nil {
		return nil, err
	}
	p := &fnParser{bn: bn, tokens: tokens, params: params}
	fn, err := p.iff()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, errors.Errorf("unexpected %q at position %d", t.text, t.pos)
	}
	return fn, nil
}

func (p *fnParser) peek() token {
	return p.tokens[p.pos]
}

func (p *fnParser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *fnParser) expect(kind tokenKind, text string) error {
	if t := p.next(); t.kind != kind {
		if t.kind == tokEOF {
			return errors.Errorf("expected %q but reached end of input", text)
		}
		return errors.Errorf("expected %q at position %d, found %q", text, t.pos, t.text)
	}
	return nil
}

func (p *fnParser) iff() (*Fn, error) {
	left, err := p.imp()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokIff {
		p.next()
		right, err := p.imp()
		if err != nil {
			return nil, err
		}
		left = Binary(FnIff, left, right)
	}
	return left, nil
}

func (p *fnParser) imp() (*Fn, error) {
	left, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokImp {
		p.next()
		right, err := p.imp()
		if err != nil {
			return nil, err
		}
		return Binary(FnImp, left, right), nil
	}
	return left, nil
}

func (p *fnParser) or() (*Fn, error) {
	return p.binary(tokOr, FnOr, p.and)
}

func (p *fnParser) and() (*Fn, error) {
	return p.binary(tokAnd, FnAnd, p.xor)
}

func (p *fnParser) xor() (*Fn, error) {
	return p.binary(tokXor, FnXor, p.unary)
}

func (p *fnParser) binary(tok tokenKind, kind FnKind, operand func() (*Fn, error)) (*Fn, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tok {
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = Binary(kind, left, right)
	}
	return left, nil
}

func (p *fnParser) unary() (*Fn, error) {
	if p.peek().kind == tokNot {
		p.next()
		f, err := p.unary()
		if err != nil {
			return nil, err
		}
		return Not(f), nil
	}
	return p.atom()
}

func (p *fnParser) atom() (*Fn, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		f, err := p.iff()
		if err != nil {
			return nil, err
		}
		return f, p.expect(tokRParen, ")")
	case tokIdent:
	case tokEOF:
		return nil, errors.New("unexpected end of input")
	default:
		return nil, errors.Errorf("unexpected %q at position %d", t.text, t.pos)
	}
	switch t.text {
	case "true", "1":
		return Const(true), nil
	case "false", "0":
		return Const(false), nil
	}
	if p.peek().kind != tokLParen {
		if v, ok := p.bn.Find(t.text); ok {
			return Var(v), nil
		}
	}
	if !p.params {
		return nil, errors.Errorf("unknown variable %q at position %d", t.text, t.pos)
	}
	args := []*Fn{}
	if p.peek().kind == tokLParen {
		p.next()
		for p.peek().kind != tokRParen {
			if len(args) > 0 {
				if err := p.expect(tokComma, ","); err != nil {
					return nil, err
				}
			}
			a, err := p.iff()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		p.next()
	}
	id, err := p.bn.AddParameter(t.text, len(args))
	if err != nil {
		return nil, err
	}
	return Param(id, args...), nil
}
