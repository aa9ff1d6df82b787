package parser

import (
	"strconv"

	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/token"
)

// precedence levels, lowest to highest, per spec.md §6 binop list. The
// source grammar doesn't spell out precedence; we follow the conventional
// C-family ladder and slot `^` (dot product, §4.E.2) one level above
// multiplicative and below unary, so `^` binds tighter than `*`.
const (
	precNone = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precDot
	precUnary
)

func precedenceOf(k token.Kind) int {
	switch k {
	case token.Or:
		return precOr
	case token.And:
		return precAnd
	case token.Eq, token.Neq:
		return precEquality
	case token.Lt, token.Gt, token.Le, token.Ge:
		return precRelational
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	case token.Caret:
		return precDot
	default:
		return precNone
	}
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseBinary(precOr)
}

func (p *Parser) parseBinary(minPrec int) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peekK()
		prec := precedenceOf(op)
		if prec < minPrec || prec == precNone {
			break
		}
		opTok := p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(token.Join(left.Span(), right.Span()), opTok.Kind, left, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	start := p.cur().Span
	switch p.peekK() {
	case token.Minus:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(token.Join(start, x.Span()), token.Minus, x), nil
	case token.Not:
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(token.Join(start, x.Span()), token.Not, x), nil
	case token.Pipe:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.Pipe)
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(token.Join(start, end.Span), token.Pipe, x), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peekK() {
		case token.Dot:
			p.advance()
			name, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			x = ast.NewDot(token.Join(x.Span(), name.Span), x, name.Lit)
		case token.LBracket:
			p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			end, err := p.expect(token.RBracket)
			if err != nil {
				return nil, err
			}
			x = ast.NewIndex(token.Join(x.Span(), end.Span), x, idx)
		default:
			return x, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	start := p.cur().Span
	switch p.peekK() {
	case token.Int:
		t := p.advance()
		v, err := strconv.ParseInt(t.Lit, 10, 32)
		if err != nil {
			return nil, p.errf("invalid int literal %q", t.Lit)
		}
		return ast.NewIntLit(t.Span, int32(v)), nil
	case token.Float:
		t := p.advance()
		v, err := strconv.ParseFloat(t.Lit, 32)
		if err != nil {
			return nil, p.errf("invalid float literal %q", t.Lit)
		}
		return ast.NewFloatLit(t.Span, float32(v)), nil
	case token.String:
		t := p.advance()
		return ast.NewStringLit(t.Span, t.Lit), nil
	case token.True:
		t := p.advance()
		return ast.NewBoolLit(t.Span, true), nil
	case token.False:
		t := p.advance()
		return ast.NewBoolLit(t.Span, false), nil
	case token.Null:
		t := p.advance()
		return ast.NewNullLit(t.Span), nil
	case token.LParen:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		end, err := p.expect(token.RParen)
		if err != nil {
			return nil, err
		}
		ast.MarkParenthesized(x)
		ast.SetSpan(x, token.Join(start, end.Span))
		return x, nil
	case token.LBracket:
		return p.parseVecLit(start)
	case token.LBrace:
		return p.parseListLit(start)
	case token.Ident:
		name := p.advance()
		if p.check(token.LParen) {
			return p.parseCall(name, start)
		}
		return ast.NewIdent(name.Span, name.Lit), nil
	case token.TypeName:
		// type constructor call, e.g. vec4(pos, 1.0)
		name := p.advance()
		if p.check(token.LParen) {
			return p.parseCall(name, start)
		}
		return nil, p.errf("unexpected type name %q in expression", name.Lit)
	}
	return nil, p.errf("unexpected token in expression: %s", p.peekK())
}

func (p *Parser) parseCall(name token.Token, start token.Span) (ast.Expr, error) {
	p.advance() // '('
	var args []ast.Expr
	for !p.check(token.RParen) {
		if len(args) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	end, err := p.expect(token.RParen)
	if err != nil {
		return nil, err
	}
	return ast.NewCall(token.Join(start, end.Span), name.Lit, args), nil
}

func (p *Parser) parseVecLit(start token.Span) (ast.Expr, error) {
	p.advance() // '['
	var elems []ast.Expr
	for !p.check(token.RBracket) {
		if len(elems) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	end, err := p.expect(token.RBracket)
	if err != nil {
		return nil, err
	}
	return ast.NewVecLit(token.Join(start, end.Span), elems), nil
}

func (p *Parser) parseListLit(start token.Span) (ast.Expr, error) {
	p.advance() // '{'
	var elems []ast.Expr
	for !p.check(token.RBrace) {
		if len(elems) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	end, err := p.expect(token.RBrace)
	if err != nil {
		return nil, err
	}
	return ast.NewListLit(token.Join(start, end.Span), elems), nil
}
