package parser

import (
	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/token"
)

func (p *Parser) parseStmt() (ast.Stmt, error) {
	start := p.cur().Span
	switch p.peekK() {
	case token.TypeName:
		return p.parseDecl()
	case token.Allocate:
		p.advance()
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return ast.NewAlloc(closeSpan(start, p), name.Lit), nil
	case token.Upload:
		return p.parseUpload(start)
	case token.Draw:
		return p.parseDraw(start)
	case token.Clear:
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return ast.NewClear(closeSpan(start, p), val), nil
	case token.Viewport:
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return ast.NewViewport(closeSpan(start, p), val), nil
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.Break:
		p.advance()
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return ast.NewBreak(closeSpan(start, p)), nil
	case token.Return:
		p.advance()
		var val ast.Expr
		if !p.check(token.Semi) {
			v, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			val = v
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return ast.NewReturn(closeSpan(start, p), val), nil
	case token.Print:
		p.advance()
		if _, err := p.expect(token.LParen); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return ast.NewPrint(closeSpan(start, p), val), nil
	default:
		return p.parseSimpleStmt(start)
	}
}

// parseSimpleStmt handles Assign, CompoundAssign, and bare call-expression
// statements, all of which begin with a left-hand expression.
func (p *Parser) parseSimpleStmt(start token.Span) (ast.Stmt, error) {
	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	switch p.peekK() {
	case token.Assign:
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return ast.NewAssign(closeSpan(start, p), lhs, rhs), nil
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent, token.Caret:
		if p.peekAt(1).Kind != token.Assign {
			break
		}
		op := p.advance().Kind
		p.advance() // '='
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return nil, err
		}
		return ast.NewCompoundAssign(closeSpan(start, p), lhs, op, rhs), nil
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return ast.NewExprStmt(closeSpan(start, p), lhs), nil
}

func (p *Parser) parseDecl() (ast.Stmt, error) {
	start := p.cur().Span
	typ, err := p.expect(token.TypeName)
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	var init ast.Expr
	if _, ok := p.match(token.Assign); ok {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		init = e
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return ast.NewDecl(closeSpan(start, p), typ.Lit, name.Lit, init), nil
}

func (p *Parser) parseUpload(start token.Span) (ast.Stmt, error) {
	p.advance() // 'upload'
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Dot); err != nil {
		return nil, err
	}
	attrib, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Arrow); err != nil {
		return nil, err
	}
	list, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return ast.NewUpload(closeSpan(start, p), name.Lit, attrib.Lit, list), nil
}

func (p *Parser) parseDraw(start token.Span) (ast.Stmt, error) {
	p.advance() // 'draw'
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	var to, using string
	if _, ok := p.match(token.To); ok {
		toTok, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		to = toTok.Lit
	}
	if _, ok := p.match(token.Using); ok {
		usingTok, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		using = usingTok.Lit
	}
	if _, err := p.expect(token.Semi); err != nil {
		return nil, err
	}
	return ast.NewDraw(closeSpan(start, p), name.Lit, to, using), nil
}

func (p *Parser) parseIf() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // 'if'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elif *ast.If
	var els []ast.Stmt
	if _, ok := p.match(token.Else); ok {
		if p.check(token.If) {
			elifStmt, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			elif = elifStmt.(*ast.If)
		} else {
			els, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}
	}
	return ast.NewIf(closeSpan(start, p), cond, then, elif, els), nil
}

func (p *Parser) parseWhile() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // 'while'
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(closeSpan(start, p), cond, body), nil
}

func (p *Parser) parseFor() (ast.Stmt, error) {
	start := p.cur().Span
	p.advance() // 'for'
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, ok := p.match(token.In); ok {
		list, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return ast.NewForIn(closeSpan(start, p), name.Lit, list, body), nil
	}
	if _, err := p.expect(token.Assign); err != nil {
		return nil, err
	}
	from, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.To); err != nil {
		return nil, err
	}
	to, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var step ast.Expr
	if p.check(token.Ident) && p.cur().Lit == "by" {
		p.advance()
		s, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		step = s
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewForRange(closeSpan(start, p), name.Lit, from, to, step, body), nil
}

func closeSpan(start token.Span, p *Parser) token.Span {
	if p.pos == 0 {
		return start
	}
	return token.Join(start, p.toks[p.pos-1].Span)
}
