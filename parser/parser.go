// Package parser builds the AST from a token stream (component C, spec.md
// §4.A). Error policy: "parser errors stop execution for the current reload
// but leave the previous AST/state intact on the UI side" (§4.A) — the
// driver, not the parser, owns keeping the old AST around; Parse here simply
// returns the first error encountered.
package parser

import (
	"fmt"

	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/lexer"
	"github.com/soypat/gfxlang/token"
)

// Parser consumes a pre-lexed token slice and produces an *ast.Program.
type Parser struct {
	toks []token.Token
	pos  int
}

// Parse lexes and parses src in one call.
func Parse(src string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseProgram()
}

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peekK() token.Kind { return p.toks[p.pos].Kind }

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if t.Kind != token.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.peekK() == k }

func (p *Parser) match(k token.Kind) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.check(k) {
		return p.advance(), nil
	}
	return token.Token{}, p.errf("expected %s, got %s %q", k, p.cur().Kind, p.cur().Lit)
}

func (p *Parser) errf(format string, args ...any) error {
	sp := p.cur().Span
	return fmt.Errorf("parse error at line %d: %s", sp.FirstLine, fmt.Sprintf(format, args...))
}

// isTypeStart reports whether the current token can begin a Decl: a concrete
// type-name keyword, or an identifier used as a user-ish type is not
// supported by the grammar (only the fixed type-name set, spec.md §3
// invariant 4).
func (p *Parser) isTypeStart() bool { return p.check(token.TypeName) }

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := ast.NewProgram()
	for !p.check(token.EOF) {
		switch p.peekK() {
		case token.Import:
			path, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			prog.Imports = append(prog.Imports, path)
		case token.Func:
			fn, err := p.parseFuncDef()
			if err != nil {
				return nil, err
			}
			prog.Functions[fn.Name] = fn
		case token.Vertex, token.Fragment:
			if err := p.parseShaderDef(prog); err != nil {
				return nil, err
			}
		case token.Layout:
			name, decls, err := p.parseLayoutDef()
			if err != nil {
				return nil, err
			}
			prog.Layouts[name] = decls
		case token.TypeName:
			d, err := p.parseDecl()
			if err != nil {
				return nil, err
			}
			prog.Globals = append(prog.Globals, d)
		default:
			return nil, p.errf("unexpected top-level token %s", p.peekK())
		}
	}
	return prog, nil
}

func (p *Parser) parseImport() (string, error) {
	p.advance() // 'import'
	str, err := p.expect(token.String)
	if err != nil {
		return "", err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return "", err
	}
	return str.Lit, nil
}

func (p *Parser) parseFuncDef() (*ast.FuncDef, error) {
	start := p.cur().Span
	p.advance() // 'func'
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.check(token.RParen) {
		if len(params) > 0 {
			if _, err := p.expect(token.Comma); err != nil {
				return nil, err
			}
		}
		typ, err := p.expect(token.TypeName)
		if err != nil {
			return nil, err
		}
		pname, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Type: typ.Lit, Name: pname.Lit})
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{
		Name:   name.Lit,
		Params: params,
		Body:   body,
		Sp:     token.Join(start, p.cur().Span),
	}, nil
}

func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.check(token.RBrace) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseLayoutDef() (string, []ast.LayoutDecl, error) {
	p.advance() // 'layout'
	name, err := p.expect(token.Ident)
	if err != nil {
		return "", nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return "", nil, err
	}
	var decls []ast.LayoutDecl
	for !p.check(token.RBrace) {
		typ, err := p.expect(token.TypeName)
		if err != nil {
			return "", nil, err
		}
		dname, err := p.expect(token.Ident)
		if err != nil {
			return "", nil, err
		}
		if _, err := p.expect(token.Semi); err != nil {
			return "", nil, err
		}
		decls = append(decls, ast.LayoutDecl{Type: typ.Lit, Name: dname.Lit})
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return "", nil, err
	}
	return name.Lit, decls, nil
}

func (p *Parser) parseShaderDef(prog *ast.Program) error {
	isVertex := p.peekK() == token.Vertex
	p.advance()
	name, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	start := p.cur().Span
	if _, err := p.expect(token.LBrace); err != nil {
		return err
	}
	sh := &ast.Shader{Functions: map[string]*ast.FuncDef{}}
	for !p.check(token.RBrace) {
		switch p.peekK() {
		case token.Uniform:
			p.advance()
			typ, err := p.expect(token.TypeName)
			if err != nil {
				return err
			}
			uname, err := p.expect(token.Ident)
			if err != nil {
				return err
			}
			if _, err := p.expect(token.Semi); err != nil {
				return err
			}
			sh.Uniforms = append(sh.Uniforms, ast.Uniform{Type: typ.Lit, Name: uname.Lit})
		case token.Func:
			fn, err := p.parseFuncDef()
			if err != nil {
				return err
			}
			sh.Functions[fn.Name] = fn
		case token.TypeName:
			// `in`/`out` decl: "TYPE name;" where TYPE may be a concrete
			// GLSL-ish type, or the special keywords input/output that
			// reference a Layout (§4.G step 1), or "output TYPE name;" /
			// "input TYPE name;" with a concrete TYPE. We distinguish in/out by
			// leading keyword text; grammar allows both spellings bare.
			decl, isIn, err := p.parseInOutDecl()
			if err != nil {
				return err
			}
			if isIn {
				sh.Inputs = append(sh.Inputs, decl)
			} else {
				sh.Outputs = append(sh.Outputs, decl)
			}
		default:
			return p.errf("unexpected token in shader body: %s", p.peekK())
		}
	}
	sh.Sp = token.Join(start, p.cur().Span)
	if _, err := p.expect(token.RBrace); err != nil {
		return err
	}

	pair := prog.Shaders[name.Lit]
	if pair == nil {
		pair = &ast.ShaderPair{Name: name.Lit}
		prog.Shaders[name.Lit] = pair
	}
	if isVertex {
		pair.Vertex = sh
	} else {
		pair.Fragment = sh
	}
	return nil
}

// parseInOutDecl parses a bare "TYPE name;" line inside a shader body. The
// "in" vs "out" role isn't distinguished by a dedicated keyword in the
// source grammar (spec.md §6 EBNF doesn't carve shaderBody out in detail);
// by convention the source marks outputs with the "output" type keyword and
// inputs with either a concrete type or "input". See §4.G step 1. When the
// keyword is followed by a concrete type ("output vec4 color;"), the decl
// carries that concrete type; a bare "output name;" keeps Type "output" and
// references a Layout.
func (p *Parser) parseInOutDecl() (ast.InOutDecl, bool, error) {
	start := p.cur().Span
	typ, err := p.expect(token.TypeName)
	if err != nil {
		return ast.InOutDecl{}, false, err
	}
	declType := typ.Lit
	if (typ.Lit == "input" || typ.Lit == "output") && p.check(token.TypeName) {
		declType = p.advance().Lit
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return ast.InOutDecl{}, false, err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return ast.InOutDecl{}, false, err
	}
	isIn := typ.Lit != "output"
	return ast.InOutDecl{Type: declType, Name: name.Lit, Sp: token.Join(start, p.cur().Span)}, isIn, nil
}
