// Package lexer tokenises source-language text (component B, spec.md §4.A).
package lexer

import (
	"fmt"
	"strings"

	"github.com/soypat/gfxlang/token"
)

// Lexer turns a source buffer into a token stream, tracking line/column on
// every token (spec.md §4.A: "Line/column are tracked on every token").
type Lexer struct {
	src        []rune
	pos        int
	line, col  int
	startLine  int
	startCol   int
}

// New returns a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEnd() {
		r := l.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case r == '/' && l.peekAt(1) == '*':
			l.advance()
			l.advance()
			for !l.atEnd() && !(l.peek() == '*' && l.peekAt(1) == '/') {
				l.advance()
			}
			if !l.atEnd() {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isAlpha(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
func isAlnum(r rune) bool { return isAlpha(r) || isDigit(r) }

// Next returns the next token in the stream. After EOF it keeps returning
// token.EOF tokens at the final position.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespaceAndComments()
	l.startLine, l.startCol = l.line, l.col
	if l.atEnd() {
		return l.tok(token.EOF, ""), nil
	}
	r := l.peek()
	switch {
	case isDigit(r):
		return l.lexNumber()
	case isAlpha(r):
		return l.lexIdent()
	case r == '"':
		return l.lexString()
	}

	l.advance()
	switch r {
	case '+':
		return l.tok(token.Plus, "+"), nil
	case '-':
		return l.tok(token.Minus, "-"), nil
	case '*':
		return l.tok(token.Star, "*"), nil
	case '/':
		return l.tok(token.Slash, "/"), nil
	case '%':
		return l.tok(token.Percent, "%"), nil
	case '^':
		return l.tok(token.Caret, "^"), nil
	case '|':
		if l.peek() == '|' {
			l.advance()
			return l.tok(token.Or, "||"), nil
		}
		return l.tok(token.Pipe, "|"), nil
	case '(':
		return l.tok(token.LParen, "("), nil
	case ')':
		return l.tok(token.RParen, ")"), nil
	case '[':
		return l.tok(token.LBracket, "["), nil
	case ']':
		return l.tok(token.RBracket, "]"), nil
	case '{':
		return l.tok(token.LBrace, "{"), nil
	case '}':
		return l.tok(token.RBrace, "}"), nil
	case ',':
		return l.tok(token.Comma, ","), nil
	case '.':
		return l.tok(token.Dot, "."), nil
	case ';':
		return l.tok(token.Semi, ";"), nil
	case '!':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.Neq, "!="), nil
		}
		return l.tok(token.Not, "!"), nil
	case '=':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.Eq, "=="), nil
		}
		return l.tok(token.Assign, "="), nil
	case '<':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.Le, "<="), nil
		}
		if l.peek() == '-' {
			l.advance()
			return l.tok(token.Arrow, "<-"), nil
		}
		return l.tok(token.Lt, "<"), nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.Ge, ">="), nil
		}
		return l.tok(token.Gt, ">"), nil
	case '&':
		if l.peek() == '&' {
			l.advance()
			return l.tok(token.And, "&&"), nil
		}
		return token.Token{}, l.errf("unexpected character '&'")
	}
	return token.Token{}, l.errf("unexpected character %q", r)
}

func (l *Lexer) lexNumber() (token.Token, error) {
	start := l.pos
	for isDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	lit := string(l.src[start:l.pos])
	if isFloat {
		return l.tok(token.Float, lit), nil
	}
	return l.tok(token.Int, lit), nil
}

func (l *Lexer) lexIdent() (token.Token, error) {
	start := l.pos
	for isAlnum(l.peek()) {
		l.advance()
	}
	lit := string(l.src[start:l.pos])
	if kw, ok := token.Keywords[lit]; ok {
		return l.tok(kw, lit), nil
	}
	if token.TypeNames[lit] {
		return l.tok(token.TypeName, lit), nil
	}
	return l.tok(token.Ident, lit), nil
}

func (l *Lexer) lexString() (token.Token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, l.errf("unterminated string literal")
		}
		r := l.advance()
		if r == '"' {
			break
		}
		if r == '\\' {
			if l.atEnd() {
				return token.Token{}, l.errf("unterminated escape sequence")
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			default:
				sb.WriteRune(esc)
			}
			continue
		}
		sb.WriteRune(r)
	}
	return l.tok(token.String, sb.String()), nil
}

func (l *Lexer) tok(k token.Kind, lit string) token.Token {
	return token.Token{
		Kind: k,
		Lit:  lit,
		Span: token.Span{
			FirstLine: l.startLine, LastLine: l.line,
			FirstColumn: l.startCol, LastColumn: l.col,
		},
	}
}

func (l *Lexer) errf(format string, args ...any) error {
	return fmt.Errorf("lex error at %d:%d: %s", l.line, l.col, fmt.Sprintf(format, args...))
}

// Tokenize runs the lexer to completion, returning all tokens including a
// trailing EOF, or the first lexical error encountered.
func Tokenize(src string) ([]token.Token, error) {
	lx := New(src)
	var toks []token.Token
	for {
		t, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks, nil
		}
	}
}
