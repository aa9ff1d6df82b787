// Package token defines the lexical token kinds and source span type shared
// by the lexer, parser and AST.
package token

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Int
	Float
	String

	// operators
	Plus
	Minus
	Star
	Slash
	Percent
	Caret
	Assign
	Eq
	Neq
	Lt
	Gt
	Le
	Ge
	And
	Or
	Not
	Pipe // | |

	// punctuation
	LParen
	RParen
	LBracket
	RBracket
	LBrace
	RBrace
	Comma
	Dot
	Semi
	Arrow // <-

	// keywords
	Func
	Return
	If
	Else
	While
	For
	In
	Break
	True
	False
	Null
	Use
	Allocate
	Upload
	To
	Draw
	Clear
	Viewport
	Import
	Print
	Layout
	Vertex
	Fragment
	Uniform
	Using

	// type name keyword (var, int, float, bool, string, vec2..mat4, buffer, texture2D, program, list, input, output)
	TypeName
)

var names = map[Kind]string{
	EOF:      "EOF",
	Ident:    "IDENT",
	Int:      "INT",
	Float:    "FLOAT",
	String:   "STRING",
	Plus:     "+",
	Minus:    "-",
	Star:     "*",
	Slash:    "/",
	Percent:  "%",
	Caret:    "^",
	Assign:   "=",
	Eq:       "==",
	Neq:      "!=",
	Lt:       "<",
	Gt:       ">",
	Le:       "<=",
	Ge:       ">=",
	And:      "&&",
	Or:       "||",
	Not:      "!",
	Pipe:     "|",
	LParen:   "(",
	RParen:   ")",
	LBracket: "[",
	RBracket: "]",
	LBrace:   "{",
	RBrace:   "}",
	Comma:    ",",
	Dot:      ".",
	Semi:     ";",
	Arrow:    "<-",
	Func:     "func",
	Return:   "return",
	If:       "if",
	Else:     "else",
	While:    "while",
	For:      "for",
	In:       "in",
	Break:    "break",
	True:     "true",
	False:    "false",
	Null:     "null",
	Use:      "use",
	Allocate: "allocate",
	Upload:   "upload",
	To:       "to",
	Draw:     "draw",
	Clear:    "clear",
	Viewport: "viewport",
	Import:   "import",
	Print:    "print",
	Layout:   "layout",
	Vertex:   "vertex",
	Fragment: "fragment",
	Uniform:  "uniform",
	Using:    "using",
	TypeName: "TYPE",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved identifiers to their token kind.
var Keywords = map[string]Kind{
	"func":     Func,
	"return":   Return,
	"if":       If,
	"else":     Else,
	"while":    While,
	"for":      For,
	"in":       In,
	"break":    Break,
	"true":     True,
	"false":    False,
	"null":     Null,
	"use":      Use,
	"allocate": Allocate,
	"upload":   Upload,
	"to":       To,
	"draw":     Draw,
	"clear":    Clear,
	"viewport": Viewport,
	"import":   Import,
	"print":    Print,
	"and":      And,
	"or":       Or,
	"layout":   Layout,
	"vertex":   Vertex,
	"fragment": Fragment,
	"uniform":  Uniform,
	"using":    Using,
}

// TypeNames are keywords that denote a declared type (§4 invariant 4).
var TypeNames = map[string]bool{
	"var": true, "int": true, "float": true, "bool": true, "string": true,
	"vec2": true, "vec3": true, "vec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"buffer": true, "texture2D": true, "program": true, "list": true,
	"input": true, "output": true,
}

// Pos is a single source location: line and column are 1-based.
type Pos struct {
	Line, Column int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Span covers a range of source text, per spec.md §3 AST node invariant:
// "Every AST node has a source span; every error uses that span."
type Span struct {
	FirstLine, LastLine     int
	FirstColumn, LastColumn int
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	s := a
	if b.LastLine > s.LastLine || (b.LastLine == s.LastLine && b.LastColumn > s.LastColumn) {
		s.LastLine, s.LastColumn = b.LastLine, b.LastColumn
	}
	if b.FirstLine < s.FirstLine || (b.FirstLine == s.FirstLine && b.FirstColumn < s.FirstColumn) {
		s.FirstLine, s.FirstColumn = b.FirstLine, b.FirstColumn
	}
	return s
}

func (s Span) String() string {
	if s.FirstLine == s.LastLine {
		return fmt.Sprintf("line %d", s.FirstLine)
	}
	return fmt.Sprintf("line %d-%d", s.FirstLine, s.LastLine)
}

// Token is a single lexical unit with its source span.
type Token struct {
	Kind  Kind
	Lit   string // literal text (identifiers, numbers, strings carry their decoded/raw text)
	Span  Span
}
