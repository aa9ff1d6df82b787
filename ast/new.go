package ast

import "github.com/soypat/gfxlang/token"

// Constructor functions for every Expr/Stmt variant. Exported so parser (and
// any other producer of AST, e.g. a macro expander) can build nodes without
// reaching into the unexported embedded `base` field.

func NewIntLit(sp token.Span, v int32) *IntLit       { return &IntLit{base: base{Sp: sp}, Value: v} }
func NewFloatLit(sp token.Span, v float32) *FloatLit { return &FloatLit{base: base{Sp: sp}, Value: v} }
func NewStringLit(sp token.Span, v string) *StringLit {
	return &StringLit{base: base{Sp: sp}, Value: v}
}
func NewBoolLit(sp token.Span, v bool) *BoolLit { return &BoolLit{base: base{Sp: sp}, Value: v} }
func NewNullLit(sp token.Span) *NullLit         { return &NullLit{base: base{Sp: sp}} }
func NewIdent(sp token.Span, name string) *Ident {
	return &Ident{base: base{Sp: sp}, Name: name}
}
func NewUnary(sp token.Span, op token.Kind, x Expr) *Unary {
	return &Unary{base: base{Sp: sp}, Op: op, X: x}
}
func NewBinary(sp token.Span, op token.Kind, x, y Expr) *Binary {
	return &Binary{base: base{Sp: sp}, Op: op, X: x, Y: y}
}
func NewDot(sp token.Span, owner Expr, name string) *Dot {
	return &Dot{base: base{Sp: sp}, Owner: owner, Name: name}
}
func NewIndex(sp token.Span, x, i Expr) *Index {
	return &Index{base: base{Sp: sp}, X: x, I: i}
}
func NewCall(sp token.Span, callee string, args []Expr) *Call {
	return &Call{base: base{Sp: sp}, Callee: callee, Args: args}
}
func NewVecLit(sp token.Span, elems []Expr) *VecLit {
	return &VecLit{base: base{Sp: sp}, Elems: elems}
}
func NewListLit(sp token.Span, elems []Expr) *ListLit {
	return &ListLit{base: base{Sp: sp}, Elems: elems}
}

func NewDecl(sp token.Span, typ, name string, init Expr) *Decl {
	return &Decl{base: base{Sp: sp}, Type: typ, Name: name, Init: init}
}
func NewAssign(sp token.Span, lhs, rhs Expr) *Assign {
	return &Assign{base: base{Sp: sp}, LHS: lhs, RHS: rhs}
}
func NewCompoundAssign(sp token.Span, lhs Expr, op token.Kind, rhs Expr) *CompoundAssign {
	return &CompoundAssign{base: base{Sp: sp}, LHS: lhs, Op: op, RHS: rhs}
}
func NewAlloc(sp token.Span, name string) *Alloc { return &Alloc{base: base{Sp: sp}, Name: name} }
func NewUpload(sp token.Span, buf, attrib string, list Expr) *Upload {
	return &Upload{base: base{Sp: sp}, Buffer: buf, Attrib: attrib, List: list}
}
func NewDraw(sp token.Span, buf, to, using string) *Draw {
	return &Draw{base: base{Sp: sp}, Buffer: buf, To: to, Using: using}
}
func NewClear(sp token.Span, color Expr) *Clear { return &Clear{base: base{Sp: sp}, Color: color} }
func NewViewport(sp token.Span, value Expr) *Viewport {
	return &Viewport{base: base{Sp: sp}, Value: value}
}
func NewIf(sp token.Span, cond Expr, then []Stmt, elif *If, els []Stmt) *If {
	return &If{base: base{Sp: sp}, Cond: cond, Then: then, Elif: elif, Else: els}
}
func NewWhile(sp token.Span, cond Expr, body []Stmt) *While {
	return &While{base: base{Sp: sp}, Cond: cond, Body: body}
}
func NewForRange(sp token.Span, varName string, from, to, step Expr, body []Stmt) *ForRange {
	return &ForRange{base: base{Sp: sp}, Var: varName, From: from, To: to, Step: step, Body: body}
}
func NewForIn(sp token.Span, varName string, list Expr, body []Stmt) *ForIn {
	return &ForIn{base: base{Sp: sp}, Var: varName, List: list, Body: body}
}
func NewBreak(sp token.Span) *Break   { return &Break{base: base{Sp: sp}} }
func NewReturn(sp token.Span, v Expr) *Return {
	return &Return{base: base{Sp: sp}, Value: v}
}
func NewPrint(sp token.Span, v Expr) *Print { return &Print{base: base{Sp: sp}, Value: v} }
func NewExprStmt(sp token.Span, x Expr) *ExprStmt {
	return &ExprStmt{base: base{Sp: sp}, X: x}
}

// SetSpan widens/replaces a node's span; used by the parser when a
// parenthesized expression's span must grow to cover the enclosing parens.
func SetSpan(n Node, sp token.Span) {
	switch v := n.(type) {
	case *IntLit:
		v.Sp = sp
	case *FloatLit:
		v.Sp = sp
	case *StringLit:
		v.Sp = sp
	case *BoolLit:
		v.Sp = sp
	case *NullLit:
		v.Sp = sp
	case *Ident:
		v.Sp = sp
	case *Unary:
		v.Sp = sp
	case *Binary:
		v.Sp = sp
	case *Dot:
		v.Sp = sp
	case *Index:
		v.Sp = sp
	case *Call:
		v.Sp = sp
	case *VecLit:
		v.Sp = sp
	case *ListLit:
		v.Sp = sp
	}
}

// MarkParenthesized flips the Parenthesized flag used by the transpiler to
// preserve associativity when emitting GLSL (spec.md §3).
func MarkParenthesized(e Expr) {
	switch v := e.(type) {
	case *IntLit:
		v.Parenthesized = true
	case *FloatLit:
		v.Parenthesized = true
	case *StringLit:
		v.Parenthesized = true
	case *BoolLit:
		v.Parenthesized = true
	case *NullLit:
		v.Parenthesized = true
	case *Ident:
		v.Parenthesized = true
	case *Unary:
		v.Parenthesized = true
	case *Binary:
		v.Parenthesized = true
	case *Dot:
		v.Parenthesized = true
	case *Index:
		v.Parenthesized = true
	case *Call:
		v.Parenthesized = true
	case *VecLit:
		v.Parenthesized = true
	case *ListLit:
		v.Parenthesized = true
	}
}
