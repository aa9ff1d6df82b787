// Package transpile lowers one shader half (vertex or fragment) into GLSL
// 130 source text (component G, spec.md §4.G).
package transpile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/token"
)

// Shader emits GLSL 130 source for sh, a single half of a ShaderPair.
// layouts resolves the special `input`/`output` in/out declaration types
// (§4.G step 1).
func Shader(sh *ast.Shader, layouts map[string][]ast.LayoutDecl) (string, error) {
	e := &emitter{
		localTypes:   map[string]string{},
		uniformTypes: map[string]string{},
		inputTypes:   map[string]string{},
		layouts:      layouts,
	}
	for _, u := range sh.Uniforms {
		e.uniformTypes[u.Name] = u.Type
	}
	for _, in := range sh.Inputs {
		e.inputTypes[in.Name] = in.Type
	}

	e.writeln("#version 130")
	e.writeln("")
	if err := e.emitInOut(sh.Inputs, "in"); err != nil {
		return "", err
	}
	if err := e.emitInOut(sh.Outputs, "out"); err != nil {
		return "", err
	}
	e.writeln("")
	e.emitUniforms(sh.Uniforms)
	e.writeln("")
	if err := e.emitFunctions(sh.Functions); err != nil {
		return "", err
	}
	return e.sb.String(), nil
}

type emitter struct {
	sb           strings.Builder
	localTypes   map[string]string
	uniformTypes map[string]string
	inputTypes   map[string]string
	layouts      map[string][]ast.LayoutDecl
}

func (e *emitter) writeln(s string) {
	e.sb.WriteString(s)
	e.sb.WriteByte('\n')
}

func (e *emitter) writef(format string, args ...any) {
	fmt.Fprintf(&e.sb, format, args...)
}

// emitInOut implements §4.G step 1: input/output decls whose type is the
// special keyword "input"/"output" are resolved through a named Layout and
// inlined; FinalPosition is never emitted in the out list (step 7).
func (e *emitter) emitInOut(decls []ast.InOutDecl, qualifier string) error {
	for _, d := range decls {
		if qualifier == "out" && d.Name == "FinalPosition" {
			continue
		}
		if d.Type == "input" || d.Type == "output" {
			layout, ok := e.layouts[d.Name]
			if !ok {
				return fmt.Errorf("transpile: no layout named %q for %s decl", d.Name, qualifier)
			}
			for _, ld := range layout {
				e.writef("%s %s %s;\n", qualifier, glslType(ld.Type), ld.Name)
			}
			continue
		}
		e.writef("%s %s %s;\n", qualifier, glslType(d.Type), d.Name)
	}
	return nil
}

// emitUniforms implements step 2, rewriting texture2D to sampler2D.
func (e *emitter) emitUniforms(uniforms []ast.Uniform) {
	for _, u := range uniforms {
		e.writef("uniform %s %s;\n", glslType(u.Type), u.Name)
	}
}

func glslType(t string) string {
	if t == "texture2D" {
		return "sampler2D"
	}
	return t
}

// emitFunctions implements step 3: every shader-local function, with main
// emitted last regardless of declaration order (supplemental ordering rule,
// see SPEC_FULL.md). main returns void; every other function's return type is
// emitted as `var`, a textual placeholder the GPU compiler will reject (see
// §9 design note c — deliberately left unresolved here).
func (e *emitter) emitFunctions(funcs map[string]*ast.FuncDef) error {
	var names []string
	for name := range funcs {
		if name != "main" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := funcs["main"]; ok {
		names = append(names, "main")
	}
	for _, name := range names {
		if err := e.emitFunction(funcs[name]); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) emitFunction(fn *ast.FuncDef) error {
	retType := "var"
	if fn.Name == "main" {
		retType = "void"
	} else if fn.ReturnType != "" {
		retType = fn.ReturnType
	}
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = glslType(p.Type) + " " + p.Name
	}
	e.writef("%s %s(%s) {\n", retType, fn.Name, strings.Join(params, ", "))
	for _, s := range fn.Body {
		if err := e.emitStmt(s, 1); err != nil {
			return err
		}
	}
	e.writeln("}")
	e.writeln("")
	return nil
}

func indent(n int) string { return strings.Repeat("    ", n) }

// emitStmt implements step 4: Decl, Assign, If/ElseIf/Else and bare
// expression statements. `print` has no GLSL equivalent and is a transpile
// error (step 4: "print inside a shader is an error").
func (e *emitter) emitStmt(s ast.Stmt, depth int) error {
	switch n := s.(type) {
	case *ast.Decl:
		e.localTypes[n.Name] = n.Type
		if n.Init != nil {
			expr, err := e.emitExpr(n.Init)
			if err != nil {
				return err
			}
			e.writef("%s%s %s = %s;\n", indent(depth), glslType(n.Type), n.Name, expr)
			return nil
		}
		e.writef("%s%s %s;\n", indent(depth), glslType(n.Type), n.Name)
		return nil
	case *ast.Assign:
		lhs, err := e.emitExpr(n.LHS)
		if err != nil {
			return err
		}
		rhs, err := e.emitExpr(n.RHS)
		if err != nil {
			return err
		}
		e.writef("%s%s = %s;\n", indent(depth), lhs, rhs)
		return nil
	case *ast.If:
		return e.emitIf(n, depth)
	case *ast.Return:
		if n.Value == nil {
			e.writef("%sreturn;\n", indent(depth))
			return nil
		}
		expr, err := e.emitExpr(n.Value)
		if err != nil {
			return err
		}
		e.writef("%sreturn %s;\n", indent(depth), expr)
		return nil
	case *ast.Print:
		return fmt.Errorf("transpile: print is not legal inside a shader (%s)", n.Span().String())
	case *ast.ExprStmt:
		expr, err := e.emitExpr(n.X)
		if err != nil {
			return err
		}
		e.writef("%s%s;\n", indent(depth), expr)
		return nil
	}
	return fmt.Errorf("transpile: statement %T not supported inside a shader body (%s)", s, s.Span().String())
}

func (e *emitter) emitIf(n *ast.If, depth int) error {
	cond, err := e.emitExpr(n.Cond)
	if err != nil {
		return err
	}
	e.writef("%sif (%s) {\n", indent(depth), cond)
	for _, s := range n.Then {
		if err := e.emitStmt(s, depth+1); err != nil {
			return err
		}
	}
	if n.Elif != nil {
		e.writef("%s} else ", indent(depth))
		condStr, err := e.emitExpr(n.Elif.Cond)
		if err != nil {
			return err
		}
		e.writef("if (%s) {\n", condStr)
		for _, s := range n.Elif.Then {
			if err := e.emitStmt(s, depth+1); err != nil {
				return err
			}
		}
		if n.Elif.Elif != nil {
			e.writef("%s} else\n", indent(depth))
			return e.emitIf(n.Elif.Elif, depth)
		}
		if n.Elif.Else != nil {
			e.writef("%s} else {\n", indent(depth))
			for _, s := range n.Elif.Else {
				if err := e.emitStmt(s, depth+1); err != nil {
					return err
				}
			}
		}
		e.writef("%s}\n", indent(depth))
		return nil
	}
	if n.Else != nil {
		e.writef("%s} else {\n", indent(depth))
		for _, s := range n.Else {
			if err := e.emitStmt(s, depth+1); err != nil {
				return err
			}
		}
	}
	e.writef("%s}\n", indent(depth))
	return nil
}

// emitExpr implements step 5 (operator mapping) and step 7 (FinalPosition
// aliasing). inferIsVector (step 6) decides |x| between length() and abs().
func (e *emitter) emitExpr(expr ast.Expr) (string, error) {
	switch n := expr.(type) {
	case *ast.IntLit:
		return fmt.Sprintf("%d", n.Value), nil
	case *ast.FloatLit:
		return formatFloat(n.Value), nil
	case *ast.BoolLit:
		if n.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.StringLit:
		return "", fmt.Errorf("transpile: string literals are not legal inside a shader (%s)", n.Span().String())
	case *ast.NullLit:
		return "", fmt.Errorf("transpile: null is not legal inside a shader (%s)", n.Span().String())
	case *ast.Ident:
		if n.Name == "FinalPosition" {
			return "gl_Position", nil
		}
		return n.Name, nil
	case *ast.Dot:
		owner, err := e.emitExpr(n.Owner)
		if err != nil {
			return "", err
		}
		return owner + "." + n.Name, nil
	case *ast.Index:
		x, err := e.emitExpr(n.X)
		if err != nil {
			return "", err
		}
		i, err := e.emitExpr(n.I)
		if err != nil {
			return "", err
		}
		return wrapParen(x+"["+i+"]", n.Parenthesized), nil
	case *ast.Unary:
		return e.emitUnary(n)
	case *ast.Binary:
		return e.emitBinary(n)
	case *ast.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			s, err := e.emitExpr(a)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(args, ", ")), nil
	case *ast.VecLit:
		args := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			s, err := e.emitExpr(el)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		return fmt.Sprintf("vec%d(%s)", len(n.Elems), strings.Join(args, ", ")), nil
	case *ast.ListLit:
		return "", fmt.Errorf("transpile: list literals are not legal inside a shader (%s)", n.Span().String())
	}
	return "", fmt.Errorf("transpile: unsupported expression %T", expr)
}

func wrapParen(s string, paren bool) string {
	if paren {
		return "(" + s + ")"
	}
	return s
}

func (e *emitter) emitUnary(n *ast.Unary) (string, error) {
	x, err := e.emitExpr(n.X)
	if err != nil {
		return "", err
	}
	var out string
	switch n.Op {
	case token.Minus:
		out = "-" + x
	case token.Not:
		out = "!" + x
	case token.Pipe:
		if e.inferIsVector(n.X) {
			out = "length(" + x + ")"
		} else {
			out = "abs(" + x + ")"
		}
	default:
		out = "?"
	}
	return wrapParen(out, n.Parenthesized), nil
}

func (e *emitter) emitBinary(n *ast.Binary) (string, error) {
	x, err := e.emitExpr(n.X)
	if err != nil {
		return "", err
	}
	y, err := e.emitExpr(n.Y)
	if err != nil {
		return "", err
	}
	var out string
	switch n.Op {
	case token.Plus:
		out = x + " + " + y
	case token.Minus:
		out = x + " - " + y
	case token.Star:
		out = x + " * " + y
	case token.Slash:
		out = x + " / " + y
	case token.Caret:
		out = fmt.Sprintf("dot(%s, %s)", x, y)
	case token.Percent:
		out = fmt.Sprintf("cross(%s, %s)", x, y)
	case token.Eq:
		out = x + " == " + y
	case token.Neq:
		out = x + " != " + y
	case token.Lt:
		out = x + " < " + y
	case token.Gt:
		out = x + " > " + y
	case token.Le:
		out = x + " <= " + y
	case token.Ge:
		out = x + " >= " + y
	case token.And:
		out = x + " && " + y
	case token.Or:
		out = x + " || " + y
	default:
		out = "?"
	}
	return wrapParen(out, n.Parenthesized), nil
}

// inferIsVector implements step 6's local type resolution, restricted to
// deciding |x| between length() (vector) and abs() (scalar): localtypes
// first, then uniforms, then inputs; literals and calls are judged by shape.
func (e *emitter) inferIsVector(expr ast.Expr) bool {
	switch n := expr.(type) {
	case *ast.Ident:
		if t, ok := e.localTypes[n.Name]; ok {
			return isVectorType(t)
		}
		if t, ok := e.uniformTypes[n.Name]; ok {
			return isVectorType(t)
		}
		if t, ok := e.inputTypes[n.Name]; ok {
			return isVectorType(t)
		}
		return false
	case *ast.VecLit:
		return true
	case *ast.Binary:
		return e.inferIsVector(n.X) || e.inferIsVector(n.Y)
	case *ast.Dot:
		return false
	}
	return false
}

func isVectorType(t string) bool {
	switch t {
	case "vec2", "vec3", "vec4":
		return true
	}
	return false
}

func formatFloat(f float32) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
