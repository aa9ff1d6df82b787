package ast

import "github.com/soypat/gfxlang/token"

// Param is a typed function parameter.
type Param struct {
	Type string
	Name string
}

// FuncDef is a top-level or shader-inner function (spec.md §4.A functions table).
type FuncDef struct {
	Name       string
	ReturnType string // inferred/annotated, "" if unknown (see §9 design note c)
	Params     []Param
	Body       []Stmt
	Sp         token.Span
}

func (f FuncDef) Span() token.Span { return f.Sp }

// Uniform is a `uniform T name;` declaration inside a shader.
type Uniform struct {
	Type string
	Name string
	Sp   token.Span
}

// InOutDecl is a named shader input or output declaration. Type is either a
// concrete GLSL-ish type name or the special keywords "input"/"output" which
// reference a Layout by Name (spec.md §4.G step 1).
type InOutDecl struct {
	Type string
	Name string
	Sp   token.Span
}

// Shader is one half (vertex or fragment) of a ShaderPair.
type Shader struct {
	Uniforms  []Uniform
	Inputs    []InOutDecl
	Outputs   []InOutDecl
	Functions map[string]*FuncDef // includes "main"
	Sp        token.Span
}

// TextureSlots returns, in declaration order, the names of this shader's
// texture2D uniforms. Slot index is position in this list (spec.md §4.F
// Assign: "the slot index is the position of the name in that list").
func (s *Shader) TextureSlots() []string {
	var names []string
	for _, u := range s.Uniforms {
		if u.Type == "texture2D" {
			names = append(names, u.Name)
		}
	}
	return names
}

// ShaderPair is a named vertex/fragment pair (spec.md §3 invariant 6).
type ShaderPair struct {
	Name     string
	Vertex   *Shader // nil if absent
	Fragment *Shader // nil if absent
}

// LayoutDecl is one entry of a `layout` block: a typed attribute declaration.
type LayoutDecl struct {
	Type string
	Name string
}

// Program is the parsed top-level AST: the tables described in spec.md §4.A.
type Program struct {
	Imports   []string
	Globals   []Stmt // Decl statements, evaluated at execute_init after implicit constants
	Functions map[string]*FuncDef
	Shaders   map[string]*ShaderPair
	Layouts   map[string][]LayoutDecl
}

// NewProgram returns an empty Program with initialized tables (spec.md §3
// Lifecycle: "Parse clears imports, globals, functions, shaders, layouts").
func NewProgram() *Program {
	return &Program{
		Functions: map[string]*FuncDef{},
		Shaders:   map[string]*ShaderPair{},
		Layouts:   map[string][]LayoutDecl{},
	}
}
