// Package interp is the tree-walking interpreter (component F, spec.md §4.F):
// expression evaluation, statement execution, scope management and GPU
// resource statements (Decl/Assign/Alloc/Upload/Draw/Clear/Viewport).
package interp

import (
	"fmt"
	"strings"
)

// Kind is the dynamic type tag of a Value (spec.md §3 "Value variants").
type Kind int

const (
	KNull Kind = iota
	KBool
	KInt
	KFloat
	KString
	KVec2
	KVec3
	KVec4
	KMat2
	KMat3
	KMat4
	KList
	KBuffer
	KTexture
	KProgram
)

func (k Kind) String() string {
	switch k {
	case KNull:
		return "null"
	case KBool:
		return "bool"
	case KInt:
		return "int"
	case KFloat:
		return "float"
	case KString:
		return "string"
	case KVec2:
		return "vec2"
	case KVec3:
		return "vec3"
	case KVec4:
		return "vec4"
	case KMat2:
		return "mat2"
	case KMat3:
		return "mat3"
	case KMat4:
		return "mat4"
	case KList:
		return "list"
	case KBuffer:
		return "buffer"
	case KTexture:
		return "texture2D"
	case KProgram:
		return "program"
	default:
		return "?"
	}
}

// Value is the dynamic runtime value of every expression (spec.md §3).
// It is a sum type dispatched on Kind; only the field matching Kind is valid.
type Value struct {
	Kind Kind

	B bool
	I int32
	F float32
	S string

	Vec  []Value   // KVec2/3/4: ordered fixed-length scalar components
	Rows []Value   // KMat2/3/4: ordered row Vecs
	Cols []Value   // KMat2/3/4: cached column Vecs, regenerated on row mutation (invariant 5)
	List *ListVal  // KList
	Buf  *Buffer   // KBuffer
	Tex  *Texture  // KTexture
	Prog *Program  // KProgram
}

// Null is the shared zero Value.
var Null = Value{Kind: KNull}

func Bool(b bool) Value   { return Value{Kind: KBool, B: b} }
func Int(i int32) Value   { return Value{Kind: KInt, I: i} }
func Float(f float32) Value { return Value{Kind: KFloat, F: f} }
func Str(s string) Value  { return Value{Kind: KString, S: s} }

func Vec2(x, y Value) Value       { return Value{Kind: KVec2, Vec: []Value{x, y}} }
func Vec3(x, y, z Value) Value    { return Value{Kind: KVec3, Vec: []Value{x, y, z}} }
func Vec4(x, y, z, w Value) Value { return Value{Kind: KVec4, Vec: []Value{x, y, z, w}} }

// VecN constructs a Vec2/3/4 from elems, whose length must be 2, 3, or 4.
func VecN(elems []Value) Value {
	k := KVec2
	switch len(elems) {
	case 2:
		k = KVec2
	case 3:
		k = KVec3
	case 4:
		k = KVec4
	default:
		panic("interp: VecN requires 2, 3, or 4 elements")
	}
	return Value{Kind: k, Vec: append([]Value(nil), elems...)}
}

func isVec(k Kind) bool { return k == KVec2 || k == KVec3 || k == KVec4 }
func isMat(k Kind) bool { return k == KMat2 || k == KMat3 || k == KMat4 }

func vecArity(k Kind) int {
	switch k {
	case KVec2:
		return 2
	case KVec3:
		return 3
	case KVec4:
		return 4
	}
	return 0
}

func matKindForArity(n int) Kind {
	switch n {
	case 2:
		return KMat2
	case 3:
		return KMat3
	case 4:
		return KMat4
	}
	panic("interp: matrix arity must be 2, 3, or 4")
}

// NewMat builds a matrix Value from its row Vecs, computing the column cache
// (spec.md §3 invariant 5: "columns reflect the transpose of rows").
func NewMat(rows []Value) Value {
	n := len(rows)
	m := Value{Kind: matKindForArity(n), Rows: append([]Value(nil), rows...)}
	m.regenerateColumns()
	return m
}

// regenerateColumns rebuilds Cols from Rows (spec.md §3 invariant 5, §4.F
// "Matrix column caches are regenerated whenever any row is replaced").
func (v *Value) regenerateColumns() {
	n := len(v.Rows)
	cols := make([]Value, n)
	for c := 0; c < n; c++ {
		comps := make([]Value, n)
		for r := 0; r < n; r++ {
			comps[r] = v.Rows[r].Vec[c]
		}
		cols[c] = VecN(comps)
	}
	v.Cols = cols
}

// SetRow replaces row i and regenerates the column cache.
func (v *Value) SetRow(i int, row Value) {
	v.Rows[i] = row
	v.regenerateColumns()
}

// ListVal is the runtime List container (spec.md §3: "ordered, heterogeneous,
// growable sequence of Values, with a literal flag").
type ListVal struct {
	Elems   []Value
	Literal bool // true: built from a `{...}` literal; Elems were evaluated eagerly, once, when the literal was evaluated
}

func NewList(elems []Value) Value {
	return Value{Kind: KList, List: &ListVal{Elems: elems}}
}

// Buffer is the GPU buffer handle + layout + attribute data (spec.md §3).
type Buffer struct {
	VBOHandle uint32
	EBOHandle uint32
	HasVBO    bool
	HasEBO    bool
	Layout    Layout
	Data      map[string][]float32 // attr -> flattened components
	Sizes     map[string]uint32    // attr -> component count
	Indices   []uint32
}

// Layout is the ordered attribute list controlling interleaving at draw time
// (spec.md §3 Buffer.Layout, GLOSSARY "Layout").
type Layout struct {
	Names      []string
	Components map[string]int
}

func NewBuffer() *Buffer {
	return &Buffer{
		Data:  map[string][]float32{},
		Sizes: map[string]uint32{},
		Layout: Layout{
			Components: map[string]int{},
		},
	}
}

// Texture is a GPU texture handle plus optional framebuffer and decoded
// pixels (spec.md §3).
type Texture struct {
	Handle      uint32
	FBHandle    uint32
	HasFB       bool
	Width       int
	Height      int
	Channels    int
	Pixels      []byte // RGBA8
	BoundSlot   int
	SlotIsBound bool
}

// Program is a linked GPU program plus its shader descriptors (spec.md §3).
type Program struct {
	Name    string
	Handle  uint32
	VertSrc string
	FragSrc string
	// TextureSlots maps uniform name -> slot index, per spec.md §4.F Assign:
	// "the slot index is the position of the name in [the] textureSlots list".
	TextureSlots map[string]int
	// UniformTypes maps uniform name -> declared GLSL type, used to select the
	// correct SetUniform* call on assignment (spec.md §4.F Assign).
	UniformTypes map[string]string
	// UniformValues mirrors the last value assigned to each uniform. The
	// GpuBackend contract (§4.H) exposes no readback call, so Dot-access read
	// of a Program uniform (§4.F E.7) is served from this host-side cache
	// instead of a round-trip to the GPU.
	UniformValues map[string]Value
}

func NewProgram(name string) *Program {
	return &Program{
		Name:          name,
		TextureSlots:  map[string]int{},
		UniformTypes:  map[string]string{},
		UniformValues: map[string]Value{},
	}
}

// TypeName returns the declared-type name of v, per spec.md §3 invariant 4's
// type-name vocabulary ("int","float","bool","string","vec2"… "mat4",
// "buffer","texture2D","program","list").
func (v Value) TypeName() string { return v.Kind.String() }

// Sprint pretty-prints v the way the source language's `print` statement and
// string coercion (§4.E.5) do. Null prints as the literal "null" (supplement
// from original_source/interpreter.cpp's pretty-printer, see SPEC_FULL.md).
func Sprint(v Value) string {
	switch v.Kind {
	case KNull:
		return "null"
	case KBool:
		if v.B {
			return "true"
		}
		return "false"
	case KInt:
		return fmt.Sprintf("%d", v.I)
	case KFloat:
		return fmt.Sprintf("%f", v.F)
	case KString:
		return v.S
	case KVec2, KVec3, KVec4:
		parts := make([]string, len(v.Vec))
		for i, c := range v.Vec {
			parts[i] = Sprint(c)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KMat2, KMat3, KMat4:
		parts := make([]string, len(v.Rows))
		for i, r := range v.Rows {
			parts[i] = Sprint(r)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KList:
		parts := make([]string, len(v.List.Elems))
		for i, e := range v.List.Elems {
			parts[i] = Sprint(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KBuffer:
		return "<buffer>"
	case KTexture:
		return fmt.Sprintf("<texture %dx%d>", v.Tex.Width, v.Tex.Height)
	case KProgram:
		return fmt.Sprintf("<program %s>", v.Prog.Name)
	default:
		return "?"
	}
}
