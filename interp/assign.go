package interp

import (
	"context"

	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/gpu"
	"github.com/soypat/gfxlang/token"
)

// execDecl implements §4.F Decl.
func (in *Interpreter) execDecl(n *ast.Decl, sl *ScopeList) error {
	switch n.Type {
	case "buffer":
		v, err := in.newBufferValue()
		if err != nil {
			return err
		}
		sl.Declare(n.Name, "buffer", v)
		return nil
	case "texture2D":
		if n.Init == nil {
			sl.Declare(n.Name, "texture2D", Value{Kind: KTexture, Tex: &Texture{}})
			return nil
		}
		v, err := in.eval(n.Init, sl)
		if err != nil {
			return err
		}
		coerced, err := in.coerceAssign("texture2D", v, n.Sp)
		if err != nil {
			return err
		}
		sl.Declare(n.Name, "texture2D", coerced)
		return nil
	}
	if n.Init == nil {
		sl.Declare(n.Name, n.Type, zeroValueForType(n.Type))
		return nil
	}
	v, err := in.eval(n.Init, sl)
	if err != nil {
		return err
	}
	coerced, err := in.coerceAssign(n.Type, v, n.Sp)
	if err != nil {
		return err
	}
	sl.Declare(n.Name, n.Type, coerced)
	return nil
}

func zeroValueForType(t string) Value {
	switch t {
	case "int":
		return Int(0)
	case "float":
		return Float(0)
	case "bool":
		return Bool(false)
	case "string":
		return Str("")
	case "vec2":
		return Vec2(Float(0), Float(0))
	case "vec3":
		return Vec3(Float(0), Float(0), Float(0))
	case "vec4":
		return Vec4(Float(0), Float(0), Float(0), Float(0))
	case "mat2":
		z := Vec2(Float(0), Float(0))
		return NewMat([]Value{z, z})
	case "mat3":
		z := Vec3(Float(0), Float(0), Float(0))
		return NewMat([]Value{z, z, z})
	case "mat4":
		z := Vec4(Float(0), Float(0), Float(0), Float(0))
		return NewMat([]Value{z, z, z, z})
	case "list":
		return NewList(nil)
	}
	return Null
}

// newBufferValue implements Decl's buffer-type special case: a fresh Buffer
// plus two reserved GPU buffer handles.
func (in *Interpreter) newBufferValue() (Value, error) {
	ctx := context.Background()
	vbo, err := in.Backend.CreateBuffer(ctx)
	if err != nil {
		return Value{}, err
	}
	ebo, err := in.Backend.CreateIndexBuffer(ctx)
	if err != nil {
		return Value{}, err
	}
	buf := NewBuffer()
	buf.VBOHandle = uint32(vbo)
	buf.EBOHandle = uint32(ebo)
	buf.HasVBO = true
	buf.HasEBO = true
	return Value{Kind: KBuffer, Buf: buf}, nil
}

// execAlloc implements Alloc: `allocate name` is equivalent to `buffer name`.
func (in *Interpreter) execAlloc(n *ast.Alloc, sl *ScopeList) error {
	v, err := in.newBufferValue()
	if err != nil {
		return err
	}
	sl.Declare(n.Name, "buffer", v)
	return nil
}

// execAssign implements Assign: LHS kinds Ident, Dot, Index.
func (in *Interpreter) execAssign(n *ast.Assign, sl *ScopeList) error {
	rhs, err := in.eval(n.RHS, sl)
	if err != nil {
		return err
	}
	return in.assignTo(n.LHS, rhs, sl)
}

func (in *Interpreter) assignTo(lhs ast.Expr, rhs Value, sl *ScopeList) error {
	switch l := lhs.(type) {
	case *ast.Ident:
		return in.assignIdent(l.Name, rhs, sl, l.Sp)
	case *ast.Dot:
		return in.assignDot(l, rhs, sl)
	case *ast.Index:
		return in.assignIndex(l, rhs, sl)
	}
	return errf(KindType, lhs.Span(), "invalid assignment target %T", lhs)
}

func (in *Interpreter) assignIdent(name string, rhs Value, sl *ScopeList, sp token.Span) error {
	scope := sl.Resolve(name)
	if scope == nil {
		if in.Global.has(name) {
			scope = in.Global
		} else {
			return errf(KindResolution, sp, "assignment to undeclared name %q", name)
		}
	}
	if scope.isConst(name) {
		return errf(KindType, sp, "cannot assign to const %q", name)
	}
	coerced, err := in.coerceAssign(scope.declType(name), rhs, sp)
	if err != nil {
		return err
	}
	scope.set(name, coerced)
	return nil
}

// assignDot implements Assign's Program-uniform case (§4.F Assign).
func (in *Interpreter) assignDot(n *ast.Dot, rhs Value, sl *ScopeList) error {
	owner, err := in.eval(n.Owner, sl)
	if err != nil {
		return err
	}
	if owner.Kind != KProgram {
		return errf(KindType, n.Sp, "dotted assignment only defined on program uniforms, got %s", owner.Kind)
	}
	prog := owner.Prog
	typ, ok := prog.UniformTypes[n.Name]
	if !ok {
		return errf(KindResolution, n.Sp, "program %q has no uniform %q", prog.Name, n.Name)
	}
	if err := in.useProgram(prog, n.Sp); err != nil {
		return err
	}
	ctx := context.Background()
	if typ == "texture2D" {
		coerced, err := in.coerceAssign("texture2D", rhs, n.Sp)
		if err != nil {
			return err
		}
		slot, ok := prog.TextureSlots[n.Name]
		if !ok {
			return errf(KindResolution, n.Sp, "program %q has no texture slot for %q", prog.Name, n.Name)
		}
		loc, err := in.Backend.UniformLocation(ctx, gpu.Handle(prog.Handle), n.Name)
		if err != nil {
			return err
		}
		if err := in.Backend.SetUniformInt(ctx, gpu.Handle(prog.Handle), loc, int32(slot)); err != nil {
			return err
		}
		if err := in.bindTextureSlot(slot, gpu.Handle(coerced.Tex.Handle)); err != nil {
			return err
		}
		prog.UniformValues[n.Name] = coerced
		return nil
	}

	coerced, err := in.coerceAssign(typ, rhs, n.Sp)
	if err != nil {
		return err
	}
	loc, err := in.Backend.UniformLocation(ctx, gpu.Handle(prog.Handle), n.Name)
	if err != nil {
		return err
	}
	if typ == "int" {
		if err := in.Backend.SetUniformInt(ctx, gpu.Handle(prog.Handle), loc, coerced.I); err != nil {
			return err
		}
	} else {
		utyp, values, err := uniformUploadShape(typ, coerced, n.Sp)
		if err != nil {
			return err
		}
		if err := in.Backend.SetUniform(ctx, gpu.Handle(prog.Handle), loc, utyp, values); err != nil {
			return err
		}
	}
	prog.UniformValues[n.Name] = coerced
	return nil
}

// uniformUploadShape picks the GpuBackend UniformType and flattens v into the
// float32 slice SetUniform expects, per the declared GLSL type.
func uniformUploadShape(typ string, v Value, sp token.Span) (gpu.UniformType, []float32, error) {
	switch typ {
	case "float":
		return gpu.UniformFloat, []float32{asFloat(v)}, nil
	case "vec2", "vec3", "vec4":
		out := make([]float32, len(v.Vec))
		for i, c := range v.Vec {
			out[i] = asFloat(c)
		}
		ut := map[string]gpu.UniformType{"vec2": gpu.UniformVec2, "vec3": gpu.UniformVec3, "vec4": gpu.UniformVec4}[typ]
		return ut, out, nil
	case "mat2", "mat3", "mat4":
		var out []float32
		for _, row := range v.Rows {
			for _, c := range row.Vec {
				out = append(out, asFloat(c))
			}
		}
		ut := map[string]gpu.UniformType{"mat2": gpu.UniformMat2, "mat3": gpu.UniformMat3, "mat4": gpu.UniformMat4}[typ]
		return ut, out, nil
	}
	return 0, nil, errf(KindType, sp, "uniform type %q has no upload shape", typ)
}

// assignIndex supports index assignment on Vec/Mat/List bound to a simple
// identifier: `ident[i] = rhs`. Matrix row assignment regenerates the column
// cache (invariant 5); other index forms are rejected as unsupported targets.
func (in *Interpreter) assignIndex(n *ast.Index, rhs Value, sl *ScopeList) error {
	id, ok := n.X.(*ast.Ident)
	if !ok {
		return errf(KindType, n.Sp, "index assignment is only supported on a simple identifier")
	}
	iv, err := in.eval(n.I, sl)
	if err != nil {
		return err
	}
	if iv.Kind != KInt {
		return errf(KindType, n.Sp, "index must be int, got %s", iv.Kind)
	}
	i := int(iv.I)

	scope := sl.Resolve(id.Name)
	if scope == nil {
		if in.Global.has(id.Name) {
			scope = in.Global
		} else {
			return errf(KindResolution, n.Sp, "assignment to undeclared name %q", id.Name)
		}
	}
	container, _ := scope.get(id.Name)
	switch {
	case isVec(container.Kind):
		if i < 0 || i >= len(container.Vec) {
			return errf(KindRuntimeBound, n.Sp, "vector index %d out of range [0,%d)", i, len(container.Vec))
		}
		scalar, err := in.coerceAssign("float", rhs, n.Sp)
		if err != nil {
			return err
		}
		container.Vec[i] = scalar
		scope.set(id.Name, container)
		return nil
	case isMat(container.Kind):
		if i < 0 || i >= len(container.Rows) {
			return errf(KindRuntimeBound, n.Sp, "matrix row index %d out of range [0,%d)", i, len(container.Rows))
		}
		if !isVec(rhs.Kind) || vecArity(rhs.Kind) != len(container.Rows) {
			return errf(KindType, n.Sp, "matrix row assignment requires a vec%d, got %s", len(container.Rows), rhs.Kind)
		}
		container.SetRow(i, rhs)
		scope.set(id.Name, container)
		return nil
	case container.Kind == KList:
		if i < 0 || i >= len(container.List.Elems) {
			return errf(KindRuntimeBound, n.Sp, "list index %d out of range [0,%d)", i, len(container.List.Elems))
		}
		container.List.Elems[i] = rhs
		return nil
	}
	return errf(KindType, n.Sp, "index assignment not defined on %s", container.Kind)
}

// execCompoundAssign implements CompoundBinary: list append via `+=`,
// otherwise desugars to `lhs = lhs op rhs`.
func (in *Interpreter) execCompoundAssign(n *ast.CompoundAssign, sl *ScopeList) error {
	cur, err := in.eval(n.LHS, sl)
	if err != nil {
		return err
	}
	rhs, err := in.eval(n.RHS, sl)
	if err != nil {
		return err
	}
	if cur.Kind == KList && n.Op == token.Plus {
		if rhs.Kind == KList {
			cur.List.Elems = append(cur.List.Elems, rhs.List.Elems...)
		} else {
			cur.List.Elems = append(cur.List.Elems, rhs)
		}
		return in.assignTo(n.LHS, cur, sl)
	}
	result, err := BinaryOp(n.Op, cur, rhs, n.Sp)
	if err != nil {
		return err
	}
	return in.assignTo(n.LHS, result, sl)
}
