package interp

import (
	"context"

	math "github.com/chewxy/math32"

	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/gpu"
	"github.com/soypat/gfxlang/token"
)

// eval implements §4.F expression evaluation (E.6-E.11), dispatching on the
// concrete *ast.* type.
func (in *Interpreter) eval(e ast.Expr, sl *ScopeList) (Value, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return Int(n.Value), nil
	case *ast.FloatLit:
		return Float(n.Value), nil
	case *ast.StringLit:
		return Str(n.Value), nil
	case *ast.BoolLit:
		return Bool(n.Value), nil
	case *ast.NullLit:
		return Null, nil
	case *ast.Ident:
		return in.lookupIdent(n, sl)
	case *ast.Unary:
		x, err := in.eval(n.X, sl)
		if err != nil {
			return Value{}, err
		}
		return UnaryOp(n.Op, x, n.Sp)
	case *ast.Binary:
		x, err := in.eval(n.X, sl)
		if err != nil {
			return Value{}, err
		}
		y, err := in.eval(n.Y, sl)
		if err != nil {
			return Value{}, err
		}
		return BinaryOp(n.Op, x, y, n.Sp)
	case *ast.Dot:
		return in.evalDot(n, sl)
	case *ast.Index:
		return in.evalIndex(n, sl)
	case *ast.Call:
		return in.evalCall(n, sl)
	case *ast.VecLit:
		return in.evalVecLit(n, sl)
	case *ast.ListLit:
		return in.evalListLit(n, sl)
	}
	return Value{}, errf(KindType, e.Span(), "unknown expression node %T", e)
}

func (in *Interpreter) evalIdentName(name string, sp token.Span, sl *ScopeList) (Value, error) {
	if sl != nil {
		if v, ok := sl.Lookup(name); ok {
			return v, nil
		}
	}
	if v, ok := in.Global.get(name); ok {
		return v, nil
	}
	return Value{}, errf(KindResolution, sp, "undeclared identifier %q", name)
}

// lookupIdent resolves E.6: innermost ScopeList, then global Scope.
func (in *Interpreter) lookupIdent(n *ast.Ident, sl *ScopeList) (Value, error) {
	return in.evalIdentName(n.Name, n.Sp, sl)
}

// evalDot implements E.7.
func (in *Interpreter) evalDot(n *ast.Dot, sl *ScopeList) (Value, error) {
	owner, err := in.eval(n.Owner, sl)
	if err != nil {
		return Value{}, err
	}
	switch owner.Kind {
	case KProgram:
		v, err := in.readUniform(owner.Prog, n.Name, n.Sp)
		return v, err
	case KTexture:
		switch n.Name {
		case "width":
			return Int(int32(owner.Tex.Width)), nil
		case "height":
			return Int(int32(owner.Tex.Height)), nil
		case "channels":
			return Int(int32(owner.Tex.Channels)), nil
		}
		return Value{}, errf(KindResolution, n.Sp, "texture2D has no field %q", n.Name)
	case KBuffer:
		return bufferAttribList(owner.Buf, n.Name, n.Sp)
	}
	return Value{}, errf(KindType, n.Sp, "dotted access not defined on %s", owner.Kind)
}

// readUniform implements the read half of E.7's Program case: the GpuBackend
// contract exposes no get-uniform call, so this serves from the host-side
// mirror kept on Program.UniformValues (see interp/value.go).
func (in *Interpreter) readUniform(p *Program, name string, sp token.Span) (Value, error) {
	typ, ok := p.UniformTypes[name]
	if !ok {
		return Value{}, errf(KindResolution, sp, "program %q has no uniform %q", p.Name, name)
	}
	if err := in.useProgram(p, sp); err != nil {
		return Value{}, err
	}
	if v, ok := p.UniformValues[name]; ok {
		return v, nil
	}
	return zeroUniform(typ), nil
}

func zeroUniform(typ string) Value {
	switch typ {
	case "float":
		return Float(0)
	case "int":
		return Int(0)
	case "vec2":
		return Vec2(Float(0), Float(0))
	case "vec3":
		return Vec3(Float(0), Float(0), Float(0))
	case "vec4":
		return Vec4(Float(0), Float(0), Float(0), Float(0))
	case "mat2":
		return NewMat([]Value{Vec2(Float(0), Float(0)), Vec2(Float(0), Float(0))})
	case "mat3":
		z3 := Vec3(Float(0), Float(0), Float(0))
		return NewMat([]Value{z3, z3, z3})
	case "mat4":
		z4 := Vec4(Float(0), Float(0), Float(0), Float(0))
		return NewMat([]Value{z4, z4, z4, z4})
	}
	return Null
}

// useProgram issues use-program if p is not the current one (§4.F E.7, Draw
// step 1).
func (in *Interpreter) useProgram(p *Program, sp token.Span) error {
	if in.current == p.Name {
		return nil
	}
	if err := in.Backend.UseProgram(context.Background(), gpu.Handle(p.Handle)); err != nil {
		return errf(KindResource, sp, "use-program %q: %v", p.Name, err)
	}
	in.current = p.Name
	return nil
}

// bufferAttribList implements E.7's Buffer case.
func bufferAttribList(b *Buffer, attrib string, sp token.Span) (Value, error) {
	data, ok := b.Data[attrib]
	if !ok {
		return Value{}, errf(KindResolution, sp, "buffer has no attribute %q", attrib)
	}
	n := int(b.Sizes[attrib])
	if n <= 1 {
		elems := make([]Value, len(data))
		for i, f := range data {
			elems[i] = Float(f)
		}
		return NewList(elems), nil
	}
	var elems []Value
	for i := 0; i+n <= len(data); i += n {
		comps := make([]Value, n)
		for j := 0; j < n; j++ {
			comps[j] = Float(data[i+j])
		}
		elems = append(elems, VecN(comps))
	}
	return NewList(elems), nil
}

// evalIndex implements E.8.
func (in *Interpreter) evalIndex(n *ast.Index, sl *ScopeList) (Value, error) {
	x, err := in.eval(n.X, sl)
	if err != nil {
		return Value{}, err
	}
	iv, err := in.eval(n.I, sl)
	if err != nil {
		return Value{}, err
	}
	if iv.Kind != KInt {
		return Value{}, errf(KindType, n.Sp, "index must be int, got %s", iv.Kind)
	}
	i := int(iv.I)
	switch {
	case isVec(x.Kind):
		if i < 0 || i >= len(x.Vec) {
			return Value{}, errf(KindRuntimeBound, n.Sp, "vector index %d out of range [0,%d)", i, len(x.Vec))
		}
		return x.Vec[i], nil
	case isMat(x.Kind):
		if i < 0 || i >= len(x.Rows) {
			return Value{}, errf(KindRuntimeBound, n.Sp, "matrix row index %d out of range [0,%d)", i, len(x.Rows))
		}
		return x.Rows[i], nil
	case x.Kind == KList:
		if i < 0 || i >= len(x.List.Elems) {
			return Value{}, errf(KindRuntimeBound, n.Sp, "list index %d out of range [0,%d)", i, len(x.List.Elems))
		}
		return x.List.Elems[i], nil
	}
	return Value{}, errf(KindType, n.Sp, "index access not defined on %s", x.Kind)
}

// evalVecLit implements E.9.
func (in *Interpreter) evalVecLit(n *ast.VecLit, sl *ScopeList) (Value, error) {
	vals := make([]Value, len(n.Elems))
	for i, e := range n.Elems {
		v, err := in.eval(e, sl)
		if err != nil {
			return Value{}, err
		}
		vals[i] = v
	}
	allScalar := true
	allVecArity := -1
	allSameVec := true
	for _, v := range vals {
		if v.Kind != KInt && v.Kind != KFloat {
			allScalar = false
		}
		if isVec(v.Kind) {
			a := vecArity(v.Kind)
			if allVecArity == -1 {
				allVecArity = a
			} else if allVecArity != a {
				allSameVec = false
			}
		} else {
			allSameVec = false
		}
	}
	switch {
	case allScalar && (len(vals) == 2 || len(vals) == 3 || len(vals) == 4):
		return VecN(vals), nil
	case allSameVec && allVecArity > 0:
		return NewMat(vals), nil
	default:
		var flat []Value
		for _, v := range vals {
			switch {
			case v.Kind == KInt || v.Kind == KFloat:
				flat = append(flat, v)
			case isVec(v.Kind):
				flat = append(flat, v.Vec...)
			default:
				return Value{}, errf(KindType, n.Sp, "vector literal cannot flatten element of type %s", v.Kind)
			}
		}
		if len(flat) != 3 && len(flat) != 4 {
			return Value{}, errf(KindType, n.Sp, "flattened vector literal needs 3 or 4 scalar components, got %d", len(flat))
		}
		return VecN(flat), nil
	}
}

func (in *Interpreter) evalListLit(n *ast.ListLit, sl *ScopeList) (Value, error) {
	elems := make([]Value, len(n.Elems))
	for i, e := range n.Elems {
		v, err := in.eval(e, sl)
		if err != nil {
			return Value{}, err
		}
		elems[i] = v
	}
	v := NewList(elems)
	v.List.Literal = true
	return v, nil
}

// evalCall implements E.11: intrinsics then user functions.
func (in *Interpreter) evalCall(n *ast.Call, sl *ScopeList) (Value, error) {
	switch n.Callee {
	case "sin", "cos", "tan":
		if len(n.Args) != 1 {
			return Value{}, errf(KindResolution, n.Sp, "%s expects 1 argument, got %d", n.Callee, len(n.Args))
		}
		x, err := in.eval(n.Args[0], sl)
		if err != nil {
			return Value{}, err
		}
		f := asFloat(x)
		switch n.Callee {
		case "sin":
			return Float(math.Sin(f)), nil
		case "cos":
			return Float(math.Cos(f)), nil
		default:
			return Float(math.Tan(f)), nil
		}
	case "pi":
		if len(n.Args) != 0 {
			return Value{}, errf(KindResolution, n.Sp, "pi() expects 0 arguments, got %d", len(n.Args))
		}
		return Float(3.14159265), nil
	case "type":
		if len(n.Args) != 1 {
			return Value{}, errf(KindResolution, n.Sp, "type() expects 1 argument, got %d", len(n.Args))
		}
		x, err := in.eval(n.Args[0], sl)
		if err != nil {
			return Value{}, err
		}
		return Str(x.TypeName()), nil
	}

	fn, ok := in.Prog.Functions[n.Callee]
	if !ok {
		return Value{}, errf(KindResolution, n.Sp, "call to undeclared function %q", n.Callee)
	}
	if len(fn.Params) != len(n.Args) {
		return Value{}, errf(KindResolution, n.Sp, "function %q expects %d arguments, got %d", n.Callee, len(fn.Params), len(n.Args))
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := in.eval(a, sl)
		if err != nil {
			return Value{}, err
		}
		args[i] = v
	}
	return in.callFunction(fn, args, n.Sp)
}
