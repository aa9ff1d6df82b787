package interp

import (
	"context"
	"time"

	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/gpu"
	"github.com/soypat/gfxlang/token"
)

// sigKind is the control-flow return channel of §4.F: "execute_stmts(stmts)
// -> Value?... each eval_stmt returns one of {continue, value}".
type sigKind int

const (
	sigContinue sigKind = iota
	sigBreak
	sigReturn
)

type signal struct {
	kind sigKind
	val  Value
}

var contSig = signal{kind: sigContinue}

const loopWatchdog = 5 * time.Second

// callFunction implements E.11: arity already checked by the caller, binds
// args by declared parameter type (coercion per E.12) in a fresh ScopeList,
// then runs the body to its first Return.
func (in *Interpreter) callFunction(fn *ast.FuncDef, args []Value, sp token.Span) (Value, error) {
	sl := NewScopeList()
	for i, p := range fn.Params {
		v, err := in.coerceAssign(p.Type, args[i], sp)
		if err != nil {
			return Value{}, err
		}
		sl.Declare(p.Name, p.Type, v)
	}
	sig, err := in.execBlock(fn.Body, sl, false)
	if err != nil {
		return Value{}, err
	}
	if sig.kind == sigReturn {
		return sig.val, nil
	}
	return Null, nil
}

// execBlock pushes a nested Scope, runs stmts in order, stops at the first
// non-continue signal (§4.F control-flow return channel).
func (in *Interpreter) execBlock(stmts []ast.Stmt, sl *ScopeList, breakable bool) (signal, error) {
	sl.Push()
	defer sl.Pop()
	for _, s := range stmts {
		sig, err := in.execStmt(s, sl, breakable)
		if err != nil {
			return signal{}, err
		}
		if sig.kind != sigContinue {
			return sig, nil
		}
	}
	return contSig, nil
}

// execStmt dispatches one statement (§4.F Interpreter — statements).
func (in *Interpreter) execStmt(s ast.Stmt, sl *ScopeList, breakable bool) (signal, error) {
	switch n := s.(type) {
	case *ast.Decl:
		return contSig, in.execDecl(n, sl)
	case *ast.Assign:
		return contSig, in.execAssign(n, sl)
	case *ast.CompoundAssign:
		return contSig, in.execCompoundAssign(n, sl)
	case *ast.Alloc:
		return contSig, in.execAlloc(n, sl)
	case *ast.Upload:
		return contSig, in.execUpload(n, sl)
	case *ast.Draw:
		return contSig, in.execDraw(n, sl)
	case *ast.Clear:
		return contSig, in.execClear(n, sl)
	case *ast.Viewport:
		return contSig, in.execViewport(n, sl)
	case *ast.If:
		return in.execIf(n, sl, breakable)
	case *ast.While:
		return in.execWhile(n, sl)
	case *ast.ForRange:
		return in.execForRange(n, sl)
	case *ast.ForIn:
		return in.execForIn(n, sl)
	case *ast.Break:
		if !breakable {
			return contSig, errf(KindType, n.Sp, "break outside a while/for loop")
		}
		return signal{kind: sigBreak, val: Null}, nil
	case *ast.Return:
		if n.Value == nil {
			return signal{kind: sigReturn, val: Null}, nil
		}
		v, err := in.eval(n.Value, sl)
		if err != nil {
			return signal{}, err
		}
		return signal{kind: sigReturn, val: v}, nil
	case *ast.Print:
		v, err := in.eval(n.Value, sl)
		if err != nil {
			return signal{}, err
		}
		if in.Logger != nil {
			in.Logger.Print(Sprint(v))
		}
		return contSig, nil
	case *ast.ExprStmt:
		_, err := in.eval(n.X, sl)
		return contSig, err
	}
	return signal{}, errf(KindType, s.Span(), "unknown statement node %T", s)
}

func (in *Interpreter) execIf(n *ast.If, sl *ScopeList, breakable bool) (signal, error) {
	cond, err := in.eval(n.Cond, sl)
	if err != nil {
		return signal{}, err
	}
	if cond.Kind != KBool {
		return signal{}, errf(KindType, n.Sp, "if condition must be bool, got %s", cond.Kind)
	}
	if cond.B {
		return in.execBlock(n.Then, sl, breakable)
	}
	if n.Elif != nil {
		return in.execIf(n.Elif, sl, breakable)
	}
	if n.Else != nil {
		return in.execBlock(n.Else, sl, breakable)
	}
	return contSig, nil
}

// execWhile implements §4.F While with the 5-second watchdog.
func (in *Interpreter) execWhile(n *ast.While, sl *ScopeList) (signal, error) {
	deadline := time.Now().Add(loopWatchdog)
	for {
		if time.Now().After(deadline) {
			return contSig, nil
		}
		cond, err := in.eval(n.Cond, sl)
		if err != nil {
			return signal{}, err
		}
		if cond.Kind != KBool {
			return signal{}, errf(KindType, n.Sp, "while condition must be bool, got %s", cond.Kind)
		}
		if !cond.B {
			return contSig, nil
		}
		sig, err := in.execBlock(n.Body, sl, true)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return contSig, nil
		case sigReturn:
			return sig, nil
		}
	}
}

// execForRange implements `for i = a to b by s { ... }`, inclusive-exclusive.
func (in *Interpreter) execForRange(n *ast.ForRange, sl *ScopeList) (signal, error) {
	from, err := in.eval(n.From, sl)
	if err != nil {
		return signal{}, err
	}
	to, err := in.eval(n.To, sl)
	if err != nil {
		return signal{}, err
	}
	step := int32(1)
	if n.Step != nil {
		sv, err := in.eval(n.Step, sl)
		if err != nil {
			return signal{}, err
		}
		step = sv.I
	}
	if from.Kind != KInt || to.Kind != KInt {
		return signal{}, errf(KindType, n.Sp, "for range bounds must be int")
	}
	if step == 0 {
		return signal{}, errf(KindRuntimeBound, n.Sp, "for range step must be nonzero")
	}

	deadline := time.Now().Add(loopWatchdog)
	sl.Push()
	defer sl.Pop()
	for i := from.I; (step > 0 && i < to.I) || (step < 0 && i > to.I); i += step {
		if time.Now().After(deadline) {
			return contSig, nil
		}
		sl.top().Declare(n.Var, "int", Int(i))
		sig, err := in.execBlock(n.Body, sl, true)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return contSig, nil
		case sigReturn:
			return sig, nil
		}
	}
	return contSig, nil
}

// execForIn implements `for x in list { ... }`.
func (in *Interpreter) execForIn(n *ast.ForIn, sl *ScopeList) (signal, error) {
	lv, err := in.eval(n.List, sl)
	if err != nil {
		return signal{}, err
	}
	if lv.Kind != KList {
		return signal{}, errf(KindType, n.Sp, "for-in requires a list, got %s", lv.Kind)
	}
	deadline := time.Now().Add(loopWatchdog)
	sl.Push()
	defer sl.Pop()
	for _, elem := range lv.List.Elems {
		if time.Now().After(deadline) {
			return contSig, nil
		}
		sl.top().Declare(n.Var, "var", elem)
		sig, err := in.execBlock(n.Body, sl, true)
		if err != nil {
			return signal{}, err
		}
		switch sig.kind {
		case sigBreak:
			return contSig, nil
		case sigReturn:
			return sig, nil
		}
	}
	return contSig, nil
}

func (in *Interpreter) execClear(n *ast.Clear, sl *ScopeList) error {
	v, err := in.eval(n.Color, sl)
	if err != nil {
		return err
	}
	if v.Kind != KVec3 {
		return errf(KindType, n.Sp, "clear requires a vec3, got %s", v.Kind)
	}
	return in.Backend.Clear(context.Background(), asFloat(v.Vec[0]), asFloat(v.Vec[1]), asFloat(v.Vec[2]))
}

func (in *Interpreter) execViewport(n *ast.Viewport, sl *ScopeList) error {
	v, err := in.eval(n.Value, sl)
	if err != nil {
		return err
	}
	if v.Kind != KVec4 {
		return errf(KindType, n.Sp, "viewport requires a vec4, got %s", v.Kind)
	}
	x, y, w, h := int(asFloat(v.Vec[0])), int(asFloat(v.Vec[1])), int(asFloat(v.Vec[2])), int(asFloat(v.Vec[3]))
	return in.Backend.Viewport(context.Background(), x, y, w, h)
}

// linkShaderPairs implements invariant 6: every ShaderPair with at least one
// half compiles+links into a Program bound to its name in global scope. A
// resource error on one pair (failed transpile, compile, or link) is
// reported and skipped rather than aborting the rest of the map (spec.md
// §7 "Resource error ... stops program creation; other programs may still
// be created").
func (in *Interpreter) linkShaderPairs() error {
	ctx := context.Background()
	for name, pair := range in.Prog.Shaders {
		if err := in.linkShaderPair(ctx, name, pair); err != nil {
			in.reportErr(err)
			continue
		}
	}
	// A script with exactly one shader pair never needs a `using` clause on
	// Draw (spec.md §8 S3 draws with neither `using` nor a prior uniform
	// assignment); record it so Draw can default to it. Anything beyond one
	// pair requires the author to disambiguate with `using`.
	in.soleProgram = ""
	if len(in.Prog.Shaders) == 1 {
		for name := range in.Prog.Shaders {
			in.soleProgram = name
		}
	}
	return nil
}

// linkShaderPair compiles and links a single ShaderPair, returning a
// resource error for the caller to report-and-skip rather than abort on.
func (in *Interpreter) linkShaderPair(ctx context.Context, name string, pair *ast.ShaderPair) error {
	vsSrc, fsSrc, err := in.transpilePair(pair)
	if err != nil {
		return err
	}
	handle, err := in.Backend.CreateProgram(ctx)
	if err != nil {
		return err
	}
	res, err := in.Backend.CompileShader(ctx, handle, vsSrc, fsSrc)
	if err != nil {
		return err
	}
	if !res.Ok {
		return errf(KindResource, token.Span{}, "shader %q failed to compile: %s", name, res.Log)
	}
	ok, log, err := in.Backend.LinkProgram(ctx, handle)
	if err != nil {
		return err
	}
	if !ok {
		return errf(KindResource, token.Span{}, "shader %q failed to link: %s", name, log)
	}
	prog := NewProgram(name)
	prog.Handle = uint32(handle)
	prog.VertSrc = vsSrc
	prog.FragSrc = fsSrc
	if pair.Fragment != nil {
		for i, texName := range pair.Fragment.TextureSlots() {
			prog.TextureSlots[texName] = i
		}
		for _, u := range pair.Fragment.Uniforms {
			prog.UniformTypes[u.Name] = u.Type
		}
	}
	if pair.Vertex != nil {
		for _, u := range pair.Vertex.Uniforms {
			if _, exists := prog.UniformTypes[u.Name]; !exists {
				prog.UniformTypes[u.Name] = u.Type
			}
		}
	}
	in.Global.Declare(name, "program", Value{Kind: KProgram, Prog: prog})
	return nil
}

func (in *Interpreter) bindTextureSlot(slot int, handle gpu.Handle) error {
	ctx := context.Background()
	if err := in.Backend.ActiveTexture(ctx, slot); err != nil {
		return err
	}
	return in.Backend.BindTexture(ctx, slot, handle)
}
