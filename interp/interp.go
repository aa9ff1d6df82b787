package interp

import (
	"time"

	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/gpu"
	"github.com/soypat/gfxlang/imgload"
	"github.com/soypat/gfxlang/logging"
	"github.com/soypat/gfxlang/token"
)

// Interpreter ties together the global Scope, the parsed program tables, the
// GpuBackend and the collaborator interfaces the driver wires in (spec.md
// §1, §2, §4.F, §5). One Interpreter is threaded through the whole driver
// loop — no global singletons (§9 design note).
type Interpreter struct {
	Global *Scope

	Prog *ast.Program

	Backend gpu.Backend
	Logger  logging.Logger
	Images  imgload.Loader

	current string // name of current GL program, "" if none bound

	// soleProgram is set by linkShaderPairs when the parsed program declares
	// exactly one ShaderPair, letting Draw default to it without a `using`
	// clause (spec.md §8 S3 draws with no `using` and no prior uniform
	// assignment to establish a current program).
	soleProgram string

	// displayW/displayH hold the last size passed to SetDisplaySize; they
	// seed WIDTH/HEIGHT at ExecuteInit.
	displayW, displayH int32

	// loopDeadline is neither set nor read: each while/for loop keeps its own
	// deadline, loopWatchdog after the loop starts (exec.go).
	loopDeadline time.Time
}

// New returns an Interpreter bound to backend/logger/images, with an empty
// global Scope. Install a parsed program with SetProgram before ExecuteInit.
func New(backend gpu.Backend, logger logging.Logger, images imgload.Loader) *Interpreter {
	return &Interpreter{
		Global:  NewScope(),
		Backend: backend,
		Logger:  logger,
		Images:  images,
	}
}

// Reset clears program tables and the global scope (spec.md §3 Lifecycle:
// "On source change the driver calls reset() then the pipeline"; §5
// "reset() runs first: it clears maps, scopes, and the current program
// pointer"). Invariant 7: "the interpreter never holds a GPU resource across
// a reset()" — callers are responsible for having already released any
// handles held by the previous Program's AST-derived values before calling
// Reset; Reset itself only drops Go-level references.
func (in *Interpreter) Reset() {
	in.Global = NewScope()
	in.Prog = nil
	in.current = ""
	in.soleProgram = ""
	if in.Logger != nil {
		in.Logger.Clear()
	}
}

// SetProgram installs a freshly parsed AST, ready for ExecuteInit.
func (in *Interpreter) SetProgram(p *ast.Program) { in.Prog = p }

// ExecuteInit seeds the three implicit constants (WIDTH/HEIGHT from the last
// SetDisplaySize), runs the top-level global declarations in the global
// Scope, links shader pairs, then calls the user `init` function the way any
// function call runs (spec.md §3 Lifecycle, §4.F, invariant 6/7).
func (in *Interpreter) ExecuteInit() error {
	in.Global.DeclareConst("PI", "float", Float(3.14159265))
	in.Global.DeclareConst("WIDTH", "int", Int(in.displayW))
	in.Global.DeclareConst("HEIGHT", "int", Int(in.displayH))

	for _, g := range in.Prog.Globals {
		if err := in.execGlobalStmt(g); err != nil {
			in.reportErr(err)
			return err
		}
	}
	if err := in.linkShaderPairs(); err != nil {
		in.reportErr(err)
		return err
	}

	fn, ok := in.Prog.Functions["init"]
	if !ok {
		return nil
	}
	_, err := in.callFunction(fn, nil, fn.Span())
	if err != nil {
		in.reportErr(err)
	}
	return err
}

// ExecuteLoop runs the user `loop` function once (spec.md §3 Lifecycle, §5
// "loop runs after the previous frame's loop completes").
func (in *Interpreter) ExecuteLoop() error {
	fn, ok := in.Prog.Functions["loop"]
	if !ok {
		return nil
	}
	_, err := in.callFunction(fn, nil, fn.Span())
	if err != nil {
		in.reportErr(err)
	}
	return err
}

// SetDisplaySize updates the WIDTH/HEIGHT implicit constants. These remain
// const to source code (invariant 3/P7) but the host may update them across
// frames as the window resizes.
func (in *Interpreter) SetDisplaySize(w, h int) {
	in.displayW, in.displayH = int32(w), int32(h)
	in.Global.set("WIDTH", Int(in.displayW))
	in.Global.set("HEIGHT", Int(in.displayH))
}

func (in *Interpreter) reportErr(err error) {
	if in.Logger == nil {
		return
	}
	if ee, ok := err.(*EvalError); ok {
		in.Logger.Log("ERROR", ee.Span, ee.Message)
		return
	}
	in.Logger.Log("ERROR", token.Span{}, err.Error())
}

// execGlobalStmt executes one top-level global Decl at the Global scope,
// per spec.md §4.F Decl semantics (buffer/texture2D special-casing included).
func (in *Interpreter) execGlobalStmt(s ast.Stmt) error {
	sl := &ScopeList{stack: []*Scope{in.Global}}
	_, err := in.execStmt(s, sl, false)
	return err
}
