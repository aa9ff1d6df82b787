// Package driver implements the per-frame orchestration spec.md §5
// describes: "A per-frame entry point performs at most one parse+compile+init
// when code_changed is set, then one loop invocation" — component I, the
// thing a host editor's paint callback calls once per repaint.
package driver

import (
	"fmt"

	"github.com/soypat/gfxlang/gpu"
	"github.com/soypat/gfxlang/imgload"
	"github.com/soypat/gfxlang/interp"
	"github.com/soypat/gfxlang/logging"
	"github.com/soypat/gfxlang/parser"
	"github.com/soypat/gfxlang/resource"
)

// Driver owns one Interpreter and the bookkeeping spec.md §5 assigns to
// "the editor": a `code_changed` flag, the script path, and the single
// context-owning thread's per-frame entry point.
type Driver struct {
	Interp *interp.Interpreter
	FS     resource.FileSystem

	rootPath    string
	codeChanged bool
}

// New wires an Interpreter over backend/logger/images, ready for Load.
func New(backend gpu.Backend, logger logging.Logger, images imgload.Loader) *Driver {
	return &Driver{
		Interp: interp.New(backend, logger, images),
		FS:     resource.OSFileSystem{},
	}
}

// Load points the driver at a script path and marks it for reload on the
// next Frame call. It does not parse immediately — Frame owns that, so the
// first parse happens on the same synchronous call path as every later one.
func (d *Driver) Load(path string) {
	d.rootPath = path
	d.codeChanged = true
}

// MarkChanged sets the `code_changed` flag an external file watcher (see
// resource.Watcher) observed a write for. A source change during `loop` is
// not preempted (spec.md §5): this only flips a flag honoured at the next
// Frame boundary.
func (d *Driver) MarkChanged() { d.codeChanged = true }

// Frame is the per-frame entry point (spec.md §5): at most one
// parse+compile+init when code_changed is set, then one loop call. A failed
// reload returns its error and skips that frame's loop call. w/h feed the WIDTH/HEIGHT implicit constants before either step runs.
func (d *Driver) Frame(w, h int) error {
	d.Interp.SetDisplaySize(w, h)
	if d.codeChanged {
		d.codeChanged = false
		if err := d.reload(); err != nil {
			return err
		}
	}
	return d.Interp.ExecuteLoop()
}

// reload implements spec.md §3's "On source change: reset() then the
// pipeline" as combined-source load, parse, reset, set_program, execute_init,
// in that order. A parse error leaves the interpreter's previous Prog as it
// was (spec.md §4.A: parser errors "leave the previous AST/state intact"),
// so reset only happens once the new parse has already succeeded.
func (d *Driver) reload() error {
	if d.rootPath == "" {
		return fmt.Errorf("driver: no script loaded")
	}
	src, _, err := resource.LoadCombined(d.FS, d.rootPath)
	if err != nil {
		return err
	}
	prog, err := parser.Parse(src)
	if err != nil {
		return err
	}
	d.Interp.Reset()
	d.Interp.SetProgram(prog)
	return d.Interp.ExecuteInit()
}
