// Package mock provides a recording gpu.Backend for tests, per spec.md §9
// design note: "Abstract behind the GpuBackend trait of §4.H so unit tests
// can drive the interpreter against a recording mock backend (the core of
// scenarios S3-S6)." Grounded on gazed-vu's render.graphicsContext split
// (internal bind/use surface behind a public capability interface).
package mock

import (
	"context"
	"fmt"

	"github.com/soypat/gfxlang/gpu"
)

// Call records one backend method invocation, by name, with its scalar
// arguments formatted for assertion in tests (scenarios S3-S6 in spec.md §8
// check exact call sequences like "DrawArrays(TRIANGLES, 0, 3)").
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string { return fmt.Sprintf("%s%v", c.Name, c.Args) }

// Backend is an in-memory recording implementation of gpu.Backend. Handles
// are allocated sequentially starting at 1 so zero stays the "no resource"
// sentinel.
type Backend struct {
	Calls []Call

	nextHandle gpu.Handle
	current    gpu.Handle

	// CompileOK/LinkOK let tests force failure paths (resource error kind,
	// spec.md §7 kind 4).
	CompileOK bool
	LinkOK    bool

	Uniforms map[gpu.Handle]map[int32][]float32
	BoundTex map[int]gpu.Handle
}

// New returns a Backend that succeeds compile/link by default.
func New() *Backend {
	return &Backend{
		CompileOK: true,
		LinkOK:    true,
		Uniforms:  map[gpu.Handle]map[int32][]float32{},
		BoundTex:  map[int]gpu.Handle{},
	}
}

func (b *Backend) record(name string, args ...any) {
	b.Calls = append(b.Calls, Call{Name: name, Args: args})
}

func (b *Backend) alloc() gpu.Handle {
	b.nextHandle++
	return b.nextHandle
}

func (b *Backend) CreateProgram(ctx context.Context) (gpu.Handle, error) {
	h := b.alloc()
	b.record("CreateProgram", h)
	return h, nil
}

func (b *Backend) CompileShader(ctx context.Context, program gpu.Handle, vsSrc, fsSrc string) (gpu.CompileResult, error) {
	b.record("CompileShader", program)
	return gpu.CompileResult{Program: program, Ok: b.CompileOK}, nil
}

func (b *Backend) LinkProgram(ctx context.Context, program gpu.Handle) (bool, string, error) {
	b.record("LinkProgram", program)
	return b.LinkOK, "", nil
}

func (b *Backend) UseProgram(ctx context.Context, program gpu.Handle) error {
	b.current = program
	b.record("UseProgram", program)
	return nil
}

func (b *Backend) CreateBuffer(ctx context.Context) (gpu.Handle, error) {
	h := b.alloc()
	b.record("CreateBuffer", h)
	return h, nil
}

func (b *Backend) CreateIndexBuffer(ctx context.Context) (gpu.Handle, error) {
	h := b.alloc()
	b.record("CreateIndexBuffer", h)
	return h, nil
}

func (b *Backend) BindArray(ctx context.Context, handle gpu.Handle) error {
	b.record("BindArray", handle)
	return nil
}

func (b *Backend) UploadArray(ctx context.Context, data []float32) error {
	b.record("UploadArray", len(data))
	return nil
}

func (b *Backend) BindElements(ctx context.Context, handle gpu.Handle) error {
	b.record("BindElements", handle)
	return nil
}

func (b *Backend) UploadElements(ctx context.Context, indices []uint32) error {
	b.record("UploadElements", len(indices))
	return nil
}

func (b *Backend) AttribLocation(ctx context.Context, program gpu.Handle, name string) (int32, error) {
	b.record("AttribLocation", program, name)
	return 0, nil
}

func (b *Backend) SetAttribPointer(ctx context.Context, loc int32, components, stride, offset int) error {
	b.record("SetAttribPointer", loc, components, stride, offset)
	return nil
}

func (b *Backend) EnableAttrib(ctx context.Context, loc int32) error {
	b.record("EnableAttrib", loc)
	return nil
}

func (b *Backend) UniformLocation(ctx context.Context, program gpu.Handle, name string) (int32, error) {
	b.record("UniformLocation", program, name)
	return int32(len(b.Uniforms[program])), nil
}

func (b *Backend) SetUniform(ctx context.Context, program gpu.Handle, loc int32, typ gpu.UniformType, values []float32) error {
	b.record("SetUniform", program, loc, typ, append([]float32(nil), values...))
	if b.Uniforms[program] == nil {
		b.Uniforms[program] = map[int32][]float32{}
	}
	b.Uniforms[program][loc] = append([]float32(nil), values...)
	return nil
}

func (b *Backend) SetUniformInt(ctx context.Context, program gpu.Handle, loc int32, value int32) error {
	b.record("SetUniformInt", program, loc, value)
	return nil
}

func (b *Backend) CreateTexture(ctx context.Context, width, height int, pixels []byte) (gpu.Handle, error) {
	h := b.alloc()
	b.record("CreateTexture", h, width, height)
	return h, nil
}

func (b *Backend) BindTexture(ctx context.Context, slot int, handle gpu.Handle) error {
	b.BoundTex[slot] = handle
	b.record("BindTexture", slot, handle)
	return nil
}

func (b *Backend) ActiveTexture(ctx context.Context, slot int) error {
	b.record("ActiveTexture", slot)
	return nil
}

func (b *Backend) CreateFramebuffer(ctx context.Context) (gpu.Handle, error) {
	h := b.alloc()
	b.record("CreateFramebuffer", h)
	return h, nil
}

func (b *Backend) AttachColor(ctx context.Context, fb, texture gpu.Handle) error {
	b.record("AttachColor", fb, texture)
	return nil
}

func (b *Backend) BindFramebuffer(ctx context.Context, fb gpu.Handle) error {
	b.record("BindFramebuffer", fb)
	return nil
}

func (b *Backend) Clear(ctx context.Context, r, g, bl float32) error {
	b.record("Clear", r, g, bl)
	return nil
}

func (b *Backend) Viewport(ctx context.Context, x, y, w, h int) error {
	b.record("Viewport", x, y, w, h)
	return nil
}

func (b *Backend) DrawArrays(ctx context.Context, count int) error {
	b.record("DrawArrays", "TRIANGLES", 0, count)
	return nil
}

func (b *Backend) DrawElements(ctx context.Context, count int) error {
	b.record("DrawElements", "TRIANGLES", count, "UNSIGNED_INT", 0)
	return nil
}
