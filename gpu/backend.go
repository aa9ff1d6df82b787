// Package gpu defines the GpuBackend contract the interpreter issues GPU
// calls through (component H, spec.md §4.H). The contract is an abstract
// capability, not a GL binding (§9 design note: "unit tests can drive the
// interpreter against a recording mock backend") — gpu/mock implements it
// for tests, gpu/glbackend implements it for real with go-gl/glfw.
package gpu

import "context"

// Handle is an opaque GPU resource identifier. Zero is the "no resource"
// sentinel throughout (spec.md §3 Texture: "handle = 0" for a dangling
// placeholder).
type Handle uint32

// UniformType enumerates the GLSL uniform shapes the interpreter can upload,
// matching the `set_uniform_*` row of spec.md §4.H's table.
type UniformType int

const (
	UniformFloat UniformType = iota
	UniformVec2
	UniformVec3
	UniformVec4
	UniformMat2
	UniformMat3
	UniformMat4
	UniformInt
)

// CompileResult carries a compiled/linked program handle plus any compiler
// or linker log text (spec.md §4.H: "handle, compile log" / "success flag,
// link log").
type CompileResult struct {
	Program Handle
	Log     string
	Ok      bool
}

// Backend is the thin contract (component H) wrapping shader compile/link,
// buffer/VBO/EBO, texture/framebuffer, uniform upload, and draw — the only
// surface through which the interpreter talks to a GPU. No threading
// guarantees are required beyond "invoked from a single context-owning
// thread" (spec.md §4.H, §5).
type Backend interface {
	// Program lifecycle.
	CreateProgram(ctx context.Context) (Handle, error)
	CompileShader(ctx context.Context, program Handle, vsSrc, fsSrc string) (CompileResult, error)
	LinkProgram(ctx context.Context, program Handle) (ok bool, log string, err error)
	UseProgram(ctx context.Context, program Handle) error

	// Buffers.
	CreateBuffer(ctx context.Context) (Handle, error)
	CreateIndexBuffer(ctx context.Context) (Handle, error)
	BindArray(ctx context.Context, handle Handle) error
	UploadArray(ctx context.Context, data []float32) error
	BindElements(ctx context.Context, handle Handle) error
	UploadElements(ctx context.Context, indices []uint32) error

	// Vertex attributes.
	AttribLocation(ctx context.Context, program Handle, name string) (int32, error)
	SetAttribPointer(ctx context.Context, loc int32, components, stride, offset int) error
	EnableAttrib(ctx context.Context, loc int32) error

	// Uniforms.
	UniformLocation(ctx context.Context, program Handle, name string) (int32, error)
	SetUniform(ctx context.Context, program Handle, loc int32, typ UniformType, values []float32) error
	SetUniformInt(ctx context.Context, program Handle, loc int32, value int32) error

	// Textures & framebuffers.
	CreateTexture(ctx context.Context, width, height int, pixels []byte) (Handle, error)
	BindTexture(ctx context.Context, slot int, handle Handle) error
	ActiveTexture(ctx context.Context, slot int) error
	CreateFramebuffer(ctx context.Context) (Handle, error)
	AttachColor(ctx context.Context, fb, texture Handle) error
	BindFramebuffer(ctx context.Context, fb Handle) error // Handle(0) binds the default framebuffer

	// Frame operations.
	Clear(ctx context.Context, r, g, b float32) error
	Viewport(ctx context.Context, x, y, w, h int) error
	DrawArrays(ctx context.Context, count int) error
	DrawElements(ctx context.Context, count int) error
}
