//go:build !tinygo && cgo

// Package glbackend implements gpu.Backend for real against an OpenGL 4.6
// core-profile context via go-gl/gl and go-gl/glfw, grounded on
// v4.6-core/glgl's compile/link/uniform machinery (see shaders.go, glgl.go,
// glfw.go) and split behind the same cgo/!cgo build-tag boundary that
// package uses (glgl.go vs glgl_nocgo.go).
package glbackend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/soypat/gfxlang/gpu"
)

// WindowConfig configures the GLFW window the Backend renders into, mirroring
// glgl.WindowConfig.
type WindowConfig struct {
	Title         string
	Width, Height int
	Resizable     bool
}

// Backend is a gpu.Backend backed by a live GL context. Create exactly one
// per OS thread; GLFW and GL calls require the context-owning thread (spec.md
// §4.H: "invoked from a single context-owning thread").
type Backend struct {
	Window *glfw.Window
}

// New creates a window, makes its GL context current, and returns a Backend
// ready to satisfy gpu.Backend.
func New(cfg WindowConfig) (*Backend, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glbackend: glfw init: %w", err)
	}
	glfw.WindowHint(glfw.Resizable, b2i(cfg.Resizable))
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	w, h := cfg.Width, cfg.Height
	if w == 0 {
		w = 800
	}
	if h == 0 {
		h = 600
	}
	win, err := glfw.CreateWindow(w, h, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glbackend: create window: %w", err)
	}
	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glbackend: gl init: %w", err)
	}
	clearGLErrors()
	return &Backend{Window: win}, nil
}

// Close destroys the window and terminates GLFW.
func (b *Backend) Close() {
	if b.Window != nil {
		b.Window.Destroy()
	}
	glfw.Terminate()
}

func b2i(v bool) int {
	if v {
		return 1
	}
	return 0
}

func clearGLErrors() {
	for i := 0; i < 2000 && gl.GetError() != gl.NO_ERROR; i++ {
	}
}

func glErr() error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	return fmt.Errorf("glbackend: gl error 0x%x", code)
}

func (b *Backend) CreateProgram(ctx context.Context) (gpu.Handle, error) {
	id := gl.CreateProgram()
	if id == 0 {
		return 0, errors.New("glbackend: got program id 0")
	}
	return gpu.Handle(id), nil
}

// CompileShader compiles each non-empty vertex/fragment source and attaches
// it to program, following v4.6-core/glgl/shaders.go's compileSources/compile
// pattern (status check via glGetShaderiv + info log). It does not link the
// program; LinkProgram does that.
func (b *Backend) CompileShader(ctx context.Context, program gpu.Handle, vsSrc, fsSrc string) (gpu.CompileResult, error) {
	pid := uint32(program)
	var shaders []uint32
	for _, src := range []struct {
		kind uint32
		code string
	}{{gl.VERTEX_SHADER, vsSrc}, {gl.FRAGMENT_SHADER, fsSrc}} {
		if src.code == "" {
			continue
		}
		sid, log, ok := compileOne(src.kind, src.code)
		if !ok {
			return gpu.CompileResult{Program: program, Log: log, Ok: false}, nil
		}
		gl.AttachShader(pid, sid)
		shaders = append(shaders, sid)
	}
	for _, sid := range shaders {
		defer gl.DeleteShader(sid)
	}
	return gpu.CompileResult{Program: program, Ok: true}, nil
}

func compileOne(kind uint32, src string) (id uint32, log string, ok bool) {
	id = gl.CreateShader(kind)
	csrc, free := gl.Strs(src + "\x00")
	length := int32(len(src))
	gl.ShaderSource(id, 1, csrc, &length)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &logLen)
		buf := make([]byte, logLen+1)
		gl.GetShaderInfoLog(id, logLen, nil, &buf[0])
		return id, strings.TrimRight(string(buf), "\x00"), false
	}
	return id, "", true
}

func (b *Backend) LinkProgram(ctx context.Context, program gpu.Handle) (bool, string, error) {
	pid := uint32(program)
	gl.LinkProgram(pid)
	var status int32
	gl.GetProgramiv(pid, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(pid, gl.INFO_LOG_LENGTH, &logLen)
		buf := make([]byte, logLen+1)
		gl.GetProgramInfoLog(pid, logLen, nil, &buf[0])
		return false, strings.TrimRight(string(buf), "\x00"), nil
	}
	return true, "", glErr()
}

func (b *Backend) UseProgram(ctx context.Context, program gpu.Handle) error {
	gl.UseProgram(uint32(program))
	return glErr()
}

func (b *Backend) CreateBuffer(ctx context.Context) (gpu.Handle, error) {
	var id uint32
	gl.GenBuffers(1, &id)
	return gpu.Handle(id), glErr()
}

func (b *Backend) CreateIndexBuffer(ctx context.Context) (gpu.Handle, error) {
	return b.CreateBuffer(ctx)
}

func (b *Backend) BindArray(ctx context.Context, handle gpu.Handle) error {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(handle))
	return glErr()
}

func (b *Backend) UploadArray(ctx context.Context, data []float32) error {
	if len(data) == 0 {
		return nil
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
	return glErr()
}

func (b *Backend) BindElements(ctx context.Context, handle gpu.Handle) error {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(handle))
	return glErr()
}

func (b *Backend) UploadElements(ctx context.Context, indices []uint32) error {
	if len(indices) == 0 {
		return nil
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.DYNAMIC_DRAW)
	return glErr()
}

func (b *Backend) AttribLocation(ctx context.Context, program gpu.Handle, name string) (int32, error) {
	loc := gl.GetAttribLocation(uint32(program), gl.Str(name+"\x00"))
	return loc, nil
}

func (b *Backend) SetAttribPointer(ctx context.Context, loc int32, components, stride, offset int) error {
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(components), gl.FLOAT, false, int32(stride), uintptr(offset))
	return glErr()
}

func (b *Backend) EnableAttrib(ctx context.Context, loc int32) error {
	gl.EnableVertexAttribArray(uint32(loc))
	return glErr()
}

func (b *Backend) UniformLocation(ctx context.Context, program gpu.Handle, name string) (int32, error) {
	return gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00")), nil
}

func (b *Backend) SetUniform(ctx context.Context, program gpu.Handle, loc int32, typ gpu.UniformType, values []float32) error {
	switch typ {
	case gpu.UniformFloat:
		gl.Uniform1f(loc, values[0])
	case gpu.UniformVec2:
		gl.Uniform2f(loc, values[0], values[1])
	case gpu.UniformVec3:
		gl.Uniform3f(loc, values[0], values[1], values[2])
	case gpu.UniformVec4:
		gl.Uniform4f(loc, values[0], values[1], values[2], values[3])
	case gpu.UniformMat2:
		gl.UniformMatrix2fv(loc, 1, true, &values[0])
	case gpu.UniformMat3:
		gl.UniformMatrix3fv(loc, 1, true, &values[0])
	case gpu.UniformMat4:
		gl.UniformMatrix4fv(loc, 1, true, &values[0])
	default:
		return fmt.Errorf("glbackend: unsupported uniform type %d", typ)
	}
	return glErr()
}

func (b *Backend) SetUniformInt(ctx context.Context, program gpu.Handle, loc int32, value int32) error {
	gl.Uniform1i(loc, value)
	return glErr()
}

func (b *Backend) CreateTexture(ctx context.Context, width, height int, pixels []byte) (gpu.Handle, error) {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	var ptr unsafe.Pointer
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, ptr)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return gpu.Handle(id), glErr()
}

func (b *Backend) BindTexture(ctx context.Context, slot int, handle gpu.Handle) error {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
	gl.BindTexture(gl.TEXTURE_2D, uint32(handle))
	return glErr()
}

func (b *Backend) ActiveTexture(ctx context.Context, slot int) error {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
	return glErr()
}

func (b *Backend) CreateFramebuffer(ctx context.Context) (gpu.Handle, error) {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return gpu.Handle(id), glErr()
}

func (b *Backend) AttachColor(ctx context.Context, fb, texture gpu.Handle) error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(texture), 0)
	return glErr()
}

func (b *Backend) BindFramebuffer(ctx context.Context, fb gpu.Handle) error {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
	return glErr()
}

func (b *Backend) Clear(ctx context.Context, r, g, bl float32) error {
	gl.ClearColor(r, g, bl, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return glErr()
}

func (b *Backend) Viewport(ctx context.Context, x, y, w, h int) error {
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
	return glErr()
}

func (b *Backend) DrawArrays(ctx context.Context, count int) error {
	gl.DrawArrays(gl.TRIANGLES, 0, int32(count))
	return glErr()
}

func (b *Backend) DrawElements(ctx context.Context, count int) error {
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, nil)
	return glErr()
}
