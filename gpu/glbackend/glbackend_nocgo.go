//go:build tinygo || !cgo

// This file mirrors v4.6-core/glgl/glgl_nocgo.go's build-tag split: without
// cgo there is no real GL context, so every Backend method returns
// errNoCgo instead of touching hardware.
package glbackend

import (
	"context"
	"errors"

	"github.com/soypat/gfxlang/gpu"
)

var errNoCgo = errors.New("glbackend: requires cgo")

// WindowConfig is kept identical to the cgo build's so callers compile
// either way.
type WindowConfig struct {
	Title         string
	Width, Height int
	Resizable     bool
}

// Backend is an empty stand-in; every method returns errNoCgo.
type Backend struct{}

func New(cfg WindowConfig) (*Backend, error) { return nil, errNoCgo }

func (b *Backend) Close() {}

func (b *Backend) CreateProgram(ctx context.Context) (gpu.Handle, error) { return 0, errNoCgo }

func (b *Backend) CompileShader(ctx context.Context, program gpu.Handle, vsSrc, fsSrc string) (gpu.CompileResult, error) {
	return gpu.CompileResult{}, errNoCgo
}

func (b *Backend) LinkProgram(ctx context.Context, program gpu.Handle) (bool, string, error) {
	return false, "", errNoCgo
}

func (b *Backend) UseProgram(ctx context.Context, program gpu.Handle) error { return errNoCgo }

func (b *Backend) CreateBuffer(ctx context.Context) (gpu.Handle, error) { return 0, errNoCgo }

func (b *Backend) CreateIndexBuffer(ctx context.Context) (gpu.Handle, error) { return 0, errNoCgo }

func (b *Backend) BindArray(ctx context.Context, handle gpu.Handle) error { return errNoCgo }

func (b *Backend) UploadArray(ctx context.Context, data []float32) error { return errNoCgo }

func (b *Backend) BindElements(ctx context.Context, handle gpu.Handle) error { return errNoCgo }

func (b *Backend) UploadElements(ctx context.Context, indices []uint32) error { return errNoCgo }

func (b *Backend) AttribLocation(ctx context.Context, program gpu.Handle, name string) (int32, error) {
	return 0, errNoCgo
}

func (b *Backend) SetAttribPointer(ctx context.Context, loc int32, components, stride, offset int) error {
	return errNoCgo
}

func (b *Backend) EnableAttrib(ctx context.Context, loc int32) error { return errNoCgo }

func (b *Backend) UniformLocation(ctx context.Context, program gpu.Handle, name string) (int32, error) {
	return 0, errNoCgo
}

func (b *Backend) SetUniform(ctx context.Context, program gpu.Handle, loc int32, typ gpu.UniformType, values []float32) error {
	return errNoCgo
}

func (b *Backend) SetUniformInt(ctx context.Context, program gpu.Handle, loc int32, value int32) error {
	return errNoCgo
}

func (b *Backend) CreateTexture(ctx context.Context, width, height int, pixels []byte) (gpu.Handle, error) {
	return 0, errNoCgo
}

func (b *Backend) BindTexture(ctx context.Context, slot int, handle gpu.Handle) error {
	return errNoCgo
}

func (b *Backend) ActiveTexture(ctx context.Context, slot int) error { return errNoCgo }

func (b *Backend) CreateFramebuffer(ctx context.Context) (gpu.Handle, error) { return 0, errNoCgo }

func (b *Backend) AttachColor(ctx context.Context, fb, texture gpu.Handle) error { return errNoCgo }

func (b *Backend) BindFramebuffer(ctx context.Context, fb gpu.Handle) error { return errNoCgo }

func (b *Backend) Clear(ctx context.Context, r, g, bl float32) error { return errNoCgo }

func (b *Backend) Viewport(ctx context.Context, x, y, w, h int) error { return errNoCgo }

func (b *Backend) DrawArrays(ctx context.Context, count int) error { return errNoCgo }

func (b *Backend) DrawElements(ctx context.Context, count int) error { return errNoCgo }
