package interp

import (
	"context"

	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/gpu"
	"github.com/soypat/gfxlang/token"
)

// execDraw implements §4.F Draw's five ordered steps.
func (in *Interpreter) execDraw(n *ast.Draw, sl *ScopeList) error {
	bv, err := in.evalIdentName(n.Buffer, n.Sp, sl)
	if err != nil {
		return err
	}
	if bv.Kind != KBuffer {
		return errf(KindType, n.Sp, "draw target %q is not a buffer, got %s", n.Buffer, bv.Kind)
	}

	progName := n.Using
	if progName == "" {
		progName = in.current
	}
	if progName == "" {
		progName = in.soleProgram
	}
	if progName == "" {
		return errf(KindResolution, n.Sp, "draw has no program bound (no `using` clause and no current program)")
	}
	pv, err := in.evalIdentName(progName, n.Sp, sl)
	if err != nil {
		return err
	}
	if pv.Kind != KProgram {
		return errf(KindType, n.Sp, "draw target %q is not a program, got %s", progName, pv.Kind)
	}
	ctx := context.Background()

	// Step 1: select program.
	if err := in.useProgram(pv.Prog, n.Sp); err != nil {
		return err
	}

	// Step 2: render target.
	if n.To != "" {
		tv, err := in.evalIdentName(n.To, n.Sp, sl)
		if err != nil {
			return err
		}
		if tv.Kind != KTexture {
			return errf(KindType, n.Sp, "draw target texture %q is not a texture2D, got %s", n.To, tv.Kind)
		}
		if err := in.bindRenderTarget(tv.Tex, n.Sp); err != nil {
			return err
		}
	} else if err := in.Backend.BindFramebuffer(ctx, 0); err != nil {
		return err
	}

	// Steps 3-4: interleave and upload.
	layout := bv.Buf.Layout
	if len(layout.Names) == 0 {
		return errf(KindResource, n.Sp, "buffer %q has no uploaded attributes", n.Buffer)
	}
	vertexCount := len(bv.Buf.Data[layout.Names[0]]) / layout.Components[layout.Names[0]]
	interleaved := interleaveAttribs(bv.Buf, vertexCount)
	if err := in.Backend.BindArray(ctx, gpu.Handle(bv.Buf.VBOHandle)); err != nil {
		return err
	}
	if err := in.Backend.UploadArray(ctx, interleaved); err != nil {
		return err
	}

	stride := 0
	for _, name := range layout.Names {
		stride += layout.Components[name] * 4
	}
	offset := 0
	for _, name := range layout.Names {
		components := layout.Components[name]
		loc, err := in.Backend.AttribLocation(ctx, gpu.Handle(pv.Prog.Handle), name)
		if err != nil {
			return err
		}
		if err := in.Backend.SetAttribPointer(ctx, loc, components, stride, offset); err != nil {
			return err
		}
		if err := in.Backend.EnableAttrib(ctx, loc); err != nil {
			return err
		}
		offset += components * 4
	}

	// Step 5: issue the draw call.
	if len(bv.Buf.Indices) > 0 {
		if err := in.Backend.BindElements(ctx, gpu.Handle(bv.Buf.EBOHandle)); err != nil {
			return err
		}
		return in.Backend.DrawElements(ctx, len(bv.Buf.Indices))
	}
	return in.Backend.DrawArrays(ctx, vertexCount)
}

// bindRenderTarget implements Draw step 2: lazily create a framebuffer and
// colour-attachment texture sized WIDTH×WIDTH (spec.md §4.F Draw step 2) and
// bind it.
func (in *Interpreter) bindRenderTarget(tex *Texture, sp token.Span) error {
	ctx := context.Background()
	if !tex.HasFB {
		wv, _ := in.Global.get("WIDTH")
		side := int(wv.I)
		handle, err := in.Backend.CreateTexture(ctx, side, side, nil)
		if err != nil {
			return err
		}
		fb, err := in.Backend.CreateFramebuffer(ctx)
		if err != nil {
			return err
		}
		if err := in.Backend.AttachColor(ctx, fb, handle); err != nil {
			return err
		}
		tex.Handle = uint32(handle)
		tex.FBHandle = uint32(fb)
		tex.HasFB = true
		tex.Width, tex.Height, tex.Channels = side, side, 4
	}
	return in.Backend.BindFramebuffer(ctx, gpu.Handle(tex.FBHandle))
}

// interleaveAttribs implements Draw step 3: iterate attribute order as
// declared in the Layout and, per vertex, concatenate each attribute's
// component_count floats.
func interleaveAttribs(buf *Buffer, vertexCount int) []float32 {
	var out []float32
	for v := 0; v < vertexCount; v++ {
		for _, name := range buf.Layout.Names {
			n := buf.Layout.Components[name]
			data := buf.Data[name]
			out = append(out, data[v*n:v*n+n]...)
		}
	}
	return out
}
