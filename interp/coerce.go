package interp

import (
	"context"

	"github.com/soypat/gfxlang/internal/numeric"
	"github.com/soypat/gfxlang/token"
)

// coerceAssign implements §4.E.12's assignment coercion table for a binding
// declared with type declType receiving value v.
func (in *Interpreter) coerceAssign(declType string, v Value, sp token.Span) (Value, error) {
	switch declType {
	case "", "var":
		return v, nil
	case "float":
		if v.Kind == KInt {
			return Float(numeric.Convert[float32](v.I)), nil
		}
		if v.Kind == KFloat {
			return v, nil
		}
	case "int":
		if v.Kind == KFloat {
			return Int(numeric.Convert[int32](v.F)), nil
		}
		if v.Kind == KInt {
			return v, nil
		}
	case "texture2D":
		switch v.Kind {
		case KString:
			return in.loadTexture(v.S, sp)
		case KTexture:
			return v, nil
		}
	default:
		if v.TypeName() == declType {
			return v, nil
		}
	}
	return Value{}, errf(KindType, sp, "cannot assign %s to declared type %s", v.Kind, declType)
}

// loadTexture implements texture2D ← string (§4.E.12): decode through Images,
// upload through Backend, and bind the result into a fresh Texture Value.
func (in *Interpreter) loadTexture(path string, sp token.Span) (Value, error) {
	if in.Images == nil {
		return Value{}, errf(KindResource, sp, "no ImageLoader configured, cannot load %q", path)
	}
	img, err := in.Images.Load(path)
	if err != nil {
		return Value{}, errf(KindResource, sp, "loading texture %q: %v", path, err)
	}
	handle, err := in.Backend.CreateTexture(context.Background(), img.Width, img.Height, img.Pixels)
	if err != nil {
		return Value{}, errf(KindResource, sp, "creating texture for %q: %v", path, err)
	}
	return Value{Kind: KTexture, Tex: &Texture{
		Handle:   uint32(handle),
		Width:    img.Width,
		Height:   img.Height,
		Channels: img.Channels,
		Pixels:   img.Pixels,
	}}, nil
}
