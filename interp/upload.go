package interp

import (
	"context"

	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/gpu"
	"github.com/soypat/gfxlang/token"
)

// execUpload implements §4.F Upload: `upload name.attrib <- uploadList`.
func (in *Interpreter) execUpload(n *ast.Upload, sl *ScopeList) error {
	bv, err := in.evalIdentName(n.Buffer, n.Sp, sl)
	if err != nil {
		return err
	}
	if bv.Kind != KBuffer {
		return errf(KindType, n.Sp, "upload target %q is not a buffer, got %s", n.Buffer, bv.Kind)
	}
	lv, err := in.eval(n.List, sl)
	if err != nil {
		return err
	}
	if lv.Kind != KList {
		return errf(KindType, n.Sp, "upload source must be a list, got %s", lv.Kind)
	}

	if n.Attrib == "indices" {
		indices, err := flattenIndices(lv, n.Sp)
		if err != nil {
			return err
		}
		bv.Buf.Indices = indices
		ctx := context.Background()
		if err := in.Backend.BindElements(ctx, gpu.Handle(bv.Buf.EBOHandle)); err != nil {
			return err
		}
		return in.Backend.UploadElements(ctx, indices)
	}

	flat, components, err := flattenUploadList(lv, n.Sp)
	if err != nil {
		return err
	}
	if existing, ok := bv.Buf.Sizes[n.Attrib]; ok && int(existing) != components {
		return errf(KindType, n.Sp, "attribute %q component count changed from %d to %d", n.Attrib, existing, components)
	}
	bv.Buf.Sizes[n.Attrib] = uint32(components)
	bv.Buf.Data[n.Attrib] = flat
	if _, ok := bv.Buf.Layout.Components[n.Attrib]; !ok {
		bv.Buf.Layout.Names = append(bv.Buf.Layout.Names, n.Attrib)
	}
	bv.Buf.Layout.Components[n.Attrib] = components
	return nil
}

// flattenIndices parses an UploadList of ints (Upload's `indices` special
// case).
func flattenIndices(lv Value, sp token.Span) ([]uint32, error) {
	out := make([]uint32, len(lv.List.Elems))
	for i, e := range lv.List.Elems {
		if e.Kind != KInt {
			return nil, errf(KindType, sp, "index list element %d must be int, got %s", i, e.Kind)
		}
		out[i] = uint32(e.I)
	}
	return out, nil
}

// flattenUploadList implements Upload's general case: each element must be
// Float | Vec2 | Vec3 | Vec4 | List<...>, and all elements share one
// component count, established on first use (§4.F Upload).
func flattenUploadList(lv Value, sp token.Span) ([]float32, int, error) {
	elems := lv.List.Elems
	if len(elems) == 0 {
		return nil, 0, nil
	}
	components, err := uploadElemArity(elems[0], sp)
	if err != nil {
		return nil, 0, err
	}
	var flat []float32
	for i, e := range elems {
		n, err := uploadElemArity(e, sp)
		if err != nil {
			return nil, 0, err
		}
		if n != components {
			return nil, 0, errf(KindType, sp, "upload list element %d has %d components, expected %d", i, n, components)
		}
		flat = append(flat, uploadElemFloats(e)...)
	}
	return flat, components, nil
}

func uploadElemArity(v Value, sp token.Span) (int, error) {
	switch v.Kind {
	case KFloat, KInt:
		return 1, nil
	case KVec2, KVec3, KVec4:
		return vecArity(v.Kind), nil
	case KList:
		return len(v.List.Elems), nil
	}
	return 0, errf(KindType, sp, "upload list element must be Float|Vec2|Vec3|Vec4|List, got %s", v.Kind)
}

func uploadElemFloats(v Value) []float32 {
	switch v.Kind {
	case KFloat:
		return []float32{v.F}
	case KInt:
		return []float32{float32(v.I)}
	case KVec2, KVec3, KVec4:
		out := make([]float32, len(v.Vec))
		for i, c := range v.Vec {
			out[i] = asFloat(c)
		}
		return out
	case KList:
		out := make([]float32, len(v.List.Elems))
		for i, c := range v.List.Elems {
			out[i] = asFloat(c)
		}
		return out
	}
	return nil
}
