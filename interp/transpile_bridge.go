package interp

import (
	"github.com/soypat/gfxlang/ast"
	"github.com/soypat/gfxlang/transpile"
)

// transpilePair lowers both halves of pair through the transpile package,
// substituting an empty shader for any absent half so CompileShader still
// receives two source strings (spec.md §4.H: "compile_shader(vs_src, fs_src)").
func (in *Interpreter) transpilePair(pair *ast.ShaderPair) (vs, fs string, err error) {
	if pair.Vertex != nil {
		vs, err = transpile.Shader(pair.Vertex, in.Prog.Layouts)
		if err != nil {
			return "", "", err
		}
	}
	if pair.Fragment != nil {
		fs, err = transpile.Shader(pair.Fragment, in.Prog.Layouts)
		if err != nil {
			return "", "", err
		}
	}
	return vs, fs, nil
}
