package transpile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soypat/gfxlang/parser"
	"github.com/soypat/gfxlang/transpile"
)

// S5 (transpile): FinalPosition becomes gl_Position and is not declared out.
func TestFinalPositionAliasing(t *testing.T) {
	prog, err := parser.Parse(`
vertex tri {
	vec3 pos;
	output vec4 FinalPosition;
	func main() { FinalPosition = vec4(pos, 1.0); }
}
fragment tri {
	output vec4 color;
	func main() { color = vec4(1.0, 1.0, 1.0, 1.0); }
}
func init(){}
func loop(){}`)
	require.NoError(t, err)

	pair := prog.Shaders["tri"]
	out, err := transpile.Shader(pair.Vertex, prog.Layouts)
	require.NoError(t, err)

	assert.Contains(t, out, "gl_Position = vec4(pos, 1.0);")
	assert.NotContains(t, out, "out vec4 FinalPosition")
}

func TestOperatorMapping(t *testing.T) {
	prog, err := parser.Parse(`
vertex v {
	vec3 a;
	vec3 b;
	output vec3 n;
	func main() {
		n = a % b;
		float d = a ^ b;
		float m = |a|;
	}
}
fragment v {
	output vec4 color;
	func main() { color = vec4(1.0,1.0,1.0,1.0); }
}
func init(){}
func loop(){}`)
	require.NoError(t, err)
	out, err := transpile.Shader(prog.Shaders["v"].Vertex, prog.Layouts)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "cross(a, b)"))
	assert.True(t, strings.Contains(out, "dot(a, b)"))
	assert.True(t, strings.Contains(out, "length(a)"))
}

func TestPrintInsideShaderIsError(t *testing.T) {
	prog, err := parser.Parse(`
vertex v {
	func main() { print("no"); }
}
func init(){}
func loop(){}`)
	require.NoError(t, err)
	_, err = transpile.Shader(prog.Shaders["v"].Vertex, prog.Layouts)
	assert.Error(t, err)
}
