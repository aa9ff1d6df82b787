package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soypat/gfxlang/parser"
)

// P2: parsing valid source twice yields structurally equal ASTs (no
// hidden nondeterminism from map iteration order leaking into the tree).
func TestParseIsDeterministic(t *testing.T) {
	const src = `
buffer b;
vertex tri {
	vec3 pos;
	output vec4 FinalPosition;
	func main() { FinalPosition = vec4(pos, 1.0); }
}
fragment tri {
	uniform vec3 color;
	output vec4 outColor;
	func main() { outColor = vec4(color, 1.0); }
}
func init() {
	upload b.pos <- [0.0, 0.0, 0.0];
}
func loop() {
	clear [0.0, 0.0, 0.0];
	draw b using tri;
}`
	p1, err := parser.Parse(src)
	require.NoError(t, err)
	p2, err := parser.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
	assert.Equal(t, len(p1.Shaders), len(p2.Shaders))
	assert.Equal(t, len(p1.Functions), len(p2.Functions))
	assert.Contains(t, p1.Shaders, "tri")
	assert.Contains(t, p1.Functions, "init")
	assert.Contains(t, p1.Functions, "loop")
}

func TestParseErrorOnMalformedSource(t *testing.T) {
	_, err := parser.Parse(`func init( {{{ nonsense`)
	assert.Error(t, err)
}

func TestParseDrawClauses(t *testing.T) {
	prog, err := parser.Parse(`
buffer b;
func init(){}
func loop(){
	draw b to tex using prog;
}`)
	require.NoError(t, err)
	fn := prog.Functions["loop"]
	require.Len(t, fn.Body, 1)
}
