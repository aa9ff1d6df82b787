package interp_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soypat/gfxlang/gpu/mock"
	"github.com/soypat/gfxlang/imgload"
	"github.com/soypat/gfxlang/interp"
	"github.com/soypat/gfxlang/logging"
	"github.com/soypat/gfxlang/parser"
)

// fakeImages satisfies imgload.Loader without touching disk, for S6.
type fakeImages struct{}

func (fakeImages) Load(path string) (imgload.Image, error) {
	return imgload.Image{Width: 2, Height: 2, Channels: 4, Pixels: make([]byte, 16)}, nil
}

func run(t *testing.T, src string) (*interp.Interpreter, *mock.Backend, *logging.Recording) {
	t.Helper()
	prog, err := parser.Parse(src)
	require.NoError(t, err)
	backend := mock.New()
	rec := logging.NewRecording()
	in := interp.New(backend, rec, fakeImages{})
	in.SetProgram(prog)
	require.NoError(t, in.ExecuteInit())
	return in, backend, rec
}

// S1 (hello).
func TestHello(t *testing.T) {
	_, _, rec := run(t, `func init(){ print("hi"); } func loop(){}`)
	require.Len(t, rec.Printed, 1)
	assert.Equal(t, "hi", rec.Printed[0])
}

// S2 (arith).
func TestArith(t *testing.T) {
	_, _, rec := run(t, `func init(){
		print(1+2);
		print(3/2);
		print(|[1.0,2.0,2.0]|);
	} func loop(){}`)
	require.Len(t, rec.Printed, 3)
	assert.Equal(t, "3", rec.Printed[0])
	assert.Equal(t, "1.500000", rec.Printed[1])
	assert.Equal(t, "3.000000", rec.Printed[2])
}

// S3 (upload+draw): exactly one DrawArrays(TRIANGLES, 0, 3) call per frame.
func TestUploadAndDraw(t *testing.T) {
	src := `
buffer b;

vertex tri {
	vec3 pos;
	func main() { FinalPosition = vec4(pos, 1.0); }
}
fragment tri {
	output vec4 color;
	func main() { color = vec4(1.0, 1.0, 1.0, 1.0); }
}

func init() {
	upload b.pos <- {[-1.0,-1.0,0.0], [1.0,-1.0,0.0], [0.0,1.0,0.0]};
}
func loop() {
	clear [0.0, 0.0, 0.0];
	draw b;
}`
	in, backend, _ := run(t, src)
	require.NoError(t, in.ExecuteLoop())

	var drawCalls []mock.Call
	for _, c := range backend.Calls {
		if c.Name == "DrawArrays" {
			drawCalls = append(drawCalls, c)
		}
	}
	require.Len(t, drawCalls, 1)
	assert.Equal(t, []any{"TRIANGLES", 0, 3}, drawCalls[0].Args)
}

// S4 (uniform): use_program precedes set_uniform_vec3, addressed to the
// program's own handle.
func TestUniformAssign(t *testing.T) {
	src := `
vertex p {
	func main() { FinalPosition = vec4(0.0,0.0,0.0,1.0); }
}
fragment p {
	uniform vec3 color;
	output vec4 outColor;
	func main() { outColor = vec4(color, 1.0); }
}
func init() {}
func loop() {
	p.color = [1.0, 0.5, 0.25];
}`
	in, backend, _ := run(t, src)
	require.NoError(t, in.ExecuteLoop())

	var useIdx, setIdx = -1, -1
	for i, c := range backend.Calls {
		if c.Name == "UseProgram" && useIdx == -1 {
			useIdx = i
		}
		if c.Name == "SetUniform" {
			setIdx = i
			require.Len(t, c.Args, 4)
			values, ok := c.Args[3].([]float32)
			require.True(t, ok)
			assert.InDeltaSlice(t, []float32{1.0, 0.5, 0.25}, values, 1e-6)
		}
	}
	require.NotEqual(t, -1, useIdx)
	require.NotEqual(t, -1, setIdx)
	assert.Less(t, useIdx, setIdx)
}

// S6 (texture bind): a second texture2D uniform binds on slot 1.
func TestTextureSlotAssignment(t *testing.T) {
	src := `
vertex p {
	func main() { FinalPosition = vec4(0.0,0.0,0.0,1.0); }
}
fragment p {
	uniform texture2D tex;
	uniform texture2D mask;
	output vec4 outColor;
	func main() { outColor = vec4(1.0,1.0,1.0,1.0); }
}
func init() {}
func loop() {
	p.tex = "a.png";
	p.mask = "m.png";
}`
	in, backend, _ := run(t, src)
	require.NoError(t, in.ExecuteLoop())

	var sawActiveSlot0, sawActiveSlot1 bool
	for _, c := range backend.Calls {
		if c.Name == "ActiveTexture" {
			switch c.Args[0] {
			case 0:
				sawActiveSlot0 = true
			case 1:
				sawActiveSlot1 = true
			}
		}
	}
	assert.True(t, sawActiveSlot0, "expected an ActiveTexture(0) call for the first texture2D uniform")
	assert.True(t, sawActiveSlot1, "expected an ActiveTexture(1) call for the second texture2D uniform")
	require.Contains(t, backend.BoundTex, 0)
	require.Contains(t, backend.BoundTex, 1)
	assert.NotZero(t, backend.BoundTex[0])
	assert.NotZero(t, backend.BoundTex[1])
}

// P7 — const enforcement.
func TestConstEnforcement(t *testing.T) {
	_, err := parser.Parse(`func init(){ PI = 4.0; } func loop(){}`)
	require.NoError(t, err) // parses fine; the error surfaces at execute_init.
	prog, _ := parser.Parse(`func init(){ PI = 4.0; } func loop(){}`)
	backend := mock.New()
	rec := logging.NewRecording()
	in := interp.New(backend, rec, fakeImages{})
	in.SetProgram(prog)
	err = in.ExecuteInit()
	require.Error(t, err)
	assert.Len(t, rec.Entries, 1)
}

// P6 — coercion.
func TestCoercion(t *testing.T) {
	_, _, rec := run(t, `
float x = 3;
int y = 3.9;
float z = 2;
func init(){
	z = 5;
	print(x);
	print(y);
	print(z);
}
func loop(){}`)
	require.Len(t, rec.Printed, 3)
	assert.Equal(t, "3.000000", rec.Printed[0])
	assert.Equal(t, "3", rec.Printed[1])
	assert.Equal(t, "5.000000", rec.Printed[2])
}

// P3 — arithmetic closure: every binary op on numeric operands yields a
// printable numeric value, int/int division always promotes to float.
func TestArithClosureTable(t *testing.T) {
	_, _, rec := run(t, `func init(){
		print(2+3);
		print(5-2);
		print(4*2);
		print(7/2);
		print(2.0+3);
		print(10%3 == 1);
	} func loop(){}`)
	require.Len(t, rec.Printed, 6)
	assert.Equal(t, "5", rec.Printed[0])
	assert.Equal(t, "3", rec.Printed[1])
	assert.Equal(t, "8", rec.Printed[2])
	assert.Equal(t, "3.500000", rec.Printed[3])
	assert.Equal(t, "5.000000", rec.Printed[4])
	assert.Equal(t, "true", rec.Printed[5])
}

// P4 — vector law: |v| == sqrt(v^v) (dot-with-self), and cross is
// orthogonal to both inputs (a^(a%b) == 0).
func TestVectorLaws(t *testing.T) {
	_, _, rec := run(t, `func init(){
		print(|[3.0,4.0,0.0]|);
		print([1.0,0.0,0.0] ^ ([1.0,0.0,0.0] % [0.0,1.0,0.0]));
	} func loop(){}`)
	require.Len(t, rec.Printed, 2)
	assert.Equal(t, "5.000000", rec.Printed[0])
	assert.Equal(t, "0.000000", rec.Printed[1])
}

// P8 — loop watchdog: a script whose loop() never terminates on its own
// still returns from ExecuteLoop within the 5-second bound (spec.md §5).
// This test intentionally runs for several wall-clock seconds.
func TestLoopWatchdogBoundsWhileTrue(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping multi-second watchdog test in -short mode")
	}
	in, _, _ := run(t, `func init(){} func loop(){ while true {} }`)
	start := time.Now()
	require.NoError(t, in.ExecuteLoop())
	assert.Less(t, time.Since(start), 6*time.Second)
}
