package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soypat/gfxlang/driver"
	"github.com/soypat/gfxlang/gpu/mock"
	"github.com/soypat/gfxlang/imgload"
	"github.com/soypat/gfxlang/logging"
)

type noImages struct{}

func (noImages) Load(path string) (imgload.Image, error) {
	return imgload.Image{Width: 1, Height: 1, Channels: 4, Pixels: make([]byte, 4)}, nil
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// A first Frame call reparses and runs init, then loop, exactly once each.
func TestFrameParsesOnceThenRunsLoopEveryFrame(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.gfx", `
func init(){ print("init"); }
func loop(){ print("loop"); }`)

	backend := mock.New()
	rec := logging.NewRecording()
	d := driver.New(backend, rec, noImages{})
	d.Load(path)

	require.NoError(t, d.Frame(100, 100))
	require.NoError(t, d.Frame(100, 100))

	assert.Equal(t, []string{"init", "loop", "loop"}, rec.Printed)
}

// A parse error on reload must not clobber the previously working program.
func TestFrameKeepsPreviousProgramOnParseError(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.gfx", `
func init(){ print("ok"); }
func loop(){ print("loop"); }`)

	backend := mock.New()
	rec := logging.NewRecording()
	d := driver.New(backend, rec, noImages{})
	d.Load(path)
	require.NoError(t, d.Frame(100, 100))

	require.NoError(t, os.WriteFile(path, []byte("func init( {{{ not valid"), 0o644))
	d.MarkChanged()
	err := d.Frame(100, 100)
	assert.Error(t, err)

	// The previously parsed program is still installed: a further Frame call
	// (without MarkChanged) keeps running the old loop body successfully.
	require.NoError(t, d.Frame(100, 100))
	assert.Contains(t, rec.Printed, "loop")
}

func TestFrameHonoursCodeChangedOnlyOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.gfx", `
func init(){}
func loop(){}`)

	backend := mock.New()
	rec := logging.NewRecording()
	d := driver.New(backend, rec, noImages{})
	d.Load(path)

	require.NoError(t, d.Frame(50, 50))
	first := d.Interp.Prog
	require.NoError(t, d.Frame(50, 50))
	require.NoError(t, d.Frame(50, 50))
	assert.Same(t, first, d.Interp.Prog, "later frames must not reparse")
	assert.Empty(t, rec.Entries)
}
