package resource_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soypat/gfxlang/resource"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCombinedInlinesImportsDepthFirstOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "common.gfx", "func helper(){}\n")
	writeFile(t, dir, "mid.gfx", "import \"common.gfx\";\nfunc mid(){}\n")
	root := writeFile(t, dir, "main.gfx", "import \"mid.gfx\";\nimport \"common.gfx\";\nfunc init(){}\nfunc loop(){}\n")

	src, files, err := resource.LoadCombined(resource.OSFileSystem{}, root)
	require.NoError(t, err)

	// common.gfx inlined exactly once despite two import paths reaching it.
	assert.Equal(t, 1, countOccurrences(src, "func helper(){}"))
	assert.Equal(t, 3, len(files))

	// Depth-first: common.gfx (via mid.gfx) appears before mid's own body,
	// which appears before main's own body.
	helperIdx := indexOf(src, "func helper(){}")
	midIdx := indexOf(src, "func mid(){}")
	initIdx := indexOf(src, "func init(){}")
	require.True(t, helperIdx >= 0 && midIdx >= 0 && initIdx >= 0)
	assert.Less(t, helperIdx, midIdx)
	assert.Less(t, midIdx, initIdx)
}

func TestLoadCombinedMissingImportErrors(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "main.gfx", "import \"nope.gfx\";\nfunc init(){}\nfunc loop(){}\n")
	_, _, err := resource.LoadCombined(resource.OSFileSystem{}, root)
	assert.Error(t, err)
}

func TestOSFileSystemResolvesRelativeToFromDirThenCWD(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tex.png", "fakepng")

	fs := resource.OSFileSystem{}
	got, err := fs.Resolve(dir, "tex.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tex.png"), got)

	_, err = fs.Resolve(dir, "missing.png")
	assert.Error(t, err)
}

func TestWatcherSignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.gfx", "func init(){}\nfunc loop(){}\n")

	w, err := resource.NewWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch([]string{path}))

	require.NoError(t, os.WriteFile(path, []byte("func init(){}\nfunc loop(){}\n// changed\n"), 0o644))

	select {
	case <-w.Changed:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not signal a change within 2s")
	}
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
			i += len(substr) - 1
		}
	}
	return count
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
