// Package resource resolves `import` paths and image asset paths against a
// script's directory (component not named in spec.md §4 but required by §6
// "Persisted state" and §5's `code_changed` flag), and watches the resolved
// file set for changes the way cogentcore/core's config loader watches
// on-disk config for hot reload.
package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileSystem is the read side of the contract: scripts may reference other
// `.gfx` files (import) or image assets by relative path, "resolved first
// against the script's directory, then CWD" (spec.md §6).
type FileSystem interface {
	// Resolve returns the absolute path of name as seen from a file located
	// at fromDir, trying fromDir first and the process CWD second.
	Resolve(fromDir, name string) (string, error)
	// ReadFile returns the full contents of an already-resolved path.
	ReadFile(path string) ([]byte, error)
}

// OSFileSystem is the default FileSystem, backed by the local disk.
type OSFileSystem struct{}

func (OSFileSystem) Resolve(fromDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
		return "", fmt.Errorf("resource: %q not found", name)
	}
	candidate := filepath.Join(fromDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	cwdCandidate, err := filepath.Abs(name)
	if err == nil {
		if _, statErr := os.Stat(cwdCandidate); statErr == nil {
			return cwdCandidate, nil
		}
	}
	return "", fmt.Errorf("resource: %q not found relative to %q or CWD", name, fromDir)
}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadCombined reads rootPath and recursively inlines every `import "path";`
// statement's referenced source, in declaration order, depth-first,
// concatenating source text the way v4.6-core/glgl/parse.go's ParseCombined
// concatenates shader sections from one buffer — except here the sections
// span files instead of `#shader` pragmas. Each imported file is inlined at
// most once (cycles collapse to a no-op on the second visit).
func LoadCombined(fs FileSystem, rootPath string) (src string, files []string, err error) {
	seen := map[string]bool{}
	var sb strings.Builder
	var order []string
	var visit func(path string) error
	visit = func(path string) error {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if seen[abs] {
			return nil
		}
		seen[abs] = true
		order = append(order, abs)

		raw, err := fs.ReadFile(abs)
		if err != nil {
			return fmt.Errorf("resource: reading %q: %w", abs, err)
		}
		text := string(raw)
		dir := filepath.Dir(abs)
		for _, imp := range scanImports(text) {
			resolved, err := fs.Resolve(dir, imp)
			if err != nil {
				return err
			}
			if err := visit(resolved); err != nil {
				return err
			}
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
		return nil
	}
	if err := visit(rootPath); err != nil {
		return "", nil, err
	}
	return sb.String(), order, nil
}

// scanImports extracts each import statement's quoted path without a full
// lex pass — the driver needs the import graph before the combined buffer
// exists to parse it with.
func scanImports(src string) []string {
	var out []string
	for _, line := range strings.Split(src, "\n") {
		t := strings.TrimSpace(line)
		if !strings.HasPrefix(t, "import") {
			continue
		}
		start := strings.IndexByte(t, '"')
		if start < 0 {
			continue
		}
		end := strings.IndexByte(t[start+1:], '"')
		if end < 0 {
			continue
		}
		out = append(out, t[start+1:start+1+end])
	}
	return out
}

// Watcher signals when any file in a resolved import set changes on disk,
// setting the driver's `code_changed` flag (spec.md §5) without the driver
// needing to poll mtimes itself.
type Watcher struct {
	w        *fsnotify.Watcher
	Changed  chan struct{}
	watching map[string]bool
}

// NewWatcher starts an fsnotify watcher with no files yet registered.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("resource: fsnotify: %w", err)
	}
	wt := &Watcher{w: fw, Changed: make(chan struct{}, 1), watching: map[string]bool{}}
	go wt.run()
	return wt, nil
}

// Watch replaces the watched file set with files.
func (wt *Watcher) Watch(files []string) error {
	for f := range wt.watching {
		wt.w.Remove(f)
	}
	wt.watching = map[string]bool{}
	for _, f := range files {
		if err := wt.w.Add(f); err != nil {
			return fmt.Errorf("resource: watch %q: %w", f, err)
		}
		wt.watching[f] = true
	}
	return nil
}

func (wt *Watcher) run() {
	for {
		select {
		case ev, ok := <-wt.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				select {
				case wt.Changed <- struct{}{}:
				default:
				}
			}
		case _, ok := <-wt.w.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (wt *Watcher) Close() error { return wt.w.Close() }
