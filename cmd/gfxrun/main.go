// Command gfxrun is the CLI surface spec.md §6 specifies "for testing": a
// single positional argument naming a `.gfx` script, run at ~60 Hz against a
// real window until closed or ctrl-C'd.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/soypat/gfxlang/driver"
	"github.com/soypat/gfxlang/gpu/glbackend"
	"github.com/soypat/gfxlang/imgload"
	"github.com/soypat/gfxlang/logging"
	"github.com/soypat/gfxlang/resource"
	"github.com/soypat/gfxlang/token"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gfxrun:", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: gfxrun path/to/script.gfx")
	}
	scriptPath := os.Args[1]

	backend, err := glbackend.New(glbackend.WindowConfig{
		Title: filepath.Base(scriptPath), Width: 800, Height: 800, Resizable: true,
	})
	if err != nil {
		return err
	}
	defer backend.Close()

	logger := logging.NewSlogSink(slog.Default())
	images := imgload.NewFileLoader(filepath.Dir(scriptPath))
	d := driver.New(backend, logger, images)
	d.Load(scriptPath)

	watcher, err := resource.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Watch([]string{scriptPath}); err != nil {
			logger.Log("ERROR", token.Span{}, err.Error())
		}
	}

	frameInterval := time.Second / 60
	for !backend.Window.ShouldClose() {
		frameStart := time.Now()
		glfw.PollEvents()

		if watcher != nil {
			select {
			case <-watcher.Changed:
				d.MarkChanged()
			default:
			}
		}

		w, h := backend.Window.GetSize()
		if err := d.Frame(w, h); err != nil {
			logger.Log("ERROR", token.Span{}, err.Error())
		}
		backend.Window.SwapBuffers()

		if elapsed := time.Since(frameStart); elapsed < frameInterval {
			time.Sleep(frameInterval - elapsed)
		}
	}
	return nil
}
