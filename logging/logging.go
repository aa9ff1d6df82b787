// Package logging defines the diagnostic sink the interpreter, parser and
// transpiler write through (component A, spec.md §1, §7).
package logging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soypat/gfxlang/token"
)

// Logger is the sink interface external collaborators (the editor's log
// window) implement. Core code never formats for a terminal directly; it
// calls Logger so the host decides presentation.
type Logger interface {
	// Log appends one diagnostic line. label defaults to "ERROR" when empty,
	// per spec.md §7: "LABEL at line L[-L2]: message".
	Log(label string, span token.Span, message string)
	// Print is used by the source-language `print` statement (§4.F); it
	// carries no label/span, just the pretty-printed value.
	Print(message string)
	// Clear wipes accumulated diagnostics. Called by Interpreter.Reset, which
	// the driver runs after each successful reparse (spec.md §2 control flow).
	Clear()
}

// SlogSink adapts Logger onto log/slog, mirroring the way glgl.EnableDebugOutput
// turns GL's own debug callback into structured slog records.
type SlogSink struct {
	Log_ *slog.Logger
}

// NewSlogSink returns a SlogSink. If log is nil the default slog logger is used.
func NewSlogSink(log *slog.Logger) *SlogSink {
	if log == nil {
		log = slog.Default()
	}
	return &SlogSink{Log_: log}
}

func (s *SlogSink) Log(label string, span token.Span, message string) {
	if label == "" {
		label = "ERROR"
	}
	level := slog.LevelInfo
	if label == "ERROR" {
		level = slog.LevelError
	}
	s.Log_.LogAttrs(context.Background(), level, message,
		slog.String("label", label),
		slog.Int("line", span.FirstLine),
		slog.Int("lastLine", span.LastLine),
	)
}

func (s *SlogSink) Print(message string) {
	s.Log_.Info(message)
}

func (s *SlogSink) Clear() {}

// Format renders a diagnostic using the exact presentation §7 specifies,
// for sinks (or tests) that want a single string instead of structured fields.
func Format(label string, span token.Span, message string) string {
	if label == "" {
		label = "ERROR"
	}
	if span.FirstLine == span.LastLine {
		return fmt.Sprintf("%s at line %d: %s", label, span.FirstLine, message)
	}
	return fmt.Sprintf("%s at line %d-%d: %s", label, span.FirstLine, span.LastLine, message)
}

// Recording is an in-memory Logger used by tests, recording each entry in order.
type Recording struct {
	Entries []Entry
	Printed []string
}

// Entry is one recorded diagnostic.
type Entry struct {
	Label   string
	Span    token.Span
	Message string
}

func NewRecording() *Recording { return &Recording{} }

func (r *Recording) Log(label string, span token.Span, message string) {
	r.Entries = append(r.Entries, Entry{Label: label, Span: span, Message: message})
}

func (r *Recording) Print(message string) { r.Printed = append(r.Printed, message) }

func (r *Recording) Clear() { r.Entries = nil; r.Printed = nil }
