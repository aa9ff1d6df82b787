package interp

import (
	"fmt"

	"github.com/soypat/gfxlang/token"
)

// ErrorKind classifies EvalError the way spec.md §7 taxonomizes diagnostics.
// It does not affect propagation, and reportErr logs every kind under the
// same "ERROR" label.
type ErrorKind int

const (
	KindResolution ErrorKind = iota
	KindType
	KindResource
	KindRuntimeBound
	KindBudget
)

// EvalError is the fault type raised by expression evaluation and statement
// execution. It always carries the offending node's span (spec.md §3
// invariant 1) so the Logger can print "LABEL at line L[-L2]: message" (§7).
type EvalError struct {
	Kind    ErrorKind
	Span    token.Span
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.String(), e.Message)
}

func errf(kind ErrorKind, span token.Span, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}
