// Package diag implements the compiler's diagnostic taxonomy: a closed
// set of error kinds, a span-carrying error value, and an accumulating
// sink that a single compilation pass appends to.
package diag

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
	"go.uber.org/multierr"
)

// Kind is the closed taxonomy of diagnostic kinds from spec.md §7.
type Kind uint8

const (
	KindParseError Kind = iota
	KindTypeError
	KindDomainError
	KindAccessError
	KindImportError
	KindLayoutError
	KindAssertError
	KindCallDepthExceeded
	KindIterationLimitExceeded
)

func (k Kind) String() string {
	switch k {
	case KindParseError:
		return "parse error"
	case KindTypeError:
		return "type error"
	case KindDomainError:
		return "domain error"
	case KindAccessError:
		return "access error"
	case KindImportError:
		return "import error"
	case KindLayoutError:
		return "layout error"
	case KindAssertError:
		return "assertion failed"
	case KindCallDepthExceeded:
		return "call depth exceeded"
	case KindIterationLimitExceeded:
		return "iteration limit exceeded"
	default:
		return "error"
	}
}

// Span is a byte range within a single source file, identified by FileID.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// FileID identifies a source file as resolved by the file provider.
type FileID string

// Error is the dedicated error type errors are propagated as, per spec.md
// §7: "errors are values of a dedicated error type returned from evaluator
// and layout. They carry a source span and optional hints."
type Error struct {
	id    ulid.ULID
	Kind  Kind
	Span  Span
	Msg   string
	Hints []string
}

// New builds an Error with a fresh monotonic id. ulid.Make draws from
// the process-wide monotonic entropy source, so ids stay unique and
// sortable in emission order.
func New(kind Kind, span Span, msg string, hints ...string) *Error {
	return &Error{
		id:    ulid.Make(),
		Kind:  kind,
		Span:  span,
		Msg:   msg,
		Hints: hints,
	}
}

// ID returns a process-sortable identifier for this diagnostic, stable for
// its lifetime, used by hosts that dedupe diagnostics across passes.
func (e *Error) ID() string { return e.id.String() }

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Msg)
	if e.Span.File != "" {
		fmt.Fprintf(&b, " (%s:%d..%d)", e.Span.File, e.Span.Start, e.Span.End)
	}
	for _, h := range e.Hints {
		fmt.Fprintf(&b, "\n  hint: %s", h)
	}
	return b.String()
}

// WithHint returns a copy of e with an additional hint appended.
func (e *Error) WithHint(hint string) *Error {
	cp := *e
	cp.Hints = append(append([]string{}, e.Hints...), hint)
	return &cp
}

// Sink accumulates diagnostics produced during one compilation pass.
// Errors fail the compilation as soon as any are present; warnings never
// do, per spec.md §7.
type Sink struct {
	errors   []*Error
	warnings []*Error
}

// Error appends a fatal diagnostic.
func (s *Sink) Error(e *Error) { s.errors = append(s.errors, e) }

// Warn appends a non-fatal diagnostic.
func (s *Sink) Warn(e *Error) { s.warnings = append(s.warnings, e) }

// Errors returns the accumulated fatal diagnostics.
func (s *Sink) Errors() []*Error { return s.errors }

// Warnings returns the accumulated non-fatal diagnostics.
func (s *Sink) Warnings() []*Error { return s.warnings }

// Failed reports whether this sink has any fatal diagnostic.
func (s *Sink) Failed() bool { return len(s.errors) > 0 }

// Join combines the sink's fatal errors into a single joined error via
// multierr, or nil if there are none. This is the "a single compilation
// produces a list of errors; any non-empty list fails the compilation"
// rule from spec.md §7, expressed as one error value a caller can
// multierr.Errors() back apart if it wants the individual diagnostics.
func (s *Sink) Join() error {
	if len(s.errors) == 0 {
		return nil
	}
	errs := make([]error, len(s.errors))
	for i, e := range s.errors {
		errs[i] = e
	}
	return multierr.Combine(errs...)
}

// Take returns and clears the first n fatal errors, the top-level
// "collects the first N to avoid cascades" rule from spec.md §7.
func (s *Sink) Take(n int) []*Error {
	if n > len(s.errors) {
		n = len(s.errors)
	}
	taken := s.errors[:n:n]
	s.errors = s.errors[n:]
	return taken
}
