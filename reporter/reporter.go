// Package reporter implements tree-gen's error-handling discipline (spec
// §4.4, §7): lexing, parsing, and Tree Model resolution all fail fast with
// a first-error-wins strategy — the first located error wins and no later
// stage runs against a partial model.
package reporter

import (
	"sync"

	"github.com/tree-gen/tree-gen/ast"
)

// ErrorReporter observes the first fatal error, at the moment the Handler
// latches it. It exists mainly so the CLI can log that error (via zap);
// later errors are suppressed by the Handler's first-error-wins policy
// and never reach it.
type ErrorReporter func(err ErrorWithPos)

// WarningReporter observes non-fatal diagnostics passed to
// Handler.HandleWarning. Warnings never abort compilation.
type WarningReporter func(ErrorWithPos)

// Reporter is the pluggable sink for errors and warnings produced while
// compiling a .tree file.
type Reporter interface {
	Error(ErrorWithPos)
	Warning(ErrorWithPos)
}

// NewReporter builds a Reporter from two optional callback functions.
// Either may be nil.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) {
	if r.errs != nil {
		r.errs(err)
	}
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler is threaded through the lexer, parser, and Tree Model builder.
// The first call to HandleError/HandleErrorf latches the returned error;
// every later call is a no-op that returns the same first error, which is
// what lets every stage simply check handler.Error() after a pass and bail
// out without having to separately track "did we already fail".
type Handler struct {
	reporter Reporter

	mu  sync.Mutex
	err error
}

// NewHandler creates a Handler that forwards to rep. A nil rep is
// equivalent to a Reporter with no callbacks.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf formats and latches a located error.
func (h *Handler) HandleErrorf(pos ast.SourcePos, format string, args ...interface{}) error {
	return h.HandleError(Errorf(pos, format, args...))
}

// HandleError latches err as the handler's first error, if none is latched
// yet, and always returns whichever error is now latched.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	h.err = err
	if ewp, ok := err.(ErrorWithPos); ok {
		h.reporter.Error(ewp)
	}
	return h.err
}

// HandleWarning reports a non-fatal diagnostic. It never affects Error().
func (h *Handler) HandleWarning(pos ast.SourcePos, err error) {
	h.reporter.Warning(errorWithSourcePos{pos: pos, underlying: err})
}

// Error returns the first error latched by this handler, or nil if
// compilation has not failed.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}
