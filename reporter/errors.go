package reporter

import (
	"errors"
	"fmt"

	"github.com/tree-gen/tree-gen/ast"
)

// ErrInvalidSource is a sentinel for a .tree source that failed to
// compile. Handler.Error does not return it: it returns the latched first
// error itself, and nothing else in this module returns ErrInvalidSource.
var ErrInvalidSource = errors.New("invalid tree-gen source")

// ErrorWithPos is an error about a .tree source file that carries the
// location that caused it. Error() renders as "<file>:<line>:<col>: <msg>",
// exactly the single-line format the CLI contract (spec §6) requires.
type ErrorWithPos interface {
	error
	GetPosition() ast.SourcePos
	Unwrap() error
}

// Error wraps err with a source position.
func Error(pos ast.SourcePos, err error) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf is like Error but formats its own underlying error.
func Errorf(pos ast.SourcePos, format string, args ...interface{}) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

type errorWithSourcePos struct {
	underlying error
	pos        ast.SourcePos
}

func (e errorWithSourcePos) Error() string {
	return fmt.Sprintf("%s: %v", e.GetPosition(), e.underlying)
}

func (e errorWithSourcePos) GetPosition() ast.SourcePos {
	return e.pos
}

func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithSourcePos{}
