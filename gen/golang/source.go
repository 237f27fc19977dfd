package golang

import (
	"bytes"
	"fmt"

	"mvdan.cc/gofumpt/format"
)

// source accumulates generated Go text. It is a thin wrapper over
// bytes.Buffer rather than text/template: the emitted code is almost
// entirely mechanical per-field boilerplate, which reads more plainly as
// direct Fprintf calls than as a template with a dozen sub-templates for
// each EdgeKind, and it keeps the whole generator dependency-free of
// anything beyond the standard library plus the formatter below.
type source struct {
	buf bytes.Buffer
}

func (s *source) P(format string, args ...interface{}) {
	fmt.Fprintf(&s.buf, format, args...)
	s.buf.WriteByte('\n')
}

func (s *source) Raw(text string) {
	s.buf.WriteString(text)
}

// raw returns the accumulated source unformatted, for callers that
// disable the gofumpt pass entirely.
func (s *source) raw() []byte {
	return s.buf.Bytes()
}

// formatted runs gofumpt over the accumulated source, returning it
// unchanged if formatting fails — a malformed template is a generator
// bug, not a reason to withhold output the caller may want to inspect.
func (s *source) formatted() []byte {
	out, err := format.Source(s.buf.Bytes(), format.Options{})
	if err != nil {
		return s.buf.Bytes()
	}
	return out
}
