package python

import (
	"bytes"
	"fmt"
)

// source accumulates generated Python text. Unlike gen/golang's source,
// there is no formatter to run afterward — Python has no ecosystem
// equivalent of gofumpt wired into this corpus — so indentation must be
// correct as written; every P call is responsible for its own leading
// whitespace.
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

func (s *source) bytes() []byte {
	return s.buf.Bytes()
}
