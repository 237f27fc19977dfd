package ast

import (
	"fmt"
	"sort"

	"github.com/rivo/uniseg"
)

// FileInfo tracks line boundaries for a single .tree source file so that
// byte offsets recorded during lexing can be turned into 1-based
// line/column SourcePos values on demand.
//
// A lexer accumulates line offsets as it scans; tree-gen's grammar is
// simple enough that, unlike a full proto AST, no comment-to-token
// attribution bookkeeping is needed here — doc comments are captured
// directly by the parser as the text immediately preceding a declaration.
type FileInfo struct {
	name  string
	data  []byte
	lines []int // lines[i] = byte offset of the first character of line i (0-based)
}

// NewFileInfo creates file position tracking for the named source, whose
// full contents are data.
func NewFileInfo(filename string, data []byte) *FileInfo {
	return &FileInfo{name: filename, data: data, lines: []int{0}}
}

// Name returns the file name as given to NewFileInfo.
func (f *FileInfo) Name() string {
	return f.name
}

// AddLine records the offset at which a new line begins. Offsets must be
// added in strictly increasing order.
func (f *FileInfo) AddLine(offset int) {
	if offset < 0 || offset > len(f.data) {
		panic(fmt.Sprintf("invalid line offset %d for file of length %d", offset, len(f.data)))
	}
	if last := f.lines[len(f.lines)-1]; offset <= last {
		panic(fmt.Sprintf("line offset %d is not greater than previous offset %d", offset, last))
	}
	f.lines = append(f.lines, offset)
}

// SourcePos converts a byte offset into a 1-based line/column position.
// Column width accounts for wide and multi-byte runes using uniseg, the
// same library used elsewhere in this corpus for terminal-column accurate
// diagnostics.
func (f *FileInfo) SourcePos(offset int) SourcePos {
	line := sort.Search(len(f.lines), func(i int) bool {
		return f.lines[i] > offset
	}) - 1
	if line < 0 {
		line = 0
	}
	lineStart := f.lines[line]
	col := uniseg.StringWidth(string(f.data[lineStart:offset])) + 1
	return SourcePos{
		Filename: f.name,
		Line:     line + 1,
		Col:      col,
		Offset:   offset,
	}
}

// SourcePos identifies a single location in a .tree source file.
type SourcePos struct {
	Filename  string
	Line, Col int
	Offset    int
}

func (pos SourcePos) String() string {
	if pos.Line <= 0 || pos.Col <= 0 {
		return pos.Filename
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Col)
}

// UnknownPos is used when no meaningful position is available, e.g. for
// synthetic nodes created outside of parsing.
func UnknownPos(filename string) SourcePos {
	return SourcePos{Filename: filename}
}

// Span marks the start and end of some construct within a source file, for
// error reporting.
type Span struct {
	Start, End SourcePos
}
