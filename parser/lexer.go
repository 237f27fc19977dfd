package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tree-gen/tree-gen/ast"
	"github.com/tree-gen/tree-gen/reporter"
)

// runeReader is a byte-slice-backed rune scanner with a mark/unread
// discipline, adapted from bufbuild-protocompile's parser.runeReader: a
// lexer for a hand-rolled recursive-descent grammar has the exact same
// "read one rune at a time, sometimes need to push one back, sometimes
// need the exact text since the last mark" requirements regardless of the
// language being lexed.
type runeReader struct {
	data []byte
	pos  int
	mark int
}

func (rr *runeReader) readRune() (r rune, size int, err error) {
	if rr.pos >= len(rr.data) {
		return 0, 0, io.EOF
	}
	r, sz := utf8.DecodeRune(rr.data[rr.pos:])
	if r == utf8.RuneError && sz <= 1 {
		return 0, 0, fmt.Errorf("invalid UTF-8 at offset %d", rr.pos)
	}
	rr.pos += sz
	return r, sz, nil
}

func (rr *runeReader) unreadRune(sz int) {
	newPos := rr.pos - sz
	if newPos < rr.mark {
		panic("unread past mark")
	}
	rr.pos = newPos
}

func (rr *runeReader) peekByte() (byte, bool) {
	if rr.pos >= len(rr.data) {
		return 0, false
	}
	return rr.data[rr.pos], true
}

func (rr *runeReader) setMark() { rr.mark = rr.pos }
func (rr *runeReader) marked() string {
	return string(rr.data[rr.mark:rr.pos])
}

const sigils = "{}()[]<>,;=*?|!:"

// Lexer turns .tree source bytes into a Token stream.
type Lexer struct {
	input   *runeReader
	info    *ast.FileInfo
	handler *reporter.Handler

	pendingComments []string // raw text of comments since the last non-comment token
}

// NewLexer constructs a Lexer over the full contents of a file.
func NewLexer(filename string, contents []byte, handler *reporter.Handler) *Lexer {
	return &Lexer{
		input:   &runeReader{data: contents},
		info:    ast.NewFileInfo(filename, contents),
		handler: handler,
	}
}

// FileInfo exposes the position tracker being built up as this lexer scans.
func (l *Lexer) FileInfo() *ast.FileInfo { return l.info }

func (l *Lexer) maybeNewLine(r rune) {
	if r == '\n' {
		l.info.AddLine(l.input.pos)
	}
}

func (l *Lexer) posAt(offset int) ast.SourcePos {
	return l.info.SourcePos(offset)
}

// TakeDocComment returns and clears the doc-comment text accumulated
// immediately before the most recently lexed token (used by the parser
// right after calling Next() for a declaration's leading name token).
func (l *Lexer) TakeDocComment() string {
	if len(l.pendingComments) == 0 {
		return ""
	}
	doc := strings.Join(l.pendingComments, "\n")
	l.pendingComments = nil
	return doc
}

// Next scans and returns the next token, or a TokEOF token at end of input.
// Lex/parse errors are reported through the Lexer's Handler and also
// returned directly so the parser can unwind immediately (spec §4.4:
// first-error-wins, no partial model).
func (l *Lexer) Next() (Token, error) {
	l.pendingComments = nil
	for {
		l.input.setMark()
		startOffset := l.input.pos
		c, _, err := l.input.readRune()
		if err == io.EOF {
			return Token{Kind: TokEOF, Pos: l.posAt(startOffset)}, nil
		}
		if err != nil {
			return Token{}, l.fail(startOffset, err.Error())
		}

		switch {
		case strings.ContainsRune(" \t\r\n\f\v", c):
			l.maybeNewLine(c)
			continue

		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			l.readIdentTail()
			text := l.input.marked()
			return Token{Kind: TokIdent, Text: text, Pos: l.posAt(startOffset)}, nil

		case c >= '0' && c <= '9':
			l.readDigits()
			text := l.input.marked()
			n, perr := strconv.ParseInt(text, 0, 64)
			if perr != nil {
				return Token{}, l.fail(startOffset, fmt.Sprintf("invalid integer literal %q", text))
			}
			return Token{Kind: TokInt, Text: text, Int: n, Pos: l.posAt(startOffset)}, nil

		case c == '"':
			str, err := l.readStringLiteral()
			if err != nil {
				return Token{}, l.fail(startOffset, err.Error())
			}
			return Token{Kind: TokString, Text: str, Pos: l.posAt(startOffset)}, nil

		case c == '/':
			if b, ok := l.input.peekByte(); ok && b == '/' {
				l.skipLineComment()
				continue
			}
			if b, ok := l.input.peekByte(); ok && b == '*' {
				if err := l.skipBlockComment(); err != nil {
					return Token{}, l.fail(startOffset, err.Error())
				}
				continue
			}
			return Token{}, l.fail(startOffset, "unexpected character '/'")

		case strings.ContainsRune(sigils, c):
			return Token{Kind: TokSigil, Text: string(c), Pos: l.posAt(startOffset)}, nil

		default:
			return Token{}, l.fail(startOffset, fmt.Sprintf("unexpected character %q", c))
		}
	}
}

func (l *Lexer) readIdentTail() {
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			return
		}
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			l.input.unreadRune(sz)
			return
		}
	}
}

func (l *Lexer) readDigits() {
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			return
		}
		if (c < '0' || c > '9') && c != 'x' && c != 'X' &&
			!(c >= 'a' && c <= 'f') && !(c >= 'A' && c <= 'F') {
			l.input.unreadRune(sz)
			return
		}
	}
}

func (l *Lexer) readStringLiteral() (string, error) {
	var buf strings.Builder
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			return "", fmt.Errorf("unterminated string literal")
		}
		if c == '"' {
			return buf.String(), nil
		}
		if c == '\n' {
			return "", fmt.Errorf("end of line before closing quote in string literal")
		}
		if c == '\\' {
			esc, _, err := l.input.readRune()
			if err != nil {
				return "", fmt.Errorf("unterminated escape sequence")
			}
			switch esc {
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			case '\\':
				buf.WriteByte('\\')
			case '"':
				buf.WriteByte('"')
			default:
				return "", fmt.Errorf("invalid escape sequence \\%c", esc)
			}
			continue
		}
		buf.WriteRune(c)
	}
}

func (l *Lexer) skipLineComment() {
	_, _, _ = l.input.readRune() // consume second '/'
	start := l.input.pos
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			break
		}
		if c == '\n' {
			l.info.AddLine(l.input.pos)
			break
		}
	}
	end := l.input.pos
	text := strings.TrimRight(string(l.input.data[start:end]), "\n\r")
	l.pendingComments = append(l.pendingComments, strings.TrimSpace(text))
}

func (l *Lexer) skipBlockComment() error {
	_, _, _ = l.input.readRune() // consume '*'
	start := l.input.pos
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			return fmt.Errorf("block comment never terminates, unexpected end of file")
		}
		l.maybeNewLine(c)
		if c == '*' {
			if b, ok := l.input.peekByte(); ok && b == '/' {
				_, _, _ = l.input.readRune()
				end := l.input.pos - 2
				l.pendingComments = append(l.pendingComments, strings.TrimSpace(string(l.input.data[start:end])))
				return nil
			}
		}
	}
}

func (l *Lexer) fail(offset int, msg string) error {
	err := reporter.Error(l.posAt(offset), fmt.Errorf("%s", msg))
	return l.handler.HandleError(err)
}
