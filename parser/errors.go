package parser

import (
	"fmt"

	"github.com/tree-gen/tree-gen/ast"
	"github.com/tree-gen/tree-gen/reporter"
)

// SyntaxError is a located parse error that additionally records the
// offending lexeme, per spec §4.3 ("Parser errors carry a 1-based line and
// column from the lexer, a human message, and the offending token
// lexeme").
type SyntaxError struct {
	Pos     ast.SourcePos
	Message string
	Lexeme  string
}

func (e *SyntaxError) Error() string {
	if e.Lexeme == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s (near %q)", e.Pos, e.Message, e.Lexeme)
}

func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	se := &SyntaxError{Pos: tok.Pos, Message: msg, Lexeme: tok.Text}
	return p.handler.HandleError(reporter.Error(tok.Pos, se))
}
