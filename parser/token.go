package parser

import "github.com/tree-gen/tree-gen/ast"

// TokenKind classifies a single lexed token. The tree-description grammar
// has no reserved words (spec §4.3: "header directives and edge markers
// are keyword-like identifiers") — the parser recognizes directives and
// edge-kind markers by the text of an Ident token, contextually.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokInt
	TokString
	TokSigil
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of file"
	case TokIdent:
		return "identifier"
	case TokInt:
		return "integer literal"
	case TokString:
		return "string literal"
	case TokSigil:
		return "punctuation"
	default:
		return "unknown token"
	}
}

// Token is a single lexeme together with its source span and, for
// TokIdent/TokInt/TokString, its decoded value.
type Token struct {
	Kind TokenKind
	Text string // raw lexeme, e.g. "42", "\"abc\"" decoded to "abc" for strings
	Int  int64
	Pos  ast.SourcePos
}
