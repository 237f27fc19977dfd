package parser

import (
	"fmt"

	"github.com/tree-gen/tree-gen/ast"
	"github.com/tree-gen/tree-gen/reporter"
)

// Parser consumes a token stream from a Lexer and builds a raw
// *ast.FileNode, per the grammar in spec §4.3 (reproduced in SPEC_FULL.md).
type Parser struct {
	lex     *Lexer
	handler *reporter.Handler

	cur  Token
	have bool
}

// Parse lexes and parses filename/contents into a raw AST. The returned
// error is always a reporter.ErrorWithPos (or nil).
func Parse(filename string, contents []byte, handler *reporter.Handler) (*ast.FileNode, error) {
	p := &Parser{lex: NewLexer(filename, contents, handler), handler: handler}
	file, err := p.parseFile()
	if err != nil {
		return nil, err
	}
	if err := handler.Error(); err != nil {
		return nil, err
	}
	return file, nil
}

func (p *Parser) peek() (Token, error) {
	if !p.have {
		tok, err := p.lex.Next()
		if err != nil {
			return Token{}, err
		}
		p.cur = tok
		p.have = true
	}
	return p.cur, nil
}

func (p *Parser) next() (Token, error) {
	tok, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	p.have = false
	return tok, nil
}

func (p *Parser) expectSigil(s string) (Token, error) {
	tok, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != TokSigil || tok.Text != s {
		return Token{}, p.errorf(tok, "expected %q but found %s", s, describe(tok))
	}
	return tok, nil
}

func (p *Parser) expectIdent() (Token, error) {
	tok, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != TokIdent {
		return Token{}, p.errorf(tok, "expected an identifier but found %s", describe(tok))
	}
	return tok, nil
}

func (p *Parser) expectString() (Token, error) {
	tok, err := p.next()
	if err != nil {
		return Token{}, err
	}
	if tok.Kind != TokString {
		return Token{}, p.errorf(tok, "expected a string literal but found %s", describe(tok))
	}
	return tok, nil
}

func (p *Parser) peekIsSigil(s string) bool {
	tok, err := p.peek()
	return err == nil && tok.Kind == TokSigil && tok.Text == s
}

func (p *Parser) peekIsIdent(s string) bool {
	tok, err := p.peek()
	return err == nil && tok.Kind == TokIdent && tok.Text == s
}

func describe(tok Token) string {
	if tok.Kind == TokEOF {
		return "end of file"
	}
	return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
}

// ---- grammar ----

func (p *Parser) parseFile() (*ast.FileNode, error) {
	file := &ast.FileNode{}

	for p.peekIsIdent("namespace") || p.peekIsIdent("include") || p.peekIsIdent("primitive") ||
		p.peekIsIdent("source_location") || p.peekIsIdent("feature") || p.peekIsIdent("requires") {
		if file.Header == nil {
			file.Header = &ast.HeaderNode{Features: map[string]bool{}}
		}
		if err := p.parseHeaderDirective(file.Header); err != nil {
			return nil, err
		}
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokEOF {
			break
		}
		if tok.Kind != TokIdent {
			return nil, p.errorf(tok, "expected 'enum' or a node-type declaration but found %s", describe(tok))
		}
		if tok.Text == "enum" {
			e, err := p.parseEnumDecl()
			if err != nil {
				return nil, err
			}
			file.Enums = append(file.Enums, e)
			continue
		}
		n, err := p.parseNodeDecl()
		if err != nil {
			return nil, err
		}
		file.Nodes = append(file.Nodes, n)
	}

	return file, nil
}

func (p *Parser) parseHeaderDirective(h *ast.HeaderNode) error {
	kw, err := p.next()
	if err != nil {
		return err
	}
	switch kw.Text {
	case "namespace":
		name, err := p.parseQualifiedIdent()
		if err != nil {
			return err
		}
		h.Namespace = name
		h.NamespaceSpan = ast.Span{Start: kw.Pos}
		return p.expectSemi()

	case "include":
		which, err := p.expectIdent()
		if err != nil {
			return err
		}
		if which.Text != "header" && which.Text != "source" {
			return p.errorf(which, "expected 'header' or 'source' after 'include'")
		}
		path, err := p.expectString()
		if err != nil {
			return err
		}
		if which.Text == "header" {
			h.IncludeHeader = append(h.IncludeHeader, path.Text)
		} else {
			h.IncludeSource = append(h.IncludeSource, path.Text)
		}
		return p.expectSemi()

	case "primitive":
		return p.parsePrimitiveDecl(h)

	case "source_location":
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		h.SourceLocation = name.Text
		return p.expectSemi()

	case "feature":
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		state, err := p.expectIdent()
		if err != nil {
			return err
		}
		if state.Text != "on" && state.Text != "off" {
			return p.errorf(state, "expected 'on' or 'off' for feature state")
		}
		h.Features[name.Text] = state.Text == "on"
		return p.expectSemi()

	case "requires":
		ver, err := p.expectString()
		if err != nil {
			return err
		}
		h.RequiresVersion = ver.Text
		h.RequiresVerSpan = ast.Span{Start: kw.Pos}
		return p.expectSemi()
	}
	return p.errorf(kw, "unknown header directive %q", kw.Text)
}

func (p *Parser) parsePrimitiveDecl(h *ast.HeaderNode) error {
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	decl := &ast.PrimitiveDecl{Name: name.Text, Span: ast.Span{Start: name.Pos}}
	if _, err := p.expectSigil("{"); err != nil {
		return err
	}
	for !p.peekIsSigil("}") {
		key, err := p.expectIdent()
		if err != nil {
			return err
		}
		if _, err := p.expectSigil("="); err != nil {
			return err
		}
		val, err := p.expectString()
		if err != nil {
			return err
		}
		switch key.Text {
		case "include":
			decl.Include = val.Text
		case "default":
			decl.Default = val.Text
		case "serialize":
			decl.Serialize = val.Text
		case "deserialize":
			decl.Deserialize = val.Text
		case "serdes":
			decl.Serdes = val.Text
		default:
			return p.errorf(key, "unknown primitive field %q", key.Text)
		}
		if err := p.expectSemi(); err != nil {
			return err
		}
	}
	if _, err := p.expectSigil("}"); err != nil {
		return err
	}
	h.Primitives = append(h.Primitives, decl)
	return nil
}

func (p *Parser) parseQualifiedIdent() (string, error) {
	first, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	name := first.Text
	for p.peekIsSigil(":") {
		if _, err := p.expectSigil(":"); err != nil {
			return "", err
		}
		if _, err := p.expectSigil(":"); err != nil {
			return "", err
		}
		part, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		name += "::" + part.Text
	}
	return name, nil
}

func (p *Parser) expectSemi() error {
	_, err := p.expectSigil(";")
	return err
}

func (p *Parser) parseEnumDecl() (*ast.EnumDecl, error) {
	if _, err := p.next(); err != nil { // 'enum'
		return nil, err
	}
	doc := p.lex.TakeDocComment()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	e := &ast.EnumDecl{Name: name.Text, Span: ast.NamePos{Name: name.Text, Pos: name.Pos}, Doc: doc}
	if _, err := p.expectSigil("{"); err != nil {
		return nil, err
	}
	for !p.peekIsSigil("}") {
		vname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		e.Variants = append(e.Variants, ast.EnumVariant{Name: vname.Text, Span: ast.NamePos{Name: vname.Text, Pos: vname.Pos}})
		if p.peekIsSigil(",") {
			if _, err := p.next(); err != nil {
				return nil, err
			}
		} else {
			break
		}
	}
	if _, err := p.expectSigil("}"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) parseNodeDecl() (*ast.NodeDecl, error) {
	doc := p.lex.TakeDocComment()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	n := &ast.NodeDecl{Name: name.Text, Span: ast.NamePos{Name: name.Text, Pos: name.Pos}, Doc: doc}

	if p.peekIsSigil(":") {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		parent, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		n.Parent = parent.Text
		n.ParentSpan = ast.NamePos{Name: parent.Text, Pos: parent.Pos}
	}

	for p.peekIsIdent("root") || p.peekIsIdent("error") {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Text == "root" {
			n.IsRoot = true
		} else {
			n.IsError = true
		}
	}

	if _, err := p.expectSigil("{"); err != nil {
		return nil, err
	}
	for !p.peekIsSigil("}") {
		f, err := p.parseFieldDecl()
		if err != nil {
			return nil, err
		}
		n.Fields = append(n.Fields, f)
	}
	if _, err := p.expectSigil("}"); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseFieldDecl() (*ast.FieldDecl, error) {
	doc := p.lex.TakeDocComment()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectSigil(":"); err != nil {
		return nil, err
	}
	typeExpr, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	f := &ast.FieldDecl{Name: name.Text, Span: ast.NamePos{Name: name.Text, Pos: name.Pos}, Doc: doc, Type: typeExpr}

	if p.peekIsSigil("[") {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		for !p.peekIsSigil("]") {
			tok, err := p.next()
			if err != nil {
				return nil, err
			}
			switch tok.Text {
			case "!":
				f.ExtOps.Equality = true
			case "*":
				f.ExtOps.Star = true
			case "|":
				f.ExtOps.Pipe = true
			default:
				return nil, p.errorf(tok, "unknown field operator %q", tok.Text)
			}
		}
		if _, err := p.expectSigil("]"); err != nil {
			return nil, err
		}
	}

	if p.peekIsSigil("=") {
		if _, err := p.next(); err != nil {
			return nil, err
		}
		defTok, err := p.next()
		if err != nil {
			return nil, err
		}
		f.Default = defTok.Text
		if defTok.Kind == TokString {
			f.Default = fmt.Sprintf("%q", defTok.Text)
		}
		f.HasDefault = true
	}

	if err := p.expectSemi(); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *Parser) parseTypeExpr() (ast.TypeExpr, error) {
	start, err := p.expectIdent()
	if err != nil {
		return ast.TypeExpr{}, err
	}

	switch ast.EdgeKeyword(start.Text) {
	case ast.KeywordMaybe, ast.KeywordOne, ast.KeywordAny, ast.KeywordMany, ast.KeywordLink, ast.KeywordExternal:
		if _, err := p.expectSigil("<"); err != nil {
			return ast.TypeExpr{}, err
		}
		name, err := p.expectIdent()
		if err != nil {
			return ast.TypeExpr{}, err
		}
		if _, err := p.expectSigil(">"); err != nil {
			return ast.TypeExpr{}, err
		}
		return ast.TypeExpr{
			Edge:     ast.EdgeKeyword(start.Text),
			Name:     name.Text,
			NameSpan: ast.NamePos{Name: name.Text, Pos: name.Pos},
			Span:     ast.Span{Start: start.Pos, End: name.Pos},
		}, nil
	default:
		return ast.TypeExpr{
			Name:     start.Text,
			NameSpan: ast.NamePos{Name: start.Text, Pos: start.Pos},
			Span:     ast.Span{Start: start.Pos, End: start.Pos},
		}, nil
	}
}
