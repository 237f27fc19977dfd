package ast

// EdgeKeyword names one of the edge-kind keywords recognized in a field's
// TypeExpr (spec §3, §4.3).
type EdgeKeyword string

const (
	KeywordMaybe    EdgeKeyword = "Maybe"
	KeywordOne      EdgeKeyword = "One"
	KeywordAny      EdgeKeyword = "Any"
	KeywordMany     EdgeKeyword = "Many"
	KeywordLink     EdgeKeyword = "Link"
	KeywordExternal EdgeKeyword = "External"
)

// FileNode is the root of a parsed .tree file.
type FileNode struct {
	Header *HeaderNode
	Enums  []*EnumDecl
	Nodes  []*NodeDecl
}

// HeaderNode collects every global directive that may precede the
// declarations in a .tree file (spec §3 "Source file header").
type HeaderNode struct {
	Namespace        string
	NamespaceSpan    Span
	IncludeHeader    []string
	IncludeSource    []string
	Primitives       []*PrimitiveDecl
	SourceLocation   string // name of the tracker type, "" if not declared
	Features         map[string]bool
	RequiresVersion  string // raw semver constraint string from a "requires" directive
	RequiresVerSpan  Span
}

// PrimitiveDecl declares a primitive type in the file header.
type PrimitiveDecl struct {
	Name         string
	Span         Span
	Include      string
	Default      string
	Serialize    string
	Deserialize  string
	Serdes       string
}

// EnumDecl is a `enum Name { A, B, C }` declaration.
type EnumDecl struct {
	Name     string
	Span     NamePos
	Doc      string
	Variants []EnumVariant
}

// EnumVariant is one constant inside an EnumDecl.
type EnumVariant struct {
	Name string
	Span NamePos
}

// NodeDecl is a single node-type declaration.
type NodeDecl struct {
	Name       string
	Span       NamePos
	Doc        string
	Parent     string // "" if no explicit parent
	ParentSpan NamePos
	IsRoot     bool
	IsError    bool
	Fields     []*FieldDecl
}

// FieldDecl is a single `name: TypeExpr [ops] = default;` field.
type FieldDecl struct {
	Name       string
	Span       NamePos
	Doc        string
	Type       TypeExpr
	ExtOps     ExtOps
	Default    string // raw default-value expression, only meaningful for "prim" fields
	HasDefault bool
}

// TypeExpr is the parsed form of a field's type expression, e.g.
// `One<Expr>` or a bare primitive/node name.
type TypeExpr struct {
	Edge       EdgeKeyword // "" for a bare name (primitive or direct node reference)
	Name       string      // the referenced node-type or primitive name
	NameSpan   NamePos
	Span       Span
}

// ExtOps is the set of operator overloadings requested via `[...]` after a
// field's type expression (spec §3 "ExtOp flags").
type ExtOps struct {
	Equality bool // '!' => generate operator==/operator!=
	Star     bool // '*' reserved for future overload requests
	Pipe     bool // '|' reserved for future overload requests
}

// NamePos pairs an identifier with its source location.
type NamePos struct {
	Name string
	Pos  SourcePos
}
