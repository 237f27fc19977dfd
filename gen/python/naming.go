package python

import (
	"strings"
	"unicode"

	"github.com/tree-gen/tree-gen/model"
)

// className is the Python class name for a node type. .tree type names
// are already PascalCase (spec §4.3 grammar), which is also Python's
// class-naming convention, so no conversion is needed.
func className(n *model.NodeType) string { return n.Name }

// baseClassName is the Python base class an abstract node type's concrete
// descendants (and nested abstract descendants) inherit from, e.g. "Expr"
// -> "ExprNode" — mirroring gen/golang's interfaceName so the two
// emitters name the same conceptual thing the same way.
func baseClassName(n *model.NodeType) string { return n.Name + "Node" }

// parentClassName is what a node type's Python class extends: its
// parent's base class, or "TreeNode" (the module's common root) if it has
// no .tree-declared parent.
func parentClassName(n *model.NodeType) string {
	if n.Parent == nil {
		return "TreeNode"
	}
	return baseClassName(n.Parent)
}

// fieldPyName converts a .tree field name (lowerCamelCase by convention)
// to snake_case, idiomatic for a Python attribute.
func fieldPyName(f *model.Field) string { return camelToSnake(f.Name) }

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// visitMethodName is the visitor method a Python visitor object may
// implement for node type n, e.g. "Add" -> "visit_add".
func visitMethodName(n *model.NodeType) string { return "visit_" + camelToSnake(n.Name) }

// enumClassName is the Python class generated for a declared enum.
func enumClassName(e *model.Enumeration) string { return e.Name }

// enumMemberName is the Python enum member for one variant, upper-cased
// per PEP 8 (enum members are constants), e.g. "Plus" -> "PLUS".
func enumMemberName(c model.EnumConstant) string { return strings.ToUpper(camelToSnake(c.Name)) }

// kindMemberName is the Kind enum member for a concrete node type, e.g.
// "Add" -> "ADD".
func kindMemberName(n *model.NodeType) string { return strings.ToUpper(camelToSnake(n.Name)) }

// wellKnownPrimitives mirrors gen/golang's table of the same name: the
// primitive names tree-gen's own fixtures declare, each with a CBOR
// encoding this emitter knows how to produce. A primitive outside this
// set has no Python-side CBOR representation tree-gen can generate
// without guessing a calling convention for a user-supplied serializer.
var wellKnownPrimitives = map[string]bool{
	"Int":    true,
	"Int32":  true,
	"UInt":   true,
	"Float":  true,
	"Double": true,
	"Bool":   true,
	"String": true,
	"Bytes":  true,
}

// pyDefault renders a field's declared default (a raw .tree literal
// token, syntactically Go-flavored: "true"/"false", bare numerics, or a
// double-quoted string) as the equivalent Python literal.
func pyDefault(f *model.Field) string {
	switch f.Default {
	case "true":
		return "True"
	case "false":
		return "False"
	default:
		return f.Default
	}
}
