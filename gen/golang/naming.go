package golang

import (
	"strings"
	"unicode"

	"github.com/tree-gen/tree-gen/model"
)

// exportName capitalizes name's first rune so it can be used as an
// exported Go identifier. Node-type and enum names are already
// conventionally capitalized in a .tree file; field names are not.
func exportName(name string) string {
	if name == "" {
		return name
	}
	r := []rune(name)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// fieldGoName is the exported Go struct field name for a declared field.
func fieldGoName(f *model.Field) string { return exportName(f.Name) }

// interfaceName is the Go interface name generated for an abstract node
// type, e.g. "Expr" -> "ExprNode". Concrete types never get one since
// nothing needs to reference "the interface implemented by exactly one
// struct".
func interfaceName(n *model.NodeType) string { return n.Name + "Node" }

// fieldTypeName is the field's Go storage type: the target node type's Go
// name (interface or struct, pointer for owning/Link edges, slice of
// pointer for Any/Many), or the mapped Go primitive type.
func fieldTypeName(f *model.Field) string {
	switch f.Edge {
	case model.EdgeMaybe, model.EdgeOne, model.EdgeLink:
		return singleNodeFieldType(f.Type.Node)
	case model.EdgeAny, model.EdgeMany:
		return "[]" + singleNodeFieldType(f.Type.Node)
	default:
		if f.Type.IsEnum() {
			return enumGoName(f.Type.Enum)
		}
		return primitiveGoType(f.Type.Primitive)
	}
}

// enumGoName is the Go type generated for a declared enum, e.g. "Op" ->
// "Op" (enums don't collide with node-type names; invariant, spec §3).
func enumGoName(e *model.Enumeration) string { return e.Name }

// enumConstName is the Go constant for one variant of an enum, qualified
// with the enum's own name to avoid collisions between enums that share a
// variant name, e.g. enum "Op" variant "Plus" -> "OpPlus".
func enumConstName(e *model.Enumeration, c model.EnumConstant) string {
	return e.Name + exportName(c.Name)
}

// singleNodeFieldType is the Go type that stores a single value of node
// type n in a field: a pointer to the struct for a concrete type (the
// struct itself carries no dynamic-dispatch machinery), or the bare
// interface name for an abstract type (interface values are already
// reference-like, so no leading "*").
func singleNodeFieldType(n *model.NodeType) string {
	if n.Abstract() {
		return interfaceName(n)
	}
	return "*" + n.Name
}

// nodeGoName is the Go type a field typed One<T>/Maybe<T>/etc. stores a
// pointer or interface value of: the struct name for a concrete T, the
// generated interface name for an abstract T.
func nodeGoName(n *model.NodeType) string {
	if n.Abstract() {
		return interfaceName(n)
	}
	return n.Name
}

// wellKnownPrimitives maps the primitive names tree-gen's own test
// fixtures and SPEC_FULL.md examples declare to a concrete Go type. A
// primitive whose name isn't one of these is assumed to name a type the
// header's include path brings into scope verbatim (spec §3 "External T
// ... T is a user-provided primitive whose include path ... is supplied
// in the .tree header").
var wellKnownPrimitives = map[string]string{
	"Int":    "int64",
	"Int32":  "int32",
	"UInt":   "uint64",
	"Float":  "float64",
	"Double": "float64",
	"Bool":   "bool",
	"String": "string",
	"Bytes":  "[]byte",
}

func primitiveGoType(p *model.Primitive) string {
	if t, ok := wellKnownPrimitives[p.Name]; ok {
		return t
	}
	return p.Name
}

// ctorParamName avoids shadowing a Go builtin or keyword with a
// constructor parameter derived from a field name.
func ctorParamName(f *model.Field) string {
	name := strings.ToLower(f.Name[:1]) + f.Name[1:]
	switch name {
	case "type", "range", "len", "cap", "copy", "new", "make":
		return name + "Val"
	default:
		return name
	}
}

// kindConstName is the Kind enum constant for a concrete node type, e.g.
// "Add" -> "KindAdd".
func kindConstName(n *model.NodeType) string { return "Kind" + n.Name }

// visitMethodName is the Visitor interface method name for a node type,
// concrete or abstract: "Add" -> "VisitAdd".
func visitMethodName(n *model.NodeType) string { return "Visit" + n.Name }

// markerMethodName is the unexported marker method a concrete type
// implements once per ancestor interface it must satisfy.
func markerMethodName(n *model.NodeType) string {
	return "is" + n.Name + "Node"
}
