package model

import (
	"github.com/tidwall/btree"

	"github.com/tree-gen/tree-gen/ast"
)

// EdgeKind is one of the six edge kinds a Field may have (spec §3).
type EdgeKind int

const (
	EdgeMaybe EdgeKind = iota
	EdgeOne
	EdgeAny
	EdgeMany
	EdgeLink
	EdgeExternal
	EdgePrim // a bare reference to a declared primitive, stored by value
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeMaybe:
		return "Maybe"
	case EdgeOne:
		return "One"
	case EdgeAny:
		return "Any"
	case EdgeMany:
		return "Many"
	case EdgeLink:
		return "Link"
	case EdgeExternal:
		return "External"
	case EdgePrim:
		return "prim"
	default:
		return "unknown"
	}
}

// Owning reports whether edges of this kind own the lifetime of their
// target (spec GLOSSARY "Owning edge").
func (k EdgeKind) Owning() bool {
	switch k {
	case EdgeMaybe, EdgeOne, EdgeAny, EdgeMany:
		return true
	default:
		return false
	}
}

// Plural reports whether the edge holds an ordered sequence of targets.
func (k EdgeKind) Plural() bool {
	return k == EdgeAny || k == EdgeMany
}

// TypeRef resolves a field's or type-expression's referenced type, once
// resolution (pass 2, link.go) has run.
type TypeRef struct {
	Name      string
	Node      *NodeType    // non-nil if this resolved to a declared node type
	Primitive *Primitive   // non-nil if this resolved to a declared primitive
	Enum      *Enumeration // non-nil if this resolved to a declared enum
	Pos       ast.SourcePos
}

// IsNode reports whether the reference resolved to a node type.
func (r TypeRef) IsNode() bool { return r.Node != nil }

// IsEnum reports whether the reference resolved to a declared enum.
func (r TypeRef) IsEnum() bool { return r.Enum != nil }

// ExtOps mirrors ast.ExtOps once resolved onto a Field.
type ExtOps = ast.ExtOps

// Field is a single typed slot on a NodeType (spec §3).
type Field struct {
	Name       string
	Doc        string
	Edge       EdgeKind
	Type       TypeRef
	ExtOps     ExtOps
	Default    string
	HasDefault bool
	Pos        ast.SourcePos

	Owner *NodeType // the NodeType that declares this field
}

// NodeType is one declared kind of tree element (spec §3).
type NodeType struct {
	Name   string
	Doc    string
	Pos    ast.SourcePos
	Parent *NodeType // nil if no explicit parent

	OwnFields []*Field // fields declared directly on this type, in declaration order

	Children []*NodeType // direct children, populated during resolution
	IsRoot   bool
	IsError  bool

	// DiscriminatorNumber is assigned to concrete types only, starting at 1,
	// in declaration order (spec §4.5).
	DiscriminatorNumber int
}

// Abstract reports whether this type has at least one child (spec §3: "A
// Node type is abstract iff it has children").
func (n *NodeType) Abstract() bool { return len(n.Children) > 0 }

// Concrete is the complement of Abstract; concrete types are instantiable.
func (n *NodeType) Concrete() bool { return !n.Abstract() }

// Ancestors returns this type's parent chain, nearest first, not including
// itself.
func (n *NodeType) Ancestors() []*NodeType {
	var out []*NodeType
	for p := n.Parent; p != nil; p = p.Parent {
		out = append(out, p)
	}
	return out
}

// AllFields returns every field visible on this type: its own fields
// followed by its ancestors' own fields, nearest ancestor first.
func (n *NodeType) AllFields() []*Field {
	fields := append([]*Field(nil), n.OwnFields...)
	for _, a := range n.Ancestors() {
		fields = append(fields, a.OwnFields...)
	}
	return fields
}

// IsOrDescendsFrom reports whether n is other or a (transitive) child of
// other, i.e. whether n.is_<other.Name>() would be true in generated code.
func (n *NodeType) IsOrDescendsFrom(other *NodeType) bool {
	for t := n; t != nil; t = t.Parent {
		if t == other {
			return true
		}
	}
	return false
}

// Primitive is a non-node value type declared in the file header.
type Primitive struct {
	Name        string
	Pos         ast.SourcePos
	Include     string
	Default     string
	Serialize   string
	Deserialize string
	Serdes      string
}

// Enumeration is a finite ordered set of named constants (spec §3).
type Enumeration struct {
	Name     string
	Doc      string
	Pos      ast.SourcePos
	Variants []EnumConstant
}

// EnumConstant is one value of an Enumeration. Ordinal is its 0-based
// position, which is also its CBOR wire encoding (spec §6).
type EnumConstant struct {
	Name    string
	Pos     ast.SourcePos
	Ordinal int
}

// Header carries the file-scoped declarations from spec §3 "Source file
// header".
type Header struct {
	Namespace       string
	IncludeHeader   []string
	IncludeSource   []string
	SourceLocation  string
	Features        map[string]bool
	RequiresVersion string
}

// FeatureEnabled reports whether the named optional feature (spec §3 "flags
// enabling optional features") is turned on. Unknown/undeclared features
// default to off.
func (h *Header) FeatureEnabled(name string) bool {
	if h == nil || h.Features == nil {
		return false
	}
	return h.Features[name]
}

// Model is the validated, read-only Tree Model produced by Build (spec
// §3 "Lifecycle").
type Model struct {
	Header *Header

	// NodeTypes is keyed and ordered by name, backed by an ordered
	// btree.Map the way bufbuild-protocompile's own internal/interval.Map
	// wraps tidwall/btree for a deterministic symbol table. Declaration
	// order, which feeds DiscriminatorNumber assignment, is kept
	// separately in NodeOrder.
	NodeTypes *btree.Map[string, *NodeType]
	NodeOrder []*NodeType // declaration order, concrete and abstract alike

	Enums     *btree.Map[string, *Enumeration]
	EnumOrder []*Enumeration // declaration order

	Primitives *btree.Map[string, *Primitive]

	Root *NodeType // nil if no type was marked `root`
}

// ConcreteTypes returns every concrete node type in declaration order.
func (m *Model) ConcreteTypes() []*NodeType {
	var out []*NodeType
	for _, n := range m.NodeOrder {
		if n.Concrete() {
			out = append(out, n)
		}
	}
	return out
}
