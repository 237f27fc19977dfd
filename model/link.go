package model

import "github.com/tree-gen/tree-gen/ast"

// link is resolution pass 2 (spec §4.4): resolve every parent reference,
// field TypeRef, and primitive reference to its declaration (invariants 2
// and 4), and populate each node's Children set from the union of its
// descendants' parent links.
func (b *Builder) link() error {
	// Parents first, since field resolution needs Ancestors() for the
	// shadowing check in validate(), and discriminator numbering (below)
	// assumes parents are already wired.
	for _, n := range b.file.Nodes {
		if n.Parent == "" {
			continue
		}
		parent, ok := b.model.NodeTypes.Get(n.Parent)
		if !ok {
			return b.fail(n.ParentSpan.Pos, "unknown type %q referenced as parent of %q", n.Parent, n.Name)
		}
		nt, _ := b.model.NodeTypes.Get(n.Name)
		nt.Parent = parent
		parent.Children = append(parent.Children, nt)
	}

	for _, n := range b.file.Nodes {
		nt, _ := b.model.NodeTypes.Get(n.Name)
		for _, fd := range n.Fields {
			field, err := b.resolveField(nt, fd)
			if err != nil {
				return err
			}
			nt.OwnFields = append(nt.OwnFields, field)
		}
	}

	// Stable discriminator numbering: concrete types only, in declaration
	// order, starting at 1 (spec §4.5).
	next := 1
	for _, nt := range b.model.NodeOrder {
		if nt.Concrete() {
			nt.DiscriminatorNumber = next
			next++
		}
	}

	return nil
}

func (b *Builder) resolveField(owner *NodeType, fd *ast.FieldDecl) (*Field, error) {
	ref, edge, err := b.resolveTypeExpr(fd.Type)
	if err != nil {
		return nil, err
	}
	f := &Field{
		Name:       fd.Name,
		Doc:        fd.Doc,
		Edge:       edge,
		Type:       ref,
		ExtOps:     fd.ExtOps,
		Default:    fd.Default,
		HasDefault: fd.HasDefault,
		Pos:        fd.Span.Pos,
		Owner:      owner,
	}
	return f, nil
}

func (b *Builder) resolveTypeExpr(te ast.TypeExpr) (TypeRef, EdgeKind, error) {
	var edge EdgeKind
	switch te.Edge {
	case ast.KeywordMaybe:
		edge = EdgeMaybe
	case ast.KeywordOne:
		edge = EdgeOne
	case ast.KeywordAny:
		edge = EdgeAny
	case ast.KeywordMany:
		edge = EdgeMany
	case ast.KeywordLink:
		edge = EdgeLink
	case ast.KeywordExternal:
		edge = EdgeExternal
	default:
		edge = EdgePrim
	}

	ref := TypeRef{Name: te.Name, Pos: te.NameSpan.Pos}
	if nt, ok := b.model.NodeTypes.Get(te.Name); ok {
		ref.Node = nt
		// A bare node-type name with no edge keyword behaves like a
		// mandatory owning edge (spec §3: TypeRef resolves either to a
		// Node type name... or to a primitive), so promote it to One.
		if edge == EdgePrim {
			edge = EdgeOne
		}
		return ref, edge, nil
	}
	if prim, ok := b.model.Primitives.Get(te.Name); ok {
		if edge != EdgePrim && edge != EdgeExternal {
			return TypeRef{}, 0, b.fail(te.NameSpan.Pos, "edge kind %s cannot target primitive %q", edge, te.Name)
		}
		ref.Primitive = prim
		return ref, edge, nil
	}
	if enum, ok := b.model.Enums.Get(te.Name); ok {
		if edge != EdgePrim {
			return TypeRef{}, 0, b.fail(te.NameSpan.Pos, "edge kind %s cannot target enum %q", edge, te.Name)
		}
		ref.Enum = enum
		return ref, edge, nil
	}
	return TypeRef{}, 0, b.fail(te.NameSpan.Pos, "unknown type %q", te.Name)
}
