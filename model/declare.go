package model

import (
	"fmt"
)

// declare is resolution pass 1 (spec §4.4): populate the node-type,
// enumeration, and primitive name tables, rejecting duplicates
// (invariants 1 and 8).
func (b *Builder) declare() error {
	if h := b.file.Header; h != nil {
		b.model.Header = &Header{
			Namespace:       h.Namespace,
			IncludeHeader:   h.IncludeHeader,
			IncludeSource:   h.IncludeSource,
			SourceLocation:  h.SourceLocation,
			Features:        h.Features,
			RequiresVersion: h.RequiresVersion,
		}
		for _, p := range h.Primitives {
			if _, ok := b.model.Primitives.Get(p.Name); ok {
				return b.fail(p.Span.Start, "duplicate primitive declaration %q", p.Name)
			}
			b.model.Primitives.Set(p.Name, &Primitive{
				Name:        p.Name,
				Pos:         p.Span.Start,
				Include:     p.Include,
				Default:     p.Default,
				Serialize:   p.Serialize,
				Deserialize: p.Deserialize,
				Serdes:      p.Serdes,
			})
		}
	} else {
		b.model.Header = &Header{Features: map[string]bool{}}
	}

	for _, e := range b.file.Enums {
		if _, ok := b.model.NodeTypes.Get(e.Name); ok {
			return b.fail(e.Span.Pos, "name %q is already declared as a node type", e.Name)
		}
		if _, ok := b.model.Enums.Get(e.Name); ok {
			return b.fail(e.Span.Pos, "duplicate enumeration declaration %q", e.Name)
		}
		enum := &Enumeration{Name: e.Name, Doc: e.Doc, Pos: e.Span.Pos}
		seen := map[string]bool{}
		for i, v := range e.Variants {
			if seen[v.Name] {
				return b.fail(v.Span.Pos, "duplicate enumeration constant %q in %q", v.Name, e.Name)
			}
			seen[v.Name] = true
			enum.Variants = append(enum.Variants, EnumConstant{Name: v.Name, Pos: v.Span.Pos, Ordinal: i})
		}
		b.model.Enums.Set(e.Name, enum)
		b.model.EnumOrder = append(b.model.EnumOrder, enum)
	}

	for _, n := range b.file.Nodes {
		if _, ok := b.model.Enums.Get(n.Name); ok {
			return b.fail(n.Span.Pos, "name %q is already declared as an enumeration", n.Name)
		}
		if _, ok := b.model.NodeTypes.Get(n.Name); ok {
			return b.fail(n.Span.Pos, fmt.Sprintf("duplicate node type declaration %q", n.Name))
		}
		nt := &NodeType{Name: n.Name, Doc: n.Doc, Pos: n.Span.Pos, IsRoot: n.IsRoot, IsError: n.IsError}
		b.model.NodeTypes.Set(n.Name, nt)
		b.model.NodeOrder = append(b.model.NodeOrder, nt)
	}

	return nil
}
