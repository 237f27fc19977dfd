package model

import (
	"github.com/RoaringBitmap/roaring"
)

// validate is resolution pass 3 (spec §4.4): enforce the invariants of
// spec §3 that can only be checked once every reference is linked.
//
// Invariant 6 ("One and Many require well-formedness") is a runtime
// property of a concrete tree value, not a static property of the model —
// it is enforced by the generated CheckComplete method (spec §4.5), not
// here.
func (b *Builder) validate() error {
	if err := b.validateNoParentCycles(); err != nil {
		return err
	}
	if err := b.validateFieldShadowing(); err != nil {
		return err
	}
	return b.validateSingleRoot()

	// Link references only ever target node types declared in this same
	// file (spec §9 Open Question: cross-file links are unsupported); this
	// is already guaranteed by resolveTypeExpr in link.go rejecting any
	// Link edge whose target resolved to a primitive rather than a node
	// type, so no further pass is needed here.
}

// validateNoParentCycles enforces invariant 3. Each node type is assigned
// its declaration index as a bitmap id; a standard DFS keeps an "on the
// current recursion stack" bitmap, flagging a cycle exactly when a type is
// revisited while still on the stack. This is the same on-stack/visited
// bitmap pattern agentic-research-mache uses for its formal-concept
// lattice traversals (internal/lattice), applied here to a single-child
// DAG walk instead of a concept lattice.
func (b *Builder) validateNoParentCycles() error {
	index := make(map[*NodeType]uint32, len(b.model.NodeOrder))
	for i, nt := range b.model.NodeOrder {
		index[nt] = uint32(i)
	}

	visited := roaring.New()
	onStack := roaring.New()

	var walk func(nt *NodeType) error
	walk = func(nt *NodeType) error {
		id := index[nt]
		if visited.Contains(id) {
			return nil
		}
		onStack.Add(id)
		if nt.Parent != nil {
			pid := index[nt.Parent]
			if onStack.Contains(pid) {
				return b.fail(nt.Pos, "cycle detected in parent-of relation involving %q", nt.Name)
			}
			if err := walk(nt.Parent); err != nil {
				return err
			}
		}
		onStack.Remove(id)
		visited.Add(id)
		return nil
	}

	for _, nt := range b.model.NodeOrder {
		if err := walk(nt); err != nil {
			return err
		}
	}
	return nil
}

// validateFieldShadowing enforces invariant 5: a field name must not
// collide with any field name inherited transitively.
func (b *Builder) validateFieldShadowing() error {
	for _, nt := range b.model.NodeOrder {
		seen := map[string]bool{}
		for _, a := range nt.Ancestors() {
			for _, f := range a.OwnFields {
				seen[f.Name] = true
			}
		}
		ownSeen := map[string]bool{}
		for _, f := range nt.OwnFields {
			if ownSeen[f.Name] {
				return b.fail(f.Pos, "duplicate field name %q on %q", f.Name, nt.Name)
			}
			ownSeen[f.Name] = true
			if seen[f.Name] {
				return b.fail(f.Pos, "field %q on %q shadows a field inherited from an ancestor", f.Name, nt.Name)
			}
		}
	}
	return nil
}

// validateSingleRoot enforces invariant 7.
func (b *Builder) validateSingleRoot() error {
	var root *NodeType
	for _, nt := range b.model.NodeOrder {
		if !nt.IsRoot {
			continue
		}
		if root != nil {
			return b.fail(nt.Pos, "only one node type may be marked 'root', %q and %q both are", root.Name, nt.Name)
		}
		root = nt
	}
	b.model.Root = root
	return nil
}
