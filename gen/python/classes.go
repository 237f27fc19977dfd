package python

import (
	"fmt"
	"strings"

	"github.com/tree-gen/tree-gen/model"
)

// emitConcreteClass emits one class per concrete node type: field
// storage, clone/equals/accept/check_complete (spec §4.6), and the
// marshal_into method used by the module-level encode() (classes.go's
// second half emits the matching _unmarshal_<name> module function,
// since Python has no natural place to hang "construct an instance of
// myself from a dict" other than a free function or classmethod, and a
// free function keeps the unmarshal dispatch table a plain dict literal).
func (g *generator) emitConcreteClass(n *model.NodeType) {
	all := n.AllFields()
	g.src.P("class %s(%s):", className(n), parentClassName(n))
	if n.Doc != "" {
		g.src.P("    \"\"\"%s\"\"\"", n.Doc)
		g.src.P("")
	}

	g.emitInit(n, all)
	g.src.P("    def kind(self):")
	g.src.P("        return Kind.%s", kindMemberName(n))
	g.src.P("")

	g.emitChildrenLinks(n, all)
	g.emitClone(n, all)
	g.emitEquals(n, all)
	g.emitAccept(n)
	g.emitCheckComplete(n, all)
	g.emitDump(n, all)
	g.emitMarshalInto(n, all)
	g.src.P("")
}

// emitUnmarshalFunctions emits the module-level _unmarshal_<Name>
// function for every concrete node type, once the class bodies (and
// hence their field layouts) are known.
func (g *generator) emitUnmarshalFunctions() {
	for _, n := range g.model.ConcreteTypes() {
		g.emitUnmarshalType(n, n.AllFields())
	}
}

func (g *generator) emitInit(n *model.NodeType, all []*model.Field) {
	g.src.P("    def __init__(self):")
	g.src.P("        super().__init__()")
	for _, f := range all {
		name := fieldPyName(f)
		switch f.Edge {
		case model.EdgeMaybe, model.EdgeOne, model.EdgeLink:
			g.src.P("        self.%s = None", name)
		case model.EdgeAny, model.EdgeMany:
			g.src.P("        self.%s = []", name)
		default:
			if f.HasDefault {
				if f.Type.IsEnum() {
					g.src.P("        self.%s = %s(%s)", name, enumClassName(f.Type.Enum), pyDefault(f))
				} else {
					g.src.P("        self.%s = %s", name, pyDefault(f))
				}
			} else {
				g.src.P("        self.%s = None", name)
			}
		}
	}
	g.src.P("")
}

func (g *generator) emitChildrenLinks(n *model.NodeType, all []*model.Field) {
	hasChildren, hasLinks := false, false
	for _, f := range all {
		switch f.Edge {
		case model.EdgeMaybe, model.EdgeOne, model.EdgeAny, model.EdgeMany:
			hasChildren = true
		case model.EdgeLink:
			hasLinks = true
		}
	}
	if hasChildren {
		g.src.P("    def children(self):")
		g.src.P("        out = []")
		for _, f := range all {
			name := fieldPyName(f)
			switch f.Edge {
			case model.EdgeMaybe, model.EdgeOne:
				g.src.P("        if self.%s is not None:", name)
				g.src.P("            out.append(self.%s)", name)
			case model.EdgeAny, model.EdgeMany:
				g.src.P("        out.extend(c for c in self.%s if c is not None)", name)
			}
		}
		g.src.P("        return out")
		g.src.P("")
	}
	if hasLinks {
		g.src.P("    def links(self):")
		g.src.P("        out = []")
		for _, f := range all {
			if f.Edge == model.EdgeLink {
				name := fieldPyName(f)
				g.src.P("        if self.%s is not None:", name)
				g.src.P("            out.append(self.%s)", name)
			}
		}
		g.src.P("        return out")
		g.src.P("")
	}
}

func (g *generator) emitClone(n *model.NodeType, all []*model.Field) {
	g.src.P("    def clone(self):")
	g.src.P("        memo = {}")
	g.src.P("        cloned = self._clone_with_seen(memo)")
	g.src.P("        for fn in memo.pop(\"__pending__\", []):")
	g.src.P("            fn()")
	g.src.P("        return cloned")
	g.src.P("")
	g.src.P("    def _clone_with_seen(self, memo):")
	g.src.P("        if id(self) in memo:")
	g.src.P("            return memo[id(self)]")
	g.src.P("        cp = %s.__new__(%s)", className(n), className(n))
	g.src.P("        memo[id(self)] = cp")
	g.src.P("        memo.setdefault(\"__pending__\", [])")
	g.src.P("        cp._annotations = dict(self._annotations)")
	for _, f := range all {
		name := fieldPyName(f)
		switch f.Edge {
		case model.EdgeMaybe, model.EdgeOne:
			g.src.P("        cp.%s = self.%s._clone_with_seen(memo) if self.%s is not None else None", name, name, name)
		case model.EdgeAny, model.EdgeMany:
			g.src.P("        cp.%s = [c._clone_with_seen(memo) for c in self.%s]", name, name)
		case model.EdgeLink:
			g.src.P("        orig = self.%s", name)
			g.src.P("        def _remap(cp=cp, orig=orig):")
			g.src.P("            cp.%s = memo.get(id(orig), orig) if orig is not None else None", name)
			g.src.P("        if orig is not None:")
			g.src.P("            memo[\"__pending__\"].append(_remap)")
			g.src.P("        else:")
			g.src.P("            cp.%s = None", name)
		default:
			g.src.P("        cp.%s = self.%s", name, name)
		}
	}
	g.src.P("        return cp")
	g.src.P("")
}

func (g *generator) emitEquals(n *model.NodeType, all []*model.Field) {
	g.src.P("    def equals(self, other):")
	g.src.P("        if not isinstance(other, %s):", className(n))
	g.src.P("            return False")
	for _, f := range all {
		name := fieldPyName(f)
		switch f.Edge {
		case model.EdgeMaybe, model.EdgeOne:
			g.src.P("        if (self.%s is None) != (other.%s is None):", name, name)
			g.src.P("            return False")
			g.src.P("        if self.%s is not None and not self.%s.equals(other.%s):", name, name, name)
			g.src.P("            return False")
		case model.EdgeAny, model.EdgeMany:
			g.src.P("        if len(self.%s) != len(other.%s):", name, name)
			g.src.P("            return False")
			g.src.P("        if not all(a.equals(b) for a, b in zip(self.%s, other.%s)):", name, name)
			g.src.P("            return False")
		case model.EdgeLink:
			g.src.P("        if self.%s is not other.%s:", name, name)
			g.src.P("            return False")
		default:
			g.src.P("        if self.%s != other.%s:", name, name)
			g.src.P("            return False")
		}
	}
	g.src.P("        return True")
	g.src.P("")
}

// emitAccept emits the ancestor-fallback visitor dispatch gen/golang's
// emitVisit implements for Go, resolved here at generation time rather
// than via a runtime interface-assertion chain: the candidate method
// names (own, then each ancestor's, nearest first) are already fully
// known once the Tree Model is built.
func (g *generator) emitAccept(n *model.NodeType) {
	g.src.P("    def accept(self, visitor):")
	g.src.P("        for name in (%s):", acceptCandidates(n))
	g.src.P("            method = getattr(visitor, name, None)")
	g.src.P("            if method is not None:")
	g.src.P("                return method(self)")
	g.src.P("        return None")
	g.src.P("")
}

func acceptCandidates(n *model.NodeType) string {
	names := []string{fmt.Sprintf("%q", visitMethodName(n))}
	for _, a := range n.Ancestors() {
		names = append(names, fmt.Sprintf("%q", visitMethodName(a)))
	}
	return strings.Join(names, ", ") + ","
}

func (g *generator) emitCheckComplete(n *model.NodeType, all []*model.Field) {
	g.src.P("    def check_complete(self):")
	wrote := false
	for _, f := range all {
		name := fieldPyName(f)
		switch f.Edge {
		case model.EdgeOne:
			g.src.P("        if self.%s is None:", name)
			g.src.P("            raise ValueError(\"%s.%s: One field is None\")", n.Name, f.Name)
			g.src.P("        self.%s.check_complete()", name)
			wrote = true
		case model.EdgeMaybe:
			g.src.P("        if self.%s is not None:", name)
			g.src.P("            self.%s.check_complete()", name)
			wrote = true
		case model.EdgeMany:
			g.src.P("        if not self.%s:", name)
			g.src.P("            raise ValueError(\"%s.%s: Many field is empty\")", n.Name, f.Name)
			g.src.P("        for c in self.%s:", name)
			g.src.P("            c.check_complete()")
			wrote = true
		case model.EdgeAny:
			g.src.P("        for c in self.%s:", name)
			g.src.P("            c.check_complete()")
			wrote = true
		}
	}
	g.src.P("        _check_links(self)")
	_ = wrote
	g.src.P("")
}

func (g *generator) emitDump(n *model.NodeType, all []*model.Field) {
	g.src.P("    def _dump_str(self, indent):")
	g.src.P("        pad = \"  \" * indent")
	g.src.P("        lines = [\"%%s%s {\" %% pad]", n.Name)
	for _, f := range all {
		name := fieldPyName(f)
		switch f.Edge {
		case model.EdgeMaybe, model.EdgeOne:
			g.src.P("        if self.%s is not None:", name)
			g.src.P("            lines.append(\"%%s  %s:\" %% pad)", f.Name)
			g.src.P("            lines.append(self.%s._dump_str(indent + 2))", name)
			g.src.P("        else:")
			g.src.P("            lines.append(\"%%s  %s: <none>\" %% pad)", f.Name)
		case model.EdgeAny, model.EdgeMany:
			g.src.P("        lines.append(\"%%s  %s: [\" %% pad)", f.Name)
			g.src.P("        for c in self.%s:", name)
			g.src.P("            lines.append(c._dump_str(indent + 2))")
			g.src.P("        lines.append(\"%%s  ]\" %% pad)")
		case model.EdgeLink:
			g.src.P("        lines.append(\"%%s  %s: <link %%#x>\" %% (pad, id(self.%s)))", f.Name, name)
		default:
			g.src.P("        lines.append(\"%%s  %s: %%r\" %% (pad, self.%s))", f.Name, name)
		}
	}
	g.src.P("        lines.append(\"%%s}\" %% pad)")
	g.src.P("        return \"\\n\".join(lines)")
	g.src.P("")
}
