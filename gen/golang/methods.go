package golang

import "github.com/tree-gen/tree-gen/model"

// emitAccessorMethods emits Kind, Annotations, Children, and Links for a
// concrete node type — the uniform, reflection-free entry points every
// other generated method (and checkLinks, below) builds on.
func (g *generator) emitAccessorMethods(n *model.NodeType) {
	g.src.P("func (n *%s) Kind() Kind { return %s }", n.Name, kindConstName(n))
	g.src.P("")
	g.src.P("func (n *%s) Annotations() *annotation.Annotatable { return &n.Annotatable }", n.Name)
	g.src.P("")

	g.src.P("// Children returns every owning child of n, in field declaration order")
	g.src.P("// (own fields first, then each ancestor's, nearest first).")
	g.src.P("func (n *%s) Children() []Node {", n.Name)
	g.src.P("\tvar out []Node")
	for _, f := range n.AllFields() {
		switch f.Edge {
		case model.EdgeMaybe, model.EdgeOne:
			g.src.P("\tif n.%s != nil {", fieldGoName(f))
			g.src.P("\t\tout = append(out, n.%s)", fieldGoName(f))
			g.src.P("\t}")
		case model.EdgeAny, model.EdgeMany:
			g.src.P("\tfor _, c := range n.%s {", fieldGoName(f))
			g.src.P("\t\tif c != nil {")
			g.src.P("\t\t\tout = append(out, c)")
			g.src.P("\t\t}")
			g.src.P("\t}")
		}
	}
	g.src.P("\treturn out")
	g.src.P("}")
	g.src.P("")

	g.src.P("// Links returns every non-nil Link target reachable directly from n.")
	g.src.P("func (n *%s) Links() []Node {", n.Name)
	g.src.P("\tvar out []Node")
	for _, f := range n.AllFields() {
		if f.Edge == model.EdgeLink {
			g.src.P("\tif n.%s != nil {", fieldGoName(f))
			g.src.P("\t\tout = append(out, n.%s)", fieldGoName(f))
			g.src.P("\t}")
		}
	}
	g.src.P("\treturn out")
	g.src.P("}")
	g.src.P("")
}

// emitCopyClone emits Copy (shallow: a struct copy shares every owning
// pointer/slice with the original, which is exactly spec §4.5's "owning
// children are NOT duplicated") and Clone (deep, via the unexported
// cloneWithSeen walk shared by every type in the hierarchy).
func (g *generator) emitCopyClone(n *model.NodeType) {
	g.src.P("// Copy returns a shallow clone of n: owning children are shared with")
	g.src.P("// the original, not duplicated.")
	g.src.P("func (n *%s) Copy() *%s {", n.Name, n.Name)
	g.src.P("\tcp := *n")
	g.src.P("\tcp.Annotatable = annotation.Annotatable{}")
	g.src.P("\tcp.Annotatable.CopyAnnotationsFrom(&n.Annotatable)")
	g.src.P("\treturn &cp")
	g.src.P("}")
	g.src.P("")

	g.src.P("// Clone returns a deep clone of n: every owning child is itself cloned;")
	g.src.P("// a Link target is remapped to its clone if that target lies within the")
	g.src.P("// same cloned subtree, or left pointing at the original otherwise.")
	g.src.P("func (n *%s) Clone() *%s {", n.Name, n.Name)
	g.src.P("\tctx := &cloneCtx{seen: map[Node]Node{}}")
	g.src.P("\tcloned := n.cloneWithSeen(ctx).(*%s)", n.Name)
	g.src.P("\tfor _, fn := range ctx.pending {")
	g.src.P("\t\tfn()")
	g.src.P("\t}")
	g.src.P("\treturn cloned")
	g.src.P("}")
	g.src.P("")

	g.src.P("func (n *%s) cloneWithSeen(ctx *cloneCtx) Node {", n.Name)
	g.src.P("\tif n == nil {")
	g.src.P("\t\treturn Node(nil)")
	g.src.P("\t}")
	g.src.P("\tif existing, ok := ctx.seen[n]; ok {")
	g.src.P("\t\treturn existing")
	g.src.P("\t}")
	g.src.P("\tcp := &%s{}", n.Name)
	g.src.P("\tctx.seen[n] = cp")
	g.src.P("\tcp.Annotatable.CopyAnnotationsFrom(&n.Annotatable)")
	for _, f := range n.AllFields() {
		g.emitCloneField(f)
	}
	g.src.P("\treturn cp")
	g.src.P("}")
	g.src.P("")
}

func (g *generator) emitCloneField(f *model.Field) {
	name := fieldGoName(f)
	switch f.Edge {
	case model.EdgeMaybe, model.EdgeOne:
		typ := singleNodeFieldType(f.Type.Node)
		g.src.P("\tif n.%s != nil {", name)
		g.src.P("\t\tcp.%s = n.%s.cloneWithSeen(ctx).(%s)", name, name, typ)
		g.src.P("\t}")
	case model.EdgeAny, model.EdgeMany:
		elemTyp := singleNodeFieldType(f.Type.Node)
		g.src.P("\tif len(n.%s) > 0 {", name)
		g.src.P("\t\tcp.%s = make([]%s, len(n.%s))", name, elemTyp, name)
		g.src.P("\t\tfor i, c := range n.%s {", name)
		g.src.P("\t\t\tcp.%s[i] = c.cloneWithSeen(ctx).(%s)", name, elemTyp)
		g.src.P("\t\t}")
		g.src.P("\t}")
	case model.EdgeLink:
		typ := singleNodeFieldType(f.Type.Node)
		g.src.P("\tif n.%s != nil {", name)
		g.src.P("\t\torig := n.%s", name)
		g.src.P("\t\tctx.pending = append(ctx.pending, func() {")
		g.src.P("\t\t\tif repl, ok := ctx.seen[orig]; ok {")
		g.src.P("\t\t\t\tcp.%s = repl.(%s)", name, typ)
		g.src.P("\t\t\t} else {")
		g.src.P("\t\t\t\tcp.%s = orig", name)
		g.src.P("\t\t\t}")
		g.src.P("\t\t})")
		g.src.P("\t}")
	default:
		g.src.P("\tcp.%s = n.%s", name, name)
	}
}

// emitEquals emits structural equality over the owning subtree, with Link
// fields compared by pointer identity (spec §4.5 "equals").
func (g *generator) emitEquals(n *model.NodeType) {
	g.src.P("func (n *%s) Equals(other Node) bool {", n.Name)
	g.src.P("\to, ok := other.(*%s)", n.Name)
	g.src.P("\tif !ok {")
	g.src.P("\t\treturn false")
	g.src.P("\t}")
	for _, f := range n.AllFields() {
		name := fieldGoName(f)
		switch f.Edge {
		case model.EdgeMaybe, model.EdgeOne:
			g.src.P("\tif (n.%s == nil) != (o.%s == nil) {", name, name)
			g.src.P("\t\treturn false")
			g.src.P("\t}")
			g.src.P("\tif n.%s != nil && !n.%s.Equals(o.%s) {", name, name, name)
			g.src.P("\t\treturn false")
			g.src.P("\t}")
		case model.EdgeAny, model.EdgeMany:
			g.src.P("\tif len(n.%s) != len(o.%s) {", name, name)
			g.src.P("\t\treturn false")
			g.src.P("\t}")
			g.src.P("\tfor i := range n.%s {", name)
			g.src.P("\t\tif !n.%s[i].Equals(o.%s[i]) {", name, name)
			g.src.P("\t\t\treturn false")
			g.src.P("\t\t}")
			g.src.P("\t}")
		case model.EdgeLink:
			g.src.P("\tif n.%s != o.%s {", name, name)
			g.src.P("\t\treturn false")
			g.src.P("\t}")
		default:
			if fieldTypeName(f) == "[]byte" {
				g.src.P("\tif !bytes.Equal(n.%s, o.%s) {", name, name)
			} else {
				g.src.P("\tif n.%s != o.%s {", name, name)
			}
			g.src.P("\t\treturn false")
			g.src.P("\t}")
		}
	}
	g.src.P("\treturn true")
	g.src.P("}")
	g.src.P("")

	if hasEqualityOp(n) {
		g.src.P("// Equal is the operator== rendering requested by the '!' field")
		g.src.P("// operator (spec §3 ExtOp flags) on at least one field of %s.", n.Name)
		g.src.P("func (n *%s) Equal(other *%s) bool {", n.Name, n.Name)
		g.src.P("\tif other == nil {")
		g.src.P("\t\treturn n == nil")
		g.src.P("\t}")
		g.src.P("\treturn n.Equals(other)")
		g.src.P("}")
		g.src.P("")
	}
}

func hasEqualityOp(n *model.NodeType) bool {
	for _, f := range n.AllFields() {
		if f.ExtOps.Equality {
			return true
		}
	}
	return false
}

// emitVisit emits the ancestor-fallback dispatch described on the
// Visitor type (naming.go / generator.go emitVisitorType).
func (g *generator) emitVisit(n *model.NodeType) {
	g.src.P("func (n *%s) Visit(v Visitor) error {", n.Name)
	g.src.P("\tif vv, ok := v.(%sVisitor); ok {", n.Name)
	g.src.P("\t\treturn vv.%s(n)", visitMethodName(n))
	g.src.P("\t}")
	for _, a := range n.Ancestors() {
		g.src.P("\tif vv, ok := v.(%sVisitor); ok {", a.Name)
		g.src.P("\t\treturn vv.%s(n)", visitMethodName(a))
		g.src.P("\t}")
	}
	g.src.P("\treturn nil")
	g.src.P("}")
	g.src.P("")
}

// emitDump emits a recursive, indented pretty-printer (spec §4.5 "dump").
func (g *generator) emitDump(n *model.NodeType) {
	g.src.P("func (n *%s) Dump(w io.Writer) { n.writeDump(w, 0) }", n.Name)
	g.src.P("")
	g.src.P("func (n *%s) writeDump(w io.Writer, depth int) {", n.Name)
	g.src.P("\tpad := strings.Repeat(\"  \", depth)")
	g.src.P("\tfmt.Fprintf(w, \"%%s%s {\\n\", pad)", n.Name)
	for _, f := range n.AllFields() {
		name := fieldGoName(f)
		switch f.Edge {
		case model.EdgeMaybe, model.EdgeOne:
			g.src.P("\tif n.%s != nil {", name)
			g.src.P("\t\tfmt.Fprintf(w, \"%%s  %s:\\n\", pad)", f.Name)
			g.src.P("\t\tn.%s.writeDump(w, depth+2)", name)
			g.src.P("\t} else {")
			g.src.P("\t\tfmt.Fprintf(w, \"%%s  %s: <nil>\\n\", pad)", f.Name)
			g.src.P("\t}")
		case model.EdgeAny, model.EdgeMany:
			g.src.P("\tfmt.Fprintf(w, \"%%s  %s: [\\n\", pad)", f.Name)
			g.src.P("\tfor _, c := range n.%s {", name)
			g.src.P("\t\tc.writeDump(w, depth+2)")
			g.src.P("\t}")
			g.src.P("\tfmt.Fprintf(w, \"%%s  ]\\n\", pad)")
		case model.EdgeLink:
			g.src.P("\tfmt.Fprintf(w, \"%%s  %s: <link %%p>\\n\", pad, n.%s)", f.Name, name)
		default:
			g.src.P("\tfmt.Fprintf(w, \"%%s  %s: %%v\\n\", pad, n.%s)", f.Name, name)
		}
	}
	g.src.P("\tfmt.Fprintf(w, \"%%s}\\n\", pad)")
	g.src.P("}")
	g.src.P("")
}

// emitCheckComplete emits well-formedness verification (spec §4.5
// "check_complete"): One must be non-nil, Many non-empty, every owned
// child itself complete, and — via the shared checkLinks helper — every
// Link reachable from n.
func (g *generator) emitCheckComplete(n *model.NodeType) {
	g.src.P("func (n *%s) CheckComplete() error {", n.Name)
	for _, f := range n.AllFields() {
		name := fieldGoName(f)
		switch f.Edge {
		case model.EdgeOne:
			g.src.P("\tif n.%s == nil {", name)
			g.src.P("\t\treturn fmt.Errorf(\"%s.%s: One field is nil\")", n.Name, f.Name)
			g.src.P("\t}")
			g.src.P("\tif err := n.%s.CheckComplete(); err != nil {", name)
			g.src.P("\t\treturn err")
			g.src.P("\t}")
		case model.EdgeMaybe:
			g.src.P("\tif n.%s != nil {", name)
			g.src.P("\t\tif err := n.%s.CheckComplete(); err != nil {", name)
			g.src.P("\t\t\treturn err")
			g.src.P("\t\t}")
			g.src.P("\t}")
		case model.EdgeMany:
			g.src.P("\tif len(n.%s) == 0 {", name)
			g.src.P("\t\treturn fmt.Errorf(\"%s.%s: Many field is empty\")", n.Name, f.Name)
			g.src.P("\t}")
			g.src.P("\tfor _, c := range n.%s {", name)
			g.src.P("\t\tif err := c.CheckComplete(); err != nil {")
			g.src.P("\t\t\treturn err")
			g.src.P("\t\t}")
			g.src.P("\t}")
		case model.EdgeAny:
			g.src.P("\tfor _, c := range n.%s {", name)
			g.src.P("\t\tif err := c.CheckComplete(); err != nil {")
			g.src.P("\t\t\treturn err")
			g.src.P("\t\t}")
			g.src.P("\t}")
		}
	}
	g.src.P("\treturn checkLinks(n)")
	g.src.P("}")
	g.src.P("")
}

// emitRuntimeHelpers emits the handful of package-level helpers shared by
// every generated type rather than repeated per type: the clone-context
// type, link-reachability validation, and the generic Is/As pair that
// substitutes for spec §4.5's per-type is_<TypeName>/as_<TypeName>
// methods — Go has no virtual base-class dispatch to hang O(n^2) boolean
// methods off of, so a type-asserting generic function (the same idiom
// annotation.GetAnnotation already uses in this codebase) does the job in
// one place instead of n times n.
func (g *generator) emitRuntimeHelpers() {
	g.src.P("type cloneCtx struct {")
	g.src.P("\tseen    map[Node]Node")
	g.src.P("\tpending []func()")
	g.src.P("}")
	g.src.P("")
	g.src.P("// Is reports whether n's dynamic type is exactly T (use a concrete")
	g.src.P("// pointer type) or satisfies T (use one of the generated *Node")
	g.src.P("// interfaces).")
	g.src.P("func Is[T Node](n Node) bool {")
	g.src.P("\t_, ok := n.(T)")
	g.src.P("\treturn ok")
	g.src.P("}")
	g.src.P("")
	g.src.P("// As downcasts n to T, the Go rendering of spec §4.5's as_<TypeName>.")
	g.src.P("func As[T Node](n Node) (T, bool) {")
	g.src.P("\tv, ok := n.(T)")
	g.src.P("\treturn v, ok")
	g.src.P("}")
	g.src.P("")
	g.src.P("// checkLinks verifies every Link reachable from root targets a node")
	g.src.P("// that is itself reachable from root via owning edges (spec §4.5")
	g.src.P("// \"all Links resolve within the containing root\").")
	g.src.P("func checkLinks(root Node) error {")
	g.src.P("\tvisited := map[Node]bool{}")
	g.src.P("\tvar mark func(Node)")
	g.src.P("\tmark = func(n Node) {")
	g.src.P("\t\tif n == nil || visited[n] {")
	g.src.P("\t\t\treturn")
	g.src.P("\t\t}")
	g.src.P("\t\tvisited[n] = true")
	g.src.P("\t\tfor _, c := range n.Children() {")
	g.src.P("\t\t\tmark(c)")
	g.src.P("\t\t}")
	g.src.P("\t}")
	g.src.P("\tmark(root)")
	g.src.P("")
	g.src.P("\tvar walkErr error")
	g.src.P("\tseenNodes := map[Node]bool{}")
	g.src.P("\tvar check func(Node)")
	g.src.P("\tcheck = func(n Node) {")
	g.src.P("\t\tif n == nil || walkErr != nil || seenNodes[n] {")
	g.src.P("\t\t\treturn")
	g.src.P("\t\t}")
	g.src.P("\t\tseenNodes[n] = true")
	g.src.P("\t\tfor _, l := range n.Links() {")
	g.src.P("\t\t\tif l != nil && !visited[l] {")
	g.src.P("\t\t\t\twalkErr = fmt.Errorf(\"dangling Link: target is not reachable from the containing root\")")
	g.src.P("\t\t\t\treturn")
	g.src.P("\t\t\t}")
	g.src.P("\t\t}")
	g.src.P("\t\tfor _, c := range n.Children() {")
	g.src.P("\t\t\tcheck(c)")
	g.src.P("\t\t}")
	g.src.P("\t}")
	g.src.P("\tcheck(root)")
	g.src.P("\treturn walkErr")
	g.src.P("}")
	g.src.P("")
}
