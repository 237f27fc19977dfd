package golang

import (
	"fmt"

	"github.com/tree-gen/tree-gen/model"
)

// emitCBOR emits the CBOR marshal/unmarshal machinery for "feature
// serialize on" (spec §6): a "type"-tagged map per node, Link fields as
// integer ids resolved through a root-level "links" table, and enums as
// ordinals.
//
// Link targets are recorded by path (a sequence of field-name/index
// steps from root) exactly as spec.md §6 describes, rather than by
// revisiting the tree a second time: Marshal threads the in-progress path
// down through the same recursive walk that writes the node bodies, and
// Unmarshal threads it through the matching reconstruction walk, so both
// sides agree on a path's string key without either needing a separate
// generic field-by-name accessor on Node.
func (g *generator) emitCBOR() error {
	for _, n := range g.model.ConcreteTypes() {
		for _, f := range n.AllFields() {
			if (f.Edge == model.EdgeExternal || f.Edge == model.EdgePrim) && !f.Type.IsEnum() {
				if _, ok := wellKnownPrimitives[f.Type.Primitive.Name]; !ok {
					return fmt.Errorf("golang: primitive %q (field %s.%s) has no CBOR encoding; "+
						"declare it as one of Int/Int32/UInt/Float/Double/Bool/String/Bytes", f.Type.Primitive.Name, n.Name, f.Name)
				}
			}
		}
	}

	g.emitCBORRuntime()
	g.emitMarshalFunc()
	g.emitMarshalDispatch()
	g.emitUnmarshalFunc()
	g.emitUnmarshalDispatch()
	for _, n := range g.model.ConcreteTypes() {
		g.emitMarshalInto(n)
		g.emitUnmarshalType(n)
	}
	return nil
}

func (g *generator) emitCBORRuntime() {
	g.src.P("// pathStep is one hop of a Link's path from the serialized root: either")
	g.src.P("// a field name or an array index.")
	g.src.P("type pathStep struct {")
	g.src.P("\tfield   string")
	g.src.P("\tindex   int")
	g.src.P("\tisIndex bool")
	g.src.P("}")
	g.src.P("")
	g.src.P("func extendPath(path []pathStep, step pathStep) []pathStep {")
	g.src.P("\tout := make([]pathStep, len(path)+1)")
	g.src.P("\tcopy(out, path)")
	g.src.P("\tout[len(path)] = step")
	g.src.P("\treturn out")
	g.src.P("}")
	g.src.P("")
	g.src.P("func pathKey(path []pathStep) string {")
	g.src.P("\tvar b strings.Builder")
	g.src.P("\tfor _, s := range path {")
	g.src.P("\t\tif s.isIndex {")
	g.src.P("\t\t\tb.WriteByte('[')")
	g.src.P("\t\t\tb.WriteString(strconv.Itoa(s.index))")
	g.src.P("\t\t\tb.WriteByte(']')")
	g.src.P("\t\t} else {")
	g.src.P("\t\t\tb.WriteByte('.')")
	g.src.P("\t\t\tb.WriteString(s.field)")
	g.src.P("\t\t}")
	g.src.P("\t}")
	g.src.P("\treturn b.String()")
	g.src.P("}")
	g.src.P("")
	g.src.P("// marshalCtx tracks, for the single Marshal call in progress, every")
	g.src.P("// node's path from root (so a Link can be resolved to a path once the")
	g.src.P("// walk reaches it) and the link-id assigned to each distinct Link")
	g.src.P("// target the walk has seen so far.")
	g.src.P("type marshalCtx struct {")
	g.src.P("\tpaths      map[Node][]pathStep")
	g.src.P("\tlinkIDs    map[Node]int")
	g.src.P("\tnextLinkID int")
	g.src.P("}")
	g.src.P("")
	g.src.P("func (c *marshalCtx) linkID(n Node) int {")
	g.src.P("\tif id, ok := c.linkIDs[n]; ok {")
	g.src.P("\t\treturn id")
	g.src.P("\t}")
	g.src.P("\tid := c.nextLinkID")
	g.src.P("\tc.nextLinkID++")
	g.src.P("\tc.linkIDs[n] = id")
	g.src.P("\treturn id")
	g.src.P("}")
	g.src.P("")
	g.src.P("// unmarshalCtx mirrors marshalCtx for the reverse direction: every")
	g.src.P("// constructed node is recorded by its path as it's built, and every")
	g.src.P("// Link field defers assignment to pending (resolved once the whole tree")
	g.src.P("// and the root's \"links\" table have both been read) — the same")
	g.src.P("// deferred-remap idiom Clone uses for forward Link references.")
	g.src.P("type unmarshalCtx struct {")
	g.src.P("\tnodesByPath map[string]Node")
	g.src.P("\tlinkTargets map[int]Node")
	g.src.P("\tpending     []func() error")
	g.src.P("}")
	g.src.P("")
}

func (g *generator) emitMarshalFunc() {
	g.src.P("// Marshal encodes root as a CBOR tree (spec §6).")
	g.src.P("func Marshal(root Node) ([]byte, error) {")
	g.src.P("\treturn cbor.Encode(func(mw *cbor.MapWriter) error {")
	g.src.P("\t\tctx := &marshalCtx{paths: map[Node][]pathStep{}, linkIDs: map[Node]int{}}")
	g.src.P("\t\tif err := marshalNodeBody(root, mw, ctx, nil); err != nil {")
	g.src.P("\t\t\treturn err")
	g.src.P("\t\t}")
	g.src.P("\t\tif len(ctx.linkIDs) == 0 {")
	g.src.P("\t\t\treturn nil")
	g.src.P("\t\t}")
	g.src.P("\t\tbyID := make([]Node, ctx.nextLinkID)")
	g.src.P("\t\tfor n, id := range ctx.linkIDs {")
	g.src.P("\t\t\tbyID[id] = n")
	g.src.P("\t\t}")
	g.src.P("\t\tlw, err := mw.AppendMap(\"links\")")
	g.src.P("\t\tif err != nil {")
	g.src.P("\t\t\treturn err")
	g.src.P("\t\t}")
	g.src.P("\t\tfor id, n := range byID {")
	g.src.P("\t\t\tpath, ok := ctx.paths[n]")
	g.src.P("\t\t\tif !ok {")
	g.src.P("\t\t\t\treturn fmt.Errorf(\"tree-gen: Link target is not reachable from the serialized root\")")
	g.src.P("\t\t\t}")
	g.src.P("\t\t\taw, err := lw.AppendArray(strconv.Itoa(id))")
	g.src.P("\t\t\tif err != nil {")
	g.src.P("\t\t\t\treturn err")
	g.src.P("\t\t\t}")
	g.src.P("\t\t\tfor _, st := range path {")
	g.src.P("\t\t\t\tif st.isIndex {")
	g.src.P("\t\t\t\t\terr = aw.AppendInt(int64(st.index))")
	g.src.P("\t\t\t\t} else {")
	g.src.P("\t\t\t\t\terr = aw.AppendString(st.field)")
	g.src.P("\t\t\t\t}")
	g.src.P("\t\t\t\tif err != nil {")
	g.src.P("\t\t\t\t\treturn err")
	g.src.P("\t\t\t\t}")
	g.src.P("\t\t\t}")
	g.src.P("\t\t\tif err := aw.Close(); err != nil {")
	g.src.P("\t\t\t\treturn err")
	g.src.P("\t\t\t}")
	g.src.P("\t\t}")
	g.src.P("\t\treturn lw.Close()")
	g.src.P("\t})")
	g.src.P("}")
	g.src.P("")
}

// emitMarshalDispatch emits the Kind-switch that lets a field whose static
// type is an abstract interface marshal through its dynamic concrete type.
func (g *generator) emitMarshalDispatch() {
	g.src.P("func marshalNodeBody(n Node, mw *cbor.MapWriter, ctx *marshalCtx, path []pathStep) error {")
	g.src.P("\tswitch v := n.(type) {")
	for _, n := range g.model.ConcreteTypes() {
		g.src.P("\tcase *%s:", n.Name)
		g.src.P("\t\treturn v.marshalInto(mw, ctx, path)")
	}
	g.src.P("\tdefault:")
	g.src.P("\t\treturn fmt.Errorf(\"tree-gen: cannot marshal node of type %%T\", n)")
	g.src.P("\t}")
	g.src.P("}")
	g.src.P("")
}

func (g *generator) emitUnmarshalFunc() {
	g.src.P("// Unmarshal decodes data as a CBOR tree produced by Marshal.")
	g.src.P("func Unmarshal(data []byte) (Node, error) {")
	g.src.P("\ts, err := cbor.NewReader(data)")
	g.src.P("\tif err != nil {")
	g.src.P("\t\treturn nil, err")
	g.src.P("\t}")
	g.src.P("\tfields, err := s.AsMap()")
	g.src.P("\tif err != nil {")
	g.src.P("\t\treturn nil, err")
	g.src.P("\t}")
	g.src.P("\tctx := &unmarshalCtx{nodesByPath: map[string]Node{}, linkTargets: map[int]Node{}}")
	g.src.P("\troot, err := unmarshalNodeBody(fields, ctx, nil)")
	g.src.P("\tif err != nil {")
	g.src.P("\t\treturn nil, err")
	g.src.P("\t}")
	g.src.P("\tif linksSlice, ok := fields.Get(\"links\"); ok {")
	g.src.P("\t\tlinkFields, err := linksSlice.AsMap()")
	g.src.P("\t\tif err != nil {")
	g.src.P("\t\t\treturn nil, err")
	g.src.P("\t\t}")
	g.src.P("\t\tvar walkErr error")
	g.src.P("\t\tlinkFields.Scan(func(idStr string, pathSlice cbor.Slice) bool {")
	g.src.P("\t\t\tid, err := strconv.Atoi(idStr)")
	g.src.P("\t\t\tif err != nil {")
	g.src.P("\t\t\t\twalkErr = fmt.Errorf(\"tree-gen: malformed link id %%q\", idStr)")
	g.src.P("\t\t\t\treturn false")
	g.src.P("\t\t\t}")
	g.src.P("\t\t\tsteps, err := pathSlice.AsArray()")
	g.src.P("\t\t\tif err != nil {")
	g.src.P("\t\t\t\twalkErr = err")
	g.src.P("\t\t\t\treturn false")
	g.src.P("\t\t\t}")
	g.src.P("\t\t\tvar key strings.Builder")
	g.src.P("\t\t\tfor _, step := range steps {")
	g.src.P("\t\t\t\tif step.IsString() {")
	g.src.P("\t\t\t\t\tname, err := step.AsString()")
	g.src.P("\t\t\t\t\tif err != nil {")
	g.src.P("\t\t\t\t\t\twalkErr = err")
	g.src.P("\t\t\t\t\t\treturn false")
	g.src.P("\t\t\t\t\t}")
	g.src.P("\t\t\t\t\tkey.WriteByte('.')")
	g.src.P("\t\t\t\t\tkey.WriteString(name)")
	g.src.P("\t\t\t\t} else {")
	g.src.P("\t\t\t\t\ti, err := step.AsInt()")
	g.src.P("\t\t\t\t\tif err != nil {")
	g.src.P("\t\t\t\t\t\twalkErr = err")
	g.src.P("\t\t\t\t\t\treturn false")
	g.src.P("\t\t\t\t\t}")
	g.src.P("\t\t\t\t\tkey.WriteByte('[')")
	g.src.P("\t\t\t\t\tkey.WriteString(strconv.FormatInt(i, 10))")
	g.src.P("\t\t\t\t\tkey.WriteByte(']')")
	g.src.P("\t\t\t\t}")
	g.src.P("\t\t\t}")
	g.src.P("\t\t\ttarget, ok := ctx.nodesByPath[key.String()]")
	g.src.P("\t\t\tif !ok {")
	g.src.P("\t\t\t\twalkErr = fmt.Errorf(\"tree-gen: link id %%d targets a path not present in the tree\", id)")
	g.src.P("\t\t\t\treturn false")
	g.src.P("\t\t\t}")
	g.src.P("\t\t\tctx.linkTargets[id] = target")
	g.src.P("\t\t\treturn true")
	g.src.P("\t\t})")
	g.src.P("\t\tif walkErr != nil {")
	g.src.P("\t\t\treturn nil, walkErr")
	g.src.P("\t\t}")
	g.src.P("\t}")
	g.src.P("\tfor _, fn := range ctx.pending {")
	g.src.P("\t\tif err := fn(); err != nil {")
	g.src.P("\t\t\treturn nil, err")
	g.src.P("\t\t}")
	g.src.P("\t}")
	g.src.P("\treturn root, nil")
	g.src.P("}")
	g.src.P("")
}

func (g *generator) emitUnmarshalDispatch() {
	g.src.P("func unmarshalNodeBody(fields *btree.Map[string, cbor.Slice], ctx *unmarshalCtx, path []pathStep) (Node, error) {")
	g.src.P("\ttypeSlice, ok := fields.Get(\"type\")")
	g.src.P("\tif !ok {")
	g.src.P("\t\treturn nil, fmt.Errorf(\"tree-gen: node map is missing required %%q key\", \"type\")")
	g.src.P("\t}")
	g.src.P("\ttypeName, err := typeSlice.AsString()")
	g.src.P("\tif err != nil {")
	g.src.P("\t\treturn nil, err")
	g.src.P("\t}")
	g.src.P("\tswitch typeName {")
	for _, n := range g.model.ConcreteTypes() {
		g.src.P("\tcase %q:", n.Name)
		g.src.P("\t\treturn unmarshal%s(fields, ctx, path)", n.Name)
	}
	g.src.P("\tdefault:")
	g.src.P("\t\treturn nil, fmt.Errorf(\"tree-gen: unknown node type %%q\", typeName)")
	g.src.P("\t}")
	g.src.P("}")
	g.src.P("")
}

// emitMarshalInto emits (*T).marshalInto, which writes n's "type" key,
// every field (recursing into owned children through marshalNodeBody so
// an abstract-typed field marshals via its dynamic type), and finally any
// registered annotations.
func (g *generator) emitMarshalInto(n *model.NodeType) {
	g.src.P("func (n *%s) marshalInto(mw *cbor.MapWriter, ctx *marshalCtx, path []pathStep) error {", n.Name)
	g.src.P("\tctx.paths[n] = path")
	g.src.P("\tif err := mw.AppendString(\"type\", %q); err != nil {", n.Name)
	g.src.P("\t\treturn err")
	g.src.P("\t}")
	for _, f := range n.AllFields() {
		g.emitMarshalField(f)
	}
	g.src.P("\treturn n.Annotatable.SerializeInto(mw)")
	g.src.P("}")
	g.src.P("")
}

func (g *generator) emitMarshalField(f *model.Field) {
	name := fieldGoName(f)
	key := f.Name
	switch f.Edge {
	case model.EdgeMaybe, model.EdgeOne:
		g.src.P("\tif n.%s != nil {", name)
		g.src.P("\t\tcw, err := mw.AppendMap(%q)", key)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn err")
		g.src.P("\t\t}")
		g.src.P("\t\tif err := marshalNodeBody(n.%s, cw, ctx, extendPath(path, pathStep{field: %q})); err != nil {", name, key)
		g.src.P("\t\t\treturn err")
		g.src.P("\t\t}")
		g.src.P("\t\tif err := cw.Close(); err != nil {")
		g.src.P("\t\t\treturn err")
		g.src.P("\t\t}")
		g.src.P("\t} else if err := mw.AppendNull(%q); err != nil {", key)
		g.src.P("\t\treturn err")
		g.src.P("\t}")
	case model.EdgeAny, model.EdgeMany:
		g.src.P("\t{")
		g.src.P("\t\taw, err := mw.AppendArray(%q)", key)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn err")
		g.src.P("\t\t}")
		g.src.P("\t\tfor i, c := range n.%s {", name)
		g.src.P("\t\t\tcw, err := aw.AppendMap()")
		g.src.P("\t\t\tif err != nil {")
		g.src.P("\t\t\t\treturn err")
		g.src.P("\t\t\t}")
		g.src.P("\t\t\tif err := marshalNodeBody(c, cw, ctx, extendPath(extendPath(path, pathStep{field: %q}), pathStep{index: i, isIndex: true})); err != nil {", key)
		g.src.P("\t\t\t\treturn err")
		g.src.P("\t\t\t}")
		g.src.P("\t\t\tif err := cw.Close(); err != nil {")
		g.src.P("\t\t\t\treturn err")
		g.src.P("\t\t\t}")
		g.src.P("\t\t}")
		g.src.P("\t\tif err := aw.Close(); err != nil {")
		g.src.P("\t\t\treturn err")
		g.src.P("\t\t}")
		g.src.P("\t}")
	case model.EdgeLink:
		g.src.P("\tif n.%s != nil {", name)
		g.src.P("\t\tif err := mw.AppendInt(%q, int64(ctx.linkID(n.%s))); err != nil {", key, name)
		g.src.P("\t\t\treturn err")
		g.src.P("\t\t}")
		g.src.P("\t} else if err := mw.AppendNull(%q); err != nil {", key)
		g.src.P("\t\treturn err")
		g.src.P("\t}")
	default:
		g.emitMarshalScalar(f, name, key)
	}
}

func (g *generator) emitMarshalScalar(f *model.Field, name, key string) {
	var expr string
	goType := fieldTypeName(f)
	switch {
	case f.Type.IsEnum():
		expr = fmt.Sprintf("mw.AppendInt(%q, int64(n.%s))", key, name)
	case goType == "string":
		expr = fmt.Sprintf("mw.AppendString(%q, n.%s)", key, name)
	case goType == "bool":
		expr = fmt.Sprintf("mw.AppendBool(%q, n.%s)", key, name)
	case goType == "[]byte":
		expr = fmt.Sprintf("mw.AppendBinary(%q, n.%s)", key, name)
	case goType == "float64":
		expr = fmt.Sprintf("mw.AppendFloat(%q, n.%s)", key, name)
	default:
		expr = fmt.Sprintf("mw.AppendInt(%q, int64(n.%s))", key, name)
	}
	g.src.P("\tif err := %s; err != nil {", expr)
	g.src.P("\t\treturn err")
	g.src.P("\t}")
}

// emitUnmarshalType emits unmarshal<Name>, the reverse of marshalInto.
func (g *generator) emitUnmarshalType(n *model.NodeType) {
	g.src.P("func unmarshal%s(fields *btree.Map[string, cbor.Slice], ctx *unmarshalCtx, path []pathStep) (Node, error) {", n.Name)
	g.src.P("\tcp := &%s{}", n.Name)
	g.src.P("\tctx.nodesByPath[pathKey(path)] = cp")
	for _, f := range n.AllFields() {
		g.emitUnmarshalField(n, f)
	}
	g.src.P("\tif err := cp.Annotatable.DeserializeFrom(fields); err != nil {")
	g.src.P("\t\treturn nil, err")
	g.src.P("\t}")
	g.src.P("\treturn cp, nil")
	g.src.P("}")
	g.src.P("")
}

func (g *generator) emitUnmarshalField(n *model.NodeType, f *model.Field) {
	name := fieldGoName(f)
	key := f.Name
	g.src.P("\t%sSlice, ok := fields.Get(%q)", name, key)
	g.src.P("\tif !ok {")
	g.src.P("\t\treturn nil, fmt.Errorf(\"tree-gen: %s is missing field %%q\", %q)", n.Name, key)
	g.src.P("\t}")

	switch f.Edge {
	case model.EdgeMaybe, model.EdgeOne:
		typ := singleNodeFieldType(f.Type.Node)
		g.src.P("\tif !%sSlice.IsNull() {", name)
		g.src.P("\t\t%sFields, err := %sSlice.AsMap()", name, name)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tchild, err := unmarshalNodeBody(%sFields, ctx, extendPath(path, pathStep{field: %q}))", name, key)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tv, ok := child.(%s)", typ)
		g.src.P("\t\tif !ok {")
		g.src.P("\t\t\treturn nil, fmt.Errorf(\"tree-gen: field %%q: unexpected node type %%T\", %q, child)", key)
		g.src.P("\t\t}")
		g.src.P("\t\tcp.%s = v", name)
		g.src.P("\t}")
	case model.EdgeAny, model.EdgeMany:
		elemTyp := singleNodeFieldType(f.Type.Node)
		g.src.P("\t%sArr, err := %sSlice.AsArray()", name, name)
		g.src.P("\tif err != nil {")
		g.src.P("\t\treturn nil, err")
		g.src.P("\t}")
		g.src.P("\tcp.%s = make([]%s, len(%sArr))", name, elemTyp, name)
		g.src.P("\tfor i, elem := range %sArr {", name)
		g.src.P("\t\telemFields, err := elem.AsMap()")
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tchild, err := unmarshalNodeBody(elemFields, ctx, extendPath(extendPath(path, pathStep{field: %q}), pathStep{index: i, isIndex: true}))", key)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tv, ok := child.(%s)", elemTyp)
		g.src.P("\t\tif !ok {")
		g.src.P("\t\t\treturn nil, fmt.Errorf(\"tree-gen: field %%q: unexpected node type %%T\", %q, child)", key)
		g.src.P("\t\t}")
		g.src.P("\t\tcp.%s[i] = v", name)
		g.src.P("\t}")
	case model.EdgeLink:
		typ := singleNodeFieldType(f.Type.Node)
		g.src.P("\tif !%sSlice.IsNull() {", name)
		g.src.P("\t\tid, err := %sSlice.AsInt()", name)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tctx.pending = append(ctx.pending, func() error {")
		g.src.P("\t\t\tt, ok := ctx.linkTargets[int(id)]")
		g.src.P("\t\t\tif !ok {")
		g.src.P("\t\t\t\treturn fmt.Errorf(\"tree-gen: unresolved link id %%d\", id)")
		g.src.P("\t\t\t}")
		g.src.P("\t\t\tv, ok := t.(%s)", typ)
		g.src.P("\t\t\tif !ok {")
		g.src.P("\t\t\t\treturn fmt.Errorf(\"tree-gen: field %%q: unexpected node type %%T\", %q, t)", key)
		g.src.P("\t\t\t}")
		g.src.P("\t\t\tcp.%s = v", name)
		g.src.P("\t\t\treturn nil")
		g.src.P("\t\t})")
		g.src.P("\t}")
	default:
		g.emitUnmarshalScalar(f, name)
	}
}

func (g *generator) emitUnmarshalScalar(f *model.Field, name string) {
	goType := fieldTypeName(f)
	switch {
	case f.Type.IsEnum():
		g.src.P("\t{")
		g.src.P("\t\tv, err := %sSlice.AsInt()", name)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tcp.%s = %s(v)", name, enumGoName(f.Type.Enum))
		g.src.P("\t}")
	case goType == "string":
		g.src.P("\t{")
		g.src.P("\t\tv, err := %sSlice.AsString()", name)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tcp.%s = v", name)
		g.src.P("\t}")
	case goType == "bool":
		g.src.P("\t{")
		g.src.P("\t\tv, err := %sSlice.AsBool()", name)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tcp.%s = v", name)
		g.src.P("\t}")
	case goType == "[]byte":
		g.src.P("\t{")
		g.src.P("\t\tv, err := %sSlice.AsBinary()", name)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tcp.%s = v", name)
		g.src.P("\t}")
	case goType == "float64":
		g.src.P("\t{")
		g.src.P("\t\tv, err := %sSlice.AsFloat()", name)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tcp.%s = v", name)
		g.src.P("\t}")
	default:
		g.src.P("\t{")
		g.src.P("\t\tv, err := %sSlice.AsInt()", name)
		g.src.P("\t\tif err != nil {")
		g.src.P("\t\t\treturn nil, err")
		g.src.P("\t\t}")
		g.src.P("\t\tcp.%s = %s(v)", name, goType)
		g.src.P("\t}")
	}
}
