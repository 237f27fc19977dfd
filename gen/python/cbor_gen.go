package python

import (
	"github.com/tree-gen/tree-gen/model"
)

// cborScalarKind maps a field's resolved primitive to one of the CBOR
// writer's scalar append methods, mirroring gen/golang's fieldTypeName
// switch in emitMarshalScalar/emitUnmarshalScalar one level up: Python has
// no static type to switch on, so the kind is resolved once here at
// generation time instead of being implied by a Go field declaration.
func cborScalarKind(f *model.Field) string {
	if f.Type.IsEnum() {
		return "int"
	}
	switch f.Type.Primitive.Name {
	case "String":
		return "string"
	case "Bool":
		return "bool"
	case "Bytes":
		return "binary"
	case "Float", "Double":
		return "float"
	default:
		return "int"
	}
}

// emitMarshalRuntime emits the module-level marshal context and the
// encode() entry point, mirroring gen/golang's marshalCtx and Marshal
// (cbor_gen.go): a path is threaded down through the recursive
// marshal_into walk as a flat list mixing str (field name) and int (array
// index) steps, and Link targets are resolved to a path once the whole
// tree has been walked.
func (g *generator) emitMarshalRuntime() {
	g.src.P("class _MarshalCtx:")
	g.src.P("    \"\"\"Tracks link ids and each node's path for one encode() call.\"\"\"")
	g.src.P("")
	g.src.P("    def __init__(self):")
	g.src.P("        self.paths = {}")
	g.src.P("        self.link_ids = {}")
	g.src.P("        self.link_nodes = {}")
	g.src.P("        self.next_link_id = 0")
	g.src.P("")
	g.src.P("    def link_id(self, node):")
	g.src.P("        key = id(node)")
	g.src.P("        if key in self.link_ids:")
	g.src.P("            return self.link_ids[key]")
	g.src.P("        lid = self.next_link_id")
	g.src.P("        self.next_link_id += 1")
	g.src.P("        self.link_ids[key] = lid")
	g.src.P("        self.link_nodes[key] = node")
	g.src.P("        return lid")
	g.src.P("")
	g.src.P("")
	g.src.P("def _path_key(path):")
	g.src.P("    parts = []")
	g.src.P("    for step in path:")
	g.src.P("        if isinstance(step, bool):")
	g.src.P("            parts.append(\".%%s\" %% step)")
	g.src.P("        elif isinstance(step, int):")
	g.src.P("            parts.append(\"[%%d]\" %% step)")
	g.src.P("        else:")
	g.src.P("            parts.append(\".%%s\" %% step)")
	g.src.P("    return \"\".join(parts)")
	g.src.P("")
	g.src.P("")
	g.src.P("def _write_generic(w, key, value):")
	g.src.P("    \"\"\"Appends an arbitrary Python scalar as an annotation value.\"\"\"")
	g.src.P("    if value is None:")
	g.src.P("        w.append_null(key)")
	g.src.P("    elif isinstance(value, bool):")
	g.src.P("        w.append_bool(key, value)")
	g.src.P("    elif isinstance(value, int):")
	g.src.P("        w.append_int(key, value)")
	g.src.P("    elif isinstance(value, float):")
	g.src.P("        w.append_float(key, value)")
	g.src.P("    elif isinstance(value, (bytes, bytearray)):")
	g.src.P("        w.append_binary(key, bytes(value))")
	g.src.P("    else:")
	g.src.P("        w.append_string(key, str(value))")
	g.src.P("")
	g.src.P("")
	g.src.P("def encode(root):")
	g.src.P("    \"\"\"Encodes root as a CBOR tree.\"\"\"")
	g.src.P("    ctx = _MarshalCtx()")
	g.src.P("    w = _CBORWriter()")
	g.src.P("    w.open_map()")
	g.src.P("    root.marshal_into(w, ctx, [])")
	g.src.P("    if ctx.link_ids:")
	g.src.P("        by_id = [None] * ctx.next_link_id")
	g.src.P("        for key, lid in ctx.link_ids.items():")
	g.src.P("            by_id[lid] = ctx.link_nodes[key]")
	g.src.P("        w.begin_map(\"links\")")
	g.src.P("        for lid, node in enumerate(by_id):")
	g.src.P("            path = ctx.paths.get(id(node))")
	g.src.P("            if path is None:")
	g.src.P("                raise ValueError(\"tree-gen: Link target is not reachable from the serialized root\")")
	g.src.P("            w.begin_array(str(lid))")
	g.src.P("            for step in path:")
	g.src.P("                if not isinstance(step, bool) and isinstance(step, int):")
	g.src.P("                    w.write_int(step)")
	g.src.P("                else:")
	g.src.P("                    w.write_string(step)")
	g.src.P("            w.close()")
	g.src.P("        w.close()")
	g.src.P("    w.close()")
	g.src.P("    return w.bytes()")
	g.src.P("")
	g.src.P("")
}

// emitMarshalInto emits <Class>.marshal_into, the mirror of
// gen/golang's emitMarshalInto: writes the "type" key, every field in
// declaration order, and finally each registered annotation.
func (g *generator) emitMarshalInto(n *model.NodeType, all []*model.Field) {
	g.src.P("    def marshal_into(self, w, ctx, path):")
	g.src.P("        ctx.paths[id(self)] = path")
	g.src.P("        w.append_string(\"type\", %q)", n.Name)
	for _, f := range all {
		g.emitMarshalField(f)
	}
	g.src.P("        for type_name, value in self._annotations.items():")
	g.src.P("            _write_generic(w, type_name, value)")
	g.src.P("")
}

func (g *generator) emitMarshalField(f *model.Field) {
	name := fieldPyName(f)
	key := f.Name
	switch f.Edge {
	case model.EdgeMaybe, model.EdgeOne:
		g.src.P("        if self.%s is not None:", name)
		g.src.P("            w.begin_map(%q)", key)
		g.src.P("            self.%s.marshal_into(w, ctx, path + [%q])", name, key)
		g.src.P("            w.close()")
		g.src.P("        else:")
		g.src.P("            w.append_null(%q)", key)
	case model.EdgeAny, model.EdgeMany:
		g.src.P("        w.begin_array(%q)", key)
		g.src.P("        for i, c in enumerate(self.%s):", name)
		g.src.P("            w.open_map()")
		g.src.P("            c.marshal_into(w, ctx, path + [%q, i])", key)
		g.src.P("            w.close()")
		g.src.P("        w.close()")
	case model.EdgeLink:
		g.src.P("        if self.%s is not None:", name)
		g.src.P("            w.append_int(%q, ctx.link_id(self.%s))", key, name)
		g.src.P("        else:")
		g.src.P("            w.append_null(%q)", key)
	default:
		switch cborScalarKind(f) {
		case "int":
			g.src.P("        w.append_int(%q, int(self.%s))", key, name)
		case "string":
			g.src.P("        w.append_string(%q, self.%s)", key, name)
		case "bool":
			g.src.P("        w.append_bool(%q, self.%s)", key, name)
		case "binary":
			g.src.P("        w.append_binary(%q, self.%s)", key, name)
		case "float":
			g.src.P("        w.append_float(%q, self.%s)", key, name)
		}
	}
}

// emitUnmarshalRuntime emits the module-level unmarshal context and the
// decode() entry point, the reverse of encode(): constructed nodes are
// recorded by path as they're built, and every Link field defers
// assignment to ctx.pending until the whole tree and "links" table have
// been read, the same deferred-remap idiom clone() uses.
func (g *generator) emitUnmarshalRuntime() {
	g.src.P("class _UnmarshalCtx:")
	g.src.P("    def __init__(self):")
	g.src.P("        self.nodes_by_path = {}")
	g.src.P("        self.link_targets = {}")
	g.src.P("        self.pending = []")
	g.src.P("")
	g.src.P("")
	g.src.P("def _unmarshal_node_body(fields, ctx, path):")
	g.src.P("    if \"type\" not in fields:")
	g.src.P("        raise ValueError(\"tree-gen: node map is missing required \\\"type\\\" key\")")
	g.src.P("    type_name = fields[\"type\"]")
	g.src.P("    fn = _UNMARSHAL_DISPATCH.get(type_name)")
	g.src.P("    if fn is None:")
	g.src.P("        raise ValueError(\"tree-gen: unknown node type %%r\" %% type_name)")
	g.src.P("    return fn(fields, ctx, path)")
	g.src.P("")
	g.src.P("")
	g.src.P("def decode(data):")
	g.src.P("    \"\"\"Decodes data as a CBOR tree produced by encode().\"\"\"")
	g.src.P("    fields, _ = _cbor_decode(data, 0)")
	g.src.P("    ctx = _UnmarshalCtx()")
	g.src.P("    root = _unmarshal_node_body(fields, ctx, [])")
	g.src.P("    links = fields.get(\"links\")")
	g.src.P("    if links:")
	g.src.P("        for id_str, steps in links.items():")
	g.src.P("            key = _path_key(steps)")
	g.src.P("            target = ctx.nodes_by_path.get(key)")
	g.src.P("            if target is None:")
	g.src.P("                raise ValueError(\"tree-gen: link id %%s targets a path not present in the tree\" %% id_str)")
	g.src.P("            ctx.link_targets[int(id_str)] = target")
	g.src.P("    for fn in ctx.pending:")
	g.src.P("        fn()")
	g.src.P("    return root")
	g.src.P("")
	g.src.P("")
}

// emitUnmarshalType emits the module-level _unmarshal_<Name> function for
// one concrete type, the reverse of <Class>.marshal_into.
func (g *generator) emitUnmarshalType(n *model.NodeType, all []*model.Field) {
	g.src.P("def _unmarshal_%s(fields, ctx, path):", n.Name)
	g.src.P("    cp = %s.__new__(%s)", className(n), className(n))
	g.src.P("    TreeNode.__init__(cp)")
	g.src.P("    ctx.nodes_by_path[_path_key(path)] = cp")
	for _, f := range all {
		g.emitUnmarshalField(n, f)
	}
	g.src.P("    return cp")
	g.src.P("")
	g.src.P("")
}

func (g *generator) emitUnmarshalField(n *model.NodeType, f *model.Field) {
	name := fieldPyName(f)
	key := f.Name
	g.src.P("    if %q not in fields:", key)
	g.src.P("        raise ValueError(\"tree-gen: %s is missing field %s\")", n.Name, key)
	g.src.P("    %s_raw = fields[%q]", name, key)

	switch f.Edge {
	case model.EdgeMaybe, model.EdgeOne:
		g.src.P("    if %s_raw is not None:", name)
		g.src.P("        cp.%s = _unmarshal_node_body(%s_raw, ctx, path + [%q])", name, name, key)
		g.src.P("    else:")
		g.src.P("        cp.%s = None", name)
	case model.EdgeAny, model.EdgeMany:
		g.src.P("    cp.%s = []", name)
		g.src.P("    for i, elem in enumerate(%s_raw):", name)
		g.src.P("        cp.%s.append(_unmarshal_node_body(elem, ctx, path + [%q, i]))", name, key)
	case model.EdgeLink:
		g.src.P("    if %s_raw is not None:", name)
		g.src.P("        lid = int(%s_raw)", name)
		g.src.P("        def _resolve(cp=cp, lid=lid):")
		g.src.P("            if lid not in ctx.link_targets:")
		g.src.P("                raise ValueError(\"tree-gen: unresolved link id %%d\" %% lid)")
		g.src.P("            cp.%s = ctx.link_targets[lid]", name)
		g.src.P("        ctx.pending.append(_resolve)")
		g.src.P("    else:")
		g.src.P("        cp.%s = None", name)
	default:
		switch cborScalarKind(f) {
		case "int":
			if f.Type.IsEnum() {
				g.src.P("    cp.%s = %s(%s_raw)", name, enumClassName(f.Type.Enum), name)
			} else {
				g.src.P("    cp.%s = %s_raw", name, name)
			}
		default:
			g.src.P("    cp.%s = %s_raw", name, name)
		}
	}
}

// emitDispatchTables emits the dict mapping a "type" key to its
// _unmarshal_<Name> function, the Python analogue of gen/golang's
// unmarshalNodeBody switch.
func (g *generator) emitDispatchTables() {
	g.src.P("_UNMARSHAL_DISPATCH = {")
	for _, n := range g.model.ConcreteTypes() {
		g.src.P("    %q: _unmarshal_%s,", n.Name, n.Name)
	}
	g.src.P("}")
	g.src.P("")
	g.src.P("")
	g.emitCheckLinks()
}

// emitCheckLinks emits the module-level _check_links helper every
// concrete class's check_complete() calls, mirroring gen/golang's
// checkLinks: every node reachable via children() is marked visited, then
// every Link reachable from those same nodes must target a visited node.
func (g *generator) emitCheckLinks() {
	g.src.P("def _check_links(root):")
	g.src.P("    visited = set()")
	g.src.P("")
	g.src.P("    def mark(n):")
	g.src.P("        if n is None or id(n) in visited:")
	g.src.P("            return")
	g.src.P("        visited.add(id(n))")
	g.src.P("        for c in n.children():")
	g.src.P("            mark(c)")
	g.src.P("")
	g.src.P("    mark(root)")
	g.src.P("")
	g.src.P("    seen = set()")
	g.src.P("")
	g.src.P("    def check(n):")
	g.src.P("        if n is None or id(n) in seen:")
	g.src.P("            return")
	g.src.P("        seen.add(id(n))")
	g.src.P("        for link in n.links():")
	g.src.P("            if link is not None and id(link) not in visited:")
	g.src.P("                raise ValueError(\"dangling Link: target is not reachable from the containing root\")")
	g.src.P("        for c in n.children():")
	g.src.P("            check(c)")
	g.src.P("")
	g.src.P("    check(root)")
	g.src.P("")
	g.src.P("")
}
