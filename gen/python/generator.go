package python

import (
	"fmt"

	"github.com/tree-gen/tree-gen/model"
)

// Options controls details of Python generation not implied by the Tree
// Model itself. It mirrors gen/golang.Options in shape, even though
// nothing here needs a package name override yet, so the two emitters'
// call sites in internal/cli read the same way.
type Options struct {
	// ModuleDocstring overrides the generated module's leading docstring.
	// Empty uses a generic default naming the source namespace, if any.
	ModuleDocstring string
}

type generator struct {
	model *model.Model
	src   source
}

// Generate renders a validated Model as a single Python module
// implementing the dynamic-language emitter's contract (spec §4.6):
// equivalent field storage, clone/equals/visit/check_complete, and a CBOR
// codec bit-compatible with package cbor's wire format.
func Generate(m *model.Model, opts Options) ([]byte, error) {
	if m.Root == nil {
		return nil, fmt.Errorf("python: model declares no root node type; tree-gen cannot emit an encode/decode entry point without one")
	}
	for _, n := range m.ConcreteTypes() {
		for _, f := range n.AllFields() {
			if (f.Edge == model.EdgeExternal || f.Edge == model.EdgePrim) && !f.Type.IsEnum() {
				if _, ok := wellKnownPrimitives[f.Type.Primitive.Name]; !ok {
					return nil, fmt.Errorf("python: primitive %q (field %s.%s) has no CBOR encoding; "+
						"declare it as one of Int/Int32/UInt/Float/Double/Bool/String/Bytes", f.Type.Primitive.Name, n.Name, f.Name)
				}
			}
		}
	}

	g := &generator{model: m}
	g.emitPreamble(opts)
	g.emitCBORRuntime()
	g.emitKindEnum()
	g.emitEnumClasses()
	g.emitTreeNodeBase()
	for _, n := range g.model.NodeOrder {
		if n.Abstract() {
			g.emitAbstractClass(n)
		} else {
			g.emitConcreteClass(n)
		}
	}
	g.emitMarshalRuntime()
	g.emitUnmarshalRuntime()
	g.emitUnmarshalFunctions()
	g.emitDispatchTables()

	return g.src.bytes(), nil
}

func (g *generator) emitPreamble(opts Options) {
	doc := opts.ModuleDocstring
	if doc == "" {
		ns := "this tree"
		if g.model.Header != nil && g.model.Header.Namespace != "" {
			ns = g.model.Header.Namespace
		}
		doc = fmt.Sprintf("Generated by tree-gen. DO NOT EDIT.\n\nObject model and CBOR codec for %s.", ns)
	}
	g.src.P(`"""%s"""`, doc)
	g.src.P("")
	g.src.P("import enum")
	g.src.P("")
}

func (g *generator) emitCBORRuntime() {
	g.src.Raw(cborRuntime)
	g.src.P("")
}

// emitKindEnum mirrors gen/golang's Kind type: a stable integer per
// concrete node type, numbered in declaration order starting at 1 (spec
// §4.5), usable from a Python visitor or debugging tool the same way the
// Go Kind enum is.
func (g *generator) emitKindEnum() {
	g.src.P("class Kind(enum.IntEnum):")
	g.src.P("    \"\"\"Discriminates a node's concrete type.\"\"\"")
	g.src.P("")
	for _, n := range g.model.ConcreteTypes() {
		g.src.P("    %s = %d", kindMemberName(n), n.DiscriminatorNumber)
	}
	g.src.P("")
	g.src.P("")
}

// emitEnumClasses emits one IntEnum per declared enum, ordinal-numbered
// to match the CBOR wire encoding (spec §6 "enumerations serialize as
// integer ordinals in declaration order").
func (g *generator) emitEnumClasses() {
	for _, e := range g.model.EnumOrder {
		g.src.P("class %s(enum.IntEnum):", enumClassName(e))
		if e.Doc != "" {
			g.src.P("    \"\"\"%s\"\"\"", e.Doc)
			g.src.P("")
		}
		for _, c := range e.Variants {
			g.src.P("    %s = %d", enumMemberName(c), c.Ordinal)
		}
		g.src.P("")
		g.src.P("")
	}
}

// emitTreeNodeBase emits the common root every generated class descends
// from, analogous to gen/golang's Node interface: a uniform
// annotate/get_annotation pair plus the default (empty) children/links
// every leaf-of-the-hierarchy concrete class without such fields
// inherits unmodified.
func (g *generator) emitTreeNodeBase() {
	g.src.P("class TreeNode:")
	g.src.P("    \"\"\"Common base of every generated class, concrete or abstract.\"\"\"")
	g.src.P("")
	g.src.P("    def __init__(self):")
	g.src.P("        self._annotations = {}")
	g.src.P("")
	g.src.P("    def kind(self):")
	g.src.P("        raise NotImplementedError")
	g.src.P("")
	g.src.P("    def children(self):")
	g.src.P("        return []")
	g.src.P("")
	g.src.P("    def links(self):")
	g.src.P("        return []")
	g.src.P("")
	g.src.P("    def annotate(self, type_name, value):")
	g.src.P("        self._annotations[type_name] = value")
	g.src.P("")
	g.src.P("    def get_annotation(self, type_name):")
	g.src.P("        return self._annotations.get(type_name)")
	g.src.P("")
	g.src.P("    def check_complete(self):")
	g.src.P("        return")
	g.src.P("")
	g.src.P("    def dump(self, indent=0):")
	g.src.P("        print(self._dump_str(indent))")
	g.src.P("")
	g.src.P("    def _dump_str(self, indent):")
	g.src.P("        return \"%%s%%s {}\" %% (\"  \" * indent, type(self).__name__)")
	g.src.P("")
	g.src.P("")
}

func (g *generator) emitAbstractClass(n *model.NodeType) {
	g.src.P("class %s(%s):", baseClassName(n), parentClassName(n))
	if n.Doc != "" {
		g.src.P("    \"\"\"%s\"\"\"", n.Doc)
	} else {
		g.src.P("    pass")
	}
	g.src.P("")
	g.src.P("")
}
