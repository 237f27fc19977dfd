package golang

import (
	"fmt"

	"github.com/tree-gen/tree-gen/model"
)

// Options controls details of Go generation that aren't implied by the
// Tree Model itself.
type Options struct {
	// PackageName is the Go package name for both output files. Defaults
	// to the last component of the model's header namespace, or "tree"
	// if the header declares no namespace.
	PackageName string

	// SkipGofumpt disables the gofumpt formatting pass, returning the
	// generator's raw accumulated source instead. Off by default; exposed
	// so the CLI's "gofumpt" config knob (internal/cli) has something to
	// turn off without having to re-parse already-formatted Go.
	SkipGofumpt bool
}

func (o Options) packageName(m *model.Model) string {
	if o.PackageName != "" {
		return o.PackageName
	}
	if m.Header != nil && m.Header.Namespace != "" {
		return lastNamespaceComponent(m.Header.Namespace)
	}
	return "tree"
}

func lastNamespaceComponent(ns string) string {
	i := len(ns)
	for i > 0 && !(ns[i-1] == ':') {
		i--
	}
	return ns[i:]
}

// Generate renders a validated Model into the header and source files
// named on the tree-gen command line (spec §6). It never partially
// generates: an internal inconsistency (an unresolved TypeRef, which
// model.Build should already have rejected) returns an error instead of
// emitting broken Go.
func Generate(m *model.Model, opts Options) (header, src []byte, err error) {
	g := &generator{model: m, pkg: opts.packageName(m)}
	if err := g.run(); err != nil {
		return nil, nil, err
	}
	if opts.SkipGofumpt {
		return g.header.raw(), g.src.raw(), nil
	}
	return g.header.formatted(), g.src.formatted(), nil
}

type generator struct {
	model *model.Model
	pkg   string

	header source
	src    source
}

func (g *generator) run() error {
	if g.model.Root == nil {
		return fmt.Errorf("golang: model declares no root node type; tree-gen cannot emit a Marshal/Unmarshal entry point without one")
	}
	g.emitHeaderPreamble()
	g.emitKindEnum()
	g.emitEnumTypes()
	g.emitInterfaces()
	g.emitStructs()
	g.emitVisitorType()

	g.emitSourcePreamble()
	for _, n := range g.model.NodeOrder {
		g.emitMarkerMethods(n)
		if n.Concrete() {
			g.emitConstructors(n)
			g.emitAccessorMethods(n)
			g.emitCopyClone(n)
			g.emitEquals(n)
			g.emitVisit(n)
			g.emitDump(n)
			g.emitCheckComplete(n)
		}
	}
	g.emitRuntimeHelpers()

	if g.model.Header.FeatureEnabled("serialize") {
		if err := g.emitCBOR(); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) emitHeaderPreamble() {
	g.header.P("// Code generated by tree-gen. DO NOT EDIT.")
	g.header.P("package %s", g.pkg)
	g.header.P("")
	g.header.P("import (")
	g.header.P("\t%q", "io")
	g.header.P("\t%q", "github.com/tree-gen/tree-gen/annotation")
	for _, inc := range g.model.Header.IncludeHeader {
		g.header.P("\t%q", inc)
	}
	g.header.P(")")
	g.header.P("")
	g.header.P("// Node is implemented by every generated type in this tree, concrete or")
	g.header.P("// abstract.")
	g.header.P("type Node interface {")
	g.header.P("\tKind() Kind")
	g.header.P("\tAnnotations() *annotation.Annotatable")
	g.header.P("\tChildren() []Node")
	g.header.P("\tLinks() []Node")
	g.header.P("\tCheckComplete() error")
	g.header.P("\tVisit(v Visitor) error")
	g.header.P("\tDump(w io.Writer)")
	g.header.P("\twriteDump(w io.Writer, depth int)")
	g.header.P("\tcloneWithSeen(ctx *cloneCtx) Node")
	g.header.P("}")
	g.header.P("")
}

func (g *generator) emitKindEnum() {
	g.header.P("// Kind discriminates a Node's concrete type, stably numbered in")
	g.header.P("// declaration order starting at 1 (spec component F, §4.5).")
	g.header.P("type Kind int")
	g.header.P("")
	g.header.P("const (")
	g.header.P("\tKindInvalid Kind = iota")
	for _, n := range g.model.ConcreteTypes() {
		g.header.P("\t%s // = %d", kindConstName(n), n.DiscriminatorNumber)
	}
	g.header.P(")")
	g.header.P("")
	g.header.P("func (k Kind) String() string {")
	g.header.P("\tswitch k {")
	for _, n := range g.model.ConcreteTypes() {
		g.header.P("\tcase %s:", kindConstName(n))
		g.header.P("\t\treturn %q", n.Name)
	}
	g.header.P("\tdefault:")
	g.header.P("\t\treturn \"invalid\"")
	g.header.P("\t}")
	g.header.P("}")
	g.header.P("")
}

// emitEnumTypes emits one named int type per declared enum, with one
// constant per variant numbered by its Ordinal (the CBOR wire value, spec
// §6), plus a String method for Dump and debugging.
func (g *generator) emitEnumTypes() {
	for _, e := range g.model.EnumOrder {
		if e.Doc != "" {
			g.header.P("// %s", e.Doc)
		}
		g.header.P("type %s int", enumGoName(e))
		g.header.P("")
		g.header.P("const (")
		for _, c := range e.Variants {
			g.header.P("\t%s %s = %d", enumConstName(e, c), enumGoName(e), c.Ordinal)
		}
		g.header.P(")")
		g.header.P("")
		g.header.P("func (v %s) String() string {", enumGoName(e))
		g.header.P("\tswitch v {")
		for _, c := range e.Variants {
			g.header.P("\tcase %s:", enumConstName(e, c))
			g.header.P("\t\treturn %q", c.Name)
		}
		g.header.P("\tdefault:")
		g.header.P("\t\treturn \"invalid\"")
		g.header.P("\t}")
		g.header.P("}")
		g.header.P("")
	}
}

// emitInterfaces emits one Go interface per abstract node type. The
// interface embeds its own parent's interface (or Node, for a root
// abstract type), plus the unexported marker method that lets every
// descendant concrete struct opt into satisfying it.
func (g *generator) emitInterfaces() {
	for _, n := range g.model.NodeOrder {
		if !n.Abstract() {
			continue
		}
		embed := "Node"
		if n.Parent != nil {
			embed = nodeGoName(n.Parent)
		}
		if n.Doc != "" {
			g.header.P("// %s", n.Doc)
		}
		g.header.P("type %s interface {", interfaceName(n))
		g.header.P("\t%s", embed)
		g.header.P("\t%s()", markerMethodName(n))
		g.header.P("}")
		g.header.P("")
	}
}

// emitStructs first emits one FooFields holder per node type (abstract or
// concrete) that declares its own fields, then one Go struct per concrete
// node type embedding Annotatable plus its own and every ancestor's
// FooFields. Field names are promoted up through the embedding chain
// (invariant 5 guarantees no two of them collide), so both field access
// and construction can address an inherited field directly as n.Field
// rather than n.AncestorFields.Field.
func (g *generator) emitStructs() {
	for _, n := range g.model.NodeOrder {
		if len(n.OwnFields) == 0 {
			continue
		}
		g.header.P("// %sFields holds %s's own fields, embedded by %s's own struct (if", n.Name, n.Name, n.Name)
		g.header.P("// concrete) and by every descendant's.")
		g.header.P("type %sFields struct {", n.Name)
		for _, f := range n.OwnFields {
			if f.Doc != "" {
				g.header.P("\t// %s", f.Doc)
			}
			g.header.P("\t%s %s", fieldGoName(f), fieldTypeName(f))
		}
		g.header.P("}")
		g.header.P("")
	}

	for _, n := range g.model.NodeOrder {
		if !n.Concrete() {
			continue
		}
		if n.Doc != "" {
			g.header.P("// %s", n.Doc)
		}
		g.header.P("type %s struct {", n.Name)
		g.header.P("\tannotation.Annotatable")
		if len(n.OwnFields) > 0 {
			g.header.P("\t%sFields", n.Name)
		}
		for _, a := range n.Ancestors() {
			if len(a.OwnFields) > 0 {
				g.header.P("\t%sFields", a.Name)
			}
		}
		g.header.P("}")
		g.header.P("")
	}
}

func (g *generator) emitVisitorType() {
	g.header.P("// Visitor is satisfied by any value implementing some subset of the")
	g.header.P("// Visit<TypeName> methods below; Node.Visit dispatches to the most")
	g.header.P("// specific method present on v, falling back through ancestor types")
	g.header.P("// (spec §4.5 \"visitor falls back to the nearest ancestor method\").")
	g.header.P("type Visitor interface{}")
	g.header.P("")
	for _, n := range g.model.NodeOrder {
		g.header.P("type %sVisitor interface {", n.Name)
		g.header.P("\t%s(n %s) error", visitMethodName(n), nodeGoName(n))
		g.header.P("}")
		g.header.P("")
	}
}

func (g *generator) emitSourcePreamble() {
	g.src.P("// Code generated by tree-gen. DO NOT EDIT.")
	g.src.P("package %s", g.pkg)
	g.src.P("")
	g.src.P("import (")
	if g.usesBytesEqual() {
		g.src.P("\t%q", "bytes")
	}
	g.src.P("\t%q", "fmt")
	g.src.P("\t%q", "io")
	g.src.P("\t%q", "strings")
	if g.model.Header.FeatureEnabled("serialize") {
		g.src.P("\t%q", "strconv")
		g.src.P("\t%q", "github.com/tidwall/btree")
		g.src.P("\t%q", "github.com/tree-gen/tree-gen/cbor")
	}
	for _, inc := range g.model.Header.IncludeSource {
		g.src.P("\t%q", inc)
	}
	g.src.P(")")
	g.src.P("")
}

// usesBytesEqual reports whether any declared field maps to a Go []byte,
// which needs bytes.Equal in Equals (slices aren't comparable with ==).
func (g *generator) usesBytesEqual() bool {
	for _, n := range g.model.NodeOrder {
		for _, f := range n.OwnFields {
			if (f.Edge == model.EdgeExternal || f.Edge == model.EdgePrim) && fieldTypeName(f) == "[]byte" {
				return true
			}
		}
	}
	return false
}

// emitMarkerMethods implements the marker method for n and every ancestor
// interface, so a concrete type satisfies its own interface chain.
func (g *generator) emitMarkerMethods(n *model.NodeType) {
	if n.Concrete() {
		for _, a := range n.Ancestors() {
			g.src.P("func (n *%s) %s() {}", n.Name, markerMethodName(a))
		}
	}
}

func (g *generator) emitConstructors(n *model.NodeType) {
	all := n.AllFields()
	g.src.P("// New%s constructs a %s with every field set to its declared default", n.Name, n.Name)
	g.src.P("// or the Go zero value.")
	g.src.P("func New%s() *%s {", n.Name, n.Name)
	g.src.P("\tn := &%s{}", n.Name)
	for _, f := range all {
		if f.HasDefault {
			g.src.P("\tn.%s = %s", fieldGoName(f), f.Default)
		}
	}
	g.src.P("\treturn n")
	g.src.P("}")
	g.src.P("")
	if len(all) == 0 {
		return
	}
	g.src.P("// New%sWithFields constructs a %s from every field, in declaration", n.Name, n.Name)
	g.src.P("// order (own fields first, then each ancestor's, nearest first).")
	g.src.P("func New%sWithFields(", n.Name)
	for _, f := range all {
		g.src.P("\t%s %s,", ctorParamName(f), fieldTypeName(f))
	}
	g.src.P(") *%s {", n.Name)
	g.src.P("\tn := &%s{}", n.Name)
	for _, f := range all {
		g.src.P("\tn.%s = %s", fieldGoName(f), ctorParamName(f))
	}
	g.src.P("\treturn n")
	g.src.P("}")
	g.src.P("")
}
