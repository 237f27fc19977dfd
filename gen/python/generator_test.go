package python_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tree-gen/tree-gen/gen/python"
	"github.com/tree-gen/tree-gen/model"
	"github.com/tree-gen/tree-gen/parser"
	"github.com/tree-gen/tree-gen/reporter"
)

func buildModel(t *testing.T, src string) *model.Model {
	t.Helper()
	handler := reporter.NewHandler(nil)
	file, err := parser.Parse("test.tree", []byte(src), handler)
	require.NoError(t, err)
	m, err := model.Build("test.tree", file, handler)
	require.NoError(t, err)
	return m
}

const exprSrc = `
namespace tree::expr;

primitive Int {
	include = "<cstdint>";
	default = "0";
}

Expr {
}

Add : Expr {
	lhs: One<Expr>;
	rhs: One<Expr>;
}

Lit : Expr root {
	value: Int = 0;
}
`

func TestGenerateEmitsClassHierarchy(t *testing.T) {
	m := buildModel(t, exprSrc)
	src, err := python.Generate(m, python.Options{})
	require.NoError(t, err)

	text := string(src)
	assert.Contains(t, text, "class ExprNode(TreeNode)")
	assert.Contains(t, text, "class Add(ExprNode)")
	assert.Contains(t, text, "class Lit(ExprNode)")
	assert.Contains(t, text, "def marshal_into(self, w, ctx, path)")
	assert.Contains(t, text, "self.value = 0")
}

func TestGenerateRejectsModelWithoutRoot(t *testing.T) {
	m := buildModel(t, `
primitive Int { include = "<cstdint>"; default = "0"; }
Lit {
	value: Int;
}
`)
	_, err := python.Generate(m, python.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no root")
}

func TestGenerateLinkFieldComparesIdentity(t *testing.T) {
	src := `
namespace tree::graph;

Node root {
	next: Link<Node>;
}
`
	m := buildModel(t, src)
	out, err := python.Generate(m, python.Options{})
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "def links(self):")
	assert.Contains(t, text, "if self.next is not other.next:")
}

func TestGenerateAlwaysEmitsCBORCodec(t *testing.T) {
	// Unlike the native emitter, the dynamic emitter has no "feature
	// serialize on" gate: every generated module is self-contained and
	// always carries its own CBOR codec (no shared runtime to import).
	m := buildModel(t, exprSrc)
	src, err := python.Generate(m, python.Options{})
	require.NoError(t, err)
	text := string(src)
	assert.Contains(t, text, "def encode(root):")
	assert.Contains(t, text, "def decode(data):")
	assert.Contains(t, text, "class _CBORWriter:")
	assert.Contains(t, text, "def _unmarshal_Lit(fields, ctx, path):")
}

func TestGenerateEnumTypeAndField(t *testing.T) {
	src := `
namespace tree::expr3;

primitive Int { include = "<cstdint>"; default = "0"; }

enum Op {
	Plus,
	Minus,
}

Lit root {
	value: Int;
	op: Op;
}
`
	m := buildModel(t, src)
	out, err := python.Generate(m, python.Options{})
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "class Op(enum.IntEnum):")
	assert.Contains(t, text, "PLUS = 0")
	assert.Contains(t, text, "MINUS = 1")
}

func TestGenerateKindEnumNumbersConcreteTypesInDeclarationOrder(t *testing.T) {
	m := buildModel(t, exprSrc)
	out, err := python.Generate(m, python.Options{})
	require.NoError(t, err)

	var got []string
	for _, n := range m.ConcreteTypes() {
		got = append(got, n.Name)
	}
	want := []string{"Add", "Lit"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("concrete type declaration order mismatch (-want +got):\n%s", diff)
	}

	text := string(out)
	assert.Contains(t, text, "ADD = 1")
	assert.Contains(t, text, "LIT = 2")
}

func TestGenerateRejectsUnmappablePrimitive(t *testing.T) {
	src := `
namespace tree::expr4;

primitive Custom {
	include = "\"custom.h\"";
}

Lit root {
	value: Custom;
}
`
	m := buildModel(t, src)
	_, err := python.Generate(m, python.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CBOR encoding")
}
