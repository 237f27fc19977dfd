package golang_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tree-gen/tree-gen/gen/golang"
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

func TestGenerateEmitsInterfaceAndStructs(t *testing.T) {
	m := buildModel(t, exprSrc)
	header, src, err := golang.Generate(m, golang.Options{})
	require.NoError(t, err)

	headerText := string(header)
	assert.Contains(t, headerText, "type ExprNode interface")
	assert.Contains(t, headerText, "type Add struct")
	assert.Contains(t, headerText, "type Lit struct")
	assert.Contains(t, headerText, "type AddFields struct")

	srcText := string(src)
	assert.Contains(t, srcText, "func NewAdd() *Add")
	assert.Contains(t, srcText, "func (n *Add) isExprNode() {}")
	assert.Contains(t, srcText, "func (n *Lit) Clone() *Lit")
	assert.Contains(t, srcText, "n.Value = 0")
}

func TestGeneratePackageNameFromNamespace(t *testing.T) {
	m := buildModel(t, exprSrc)
	header, _, err := golang.Generate(m, golang.Options{})
	require.NoError(t, err)
	assert.Contains(t, string(header), "package expr")
}

func TestGenerateExplicitPackageNameOverridesNamespace(t *testing.T) {
	m := buildModel(t, exprSrc)
	header, _, err := golang.Generate(m, golang.Options{PackageName: "ast2"})
	require.NoError(t, err)
	assert.Contains(t, string(header), "package ast2")
}

func TestGenerateRejectsModelWithoutRoot(t *testing.T) {
	m := buildModel(t, `
primitive Int { include = "<cstdint>"; default = "0"; }
Lit {
	value: Int;
}
`)
	_, _, err := golang.Generate(m, golang.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no root")
}

func TestGenerateLinkFieldIsPointerNotOwning(t *testing.T) {
	src := `
namespace tree::graph;

Node root {
	next: Link<Node>;
}
`
	m := buildModel(t, src)
	_, srcBytes, err := golang.Generate(m, golang.Options{})
	require.NoError(t, err)
	text := string(srcBytes)
	assert.Contains(t, text, "func (n *Node) Links() []Node")
	assert.Contains(t, text, "n.Next != o.Next", "Link equality compares identity, not structure")
}

func TestGenerateSerializeFeatureEmitsCBOR(t *testing.T) {
	src := `
namespace tree::expr2;
feature serialize on;

primitive Int {
	include = "<cstdint>";
	default = "0";
}

Expr {
}

Lit : Expr root {
	value: Int = 0;
}
`
	m := buildModel(t, src)
	_, srcBytes, err := golang.Generate(m, golang.Options{})
	require.NoError(t, err)
	text := string(srcBytes)
	assert.Contains(t, text, "func Marshal(root Node) ([]byte, error)")
	assert.Contains(t, text, "func Unmarshal(data []byte) (Node, error)")
	assert.Contains(t, text, "func (n *Lit) marshalInto(")
	assert.Contains(t, text, "func unmarshalLit(")
}

func TestGenerateWithoutSerializeFeatureOmitsCBOR(t *testing.T) {
	m := buildModel(t, exprSrc)
	_, srcBytes, err := golang.Generate(m, golang.Options{})
	require.NoError(t, err)
	assert.NotContains(t, string(srcBytes), "func Marshal(")
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
	header, _, err := golang.Generate(m, golang.Options{})
	require.NoError(t, err)
	headerText := string(header)
	assert.Contains(t, headerText, "type Op int")
	assert.Contains(t, headerText, "OpPlus  Op = 0")
	assert.Contains(t, headerText, "OpMinus Op = 1")
	assert.Contains(t, headerText, "func (v Op) String() string", "%s", headerText)
}

func TestGenerateRejectsUnmappablePrimitiveUnderSerialize(t *testing.T) {
	src := `
namespace tree::expr4;
feature serialize on;

primitive Custom {
	include = "\"custom.h\"";
}

Lit root {
	value: Custom;
}
`
	m := buildModel(t, src)
	_, _, err := golang.Generate(m, golang.Options{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no CBOR encoding"))
}
