package model_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tree-gen/tree-gen/model"
	"github.com/tree-gen/tree-gen/parser"
	"github.com/tree-gen/tree-gen/reporter"
)

func build(t *testing.T, src string) (*model.Model, error) {
	t.Helper()
	handler := reporter.NewHandler(nil)
	file, err := parser.Parse("test.tree", []byte(src), handler)
	if err != nil {
		return nil, err
	}
	return model.Build("test.tree", file, handler)
}

func TestBuildExprHierarchy(t *testing.T) {
	src := `
primitive Int { include = "<cstdint>"; default = "0"; }

Expr {
}

Add : Expr {
	lhs: One<Expr>;
	rhs: One<Expr>;
}

Lit : Expr root {
	value: Int;
}
`
	m, err := build(t, src)
	require.NoError(t, err)
	require.NotNil(t, m)

	expr, ok := m.NodeTypes.Get("Expr")
	require.True(t, ok)
	assert.True(t, expr.Abstract())

	add, ok := m.NodeTypes.Get("Add")
	require.True(t, ok)
	assert.True(t, add.Concrete())
	assert.Same(t, expr, add.Parent)
	require.Len(t, add.OwnFields, 2)
	assert.Equal(t, model.EdgeOne, add.OwnFields[0].Edge)

	lit, ok := m.NodeTypes.Get("Lit")
	require.True(t, ok)
	assert.Same(t, lit, m.Root)
	assert.True(t, lit.IsOrDescendsFrom(expr))
	assert.NotZero(t, add.DiscriminatorNumber)
	assert.NotZero(t, lit.DiscriminatorNumber)
	assert.NotEqual(t, add.DiscriminatorNumber, lit.DiscriminatorNumber)
	assert.Zero(t, expr.DiscriminatorNumber, "abstract types are never assigned a discriminator")
}

// TestParentCycleRejected matches seed scenario S4: a two-node mutual
// parent cycle must fail resolution with a located error.
func TestParentCycleRejected(t *testing.T) {
	src := `
A : B {
}

B : A {
}
`
	m, err := build(t, src)
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "cycle")
}

// TestFieldShadowingRejected matches seed scenario S5: a field name that
// collides with an inherited ancestor field must be rejected.
func TestFieldShadowingRejected(t *testing.T) {
	src := `
primitive Int { include = "<cstdint>"; default = "0"; }

Base {
	value: Int;
}

Derived : Base {
	value: Int;
}
`
	m, err := build(t, src)
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "shadows")
}

func TestDuplicateRootRejected(t *testing.T) {
	src := `
A root {
}

B root {
}
`
	_, err := build(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only one node type may be marked 'root'")
}

func TestUnknownParentRejected(t *testing.T) {
	src := `
A : Ghost {
}
`
	_, err := build(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "Ghost"`)
}

func TestUnknownFieldTypeRejected(t *testing.T) {
	src := `
A {
	x: Ghost;
}
`
	_, err := build(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown type "Ghost"`)
}

func TestDuplicateNodeNameRejected(t *testing.T) {
	src := `
A {
}

A {
}
`
	_, err := build(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate node type declaration")
}

func TestEnumAndPrimitivesDeclared(t *testing.T) {
	src := `
primitive Int {
	include = "<cstdint>";
	default = "0";
}

enum Op {
	Plus,
	Minus,
}

Lit root {
	value: Int;
	op: Op;
}
`
	m, err := build(t, src)
	require.NoError(t, err)

	prim, ok := m.Primitives.Get("Int")
	require.True(t, ok)
	assert.Equal(t, "<cstdint>", prim.Include)

	enum, ok := m.Enums.Get("Op")
	require.True(t, ok)
	require.Len(t, enum.Variants, 2)
	assert.Equal(t, "Plus", enum.Variants[0].Name)
	assert.Equal(t, 0, enum.Variants[0].Ordinal)

	lit, ok := m.NodeTypes.Get("Lit")
	require.True(t, ok)
	require.Len(t, lit.OwnFields, 2)
	assert.Equal(t, model.EdgePrim, lit.OwnFields[0].Edge)
	assert.Equal(t, model.EdgePrim, lit.OwnFields[1].Edge)
}

func TestLinkFieldMustTargetNode(t *testing.T) {
	src := `
primitive Int {
	include = "<cstdint>";
}

A root {
	bad: Link<Int>;
}
`
	_, err := build(t, src)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "cannot target primitive"))
}

func TestLinkFieldTargetingNodeResolves(t *testing.T) {
	src := `
A root {
	other: Link<A>;
}
`
	m, err := build(t, src)
	require.NoError(t, err)
	a, _ := m.NodeTypes.Get("A")
	require.Len(t, a.OwnFields, 1)
	assert.Equal(t, model.EdgeLink, a.OwnFields[0].Edge)
	assert.True(t, a.OwnFields[0].Type.IsNode())
}
