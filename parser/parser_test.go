package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tree-gen/tree-gen/parser"
	"github.com/tree-gen/tree-gen/reporter"
)

func TestParseHeaderDirectives(t *testing.T) {
	src := `
namespace tree::expr;
include header "expr.h";
include source "expr.cc";
feature serialize on;
requires "^1.2.0";

primitive Int {
	include = "<cstdint>";
	default = "0";
}
`
	handler := reporter.NewHandler(nil)
	file, err := parser.Parse("test.tree", []byte(src), handler)
	require.NoError(t, err)
	require.NotNil(t, file.Header)

	assert.Equal(t, "tree::expr", file.Header.Namespace)
	assert.Equal(t, []string{"expr.h"}, file.Header.IncludeHeader)
	assert.Equal(t, []string{"expr.cc"}, file.Header.IncludeSource)
	assert.True(t, file.Header.Features["serialize"])
	assert.Equal(t, "^1.2.0", file.Header.RequiresVersion)

	require.Len(t, file.Header.Primitives, 1)
	assert.Equal(t, "Int", file.Header.Primitives[0].Name)
	assert.Equal(t, "<cstdint>", file.Header.Primitives[0].Include)
	assert.Equal(t, "0", file.Header.Primitives[0].Default)
}

func TestParseEnumDecl(t *testing.T) {
	src := `
enum Op {
	Plus,
	Minus,
}
`
	handler := reporter.NewHandler(nil)
	file, err := parser.Parse("test.tree", []byte(src), handler)
	require.NoError(t, err)
	require.Len(t, file.Enums, 1)
	assert.Equal(t, "Op", file.Enums[0].Name)
	require.Len(t, file.Enums[0].Variants, 2)
	assert.Equal(t, "Plus", file.Enums[0].Variants[0].Name)
	assert.Equal(t, "Minus", file.Enums[0].Variants[1].Name)
}

func TestParseNodeDeclWithFieldsAndEdgeKeywords(t *testing.T) {
	src := `
Expr {
}

Add : Expr {
	lhs: One<Expr>;
	rhs: One<Expr>;
	next: Link<Expr>;
	extra: Any<Expr>;
}
`
	handler := reporter.NewHandler(nil)
	file, err := parser.Parse("test.tree", []byte(src), handler)
	require.NoError(t, err)
	require.Len(t, file.Nodes, 2)

	add := file.Nodes[1]
	assert.Equal(t, "Add", add.Name)
	assert.Equal(t, "Expr", add.Parent)
	require.Len(t, add.Fields, 4)
	assert.Equal(t, "lhs", add.Fields[0].Name)
	assert.Equal(t, "Expr", add.Fields[0].Type.Name)
}

func TestParseRootAndErrorKeywords(t *testing.T) {
	src := `
A root {
}

B error {
}
`
	handler := reporter.NewHandler(nil)
	file, err := parser.Parse("test.tree", []byte(src), handler)
	require.NoError(t, err)
	require.Len(t, file.Nodes, 2)
	assert.True(t, file.Nodes[0].IsRoot)
	assert.True(t, file.Nodes[1].IsError)
}

func TestParseReportsUnexpectedTopLevelTokenWithPosition(t *testing.T) {
	src := `
123;
`
	handler := reporter.NewHandler(nil)
	_, err := parser.Parse("test.tree", []byte(src), handler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test.tree:2:1")
	assert.Contains(t, err.Error(), "expected 'enum' or a node-type declaration")
}

func TestParseReportsMissingSemicolon(t *testing.T) {
	src := `
namespace tree::expr
`
	handler := reporter.NewHandler(nil)
	_, err := parser.Parse("test.tree", []byte(src), handler)
	require.Error(t, err)
}

func TestParseRejectsUnknownPrimitiveField(t *testing.T) {
	src := `
primitive Int {
	bogus = "x";
}
`
	handler := reporter.NewHandler(nil)
	_, err := parser.Parse("test.tree", []byte(src), handler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown primitive field "bogus"`)
}

func TestParseFeatureRequiresOnOrOff(t *testing.T) {
	src := `
feature serialize maybe;
`
	handler := reporter.NewHandler(nil)
	_, err := parser.Parse("test.tree", []byte(src), handler)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 'on' or 'off'")
}
