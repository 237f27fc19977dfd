package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tree-gen/tree-gen/internal/cli"
)

const treeSrc = `
namespace tree::expr;

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

func writeInput(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "input.tree")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunWritesHeaderAndSource(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, treeSrc)
	headerOut := filepath.Join(dir, "tree.go")
	sourceOut := filepath.Join(dir, "tree_impl.go")

	err := cli.Run(cli.Args{
		Input:     input,
		HeaderOut: headerOut,
		SourceOut: sourceOut,
		Verbose:   -1,
	})
	require.NoError(t, err)

	header, err := os.ReadFile(headerOut)
	require.NoError(t, err)
	assert.Contains(t, string(header), "type Lit struct")

	source, err := os.ReadFile(sourceOut)
	require.NoError(t, err)
	assert.Contains(t, string(source), "func NewLit() *Lit")
}

func TestRunWritesDynamicOutputWhenRequested(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, treeSrc)

	err := cli.Run(cli.Args{
		Input:      input,
		HeaderOut:  filepath.Join(dir, "tree.go"),
		SourceOut:  filepath.Join(dir, "tree_impl.go"),
		DynamicOut: filepath.Join(dir, "tree.py"),
		Verbose:    -1,
	})
	require.NoError(t, err)

	py, err := os.ReadFile(filepath.Join(dir, "tree.py"))
	require.NoError(t, err)
	assert.Contains(t, string(py), "class Lit")
}

func TestRunReportsParseErrorWithPosition(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "Lit : Ghost root {\n}\n")

	err := cli.Run(cli.Args{
		Input:     input,
		HeaderOut: filepath.Join(dir, "tree.go"),
		SourceOut: filepath.Join(dir, "tree_impl.go"),
		Verbose:   -1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input.tree:")
	assert.Contains(t, err.Error(), `unknown type "Ghost"`)

	_, statErr := os.Stat(filepath.Join(dir, "tree.go"))
	assert.True(t, os.IsNotExist(statErr), "no output should be written on failure")
}

func TestRunRejectsRootTypeMismatchFromConfig(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, treeSrc)
	configPath := filepath.Join(dir, "tree-gen.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`root_type = "NotLit"`+"\n"), 0o644))

	err := cli.Run(cli.Args{
		Input:      input,
		HeaderOut:  filepath.Join(dir, "tree.go"),
		SourceOut:  filepath.Join(dir, "tree_impl.go"),
		ConfigPath: configPath,
		Verbose:    -1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `root_type "NotLit"`)
}

func TestRunEnforcesRequiresVersion(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "requires \">=99.0.0\";\n\nLit root {\n}\n")

	err := cli.Run(cli.Args{
		Input:       input,
		HeaderOut:   filepath.Join(dir, "tree.go"),
		SourceOut:   filepath.Join(dir, "tree_impl.go"),
		Verbose:     -1,
		ToolVersion: "1.0.0",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy requires")
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := cli.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, cli.Config{}, cfg)
}
