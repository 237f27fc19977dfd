package model

import (
	"github.com/tidwall/btree"

	"github.com/tree-gen/tree-gen/ast"
	"github.com/tree-gen/tree-gen/reporter"
)

// Builder runs the three-pass resolution algorithm (spec §4.4) over a raw
// *ast.FileNode, grounded on bufbuild-protocompile/linker's own
// declare -> link -> validate staging (linker.go/validate.go), adapted
// from protobuf's symbol table to tree-gen's much smaller surface: node
// types, enumerations, and primitives.
type Builder struct {
	file     *ast.FileNode
	filename string
	handler  *reporter.Handler

	model *Model
}

// Build resolves file into a validated *Model, or returns the first
// located error encountered (spec §4.4: "first-error-wins... emitters are
// never invoked on a partial model").
func Build(filename string, file *ast.FileNode, handler *reporter.Handler) (*Model, error) {
	b := &Builder{
		file:     file,
		filename: filename,
		handler:  handler,
		model: &Model{
			NodeTypes:  &btree.Map[string, *NodeType]{},
			Enums:      &btree.Map[string, *Enumeration]{},
			Primitives: &btree.Map[string, *Primitive]{},
		},
	}

	if err := b.declare(); err != nil {
		return nil, err
	}
	if err := b.link(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	return b.model, nil
}

func (b *Builder) fail(pos ast.SourcePos, format string, args ...interface{}) error {
	return b.handler.HandleErrorf(pos, format, args...)
}
