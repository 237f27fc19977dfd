// Package ast defines the raw parse tree produced by the tree-description
// parser (package parser) before semantic resolution (package model) turns
// it into a validated Tree Model.
//
// Every node carries a Span into a FileInfo, so later stages can report
// 1-based line/column locations for any construct in the source file.
package ast
