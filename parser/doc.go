// Package parser implements the lexer and recursive-descent parser for the
// .tree description language (spec §4.3). It turns source bytes into a
// *ast.FileNode, reporting every lex/parse failure through a
// reporter.Handler with a 1-based line/column location.
package parser
