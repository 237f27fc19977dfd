// Package cli implements the testable body of the tree-gen command: config
// loading, logging setup, and the parse/build/generate/write pipeline that
// backs the cobra command in cmd/tree-gen. Splitting it out of main lets
// the pipeline be exercised by tests without going through os.Args or
// os.Exit, the way eykd-prosemark-go separates cmd/root.go from main.go.
package cli
