// Package model implements the Tree Model (spec §3) and its three-pass
// construction algorithm (spec §4.4): declare, link, validate. The
// resulting *Model is built once per generator invocation and is
// read-only for the rest of the pipeline (the two emitters in gen/golang
// and gen/python).
package model
