// Package python is the dynamic-language emitter (component G, spec
// §4.6): it turns the same validated *model.Model the native emitter
// consumes into a single Python module defining one class per node type,
// with clone/equals/visit/check_complete semantics mirroring the Go
// output and a CBOR encoder/decoder that is bit-for-bit compatible with
// package cbor's wire format.
//
// Unlike gen/golang, there is no separate header/source split: Python has
// no forward-declaration requirement, so every class and its methods are
// emitted into one file, the CLI's DYNAMIC_OUT (spec §6). The generated
// module is self-contained — it does not import a shared tree-gen Python
// runtime, since none is distributed; the small CBOR reader/writer it
// needs is inlined once per generated file (SPEC_FULL.md §4.6).
package python
