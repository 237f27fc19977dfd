// Package golang is the native-language emitter (component F, spec §4.5):
// it turns a validated *model.Model into a Go struct hierarchy with
// cloning, equality, visiting, CBOR marshaling, and well-formedness
// checking methods.
//
// Abstract node types become Go interfaces (one per spec.md Node type that
// Abstract() reports true), so that a Maybe/One/Any/Many/Link field
// targeting an abstract type stores the interface value directly — the
// natural Go rendering of spec Design Note 3's suggestion to avoid a deep
// virtual hierarchy. Concrete node types become structs implementing every
// ancestor interface via unexported marker methods.
//
// Output is split into two files to preserve the CLI's HEADER_OUT/
// SOURCE_OUT two-file contract (spec §6) even though Go has no
// header/source distinction: HEADER_OUT carries type declarations (struct
// and interface definitions, the Kind enum, the Visitor machinery) plus
// the String methods of Kind and of each enumeration type; SOURCE_OUT
// carries every other method body. Both are members of the same
// generated package and either compiles only together with the other.
package golang
