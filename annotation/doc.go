// Package annotation implements the opaque, type-indexed per-node
// annotation mechanism (spec §4.2): an annotation is a value of any user
// type, addressed by its runtime type identity rather than by name, that
// rides along with a node without the node's own type needing to know
// about it.
//
// A process-wide Registry maps a Go type to the serialize/deserialize
// callbacks that turn a value of that type into a CBOR payload and back,
// and maps the type's canonical "{Name}" wire key to the same
// deserializer. The registry must be fully populated (via Register)
// before any node carrying annotations of that type is serialized or
// deserialized; concurrent registration and use is undefined, matching
// the single-threaded-generator contract the rest of this module follows.
package annotation
