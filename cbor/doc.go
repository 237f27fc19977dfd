// Package cbor implements the RFC 7049 subset used as tree-gen's wire
// format (spec §4.1): major types 0–5 and 7 (simple values false/true/null
// and double-precision floats only), with major type 6 read transparently
// and never written. Every array and map the Writer produces uses
// indefinite length terminated by a break byte (0xFF), and every string it
// produces uses definite length; the Reader accepts
// both indefinite and definite lengths, since it also has to read values
// produced by implementations that don't share this Writer's conventions.
//
// NewReader/Slice mirror the reader half of original_source/src/tree-cbor.cpp
// exactly: a Slice is an immutable view into an already-validated buffer,
// and every As* method returns an "unexpected CBOR structure" error when
// the value's type does not match the accessor; NewReader's up-front
// structural walk has already rejected malformed input.
//
// Writer/structureWriter/ArrayWriter/MapWriter mirror the writer half:
// only one writer in a nested structure may be "active" at a time, tracked
// by a stack of writer ids, so that writing to a MapWriter whose nested
// ArrayWriter hasn't been closed yet fails loudly instead of silently
// interleaving bytes.
package cbor
