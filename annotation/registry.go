package annotation

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/tree-gen/tree-gen/cbor"
)

type entry struct {
	name        string
	serialize   func(any) ([]byte, error)
	deserialize func(cbor.Slice) (any, error)
}

// Registry is the process-wide type-indexed serializer table (spec §4.2).
// The zero value is ready to use; in normal operation code registers
// against the package-level Global registry rather than constructing its
// own.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]entry
	byName map[string]entry
}

// Global is the singleton registry every generated Annotatable uses.
var Global = &Registry{
	byType: map[reflect.Type]entry{},
	byName: map[string]entry{},
}

// Register associates the Go type T with name (its canonical wire name,
// written without surrounding braces) and a pair of callbacks used to
// turn a T into CBOR bytes and back. Registering the same type twice, or
// two types under the same name, replaces the previous registration.
func Register[T any](name string, serialize func(T) ([]byte, error), deserialize func(cbor.Slice) (T, error)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	e := entry{
		name: name,
		serialize: func(v any) ([]byte, error) {
			return serialize(v.(T))
		},
		deserialize: func(s cbor.Slice) (any, error) {
			return deserialize(s)
		},
	}
	Global.mu.Lock()
	defer Global.mu.Unlock()
	Global.byType[t] = e
	Global.byName[name] = e
}

// lookupByType reports the registered entry for value's runtime type, if
// any. Types that were never registered are silently unsupported (spec
// §4.2: "unregistered types are silently skipped").
func (r *Registry) lookupByType(value any) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byType[reflect.TypeOf(value)]
	return e, ok
}

func (r *Registry) lookupByName(name string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

// serialize returns the wire name and encoded payload for value, and
// found=false if value's type was never registered.
func (r *Registry) serialize(value any) (name string, data []byte, found bool, err error) {
	e, ok := r.lookupByType(value)
	if !ok {
		return "", nil, false, nil
	}
	data, err = e.serialize(value)
	if err != nil {
		return "", nil, true, fmt.Errorf("serializing annotation %q: %w", e.name, err)
	}
	return e.name, data, true, nil
}
