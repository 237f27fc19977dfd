package annotation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/tidwall/btree"

	"github.com/tree-gen/tree-gen/cbor"
)

// Annotatable is embedded into every generated node type to give it a
// heterogeneous, type-indexed annotation map (spec §4.2, component C).
// Annotation values are conventionally pointer types, so that
// CopyAnnotationsFrom shares the same underlying value between nodes
// rather than duplicating it, per spec.md's "copies references, not
// values" requirement — storing a non-pointer T instead is legal but
// then copies behave like any other Go value copy.
type Annotatable struct {
	mu          sync.RWMutex
	annotations map[reflect.Type]any
}

// Annotate associates value with its own runtime type on this node,
// replacing any existing annotation of the same type.
func (a *Annotatable) Annotate(value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.annotations == nil {
		a.annotations = map[reflect.Type]any{}
	}
	a.annotations[reflect.TypeOf(value)] = value
}

// GetAnnotation retrieves the annotation of type T on a, if any.
func GetAnnotation[T any](a *Annotatable) (T, bool) {
	var zero T
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.annotations == nil {
		return zero, false
	}
	v, ok := a.annotations[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// CopyAnnotationsFrom replaces a's annotations with the same entries held
// by other. Values are copied by reference, not deep-copied: if they are
// themselves pointers, a and other end up sharing the pointee.
func (a *Annotatable) CopyAnnotationsFrom(other *Annotatable) {
	other.mu.RLock()
	defer other.mu.RUnlock()
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(other.annotations) == 0 {
		a.annotations = nil
		return
	}
	a.annotations = make(map[reflect.Type]any, len(other.annotations))
	for t, v := range other.annotations {
		a.annotations[t] = v
	}
}

// SerializeInto writes one `"{TypeName}": <payload>` map entry for every
// annotation on a whose type is registered in Global, silently skipping
// the rest (spec §4.2).
func (a *Annotatable) SerializeInto(m *cbor.MapWriter) error {
	a.mu.RLock()
	values := make([]any, 0, len(a.annotations))
	for _, v := range a.annotations {
		values = append(values, v)
	}
	a.mu.RUnlock()

	for _, v := range values {
		name, data, found, err := Global.serialize(v)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		if err := m.AppendRaw("{"+name+"}", data); err != nil {
			return err
		}
	}
	return nil
}

// DeserializeFrom scans fields for keys of the form "{TypeName}" and, for
// every name registered in Global, decodes the payload and annotates a
// with the result. Keys that aren't bracketed, or whose name isn't
// registered, are ignored (spec §4.2).
func (a *Annotatable) DeserializeFrom(fields *btree.Map[string, cbor.Slice]) error {
	var firstErr error
	fields.Scan(func(key string, value cbor.Slice) bool {
		if len(key) < 2 || key[0] != '{' || key[len(key)-1] != '}' {
			return true
		}
		name := strings.TrimSuffix(strings.TrimPrefix(key, "{"), "}")
		e, ok := Global.lookupByName(name)
		if !ok {
			return true
		}
		v, err := e.deserialize(value)
		if err != nil {
			firstErr = fmt.Errorf("deserializing annotation %q: %w", name, err)
			return false
		}
		a.Annotate(v)
		return true
	})
	return firstErr
}
