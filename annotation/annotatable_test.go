package annotation_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tree-gen/tree-gen/annotation"
	"github.com/tree-gen/tree-gen/cbor"
)

type sourceLocation struct {
	Line, Col int
}

func init() {
	annotation.Register[*sourceLocation](
		"SourceLocation",
		func(v *sourceLocation) ([]byte, error) {
			return cbor.Encode(func(m *cbor.MapWriter) error {
				if err := m.AppendInt("line", int64(v.Line)); err != nil {
					return err
				}
				return m.AppendInt("col", int64(v.Col))
			})
		},
		func(s cbor.Slice) (*sourceLocation, error) {
			m, err := s.AsMap()
			if err != nil {
				return nil, err
			}
			lineSlice, ok := m.Get("line")
			if !ok {
				return nil, fmt.Errorf("missing line")
			}
			colSlice, ok := m.Get("col")
			if !ok {
				return nil, fmt.Errorf("missing col")
			}
			line, err := lineSlice.AsInt()
			if err != nil {
				return nil, err
			}
			col, err := colSlice.AsInt()
			if err != nil {
				return nil, err
			}
			return &sourceLocation{Line: int(line), Col: int(col)}, nil
		},
	)
}

func TestAnnotateAndGet(t *testing.T) {
	var a annotation.Annotatable
	_, ok := annotation.GetAnnotation[*sourceLocation](&a)
	assert.False(t, ok)

	a.Annotate(&sourceLocation{Line: 3, Col: 7})
	loc, ok := annotation.GetAnnotation[*sourceLocation](&a)
	require.True(t, ok)
	assert.Equal(t, 3, loc.Line)
	assert.Equal(t, 7, loc.Col)
}

func TestCopyAnnotationsFromSharesReferences(t *testing.T) {
	var a, b annotation.Annotatable
	loc := &sourceLocation{Line: 1, Col: 1}
	a.Annotate(loc)

	b.CopyAnnotationsFrom(&a)
	got, ok := annotation.GetAnnotation[*sourceLocation](&b)
	require.True(t, ok)
	assert.Same(t, loc, got)
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	var a annotation.Annotatable
	a.Annotate(&sourceLocation{Line: 42, Col: 9})

	data, err := cbor.Encode(func(m *cbor.MapWriter) error {
		if err := m.AppendString("name", "n"); err != nil {
			return err
		}
		return a.SerializeInto(m)
	})
	require.NoError(t, err)

	root, err := cbor.NewReader(data)
	require.NoError(t, err)
	fields, err := root.AsMap()
	require.NoError(t, err)

	_, ok := fields.Get("{SourceLocation}")
	require.True(t, ok)

	var b annotation.Annotatable
	require.NoError(t, b.DeserializeFrom(fields))
	loc, ok := annotation.GetAnnotation[*sourceLocation](&b)
	require.True(t, ok)
	assert.Equal(t, 42, loc.Line)
	assert.Equal(t, 9, loc.Col)
}

func TestUnregisteredAnnotationSilentlySkipped(t *testing.T) {
	type unregistered struct{ X int }
	var a annotation.Annotatable
	a.Annotate(&unregistered{X: 1})

	data, err := cbor.Encode(func(m *cbor.MapWriter) error {
		return a.SerializeInto(m)
	})
	require.NoError(t, err)

	root, err := cbor.NewReader(data)
	require.NoError(t, err)
	fields, err := root.AsMap()
	require.NoError(t, err)
	assert.Equal(t, 0, fields.Len())
}

func TestUnrecognizedBracketedKeyIgnoredOnDeserialize(t *testing.T) {
	data, err := cbor.Encode(func(m *cbor.MapWriter) error {
		return m.AppendString("{NotRegistered}", "ignored")
	})
	require.NoError(t, err)

	root, err := cbor.NewReader(data)
	require.NoError(t, err)
	fields, err := root.AsMap()
	require.NoError(t, err)

	var a annotation.Annotatable
	assert.NoError(t, a.DeserializeFrom(fields))
}
