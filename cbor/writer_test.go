package cbor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tree-gen/tree-gen/cbor"
)

// TestWriterRoundTrip matches seed scenario S2: encode a representative
// map with the Writer, then decode it back with the Reader and check
// every value survives intact.
func TestWriterRoundTrip(t *testing.T) {
	data, err := cbor.Encode(func(m *cbor.MapWriter) error {
		if err := m.AppendNull("null"); err != nil {
			return err
		}
		if err := m.AppendBool("false", false); err != nil {
			return err
		}
		if err := m.AppendBool("true", true); err != nil {
			return err
		}
		ints, err := m.AppendArray("int-array")
		if err != nil {
			return err
		}
		for _, v := range []int64{0x3, 0x34, 0x3456, 0x3456789A, 0x3456789ABCDEF012, -0x3, -0x34, -0x3456, -0x3456789A, -0x3456789ABCDEF012} {
			if err := ints.AppendInt(v); err != nil {
				return err
			}
		}
		if err := ints.Close(); err != nil {
			return err
		}
		if err := m.AppendFloat("pi", 3.14159265359); err != nil {
			return err
		}
		if err := m.AppendString("string", "hello"); err != nil {
			return err
		}
		return m.AppendBinary("binary", []byte("world"))
	})
	require.NoError(t, err)

	root, err := cbor.NewReader(data)
	require.NoError(t, err)
	require.True(t, root.IsMap())

	m, err := root.AsMap()
	require.NoError(t, err)
	assert.Equal(t, 7, m.Len())

	nullSlice, ok := m.Get("null")
	require.True(t, ok)
	assert.NoError(t, nullSlice.AsNull())

	falseSlice, _ := m.Get("false")
	v, err := falseSlice.AsBool()
	require.NoError(t, err)
	assert.False(t, v)

	trueSlice, _ := m.Get("true")
	v, err = trueSlice.AsBool()
	require.NoError(t, err)
	assert.True(t, v)

	arSlice, ok := m.Get("int-array")
	require.True(t, ok)
	ar, err := arSlice.AsArray()
	require.NoError(t, err)
	want := []int64{0x3, 0x34, 0x3456, 0x3456789A, 0x3456789ABCDEF012, -0x3, -0x34, -0x3456, -0x3456789A, -0x3456789ABCDEF012}
	require.Len(t, ar, len(want))
	for i, w := range want {
		got, err := ar[i].AsInt()
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}

	piSlice, _ := m.Get("pi")
	f, err := piSlice.AsFloat()
	require.NoError(t, err)
	assert.InDelta(t, 3.14159265359, f, 1e-12)

	strSlice, _ := m.Get("string")
	s, err := strSlice.AsString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	binSlice, _ := m.Get("binary")
	bin, err := binSlice.AsBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), bin)
}

func TestWriterRejectsWriteToInactiveWriter(t *testing.T) {
	var buf []byte
	w := cbor.NewWriter(byteSink{&buf})
	top, err := w.Start()
	require.NoError(t, err)

	nested, err := top.AppendArray("nested")
	require.NoError(t, err)

	// top is no longer the active writer; writing to it must fail.
	err = top.AppendBool("oops", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inactive writer")

	require.NoError(t, nested.Close())
	require.NoError(t, top.Close())
}

func TestWriterStartWhileActiveRejected(t *testing.T) {
	var buf []byte
	w := cbor.NewWriter(byteSink{&buf})
	top, err := w.Start()
	require.NoError(t, err)

	_, err = w.Start()
	require.Error(t, err)

	require.NoError(t, top.Close())

	// Starting again after the first structure closed is legal: a Writer
	// may emit several back-to-back top-level objects.
	_, err = w.Start()
	require.NoError(t, err)
}

type byteSink struct{ buf *[]byte }

func (b byteSink) Write(p []byte) (int, error) {
	*b.buf = append(*b.buf, p...)
	return len(p), nil
}
