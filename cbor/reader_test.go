package cbor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tree-gen/tree-gen/cbor"
)

// testFixture is the exact byte sequence from
// original_source/tests/test_cbor.cpp, reproduced here as seed scenario
// S1: a 9-element array covering null, both booleans, a nested array of
// every unsigned-integer length class, an indefinite-length array of
// every negative-integer length class, a double, a UTF-8 string, a binary
// string, and a 2-entry map.
var testFixture = []byte{
	0x89,
	0xF6,
	0xF4,
	0xF5,
	0x8B,
	0x00,
	0x01,
	0x17,
	0x18, 0x18,
	0x18, 0xFF,
	0x19, 0x01, 0x00,
	0x19, 0xFF, 0xFF,
	0x1A, 0x00, 0x01, 0x00, 0x00,
	0x1A, 0xFF, 0xFF, 0xFF, 0xFF,
	0x1B, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
	0x1B, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0x9F,
	0x20,
	0x37,
	0x38, 0x18,
	0x38, 0xFF,
	0x39, 0x01, 0x00,
	0x39, 0xFF, 0xFF,
	0x3A, 0x00, 0x01, 0x00, 0x00,
	0x3A, 0xFF, 0xFF, 0xFF, 0xFF,
	0x3B, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00,
	0x3B, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF,
	0xFB, 0x40, 0x09, 0x21, 0xFB, 0x54, 0x44, 0x2E, 0xEA,
	0x65,
	0x68, 0x65, 0x6C, 0x6C, 0x6F,
	0x45,
	0x77, 0x6F, 0x72, 0x6C, 0x64,
	0xA2,
	0x61, 0x61,
	0x61, 0x62,
	0x61, 0x63,
	0x61, 0x64,
}

func TestReaderDecodesFixture(t *testing.T) {
	root, err := cbor.NewReader(testFixture)
	require.NoError(t, err)
	require.True(t, root.IsArray())

	ar, err := root.AsArray()
	require.NoError(t, err)
	require.Len(t, ar, 9)

	require.True(t, ar[0].IsNull())
	require.NoError(t, ar[0].AsNull())

	require.True(t, ar[1].IsBool())
	b, err := ar[1].AsBool()
	require.NoError(t, err)
	assert.False(t, b)

	b, err = ar[2].AsBool()
	require.NoError(t, err)
	assert.True(t, b)

	require.True(t, ar[3].IsArray())
	ar2, err := ar[3].AsArray()
	require.NoError(t, err)
	require.Len(t, ar2, 11)
	wantUnsigned := []int64{0, 1, 23, 24, 255, 256, 65535, 65536, 4294967295, 4294967296, 9223372036854775807}
	for i, want := range wantUnsigned {
		require.True(t, ar2[i].IsInt())
		got, err := ar2[i].AsInt()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	ar3, err := ar[4].AsArray()
	require.NoError(t, err)
	require.Len(t, ar3, 10)
	wantNegative := []int64{-1, -24, -25, -256, -257, -65536, -65537, -4294967296, -4294967297, -9223372036854775807 - 1}
	for i, want := range wantNegative {
		got, err := ar3[i].AsInt()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	require.True(t, ar[5].IsFloat())
	f, err := ar[5].AsFloat()
	require.NoError(t, err)
	assert.InDelta(t, 3.14159265359, f, 1e-12)

	require.True(t, ar[6].IsString())
	str, err := ar[6].AsString()
	require.NoError(t, err)
	assert.Equal(t, "hello", str)

	require.True(t, ar[7].IsBinary())
	bin, err := ar[7].AsBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), bin)

	require.True(t, ar[8].IsMap())
	m, err := ar[8].AsMap()
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	av, ok := m.Get("a")
	require.True(t, ok)
	avs, err := av.AsString()
	require.NoError(t, err)
	assert.Equal(t, "b", avs)
	cv, ok := m.Get("c")
	require.True(t, ok)
	cvs, err := cv.AsString()
	require.NoError(t, err)
	assert.Equal(t, "d", cvs)
}

func TestReaderRejectsEmptyInput(t *testing.T) {
	_, err := cbor.NewReader(nil)
	require.Error(t, err)
}

func TestReaderRejectsTrailingGarbage(t *testing.T) {
	_, err := cbor.NewReader([]byte{0xF6, 0xF6})
	require.Error(t, err)
}

func TestReaderRejectsUndefined(t *testing.T) {
	_, err := cbor.NewReader([]byte{0xF7})
	require.Error(t, err)
}

func TestAsMapLastWriteWins(t *testing.T) {
	// {"a": "first", "a": "second"} - two entries under the same key.
	data := []byte{
		0xA2,
		0x61, 0x61, 0x65, 0x66, 0x69, 0x72, 0x73, 0x74,
		0x61, 0x61, 0x66, 0x73, 0x65, 0x63, 0x6F, 0x6E, 0x64,
	}
	root, err := cbor.NewReader(data)
	require.NoError(t, err)
	m, err := root.AsMap()
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	v, ok := m.Get("a")
	require.True(t, ok)
	s, err := v.AsString()
	require.NoError(t, err)
	assert.Equal(t, "second", s)
}
