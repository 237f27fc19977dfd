package cbor

import (
	"fmt"
	"math"
	"os"

	"github.com/tidwall/btree"
)

const (
	majorUint     = 0
	majorNegint   = 1
	majorBytes    = 2
	majorText     = 3
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6
	majorSimple   = 7
	infoIndefinte = 31
	infoBreak     = 31
)

// Slice is an immutable view into a validated CBOR buffer. The zero Slice
// is not usable; obtain one from NewReader, ReadFile, or another Slice's
// As* accessors.
type Slice struct {
	data   []byte
	offset int
	length int
}

// NewReader validates data as a single, complete CBOR-encoded object and
// returns a Slice covering it. An error is returned if data is empty,
// structurally invalid, uses an unsupported type-7 encoding (undefined,
// half/single-precision float), or has trailing garbage after the
// outermost object.
func NewReader(data []byte) (Slice, error) {
	if len(data) == 0 {
		return Slice{}, fmt.Errorf("invalid CBOR: zero-size object")
	}
	s := Slice{data: data, offset: 0, length: len(data)}
	end, err := s.checkAndSeek(0)
	if err != nil {
		return Slice{}, err
	}
	if end != len(data) {
		return Slice{}, fmt.Errorf("invalid CBOR: garbage at end of outer object or multiple objects")
	}
	return s.skipTags()
}

// ReadFile reads and validates the CBOR object stored in filename.
func ReadFile(filename string) (Slice, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Slice{}, err
	}
	return NewReader(data)
}

func (s Slice) readAt(offset int) (byte, error) {
	if offset < 0 || offset >= s.length {
		return 0, fmt.Errorf("invalid CBOR: trying to read past extents of current slice")
	}
	return s.data[s.offset+offset], nil
}

// readIntlike decodes the additional-information-encoded integer starting
// immediately after the initial byte, returning the value and the offset
// just past it.
func (s Slice) readIntlike(info byte, offset int) (uint64, int, error) {
	if info < 24 {
		return uint64(info), offset, nil
	}
	var nbytes int
	switch {
	case info == 24:
		nbytes = 1
	case info == 25:
		nbytes = 2
	case info == 26:
		nbytes = 4
	case info == 27:
		nbytes = 8
	default:
		return 0, 0, fmt.Errorf("invalid CBOR: illegal additional info for integer or object length")
	}
	var value uint64
	for i := 0; i < nbytes; i++ {
		b, err := s.readAt(offset)
		if err != nil {
			return 0, 0, err
		}
		value = value<<8 | uint64(b)
		offset++
	}
	return value, offset, nil
}

// readStringlike appends the bytes of the (possibly indefinite-length)
// string starting at offset to buf, returning the accumulated bytes and
// the offset just past the string.
func (s Slice) readStringlike(offset int, buf []byte) ([]byte, int, error) {
	initial, err := s.readAt(offset)
	if err != nil {
		return nil, 0, err
	}
	offset++
	info := initial & 0x1F
	if info == infoIndefinte {
		for {
			b, err := s.readAt(offset)
			if err != nil {
				return nil, 0, err
			}
			if b == 0xFF {
				offset++
				return buf, offset, nil
			}
			buf, offset, err = s.readStringlike(offset, buf)
			if err != nil {
				return nil, 0, err
			}
		}
	}
	length, offset, err := s.readIntlike(info, offset)
	if err != nil {
		return nil, 0, err
	}
	if offset+int(length) > s.length {
		return nil, 0, fmt.Errorf("invalid CBOR: string read past end of slice")
	}
	buf = append(buf, s.data[s.offset+offset:s.offset+offset+int(length)]...)
	return buf, offset + int(length), nil
}

// checkAndSeek validates the object starting at offset and returns the
// offset immediately past it.
func (s Slice) checkAndSeek(offset int) (int, error) {
	initial, err := s.readAt(offset)
	if err != nil {
		return 0, err
	}
	offset++
	major := initial >> 5
	info := initial & 0x1F

	switch major {
	case majorUint, majorNegint:
		_, offset, err = s.readIntlike(info, offset)
		return offset, err

	case majorBytes, majorText:
		if info == infoIndefinte {
			for {
				subInitial, err := s.readAt(offset)
				if err != nil {
					return 0, err
				}
				offset++
				if subInitial == 0xFF {
					return offset, nil
				}
				if subInitial>>5 != major {
					return 0, fmt.Errorf("invalid CBOR: illegal indefinite-length string component")
				}
				length, next, err := s.readIntlike(subInitial&0x1F, offset)
				if err != nil {
					return 0, err
				}
				offset = next + int(length)
			}
		}
		length, next, err := s.readIntlike(info, offset)
		if err != nil {
			return 0, err
		}
		return next + int(length), nil

	case majorArray, majorMap:
		if info == infoIndefinte {
			for {
				b, err := s.readAt(offset)
				if err != nil {
					return 0, err
				}
				if b == 0xFF {
					return offset + 1, nil
				}
				if major == majorMap {
					if offset, err = s.checkAndSeek(offset); err != nil {
						return 0, err
					}
				}
				if offset, err = s.checkAndSeek(offset); err != nil {
					return 0, err
				}
			}
		}
		count, next, err := s.readIntlike(info, offset)
		if err != nil {
			return 0, err
		}
		offset = next
		for i := uint64(0); i < count; i++ {
			if major == majorMap {
				if offset, err = s.checkAndSeek(offset); err != nil {
					return 0, err
				}
			}
			if offset, err = s.checkAndSeek(offset); err != nil {
				return 0, err
			}
		}
		return offset, nil

	case majorTag:
		_, offset, err = s.readIntlike(info, offset)
		if err != nil {
			return 0, err
		}
		return s.checkAndSeek(offset)

	case majorSimple:
		switch info {
		case 20, 21, 22: // false, true, null
			return offset, nil
		case 23:
			return 0, fmt.Errorf("invalid CBOR: undefined value is not supported")
		case 25:
			return 0, fmt.Errorf("invalid CBOR: half-precision float is not supported")
		case 26:
			return 0, fmt.Errorf("invalid CBOR: single-precision float is not supported")
		case 27:
			return offset + 8, nil
		case infoBreak:
			return 0, fmt.Errorf("invalid CBOR: unexpected break")
		default:
			return 0, fmt.Errorf("invalid CBOR: unknown type code")
		}
	}
	return 0, fmt.Errorf("invalid CBOR: unknown type code")
}

// skipTags returns a Slice with any leading semantic tag (major type 6)
// transparently skipped, per spec §4.1.
func (s Slice) skipTags() (Slice, error) {
	initial, err := s.readAt(0)
	if err != nil {
		return Slice{}, err
	}
	if initial>>5 != majorTag {
		return s, nil
	}
	end := s.offset + s.length
	offset := 1
	_, offset, err = s.readIntlike(initial&0x1F, offset)
	if err != nil {
		return Slice{}, err
	}
	tagged := Slice{data: s.data, offset: s.offset + offset, length: end - (s.offset + offset)}
	if tagged.length == 0 {
		return Slice{}, fmt.Errorf("invalid CBOR: semantic tag has no value")
	}
	return tagged.skipTags()
}

// sub returns a Slice into this Slice's own buffer, unconditionally
// skipping any leading tag.
func (s Slice) sub(offset, length int) (Slice, error) {
	if offset+length > s.length {
		return Slice{}, fmt.Errorf("invalid CBOR: trying to slice past extents of current slice")
	}
	if length == 0 {
		return Slice{}, fmt.Errorf("invalid CBOR: trying to make an empty slice")
	}
	return Slice{data: s.data, offset: s.offset + offset, length: length}.skipTags()
}

// TypeName returns a human-readable name for this Slice's CBOR type, for
// use in "unexpected CBOR structure" error messages.
func (s Slice) TypeName() string {
	initial, err := s.readAt(0)
	if err != nil {
		return "unknown type"
	}
	switch initial >> 5 {
	case majorUint, majorNegint:
		return "integer"
	case majorBytes:
		return "binary string"
	case majorText:
		return "UTF8 string"
	case majorArray:
		return "array"
	case majorMap:
		return "map"
	case majorSimple:
		switch initial & 0x1F {
		case 20, 21:
			return "boolean"
		case 22:
			return "null"
		case 27:
			return "float"
		}
	}
	return "unknown type"
}

func (s Slice) unexpected(want string) error {
	return fmt.Errorf("unexpected CBOR structure: expected %s but found %s", want, s.TypeName())
}

// IsNull reports whether this Slice holds the CBOR null value.
func (s Slice) IsNull() bool {
	b, err := s.readAt(0)
	return err == nil && b == 0xF6
}

// AsNull asserts that this Slice is null.
func (s Slice) AsNull() error {
	if !s.IsNull() {
		return s.unexpected("null")
	}
	return nil
}

// IsBool reports whether this Slice holds a CBOR boolean.
func (s Slice) IsBool() bool {
	b, err := s.readAt(0)
	return err == nil && (b&0xFE) == 0xF4
}

// AsBool returns this Slice's boolean value.
func (s Slice) AsBool() (bool, error) {
	b, err := s.readAt(0)
	if err != nil {
		return false, err
	}
	switch b {
	case 0xF4:
		return false, nil
	case 0xF5:
		return true, nil
	}
	return false, s.unexpected("boolean")
}

// IsInt reports whether this Slice holds a CBOR integer (major type 0 or 1).
func (s Slice) IsInt() bool {
	b, err := s.readAt(0)
	return err == nil && (b&0xC0) == 0
}

// AsInt returns this Slice's integer value as an int64. An error is
// returned if the encoded magnitude doesn't fit in an int64.
func (s Slice) AsInt() (int64, error) {
	initial, err := s.readAt(0)
	if err != nil {
		return 0, err
	}
	major := initial >> 5
	if major >= 2 {
		return 0, s.unexpected("integer")
	}
	value, _, err := s.readIntlike(initial&0x1F, 1)
	if err != nil {
		return 0, err
	}
	if value >= 0x8000000000000000 {
		return 0, fmt.Errorf("CBOR integer out of int64 range")
	}
	if major == majorUint {
		return int64(value), nil
	}
	return -1 - int64(value), nil
}

// IsFloat reports whether this Slice holds a CBOR double-precision float.
func (s Slice) IsFloat() bool {
	b, err := s.readAt(0)
	return err == nil && b == 0xFB
}

// AsFloat returns this Slice's float64 value.
func (s Slice) AsFloat() (float64, error) {
	if !s.IsFloat() {
		return 0, s.unexpected("float")
	}
	value, _, err := s.readIntlike(27, 1)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(value), nil
}

// IsString reports whether this Slice holds a CBOR UTF-8 text string.
func (s Slice) IsString() bool {
	b, err := s.readAt(0)
	return err == nil && (b&0xE0) == 0x60
}

// AsString returns this Slice's decoded UTF-8 string value.
func (s Slice) AsString() (string, error) {
	if !s.IsString() {
		return "", s.unexpected("UTF8 string")
	}
	buf, _, err := s.readStringlike(0, nil)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// IsBinary reports whether this Slice holds a CBOR byte string.
func (s Slice) IsBinary() bool {
	b, err := s.readAt(0)
	return err == nil && (b&0xE0) == 0x40
}

// AsBinary returns this Slice's raw byte string value.
func (s Slice) AsBinary() ([]byte, error) {
	if !s.IsBinary() {
		return nil, s.unexpected("binary string")
	}
	buf, _, err := s.readStringlike(0, nil)
	return buf, err
}

// IsArray reports whether this Slice holds a CBOR array.
func (s Slice) IsArray() bool {
	b, err := s.readAt(0)
	return err == nil && (b&0xE0) == 0x80
}

// AsArray returns the elements of this Slice's array, in order.
func (s Slice) AsArray() ([]Slice, error) {
	if !s.IsArray() {
		return nil, s.unexpected("array")
	}
	initial, _ := s.readAt(0)
	info := initial & 0x1F
	offset := 1
	var out []Slice

	appendItem := func() error {
		start := offset
		next, err := s.checkAndSeek(offset)
		if err != nil {
			return err
		}
		item, err := s.sub(start, next-start)
		if err != nil {
			return err
		}
		out = append(out, item)
		offset = next
		return nil
	}

	if info == infoIndefinte {
		for {
			b, err := s.readAt(offset)
			if err != nil {
				return nil, err
			}
			if b == 0xFF {
				break
			}
			if err := appendItem(); err != nil {
				return nil, err
			}
		}
	} else {
		count, next, err := s.readIntlike(info, offset)
		if err != nil {
			return nil, err
		}
		offset = next
		for i := uint64(0); i < count; i++ {
			if err := appendItem(); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// IsMap reports whether this Slice holds a CBOR map.
func (s Slice) IsMap() bool {
	b, err := s.readAt(0)
	return err == nil && (b&0xE0) == 0xA0
}

// AsMap returns the key/value pairs of this Slice's map as a btree.Map
// keyed, and ordered, by the decoded string key.
//
// Duplicate keys resolve last-write-wins: later entries simply overwrite
// earlier ones in the returned map, since encounter order follows wire
// order (spec §9 Open Question resolution — the original implementation's
// std::map::insert silently discards the later duplicate instead).
func (s Slice) AsMap() (*btree.Map[string, Slice], error) {
	if !s.IsMap() {
		return nil, s.unexpected("map")
	}
	initial, _ := s.readAt(0)
	info := initial & 0x1F
	offset := 1
	out := &btree.Map[string, Slice]{}

	appendPair := func() error {
		keyStart := offset
		dataStart, err := s.checkAndSeek(offset)
		if err != nil {
			return err
		}
		keySlice, err := s.sub(keyStart, dataStart-keyStart)
		if err != nil {
			return err
		}
		key, err := keySlice.AsString()
		if err != nil {
			return err
		}
		next, err := s.checkAndSeek(dataStart)
		if err != nil {
			return err
		}
		value, err := s.sub(dataStart, next-dataStart)
		if err != nil {
			return err
		}
		out.Set(key, value)
		offset = next
		return nil
	}

	if info == infoIndefinte {
		for {
			b, err := s.readAt(offset)
			if err != nil {
				return nil, err
			}
			if b == 0xFF {
				break
			}
			if err := appendPair(); err != nil {
				return nil, err
			}
		}
	} else {
		count, next, err := s.readIntlike(info, offset)
		if err != nil {
			return nil, err
		}
		offset = next
		for i := uint64(0); i < count; i++ {
			if err := appendPair(); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Bytes returns a copy of this Slice's raw encoded bytes.
func (s Slice) Bytes() []byte {
	out := make([]byte, s.length)
	copy(out, s.data[s.offset:s.offset+s.length])
	return out
}
