package python

// cborRuntime is emitted once per generated module. It is a minimal,
// self-contained CBOR encoder/decoder restricted to the subset package
// cbor's Writer produces (RFC 7049, indefinite-length arrays/maps,
// definite-length strings, shortest-form integers, 64-bit floats only):
// bit-for-bit compatible with the Go emitter's wire format, so a tree
// serialized by one side deserializes on the other (spec §4.6). Unlike
// package cbor's reader, the decoder does not accept definite-length
// arrays or maps, nor semantic tags.
const cborRuntime = `
class _CBORWriter:
    """Streams a single CBOR-encoded value into an in-memory buffer.

    Mirrors the tree-gen cbor package's Writer: containers are always
    indefinite-length (opened with 0x9F/0xBF, closed with a 0xFF break),
    scalars always use the shortest head encoding for their magnitude.
    """

    def __init__(self):
        self._buf = bytearray()

    def _head(self, major, magnitude):
        top = major << 5
        if magnitude < 24:
            self._buf.append(top | magnitude)
        elif magnitude < 0x100:
            self._buf.append(top | 24)
            self._buf.append(magnitude)
        elif magnitude < 0x10000:
            self._buf.append(top | 25)
            self._buf.extend(magnitude.to_bytes(2, "big"))
        elif magnitude < 0x100000000:
            self._buf.append(top | 26)
            self._buf.extend(magnitude.to_bytes(4, "big"))
        else:
            self._buf.append(top | 27)
            self._buf.extend(magnitude.to_bytes(8, "big"))

    def write_null(self):
        self._buf.append(0xF6)  # major 7, simple value 22 (null)

    def write_bool(self, value):
        self._buf.append(0xF5 if value else 0xF4)  # major 7, simple 21/20

    def write_int(self, value):
        if value < 0:
            self._head(1, -1 - value)  # major 1: negative integer
        else:
            self._head(0, value)  # major 0: unsigned integer

    def write_float(self, value):
        import struct

        self._buf.append(0xFB)  # major 7, additional info 27: float64
        self._buf.extend(struct.pack(">d", value))

    def write_string(self, value):
        data = value.encode("utf-8")
        self._head(3, len(data))  # major 3: UTF-8 text string
        self._buf.extend(data)

    def write_binary(self, value):
        self._head(2, len(value))  # major 2: byte string
        self._buf.extend(value)

    def open_array(self):
        self._buf.append(0x9F)  # major 4, indefinite length

    def open_map(self):
        self._buf.append(0xBF)  # major 5, indefinite length

    def close(self):
        self._buf.append(0xFF)  # break

    def append_null(self, key):
        self.write_string(key)
        self.write_null()

    def append_bool(self, key, value):
        self.write_string(key)
        self.write_bool(value)

    def append_int(self, key, value):
        self.write_string(key)
        self.write_int(value)

    def append_float(self, key, value):
        self.write_string(key)
        self.write_float(value)

    def append_string(self, key, value):
        self.write_string(key)
        self.write_string(value)

    def append_binary(self, key, value):
        self.write_string(key)
        self.write_binary(value)

    def begin_array(self, key):
        self.write_string(key)
        self.open_array()

    def begin_map(self, key):
        self.write_string(key)
        self.open_map()

    def bytes(self):
        return bytes(self._buf)


def _cbor_read_head(data, pos):
    b = data[pos]
    major = b >> 5
    info = b & 0x1F
    pos += 1
    if info < 24:
        return major, info, pos
    if info == 24:
        return major, data[pos], pos + 1
    if info == 25:
        return major, int.from_bytes(data[pos : pos + 2], "big"), pos + 2
    if info == 26:
        return major, int.from_bytes(data[pos : pos + 4], "big"), pos + 4
    if info == 27:
        return major, int.from_bytes(data[pos : pos + 8], "big"), pos + 8
    return major, info, pos  # info == 31: indefinite length, no magnitude


def _cbor_decode(data, pos):
    """Decodes one CBOR value starting at pos. Returns (value, new_pos).

    Maps decode to plain dict (keys are always UTF-8 text strings in this
    subset); arrays decode to plain list. Caller is responsible for
    interpreting a decoded dict's "type" key to build a real node.
    """
    b = data[pos]
    major = b >> 5
    info = b & 0x1F

    if major == 7:
        if info == 20:
            return False, pos + 1
        if info == 21:
            return True, pos + 1
        if info == 22:
            return None, pos + 1
        if info == 27:
            import struct

            return struct.unpack(">d", data[pos + 1 : pos + 9])[0], pos + 9
        raise ValueError("unsupported CBOR simple value 0x%02x" % b)

    if major in (0, 1):
        _, magnitude, pos = _cbor_read_head(data, pos)
        return (magnitude if major == 0 else -1 - magnitude), pos

    if major == 2:
        _, length, pos = _cbor_read_head(data, pos)
        return bytes(data[pos : pos + length]), pos + length

    if major == 3:
        _, length, pos = _cbor_read_head(data, pos)
        return data[pos : pos + length].decode("utf-8"), pos + length

    if major == 4:
        pos += 1  # skip 0x9F; this subset writes only indefinite arrays
        out = []
        while data[pos] != 0xFF:
            value, pos = _cbor_decode(data, pos)
            out.append(value)
        return out, pos + 1

    if major == 5:
        pos += 1  # skip 0xBF; this subset writes only indefinite maps
        out = {}
        while data[pos] != 0xFF:
            key, pos = _cbor_decode(data, pos)
            value, pos = _cbor_decode(data, pos)
            out[key] = value
        return out, pos + 1

    raise ValueError("unsupported CBOR major type %d" % major)
`
