// Copyright 2024 The dwg authors. All rights reserved.
// Use of this source code is governed by an Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import (
	"encoding/binary"
	"fmt"
	"math"
)

// maxReadBytes is the sanity ceiling enforced on every length-prefixed
// read (§5 Memory discipline): a corrupt MS/MC size prefix must not be
// allowed to trigger an unreasonable allocation.
const maxReadBytes = 16 << 20

// BitReader is a byte-aligned buffer exposing a bit cursor: a byte index
// plus a 0..7 bit shift, addressed here as a single absolute bit offset
// for simplicity. It implements every DWG scalar primitive in §4.1.
//
// The "encoding" used to decode T reads (code page vs. UTF-16) is bound
// to the instance, never to a process global, per the design notes on
// shared mutable state.
type BitReader struct {
	data   []byte
	bitPos int

	unicodeStrings bool       // true for R2007+ (T reads UTF-16)
	codePage       codePageID // bound once the header's $DWGCODEPAGE byte is read
}

// NewBitReader wraps data for bit-level reading starting at bit 0.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data, codePage: codePageANSI1252}
}

// SetUnicodeStrings toggles T decoding between code-page bytes
// (pre-R2007) and UTF-16 code units (R2007+).
func (r *BitReader) SetUnicodeStrings(v bool) { r.unicodeStrings = v }

// SetCodePage binds the code page used to decode pre-R2007 T/TV strings.
func (r *BitReader) SetCodePage(cp codePageID) { r.codePage = cp }

// Len returns the total number of addressable bits.
func (r *BitReader) Len() int { return len(r.data) * 8 }

// PositionInBits returns the current absolute bit offset.
func (r *BitReader) PositionInBits() int { return r.bitPos }

// SetPositionInBits seeks to an absolute bit offset. Per §4.1 this
// treats the stream as fully bit-addressable: subsequent shifted reads
// reconstruct the byte boundary correctly because extraction always
// recomputes from the underlying byte array rather than a cached byte.
func (r *BitReader) SetPositionInBits(pos int) { r.bitPos = pos }

// Remaining returns the number of unread bits.
func (r *BitReader) Remaining() int { return r.Len() - r.bitPos }

// readBits extracts the next n (0..64) bits, MSB-first, advancing the
// cursor. This is the single primitive every typed read is built from.
func (r *BitReader) readBits(n int) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	if n < 0 || n > 64 {
		return 0, fmt.Errorf("dwg: invalid bit width %d", n)
	}
	if r.bitPos+n > r.Len() {
		return 0, ErrOutsideBoundary
	}
	// Byte-aligned fast path.
	if r.bitPos%8 == 0 && n%8 == 0 {
		start := r.bitPos / 8
		var v uint64
		for i := 0; i < n/8; i++ {
			v = v<<8 | uint64(r.data[start+i])
		}
		r.bitPos += n
		return v, nil
	}
	var v uint64
	for i := 0; i < n; i++ {
		bitIdx := r.bitPos + i
		byteIdx := bitIdx / 8
		shift := 7 - uint(bitIdx%8)
		bit := (r.data[byteIdx] >> shift) & 1
		v = v<<1 | uint64(bit)
	}
	r.bitPos += n
	return v, nil
}

// ReadBit reads a single bit as a bool (B).
func (r *BitReader) ReadBit() (bool, error) {
	v, err := r.readBits(1)
	return v == 1, err
}

// Read2Bits reads a two-bit field, used by BS/BL/BD/OT/CMC prefixes and
// the BB entity-mode field.
func (r *BitReader) Read2Bits() (uint8, error) {
	v, err := r.readBits(2)
	return uint8(v), err
}

// Read3Bits reads a three-bit field, used by the BLL length prefix.
func (r *BitReader) Read3Bits() (uint8, error) {
	v, err := r.readBits(3)
	return uint8(v), err
}

// ReadByte reads 8 bits, honoring whatever shift the cursor is
// currently at.
func (r *BitReader) ReadByte() (byte, error) {
	v, err := r.readBits(8)
	return byte(v), err
}

// ReadBytes reads n bytes. It enforces the 16 MiB sanity ceiling so a
// corrupt length prefix cannot trigger an unreasonable allocation.
func (r *BitReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("dwg: negative read length %d", n)
	}
	if n > maxReadBytes {
		return nil, ErrReadTooLarge
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// ResetShift consumes any remaining bits in the current byte to
// byte-align the cursor, returning them as the bits a writer would have
// padded with zero. Readers call this right before reading a sentinel
// or the trailing object CRC-16.
func (r *BitReader) ResetShift() uint16 {
	rem := r.bitPos % 8
	if rem == 0 {
		return 0
	}
	v, _ := r.readBits(8 - rem)
	return uint16(v)
}

// --- Typed scalar reads -----------------------------------------------

// ReadBS reads a BitShort: 2-bit prefix selecting {00: full 16-bit LE,
// 01: 8-bit unsigned promoted, 10: 0, 11: 256}.
func (r *BitReader) ReadBS() (int32, error) {
	prefix, err := r.Read2Bits()
	if err != nil {
		return 0, err
	}
	switch prefix {
	case 0:
		b, err := r.readBits(16)
		if err != nil {
			return 0, err
		}
		return int32(int16(littleEndian16(b))), nil
	case 1:
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return int32(b), nil
	case 2:
		return 0, nil
	default: // 3
		return 256, nil
	}
}

// ReadBL reads a BitLong: {00: full 32-bit LE, 01: 8-bit, 10: 0, 11:
// unused}.
func (r *BitReader) ReadBL() (int32, error) {
	prefix, err := r.Read2Bits()
	if err != nil {
		return 0, err
	}
	switch prefix {
	case 0:
		b, err := r.readBits(32)
		if err != nil {
			return 0, err
		}
		return int32(littleEndian32(b)), nil
	case 1:
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		return int32(b), nil
	case 2:
		return 0, nil
	default:
		return 0, fmt.Errorf("dwg: BitLong prefix 0b11 is not a valid encoding")
	}
}

// ReadBLL reads a BitLongLong: a 3-bit length N followed by N
// little-endian bytes.
func (r *BitReader) ReadBLL() (uint64, error) {
	n, err := r.Read3Bits()
	if err != nil {
		return 0, err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// ReadBD reads a BitDouble: {00: full 64-bit LE, 01: 1.0, 10: 0.0, 11:
// reserved}.
func (r *BitReader) ReadBD() (float64, error) {
	prefix, err := r.Read2Bits()
	if err != nil {
		return 0, err
	}
	switch prefix {
	case 0:
		b, err := r.readBits(64)
		if err != nil {
			return 0, err
		}
		return math.Float64frombits(swapEndianU64(b)), nil
	case 1:
		return 1.0, nil
	case 2:
		return 0.0, nil
	default:
		return 0, fmt.Errorf("dwg: BitDouble prefix 0b11 is reserved")
	}
}

// ReadDD reads a BitDouble-with-default: a 2-bit prefix selects how many
// bytes of the caller-supplied default are patched. The layout is fixed:
// "low 4" patches byte offsets 0-3 of the little-endian double, "2 more"
// patches offsets 4-5; it is not about magnitude of the value.
func (r *BitReader) ReadDD(def float64) (float64, error) {
	prefix, err := r.Read2Bits()
	if err != nil {
		return 0, err
	}
	switch prefix {
	case 0:
		return def, nil
	case 1:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(def))
		patch, err := r.ReadBytes(4)
		if err != nil {
			return 0, err
		}
		copy(buf[0:4], patch)
		return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
	case 2:
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(def))
		patch, err := r.ReadBytes(6)
		if err != nil {
			return 0, err
		}
		copy(buf[0:6], patch)
		return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
	default:
		b, err := r.readBits(64)
		if err != nil {
			return 0, err
		}
		return math.Float64frombits(swapEndianU64(b)), nil
	}
}

// ReadMC reads an unsigned Modular Char: 7 bits per byte, high bit is
// the continuation flag, little-endian across bytes.
func (r *BitReader) ReadMC() (uint64, error) {
	var value uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		value |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return value, nil
		}
		shift += 7
		if shift > 63 {
			return 0, fmt.Errorf("dwg: modular char overflow")
		}
	}
}

// ReadMCSigned reads the signed Modular Char variant used for
// handle-map offsets: bit 6 of the terminator byte is a sign flag, bit 7
// is still the continuation flag.
func (r *BitReader) ReadMCSigned() (int64, error) {
	var value uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b&0x80 != 0 {
			value |= uint64(b&0x7F) << shift
			shift += 7
			if shift > 63 {
				return 0, fmt.Errorf("dwg: modular char overflow")
			}
			continue
		}
		value |= uint64(b&0x3F) << shift
		if b&0x40 != 0 {
			return -int64(value), nil
		}
		return int64(value), nil
	}
}

// ReadMS reads a Modular Short: 15 bits per 16-bit word, high bit of the
// word is the continuation flag.
func (r *BitReader) ReadMS() (uint32, error) {
	var value uint32
	var shift uint
	for {
		b, err := r.readBits(16)
		if err != nil {
			return 0, err
		}
		w := littleEndian16(b)
		value |= uint32(w&0x7FFF) << shift
		if w&0x8000 == 0 {
			return value, nil
		}
		shift += 15
	}
}

// ReadRC reads a raw, cursor-aligned signed byte.
func (r *BitReader) ReadRC() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

// ReadRS reads a raw, cursor-aligned little-endian 16-bit value.
func (r *BitReader) ReadRS() (uint16, error) {
	b, err := r.readBits(16)
	return littleEndian16(b), err
}

// ReadRL reads a raw, cursor-aligned little-endian 32-bit value.
func (r *BitReader) ReadRL() (uint32, error) {
	b, err := r.readBits(32)
	return littleEndian32(b), err
}

// ReadRD reads a raw, cursor-aligned little-endian double.
func (r *BitReader) ReadRD() (float64, error) {
	b, err := r.readBits(64)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(swapEndianU64(b)), nil
}

// littleEndian16/32 reinterpret a big-endian-extracted bit value (our
// readBits always returns MSB-first) as the little-endian integer the
// DWG format actually stores, by byte-swapping back.
func littleEndian16(v uint64) uint16 {
	b := uint16(v)
	return b<<8 | b>>8
}

func littleEndian32(v uint64) uint32 {
	b := uint32(v)
	return binary.LittleEndian.Uint32([]byte{byte(b >> 24), byte(b >> 16), byte(b >> 8), byte(b)})
}

func swapEndianU64(v uint64) uint64 {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (56 - 8*i))
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// ReadH reads a handle reference: a control byte split as code:4 |
// counter:4, followed by `counter` big-endian payload bytes.
func (r *BitReader) ReadH() (HandleRef, error) {
	ctrl, err := r.ReadByte()
	if err != nil {
		return HandleRef{}, err
	}
	code := RefCode(ctrl >> 4)
	counter := int(ctrl & 0x0F)
	payload, err := r.ReadBytes(counter)
	if err != nil {
		return HandleRef{}, err
	}
	var v uint64
	for _, b := range payload {
		v = v<<8 | uint64(b)
	}
	return HandleRef{Code: code, Handle: Handle(v)}, nil
}

// ReadT reads a length-prefixed text value: pre-R2007 a BitShort byte
// length decoded through the bound code page, R2007+ a BitShort count of
// UTF-16 code units.
func (r *BitReader) ReadT() (string, error) {
	n, err := r.ReadBS()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("dwg: negative string length")
	}
	if r.unicodeStrings {
		raw, err := r.ReadBytes(int(n) * 2)
		if err != nil {
			return "", err
		}
		return decodeUTF16LE(raw)
	}
	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return decodeCodePage(raw, r.codePage)
}

// ReadCMC reads a color: pre-R2004 a bare BitShort index; R2004+ a
// BitShort (ignored, legacy index), a packed BitLong RGBA, and a flag
// byte that may introduce one or two text strings (color/book name).
func (r *BitReader) ReadCMC(r2004Plus bool) (Color, error) {
	idx, err := r.ReadBS()
	if err != nil {
		return Color{}, err
	}
	if !r2004Plus {
		return legacyIndexColor(idx), nil
	}
	packed, err := r.ReadBL()
	if err != nil {
		return Color{}, err
	}
	c := colorFromPackedRGBA(uint32(packed))
	flag, err := r.ReadRC()
	if err != nil {
		return Color{}, err
	}
	if flag&1 != 0 {
		name, err := r.ReadT()
		if err != nil {
			return Color{}, err
		}
		c.Name = name
	}
	if flag&2 != 0 {
		if _, err := r.ReadT(); err != nil { // book name, not separately modeled
			return Color{}, err
		}
	}
	return c, nil
}

func legacyIndexColor(idx int32) Color {
	switch idx {
	case 0:
		return ByBlockColor
	case 256:
		return ByLayerColor
	default:
		return IndexColor(uint8(idx))
	}
}

// ReadENC reads an entity color: a BitShort of flags, optionally
// followed by BitLongs for RGB and transparency. Bit 0x4000 signals a
// true-color value follows; bit 0x2000 signals a transparency value
// follows. This mirrors the CMC encoding family but inline in the
// entity common header rather than as a standalone field.
func (r *BitReader) ReadENC() (Color, uint32, error) {
	flags, err := r.ReadBS()
	if err != nil {
		return Color{}, 0, err
	}
	c := legacyIndexColor(flags &^ 0x6000)
	var transparency uint32
	if flags&0x4000 != 0 {
		rgb, err := r.ReadBL()
		if err != nil {
			return Color{}, 0, err
		}
		c = colorFromPackedRGBA(uint32(rgb))
	}
	if flags&0x2000 != 0 {
		t, err := r.ReadBL()
		if err != nil {
			return Color{}, 0, err
		}
		transparency = uint32(t)
	}
	return c, transparency, nil
}

// ReadOT reads an object type code: pre-R2010 a bare BitShort; R2010+ a
// 2-bit prefix selecting {00: 1-byte value, 01: 1-byte + 0x1F0, 10/11:
// full 16-bit LE}.
func (r *BitReader) ReadOT(r2010Plus bool) (int16, error) {
	if !r2010Plus {
		v, err := r.ReadBS()
		return int16(v), err
	}
	prefix, err := r.Read2Bits()
	if err != nil {
		return 0, err
	}
	switch prefix {
	case 0:
		b, err := r.ReadByte()
		return int16(b), err
	case 1:
		b, err := r.ReadByte()
		return int16(b) + 0x1F0, err
	default:
		b, err := r.readBits(16)
		if err != nil {
			return 0, err
		}
		return int16(littleEndian16(b)), nil
	}
}

// Vector3 is a plain 3D point/vector, grounded on the original Rust
// implementation's types/vector.rs (kept as a value type, not a
// geometry engine: rendering remains out of scope).
type Vector3 struct {
	X, Y, Z float64
}

// ReadBE reads a bit-extrusion: R2000+ a single flag bit where 1 means
// the default (0,0,1) extrusion; otherwise a full 3BD.
func (r *BitReader) ReadBE(r2000Plus bool) (Vector3, error) {
	if r2000Plus {
		flag, err := r.ReadBit()
		if err != nil {
			return Vector3{}, err
		}
		if flag {
			return Vector3{X: 0, Y: 0, Z: 1}, nil
		}
	}
	x, err := r.ReadBD()
	if err != nil {
		return Vector3{}, err
	}
	y, err := r.ReadBD()
	if err != nil {
		return Vector3{}, err
	}
	z, err := r.ReadBD()
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: x, Y: y, Z: z}, nil
}

// ReadBT reads a bit-thickness: R2000+ a single flag bit where 1 means
// 0.0; otherwise a full BD.
func (r *BitReader) ReadBT(r2000Plus bool) (float64, error) {
	if r2000Plus {
		flag, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if flag {
			return 0, nil
		}
	}
	return r.ReadBD()
}

// Read3BD reads three consecutive BitDoubles as a point.
func (r *BitReader) Read3BD() (Vector3, error) {
	x, err := r.ReadBD()
	if err != nil {
		return Vector3{}, err
	}
	y, err := r.ReadBD()
	if err != nil {
		return Vector3{}, err
	}
	z, err := r.ReadBD()
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: x, Y: y, Z: z}, nil
}

// Read2RD reads two raw doubles as a 2D point (Z implied 0).
func (r *BitReader) Read2RD() (Vector3, error) {
	x, err := r.ReadRD()
	if err != nil {
		return Vector3{}, err
	}
	y, err := r.ReadRD()
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: x, Y: y}, nil
}

// Read2DD reads a 2D point encoded as two BitDouble-with-default against
// a previous point (used by LWPOLYLINE vertex arrays).
func (r *BitReader) Read2DD(prev Vector3) (Vector3, error) {
	x, err := r.ReadDD(prev.X)
	if err != nil {
		return Vector3{}, err
	}
	y, err := r.ReadDD(prev.Y)
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: x, Y: y}, nil
}

// ReadJulianBL reads a Julian date stored as two BitLongs: day number
// and milliseconds-of-day.
func (r *BitReader) ReadJulianBL() (day, ms int32, err error) {
	day, err = r.ReadBL()
	if err != nil {
		return 0, 0, err
	}
	ms, err = r.ReadBL()
	return day, ms, err
}

// ReadJulianRL reads a Julian date stored as two raw longs.
func (r *BitReader) ReadJulianRL() (day, ms int32, err error) {
	d, err := r.ReadRL()
	if err != nil {
		return 0, 0, err
	}
	m, err := r.ReadRL()
	return int32(d), int32(m), err
}

// ReadSentinel reads a 16-byte magic sequence.
func (r *BitReader) ReadSentinel() ([16]byte, error) {
	var out [16]byte
	b, err := r.ReadBytes(16)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// ExpectSentinel reads a 16-byte sentinel and verifies it matches want.
func (r *BitReader) ExpectSentinel(want [16]byte) error {
	got, err := r.ReadSentinel()
	if err != nil {
		return err
	}
	if got != want {
		return ErrSentinelMismatch
	}
	return nil
}
