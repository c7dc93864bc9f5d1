package protocol

import (
	"encoding/binary"
	"errors"
	"math"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	// ErrBufferUnderflow is returned when a read requires more bytes than the
	// buffer has remaining. No bytes are consumed by a failed read.
	ErrBufferUnderflow = errors.New("protocol: read exceeds remaining buffer bytes")
	// ErrMalformedVarint is returned when a varint runs past its maximum
	// width of 5 bytes.
	ErrMalformedVarint = errors.New("protocol: varint wider than 5 bytes")
	// ErrMalformedVarlong is returned when a varlong runs past its maximum
	// width of 10 bytes.
	ErrMalformedVarlong = errors.New("protocol: varlong wider than 10 bytes")
	// ErrInvalidString is returned when a string's bytes are not valid UTF-8.
	ErrInvalidString = errors.New("protocol: string is not valid UTF-8")
)

// Buffer is a byte cursor over a single packet body. Reads advance a read
// offset monotonically, writes always append. All fixed-width values are
// big-endian on the wire regardless of host byte order.
type Buffer struct {
	data []byte
	off  int
}

// NewBuffer returns a buffer reading from and appending to b.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: b}
}

// Bytes returns the full underlying slice, including bytes already read.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Remaining returns the number of unread bytes.
func (b *Buffer) Remaining() int {
	return len(b.data) - b.off
}

// next returns n unread bytes and advances the cursor, or fails with
// ErrBufferUnderflow leaving the cursor untouched.
func (b *Buffer) next(n int) ([]byte, error) {
	if b.Remaining() < n {
		return nil, ErrBufferUnderflow
	}
	v := b.data[b.off : b.off+n]
	b.off += n
	return v, nil
}

func (b *Buffer) ReadUint8() (uint8, error) {
	v, err := b.next(1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func (b *Buffer) ReadInt8() (int8, error) {
	v, err := b.ReadUint8()
	return int8(v), err
}

func (b *Buffer) ReadBool() (bool, error) {
	v, err := b.ReadUint8()
	return v != 0, err
}

func (b *Buffer) ReadUint16() (uint16, error) {
	v, err := b.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(v), nil
}

func (b *Buffer) ReadInt16() (int16, error) {
	v, err := b.ReadUint16()
	return int16(v), err
}

func (b *Buffer) ReadUint32() (uint32, error) {
	v, err := b.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(v), nil
}

func (b *Buffer) ReadInt32() (int32, error) {
	v, err := b.ReadUint32()
	return int32(v), err
}

func (b *Buffer) ReadUint64() (uint64, error) {
	v, err := b.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(v), nil
}

func (b *Buffer) ReadInt64() (int64, error) {
	v, err := b.ReadUint64()
	return int64(v), err
}

func (b *Buffer) ReadFloat32() (float32, error) {
	v, err := b.ReadUint32()
	return math.Float32frombits(v), err
}

func (b *Buffer) ReadFloat64() (float64, error) {
	v, err := b.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadVarint reads a variable-length 32-bit integer of at most 5 bytes.
func (b *Buffer) ReadVarint() (int32, error) {
	start := b.off
	var v uint32
	for i := 0; ; i++ {
		if i == 5 {
			b.off = start
			return 0, ErrMalformedVarint
		}
		c, err := b.ReadUint8()
		if err != nil {
			b.off = start
			return 0, err
		}
		v |= uint32(c&0x7f) << (7 * i)
		if c&0x80 == 0 {
			break
		}
	}
	return int32(v), nil
}

// ReadVarlong reads a variable-length 64-bit integer of at most 10 bytes.
func (b *Buffer) ReadVarlong() (int64, error) {
	start := b.off
	var v uint64
	for i := 0; ; i++ {
		if i == 10 {
			b.off = start
			return 0, ErrMalformedVarlong
		}
		c, err := b.ReadUint8()
		if err != nil {
			b.off = start
			return 0, err
		}
		v |= uint64(c&0x7f) << (7 * i)
		if c&0x80 == 0 {
			break
		}
	}
	return int64(v), nil
}

// ReadString reads a varint length prefix followed by that many UTF-8 bytes.
func (b *Buffer) ReadString() (string, error) {
	start := b.off
	n, err := b.ReadVarint()
	if err != nil {
		return "", err
	}
	if n < 0 {
		b.off = start
		return "", ErrInvalidString
	}
	v, err := b.next(int(n))
	if err != nil {
		b.off = start
		return "", err
	}
	if !utf8.Valid(v) {
		b.off = start
		return "", ErrInvalidString
	}
	return string(v), nil
}

// ReadUUID reads a 128-bit identifier as two big-endian 64-bit halves.
func (b *Buffer) ReadUUID() (uuid.UUID, error) {
	v, err := b.next(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var id uuid.UUID
	copy(id[:], v)
	return id, nil
}

// ReadBytes reads exactly n raw bytes. A negative count, which a malformed
// length prefix can produce, fails like any other short read.
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrBufferUnderflow
	}
	v, err := b.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, v)
	return out, nil
}

// ReadRemaining consumes and returns every unread byte.
func (b *Buffer) ReadRemaining() []byte {
	v := b.data[b.off:]
	b.off = len(b.data)
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

func (b *Buffer) WriteUint8(v uint8) {
	b.data = append(b.data, v)
}

func (b *Buffer) WriteInt8(v int8) {
	b.WriteUint8(uint8(v))
}

func (b *Buffer) WriteBool(v bool) {
	if v {
		b.WriteUint8(1)
	} else {
		b.WriteUint8(0)
	}
}

func (b *Buffer) WriteUint16(v uint16) {
	b.data = binary.BigEndian.AppendUint16(b.data, v)
}

func (b *Buffer) WriteInt16(v int16) {
	b.WriteUint16(uint16(v))
}

func (b *Buffer) WriteUint32(v uint32) {
	b.data = binary.BigEndian.AppendUint32(b.data, v)
}

func (b *Buffer) WriteInt32(v int32) {
	b.WriteUint32(uint32(v))
}

func (b *Buffer) WriteUint64(v uint64) {
	b.data = binary.BigEndian.AppendUint64(b.data, v)
}

func (b *Buffer) WriteInt64(v int64) {
	b.WriteUint64(uint64(v))
}

func (b *Buffer) WriteFloat32(v float32) {
	b.WriteUint32(math.Float32bits(v))
}

func (b *Buffer) WriteFloat64(v float64) {
	b.WriteUint64(math.Float64bits(v))
}

func (b *Buffer) WriteVarint(v int32) {
	u := uint32(v)
	for u >= 0x80 {
		b.WriteUint8(byte(u) | 0x80)
		u >>= 7
	}
	b.WriteUint8(byte(u))
}

func (b *Buffer) WriteVarlong(v int64) {
	u := uint64(v)
	for u >= 0x80 {
		b.WriteUint8(byte(u) | 0x80)
		u >>= 7
	}
	b.WriteUint8(byte(u))
}

func (b *Buffer) WriteString(v string) {
	b.WriteVarint(int32(len(v)))
	b.data = append(b.data, v...)
}

func (b *Buffer) WriteUUID(id uuid.UUID) {
	b.data = append(b.data, id[:]...)
}

func (b *Buffer) WriteBytes(v []byte) {
	b.data = append(b.data, v...)
}

// Optional reads a boolean presence byte followed by a value read with read
// if the byte was set. Absence returns the zero value and false.
func Optional[T any](b *Buffer, read func() (T, error)) (T, bool, error) {
	var zero T
	start := b.off
	present, err := b.ReadBool()
	if err != nil {
		return zero, false, err
	}
	if !present {
		return zero, false, nil
	}
	v, err := read()
	if err != nil {
		b.off = start
		return zero, false, err
	}
	return v, true, nil
}

// WriteOptional writes a boolean presence byte, followed by the value written
// with write only if present is true.
func WriteOptional[T any](b *Buffer, v T, present bool, write func(T)) {
	b.WriteBool(present)
	if present {
		write(v)
	}
}

// Slice reads a varint element count followed by that many elements, each
// read with read.
func Slice[T any](b *Buffer, read func() (T, error)) ([]T, error) {
	start := b.off
	n, err := b.ReadVarint()
	if err != nil {
		return nil, err
	}
	if n < 0 || int(n) > b.Remaining() {
		b.off = start
		return nil, ErrBufferUnderflow
	}
	out := make([]T, 0, n)
	for i := int32(0); i < n; i++ {
		v, err := read()
		if err != nil {
			b.off = start
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteSlice writes a varint element count followed by every element,
// each written with write.
func WriteSlice[T any](b *Buffer, v []T, write func(T)) {
	b.WriteVarint(int32(len(v)))
	for _, e := range v {
		write(e)
	}
}
