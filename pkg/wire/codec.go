// Package wire implements the length-prefixed framing and structured
// serialization used on every bridge socket. All integers travel
// little-endian with explicit widths; variable-length data carries a length
// prefix; optionals and sum types carry a one-byte tag.
package wire

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Encoder appends primitive encodings to a growing buffer.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder with a small preallocated buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Bytes returns the encoded buffer.
func (e *Encoder) Bytes() []byte { return e.buf }

// Reset clears the buffer for reuse.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

func (e *Encoder) Uint8(v uint8)   { e.buf = append(e.buf, v) }
func (e *Encoder) Uint16(v uint16) { e.buf = binary.LittleEndian.AppendUint16(e.buf, v) }
func (e *Encoder) Uint32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }
func (e *Encoder) Uint64(v uint64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }
func (e *Encoder) Int16(v int16)   { e.Uint16(uint16(v)) }
func (e *Encoder) Int32(v int32)   { e.Uint32(uint32(v)) }
func (e *Encoder) Int64(v int64)   { e.Uint64(uint64(v)) }

func (e *Encoder) Float32(v float32) { e.Uint32(math.Float32bits(v)) }
func (e *Encoder) Float64(v float64) { e.Uint64(math.Float64bits(v)) }

func (e *Encoder) Bool(v bool) {
	if v {
		e.Uint8(1)
	} else {
		e.Uint8(0)
	}
}

// Bytes16 writes a raw 16-byte tag without a length prefix.
func (e *Encoder) Bytes16(v [16]byte) { e.buf = append(e.buf, v[:]...) }

// Blob writes a length-prefixed raw byte buffer.
func (e *Encoder) Blob(v []byte) {
	e.Uint32(uint32(len(v)))
	e.buf = append(e.buf, v...)
}

// String writes a length-prefixed UTF-8 string.
func (e *Encoder) String(v string) {
	e.Uint32(uint32(len(v)))
	e.buf = append(e.buf, v...)
}

// Tag writes a sum-type discriminant.
func (e *Encoder) Tag(v uint8) { e.Uint8(v) }

// Option writes the presence tag for an optional value. The caller encodes
// the body only when present is true.
func (e *Encoder) Option(present bool) { e.Bool(present) }

// Decoder consumes primitive encodings from a frame. The frame boundary is
// established by the length prefix before the decoder ever runs, so a short
// buffer is a codec error, never a partial read.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder returns a decoder over a complete frame.
func NewDecoder(frame []byte) *Decoder {
	return &Decoder{buf: frame}
}

// Remaining returns the number of unconsumed bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.off }

func (d *Decoder) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, &CodecError{Op: "decode", Detail: "frame truncated"}
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) Uint8() (uint8, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) Uint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) Uint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) Uint64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) Int16() (int16, error) { v, err := d.Uint16(); return int16(v), err }
func (d *Decoder) Int32() (int32, error) { v, err := d.Uint32(); return int32(v), err }
func (d *Decoder) Int64() (int64, error) { v, err := d.Uint64(); return int64(v), err }

func (d *Decoder) Float32() (float32, error) {
	v, err := d.Uint32()
	return math.Float32frombits(v), err
}

func (d *Decoder) Float64() (float64, error) {
	v, err := d.Uint64()
	return math.Float64frombits(v), err
}

func (d *Decoder) Bool() (bool, error) {
	v, err := d.Uint8()
	return v != 0, err
}

func (d *Decoder) Bytes16() ([16]byte, error) {
	var out [16]byte
	b, err := d.take(16)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

func (d *Decoder) Blob() ([]byte, error) {
	n, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	b, err := d.take(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (d *Decoder) String() (string, error) {
	n, err := d.Uint32()
	if err != nil {
		return "", err
	}
	b, err := d.take(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", &CodecError{Op: "decode", Detail: "string is not valid UTF-8"}
	}
	return string(b), nil
}

func (d *Decoder) Tag() (uint8, error) { return d.Uint8() }

func (d *Decoder) Option() (bool, error) { return d.Bool() }

// Message is any value that can travel over a bridge channel.
type Message interface {
	MarshalWire(e *Encoder)
	UnmarshalWire(d *Decoder) error
}

// Encode serialises a message into a fresh buffer.
func Encode(m Message) []byte {
	e := NewEncoder()
	m.MarshalWire(e)
	return e.Bytes()
}

// Decode deserialises a complete frame into m. Trailing bytes indicate a
// mismatched channel type and are rejected.
func Decode(frame []byte, m Message) error {
	d := NewDecoder(frame)
	if err := m.UnmarshalWire(d); err != nil {
		return err
	}
	if d.Remaining() != 0 {
		return &CodecError{Op: "decode", Detail: "trailing bytes after message"}
	}
	return nil
}
