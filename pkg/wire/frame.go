package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DefaultMaxFrameSize caps a single frame at 512 MiB, comfortably above the
// largest legitimate payload (a plugin state chunk).
const DefaultMaxFrameSize = 512 << 20

// WriteFrame writes an 8-byte little-endian length prefix followed by the
// payload.
func WriteFrame(w io.Writer, payload []byte) error {
	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(len(payload)))
	if _, err := w.Write(prefix[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed frame. The length is read first and
// then exactly that many bytes, so the decoder never sees a partial message.
// Frames larger than maxSize fail with a CodecError; pass 0 to use
// DefaultMaxFrameSize.
func ReadFrame(r io.Reader, maxSize uint64) ([]byte, error) {
	if maxSize == 0 {
		maxSize = DefaultMaxFrameSize
	}
	var prefix [8]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint64(prefix[:])
	if size > maxSize {
		return nil, &CodecError{
			Op:     "read frame",
			Detail: fmt.Sprintf("frame of %d bytes exceeds channel cap of %d", size, maxSize),
		}
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
