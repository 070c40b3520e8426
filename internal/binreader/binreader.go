// Package binreader provides a positioned view over the wallet file's byte
// stream, with cheap save/restore of position for the resynchronizer (§4.A).
package binreader

import (
	"encoding/binary"
	"errors"
)

// ErrOutOfRange is returned when a read would exceed the buffer. A read
// never consumes a partial field: either the whole field is available or
// nothing is consumed and this error is returned.
var ErrOutOfRange = errors.New("binreader: read past end of buffer")

// Reader is a positioned, non-copying view over a byte slice.
type Reader struct {
	buf []byte
	pos int
}

// New wraps buf for sequential, checkpointed reads. buf is not copied; the
// caller must not mutate it while the Reader is in use.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Size returns the total number of bytes in the underlying buffer.
func (r *Reader) Size() int { return len(r.buf) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Position returns the current read offset.
func (r *Reader) Position() int64 { return int64(r.pos) }

// SetPosition moves the read cursor to an absolute offset. It does not
// validate p against the buffer length; a subsequent read beyond the end
// will surface ErrOutOfRange.
func (r *Reader) SetPosition(p int64) { r.pos = int(p) }

// Advance skips n bytes without returning them. It fails, leaving the
// position unchanged, if fewer than n bytes remain.
func (r *Reader) Advance(n int) error {
	if n < 0 || n > r.Remaining() {
		return ErrOutOfRange
	}
	r.pos += n
	return nil
}

// GetBytes reads and returns the next n bytes, copied out of the
// underlying buffer so the caller may retain them past the Reader's
// lifetime.
func (r *Reader) GetBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, ErrOutOfRange
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// PeekBytes returns the next n bytes without advancing the position.
func (r *Reader) PeekBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, ErrOutOfRange
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	return out, nil
}

// GetU16LE reads a little-endian uint16.
func (r *Reader) GetU16LE() (uint16, error) {
	b, err := r.GetBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// GetU32LE reads a little-endian uint32.
func (r *Reader) GetU32LE() (uint32, error) {
	b, err := r.GetBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// GetU64LE reads a little-endian uint64.
func (r *Reader) GetU64LE() (uint64, error) {
	b, err := r.GetBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// GetI64LE reads a little-endian int64.
func (r *Reader) GetI64LE() (int64, error) {
	v, err := r.GetU64LE()
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// Checkpoint is a saved position a caller can cheaply return to. The
// resynchronizer uses this heavily: each hypothesis restores to the
// original checkpoint before trying the next one.
type Checkpoint int64

// Save returns a checkpoint for the current position.
func (r *Reader) Save() Checkpoint { return Checkpoint(r.pos) }

// Restore rewinds to a previously saved checkpoint.
func (r *Reader) Restore(c Checkpoint) { r.pos = int(c) }
