package binreader

import "encoding/binary"

// Writer accumulates a little-endian byte stream. It mirrors Reader's field
// widths so a record can be decoded and then re-encoded for the
// byte-equality check of §3 invariant 7.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer with cap bytes pre-allocated.
func NewWriter(cap int) *Writer {
	return &Writer{buf: make([]byte, 0, cap)}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// PutBytes appends b verbatim.
func (w *Writer) PutBytes(b []byte) { w.buf = append(w.buf, b...) }

// PutFixed appends b, or n zero bytes if b is nil/empty, producing the
// zero-padding an absent fixed-width field takes on the wire (§9).
func (w *Writer) PutFixed(b []byte, n int) {
	if len(b) == n {
		w.buf = append(w.buf, b...)
		return
	}
	w.buf = append(w.buf, make([]byte, n)...)
}

// PutU16LE appends a little-endian uint16.
func (w *Writer) PutU16LE(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutU32LE appends a little-endian uint32.
func (w *Writer) PutU32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutU64LE appends a little-endian uint64.
func (w *Writer) PutU64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// PutI64LE appends a little-endian int64.
func (w *Writer) PutI64LE(v int64) { w.PutU64LE(uint64(v)) }
