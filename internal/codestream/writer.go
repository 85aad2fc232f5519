package codestream

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned when a write would pass the end of the output
// buffer.
var ErrOverflow = errors.New("codestream: output buffer overflow")

// Writer owns the compressed output buffer and a cursor marking the next
// free byte. The buffer is allocated once; every emission advances the
// cursor and Reset rewinds it to the start. After an encode the valid
// output is Bytes(), the range from the buffer start to the cursor.
type Writer struct {
	buf []byte
	cur int
}

// NewWriter returns a writer with a fixed output capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, capacity)}
}

// Reset rewinds the cursor to the start of the buffer.
func (w *Writer) Reset() { w.cur = 0 }

// Len reports the number of bytes emitted since the last Reset.
func (w *Writer) Len() int { return w.cur }

// Cap reports the buffer capacity.
func (w *Writer) Cap() int { return len(w.buf) }

// Bytes returns the emitted range. The slice aliases the writer's buffer
// and is invalidated by the next Reset.
func (w *Writer) Bytes() []byte { return w.buf[:w.cur] }

// WriteByte emits a single byte.
func (w *Writer) WriteByte(b byte) error {
	if w.cur >= len(w.buf) {
		return fmt.Errorf("%w: capacity %d", ErrOverflow, len(w.buf))
	}
	w.buf[w.cur] = b
	w.cur++
	return nil
}

// Write emits p, implementing io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.cur+len(p) > len(w.buf) {
		return 0, fmt.Errorf("%w: capacity %d", ErrOverflow, len(w.buf))
	}
	copy(w.buf[w.cur:], p)
	w.cur += len(p)
	return len(p), nil
}

// WriteUint16 emits v in big-endian order.
func (w *Writer) WriteUint16(v uint16) error {
	if w.cur+2 > len(w.buf) {
		return fmt.Errorf("%w: capacity %d", ErrOverflow, len(w.buf))
	}
	w.buf[w.cur] = byte(v >> 8)
	w.buf[w.cur+1] = byte(v)
	w.cur += 2
	return nil
}

// EmitMarker emits the 0xFF-prefixed marker code.
func (w *Writer) EmitMarker(m Marker) error {
	if err := w.WriteByte(0xFF); err != nil {
		return err
	}
	return w.WriteByte(byte(m))
}

// writeSegment emits a marker followed by its length-prefixed payload.
// The emitted length covers the length field itself, per Annex B.
func (w *Writer) writeSegment(m Marker, payload []byte) error {
	if err := w.EmitMarker(m); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(len(payload) + 2)); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
