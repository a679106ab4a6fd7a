// Package datafile provides the little-endian primitives the compiled
// dictionary format is written and read with.
package datafile

import (
	"bufio"
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/jyutdict/jyutdict/vbyte"
)

// Writer writes little-endian primitives to an underlying stream and
// tracks the total number of bytes written.
type Writer struct {
	count int
	inner *bufio.Writer
}

const writeBufSize = 1 << 20

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		inner: bufio.NewWriterSize(w, writeBufSize),
	}
}

// Count reports the number of bytes written so far.
func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) Flush() error {
	return w.inner.Flush()
}

func (w *Writer) WriteU8(v uint8) error {
	w.count++
	return w.inner.WriteByte(v)
}

func (w *Writer) WriteU16(v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return w.WriteBytes(buf[:])
}

func (w *Writer) WriteU32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return w.WriteBytes(buf[:])
}

func (w *Writer) WriteU64(v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return w.WriteBytes(buf[:])
}

func (w *Writer) WriteBytes(b []byte) error {
	w.count += len(b)
	_, err := w.inner.Write(b)
	return err
}

// WriteBytesAndLength writes a u32 byte count followed by the bytes.
func (w *Writer) WriteBytesAndLength(b []byte) error {
	if err := w.WriteU32(uint32(len(b))); err != nil {
		return err
	}
	return w.WriteBytes(b)
}

func (w *Writer) WriteString(s string) error {
	return w.WriteBytesAndLength([]byte(s))
}

// WriteUTF8Char writes the 1..4 byte UTF-8 encoding of r.
func (w *Writer) WriteUTF8Char(r rune) error {
	var buf [4]byte
	n := utf8.EncodeRune(buf[:], r)
	return w.WriteBytes(buf[:n])
}

// WriteVByte writes v in vbyte coding (1, 2, 3 or 5 bytes).
func (w *Writer) WriteVByte(v uint64) error {
	word, n := vbyte.Encode(v)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], word)
	return w.WriteBytes(buf[:n])
}

// WritePad writes the trailing zero u64 every stream must end with so
// that speculative vbyte reads stay in bounds.
func (w *Writer) WritePad() error {
	return w.WriteU64(0)
}
