package datafile

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/jyutdict/jyutdict/vbyte"
)

// Reader decodes little-endian primitives from an in-memory buffer.
// The format is produced in-house; a short or corrupt buffer is a
// fatal condition and panics with a descriptive message.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func NewReaderAt(data []byte, pos int) *Reader {
	return &Reader{data: data, pos: pos}
}

// Pos reports the current read position.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining reports the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) need(n int) {
	if r.pos+n > len(r.data) {
		panic(fmt.Sprintf("datafile: truncated stream: need %d bytes at position %d, buffer size %d", n, r.pos, len(r.data)))
	}
}

func (r *Reader) ReadU8() uint8 {
	r.need(1)
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *Reader) ReadU16() uint16 {
	r.need(2)
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *Reader) ReadU32() uint32 {
	r.need(4)
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *Reader) ReadU64() uint64 {
	r.need(8)
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v
}

// ReadBytes returns a view of the next n bytes. The returned slice
// aliases the reader's buffer.
func (r *Reader) ReadBytes(n int) []byte {
	r.need(n)
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// ReadString reads a u32 length prefix followed by that many bytes.
func (r *Reader) ReadString() string {
	n := int(r.ReadU32())
	return string(r.ReadBytes(n))
}

// ReadUTF8Char reads one UTF-8 encoded scalar (1..4 bytes, sized by
// the leading byte).
func (r *Reader) ReadUTF8Char() rune {
	r.need(1)
	b := r.data[r.pos]
	if b < utf8.RuneSelf {
		r.pos++
		return rune(b)
	}
	c, size := utf8.DecodeRune(r.data[r.pos:])
	if c == utf8.RuneError && size <= 1 {
		panic(fmt.Sprintf("datafile: invalid UTF-8 at position %d", r.pos))
	}
	r.pos += size
	return c
}

// ReadVByte reads 8 bytes speculatively, decodes the vbyte, and moves
// the position by the actual encoded length. The stream's trailing
// zero padding keeps the speculative read in bounds.
func (r *Reader) ReadVByte() uint64 {
	r.need(8)
	v, n := vbyte.Decode(binary.LittleEndian.Uint64(r.data[r.pos:]))
	r.pos += n
	return v
}

// Skip advances the position without reading.
func (r *Reader) Skip(n int) {
	r.need(n)
	r.pos += n
}
