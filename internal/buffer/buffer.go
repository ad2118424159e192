// Package buffer provides the read-only, bounds-checked byte source the
// parser and evaluator read subject files through.
package buffer

import (
	"math"

	"github.com/pkg/errors"

	"github.com/shirou/filemagic/internal/ast"
)

// DefaultMaxReadSize caps how much of a file is mapped into memory, the way
// the teacher's detector.Options.MaxReadSize bounds a single read.
const DefaultMaxReadSize = 32 * 1024 * 1024

// Buffer is an immutable, bounds-checked view over a subject file's bytes.
// A Buffer has exclusive single-owner semantics: it is not safe to Close
// from one goroutine while another is still reading.
type Buffer struct {
	data   []byte
	closer func() error
}

// FromSlice wraps an in-memory slice (e.g. already-read test fixtures) as a
// Buffer. The slice is not copied; callers must not mutate it afterward.
func FromSlice(b []byte) *Buffer {
	return &Buffer{data: b}
}

// Open maps path into memory, read-only, up to maxSize bytes. maxSize <= 0
// uses DefaultMaxReadSize.
func Open(path string, maxSize int64) (*Buffer, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxReadSize
	}
	b, err := openImpl(path, maxSize)
	if err != nil {
		return nil, errors.Wrapf(err, "buffer: open %s", path)
	}
	return b, nil
}

func (b *Buffer) Len() int      { return len(b.data) }
func (b *Buffer) IsEmpty() bool { return len(b.data) == 0 }

// Close releases any OS resources (the mmap) backing the buffer. Safe to
// call on a Buffer built via FromSlice, where it is a no-op.
func (b *Buffer) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

// Bytes returns a sub-slice [off, off+length) of the buffer. A zero or
// negative length is rejected as out of bounds: spec.md treats an empty
// read as a boundary violation, not a valid no-op.
func (b *Buffer) Bytes(off, length int) ([]byte, error) {
	if length <= 0 || off < 0 || off > len(b.data) || length > len(b.data)-off {
		return nil, &BoundsError{Offset: off, Length: length, Size: len(b.data)}
	}
	return b.data[off : off+length], nil
}

// ReadUint decodes a width-byte (1/2/4/8) unsigned integer at off using the
// given byte order.
func (b *Buffer) ReadUint(off, width int, endian ast.Endian) (uint64, error) {
	buf, err := b.Bytes(off, width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(buf[0]), nil
	case 2:
		return decode16(buf, endian), nil
	case 4:
		return decode32(buf, endian), nil
	case 8:
		return decode64(buf, endian), nil
	default:
		return 0, errors.Errorf("buffer: unsupported integer width %d", width)
	}
}

func decode16(buf []byte, endian ast.Endian) uint64 {
	switch endian {
	case ast.BigEndian:
		return uint64(buf[0])<<8 | uint64(buf[1])
	default: // Little, Native, Middle (no middle-endian 16-bit variant)
		return uint64(buf[1])<<8 | uint64(buf[0])
	}
}

func decode32(buf []byte, endian ast.Endian) uint64 {
	switch endian {
	case ast.BigEndian:
		return uint64(buf[0])<<24 | uint64(buf[1])<<16 | uint64(buf[2])<<8 | uint64(buf[3])
	case ast.MiddleEndian:
		// PDP-11 word-swapped: high word stored first as big-endian pair,
		// low word follows.
		hi := uint64(buf[0])<<8 | uint64(buf[1])
		lo := uint64(buf[2])<<8 | uint64(buf[3])
		return hi<<16 | lo
	default:
		return uint64(buf[3])<<24 | uint64(buf[2])<<16 | uint64(buf[1])<<8 | uint64(buf[0])
	}
}

func decode64(buf []byte, endian ast.Endian) uint64 {
	if endian == ast.BigEndian {
		var v uint64
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(buf[i])
		}
		return v
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(buf[i])
	}
	return v
}

// ReadInt decodes an integer field per t (width, endian, signedness),
// returning it sign-extended to int64 when t.Signed is set.
func (b *Buffer) ReadInt(off int, t ast.TypeKind) (int64, error) {
	u, err := b.ReadUint(off, t.Width, t.Endian)
	if err != nil {
		return 0, err
	}
	if !t.Signed {
		return int64(u), nil
	}
	switch t.Width {
	case 1:
		return int64(int8(u)), nil
	case 2:
		return int64(int16(u)), nil
	case 4:
		return int64(int32(u)), nil
	default:
		return int64(u), nil
	}
}

// ReadFloat decodes a 4- or 8-byte IEEE-754 float field at off.
func (b *Buffer) ReadFloat(off int, t ast.TypeKind) (float64, error) {
	u, err := b.ReadUint(off, t.Width, t.Endian)
	if err != nil {
		return 0, err
	}
	if t.Width == 4 {
		return float64(math.Float32frombits(uint32(u))), nil
	}
	return math.Float64frombits(u), nil
}

// ReadCString reads up to maxLen bytes starting at off, stopping at the
// first NUL or the buffer's end, whichever comes first. maxLen <= 0 means
// "read to the end of the buffer".
func (b *Buffer) ReadCString(off, maxLen int) ([]byte, error) {
	if off < 0 || off > len(b.data) {
		return nil, &BoundsError{Offset: off, Length: 1, Size: len(b.data)}
	}
	end := len(b.data)
	if maxLen > 0 && off+maxLen < end {
		end = off + maxLen
	}
	for i := off; i < end; i++ {
		if b.data[i] == 0 {
			return b.data[off:i], nil
		}
	}
	return b.data[off:end], nil
}
