package buffer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shirou/filemagic/internal/ast"
)

func TestFromSliceLenAndEmpty(t *testing.T) {
	b := FromSlice([]byte{1, 2, 3})
	if b.Len() != 3 {
		t.Errorf("Len() = %d, want 3", b.Len())
	}
	if b.IsEmpty() {
		t.Error("IsEmpty() = true, want false")
	}
	if e := FromSlice(nil); !e.IsEmpty() {
		t.Error("IsEmpty() on empty slice = false, want true")
	}
}

func TestBufferBytesBounds(t *testing.T) {
	b := FromSlice([]byte("hello"))

	got, err := b.Bytes(1, 3)
	if err != nil {
		t.Fatalf("Bytes(1,3) error: %v", err)
	}
	if string(got) != "ell" {
		t.Errorf("Bytes(1,3) = %q, want %q", got, "ell")
	}

	cases := []struct {
		name   string
		off    int
		length int
	}{
		{"zero length", 0, 0},
		{"negative length", 0, -1},
		{"negative offset", -1, 2},
		{"offset past end", 10, 1},
		{"length past end", 3, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := b.Bytes(tc.off, tc.length); err == nil {
				t.Errorf("Bytes(%d,%d) expected an error, got nil", tc.off, tc.length)
			} else {
				var be *BoundsError
				if !errors.As(err, &be) {
					t.Errorf("Bytes(%d,%d) error is not a *BoundsError: %v", tc.off, tc.length, err)
				}
			}
		})
	}
}

func TestReadUintLittleAndBigEndian(t *testing.T) {
	b := FromSlice([]byte{0x01, 0x02, 0x03, 0x04})

	le, err := b.ReadUint(0, 4, ast.LittleEndian)
	if err != nil {
		t.Fatalf("ReadUint(little) error: %v", err)
	}
	if le != 0x04030201 {
		t.Errorf("ReadUint(little) = %#x, want %#x", le, 0x04030201)
	}

	be, err := b.ReadUint(0, 4, ast.BigEndian)
	if err != nil {
		t.Fatalf("ReadUint(big) error: %v", err)
	}
	if be != 0x01020304 {
		t.Errorf("ReadUint(big) = %#x, want %#x", be, 0x01020304)
	}
}

func TestReadUintMiddleEndian(t *testing.T) {
	// melong: PDP-11 word-swapped. Bytes 0x00,0x01 (high word, big-endian)
	// then 0x00,0x02 (low word, big-endian) decode to 0x00010002.
	b := FromSlice([]byte{0x00, 0x01, 0x00, 0x02})
	got, err := b.ReadUint(0, 4, ast.MiddleEndian)
	if err != nil {
		t.Fatalf("ReadUint(middle) error: %v", err)
	}
	if want := uint64(0x00010002); got != want {
		t.Errorf("ReadUint(middle) = %#x, want %#x", got, want)
	}
}

func TestReadIntSignExtension(t *testing.T) {
	b := FromSlice([]byte{0xFF})
	signed := ast.TypeKind{Width: 1, Signed: true, Endian: ast.LittleEndian}
	unsigned := ast.TypeKind{Width: 1, Signed: false, Endian: ast.LittleEndian}

	got, err := b.ReadInt(0, signed)
	if err != nil {
		t.Fatalf("ReadInt(signed) error: %v", err)
	}
	if got != -1 {
		t.Errorf("ReadInt(signed byte 0xFF) = %d, want -1", got)
	}

	got2, err := b.ReadInt(0, unsigned)
	if err != nil {
		t.Fatalf("ReadInt(unsigned) error: %v", err)
	}
	if got2 != 255 {
		t.Errorf("ReadInt(unsigned byte 0xFF) = %d, want 255", got2)
	}
}

func TestReadFloat(t *testing.T) {
	// 1.0f in IEEE-754 single precision, little-endian.
	b := FromSlice([]byte{0x00, 0x00, 0x80, 0x3F})
	t4 := ast.TypeKind{Width: 4, Endian: ast.LittleEndian}
	got, err := b.ReadFloat(0, t4)
	if err != nil {
		t.Fatalf("ReadFloat error: %v", err)
	}
	if got != 1.0 {
		t.Errorf("ReadFloat() = %v, want 1.0", got)
	}
}

func TestReadCString(t *testing.T) {
	b := FromSlice([]byte("hello\x00world"))

	got, err := b.ReadCString(0, 0)
	if err != nil {
		t.Fatalf("ReadCString error: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("ReadCString() = %q, want %q", got, "hello")
	}

	got2, err := b.ReadCString(6, 3)
	if err != nil {
		t.Fatalf("ReadCString(maxLen=3) error: %v", err)
	}
	if string(got2) != "wor" {
		t.Errorf("ReadCString(maxLen=3) = %q, want %q", got2, "wor")
	}
}

func TestOpenRejectsEmptyFileAtOpenTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Open(path, DefaultMaxReadSize)
	if err == nil {
		t.Fatal("Open() on a zero-length file expected an error, got nil")
	}
	var empty *Empty
	if !errors.As(err, &empty) {
		t.Errorf("Open() error is not a *Empty: %v", err)
	}
}

func TestBufferClose(t *testing.T) {
	b := FromSlice([]byte("x"))
	if err := b.Close(); err != nil {
		t.Errorf("Close() on a FromSlice buffer should be a no-op, got error: %v", err)
	}
}
