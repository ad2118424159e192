//go:build !unix

package buffer

import (
	"errors"
	"io"
	"os"
)

// openImpl falls back to a plain read on platforms without an mmap syscall
// wired through golang.org/x/sys/unix.
func openImpl(path string, maxSize int64) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return nil, &Empty{Path: path}
	}
	if size > maxSize {
		size = maxSize
	}

	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil && !errors.Is(err, io.EOF) && size > 0 {
		return nil, err
	}
	return &Buffer{data: data}, nil
}
