//go:build unix

package buffer

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

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

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrap(err, "mmap")
	}

	b := &Buffer{data: data}
	b.closer = func() error {
		return unix.Munmap(data)
	}
	return b, nil
}
