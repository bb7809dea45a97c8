package snapshotfs

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// RegularFile is a thin passthrough to the host filesystem for paths
// that classify as neither the data nor the meta virtual file.
type RegularFile struct {
	f      *os.File
	closed bool
}

func openRegularFile(path string, flags OpenFlag) (*RegularFile, error) {
	osFlags := os.O_RDONLY
	switch {
	case flags&OpenReadWrite != 0:
		osFlags = os.O_RDWR | os.O_CREATE
	case flags&OpenWriteOnly != 0:
		osFlags = os.O_WRONLY | os.O_CREATE
	}

	f, err := os.OpenFile(path, osFlags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("snapshotfs: open %s: %w", path, err)
	}
	return &RegularFile{f: f}, nil
}

func (r *RegularFile) Read(buf []byte, offset int64) (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	n, err := r.f.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("snapshotfs: read %s: %w", r.f.Name(), err)
	}
	return n, nil
}

func (r *RegularFile) Write(data []byte, offset int64) (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	n, err := r.f.WriteAt(data, offset)
	if err != nil {
		return n, fmt.Errorf("snapshotfs: write %s: %w", r.f.Name(), err)
	}
	return n, nil
}

func (r *RegularFile) Size() int64 {
	info, err := r.f.Stat()
	if err != nil {
		return -1
	}
	return info.Size()
}

func (r *RegularFile) Sync() error {
	if r.closed {
		return ErrClosed
	}
	if err := r.f.Sync(); err != nil {
		return fmt.Errorf("snapshotfs: sync %s: %w", r.f.Name(), err)
	}
	return nil
}

func (r *RegularFile) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.f.Close()
}
