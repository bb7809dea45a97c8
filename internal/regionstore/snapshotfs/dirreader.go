package snapshotfs

import (
	"fmt"
	"os"
)

// DirReader exposes forward iteration across a directory's entries.
// os.ReadDir never yields "." or "..", so suppressing the synthetic
// self/parent entries falls out for free.
type DirReader struct {
	entries []os.DirEntry
	pos     int
}

func newDirReader(path string) (*DirReader, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("snapshotfs: read dir %s: %w", path, err)
	}
	return &DirReader{entries: entries}, nil
}

// Next returns the next entry's basename, or ok=false once the
// directory is exhausted.
func (d *DirReader) Next() (name string, ok bool) {
	if d.pos >= len(d.entries) {
		return "", false
	}
	name = d.entries[d.pos].Name()
	d.pos++
	return name, true
}
