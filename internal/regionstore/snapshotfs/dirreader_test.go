package snapshotfs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestDirReader_EnumeratesAllEntries(t *testing.T) {
	dir := t.TempDir()
	want := []string{"a.sst", "b.sst", "c.sst"}
	for _, name := range want {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) error: %v", name, err)
		}
	}

	r, err := newDirReader(dir)
	if err != nil {
		t.Fatalf("newDirReader() error: %v", err)
	}

	var got []string
	for {
		name, ok := r.Next()
		if !ok {
			break
		}
		got = append(got, name)
	}
	sort.Strings(got)

	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d: %v", len(got), len(want), got)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("entry %d = %q, want %q", i, got[i], name)
		}
	}

	if _, ok := r.Next(); ok {
		t.Error("Next() after exhaustion: ok = true, want false")
	}
}

func TestDirReader_EmptyDirectory(t *testing.T) {
	r, err := newDirReader(t.TempDir())
	if err != nil {
		t.Fatalf("newDirReader() error: %v", err)
	}
	if _, ok := r.Next(); ok {
		t.Error("Next() on empty directory: ok = true, want false")
	}
}

func TestDirReader_MissingDirectory(t *testing.T) {
	if _, err := newDirReader(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Fatal("newDirReader() on a missing path: expected error")
	}
}
