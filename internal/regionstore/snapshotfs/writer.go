package snapshotfs

import (
	"errors"
	"fmt"

	"github.com/regionkv/regiond/internal/regionstore"
	"github.com/regionkv/regiond/internal/telemetry/metric"
)

// SortedFileWriter accepts a framed byte stream and inserts each
// (key, value) pair into the engine's bulk-load writer in the order
// received. The transport always delivers keys in
// non-decreasing order; the underlying regionstore.SortedWriter enforces
// that and this type translates its sentinel into ErrOutOfOrderKey.
type SortedFileWriter struct {
	sw      regionstore.SortedWriter
	path    string
	metrics *metric.Registry
	closed  bool
}

func newSortedFileWriter(sw regionstore.SortedWriter, path string, metrics *metric.Registry) *SortedFileWriter {
	return &SortedFileWriter{sw: sw, path: path, metrics: metrics}
}

// Write parses data using the length-prefixed wire framing and writes
// each pair in order; offset is informational and ignored. An
// out-of-order key or a malformed frame aborts the write immediately and
// cancels the target file, leaving nothing behind.
func (w *SortedFileWriter) Write(data []byte, offset int64) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}

	scanner := NewFrameScanner(data)
	for {
		kv, ok, err := scanner.Next()
		if err != nil {
			w.abort()
			return 0, err
		}
		if !ok {
			break
		}

		if err := w.sw.Write(kv.Key, kv.Value); err != nil {
			w.abort()
			if errors.Is(err, regionstore.ErrOutOfOrderKey) {
				return 0, fmt.Errorf("%w: %v", ErrOutOfOrderKey, err)
			}
			return 0, fmt.Errorf("snapshotfs: write sorted entry: %w", err)
		}
		if w.metrics != nil {
			w.metrics.WriterKeysWritten.Inc()
			w.metrics.WriterBytesWritten.Add(float64(len(kv.Key) + len(kv.Value)))
		}
	}

	return len(data), nil
}

func (w *SortedFileWriter) abort() {
	if w.closed {
		return
	}
	w.closed = true
	_ = w.sw.Cancel()
	if w.metrics != nil {
		w.metrics.WriterAborts.Inc()
	}
}

// Read is unsupported on a sorted-file writer.
func (w *SortedFileWriter) Read(buf []byte, offset int64) (int, error) {
	return 0, ErrUnsupported
}

// Size is unsupported on a sorted-file writer; -1 is the deterministic
// sentinel since Size has no error return to carry ErrUnsupported.
func (w *SortedFileWriter) Size() int64 {
	return -1
}

// Sync is unsupported on a sorted-file writer; the bulk-load file is
// finalized atomically on Close instead.
func (w *SortedFileWriter) Sync() error {
	return ErrUnsupported
}

// Close finalizes the file if any keys were written, or cancels
// (deleting) it otherwise. regionstore.SortedWriter.Commit already
// implements the zero-keys-means-cancel rule, so Close only needs to
// forward to it once.
func (w *SortedFileWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	err := w.sw.Commit()
	if w.metrics != nil {
		if err != nil {
			w.metrics.WriterAborts.Inc()
		} else {
			w.metrics.WriterCommits.Inc()
		}
	}
	return err
}
