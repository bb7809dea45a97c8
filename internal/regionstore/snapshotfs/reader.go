package snapshotfs

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/time/rate"

	"github.com/regionkv/regiond/internal/telemetry/metric"
)

// SnapshotReader presents a virtual file whose bytes are the framed
// serialization of an iteration over a prefix of the engine's live
// snapshot. It is a short-lived façade over an
// iteratorContext: closing a reader clears no state of its own but
// refuses further reads, and the caller must separately tell the
// Adaptor to close the virtual file path to release the context's
// reading exclusivity so a later Open can reacquire it.
type SnapshotReader struct {
	ctx       *iteratorContext
	regionID  int64
	logReader LogEntryReader
	limiter   *rate.Limiter
	metrics   *metric.Registry
	closed    bool
}

func newSnapshotReader(ctx *iteratorContext, regionID int64, logReader LogEntryReader, limiter *rate.Limiter, metrics *metric.Registry) *SnapshotReader {
	if metrics != nil {
		metrics.SnapshotReadersOpen.Inc()
	}
	return &SnapshotReader{ctx: ctx, regionID: regionID, logReader: logReader, limiter: limiter, metrics: metrics}
}

// Read serves the positional read contract: offset may rewind behind
// the context's current logical position, in which case the iterator is
// re-seeked to the prefix and walked forward again. Re-walking is
// acceptable because the transport only rewinds on retry.
func (r *SnapshotReader) Read(buf []byte, offset int64) (int, error) {
	if r.closed {
		return 0, ErrClosed
	}
	if offset < 0 {
		return 0, fmt.Errorf("%w: negative read offset", ErrInvalidArgument)
	}

	ctx := r.ctx
	if offset < ctx.offset {
		ctx.it.Seek(ctx.prefix)
		ctx.offset = 0
		ctx.done = false
		ctx.pendingFrame = nil
	}

	size := len(buf)
	n := 0
	frames := 0

	for {
		if ctx.pendingFrame == nil {
			if !ctx.it.Valid() {
				ctx.done = true
				break
			}
			key := ctx.it.Key()
			if !hasPrefix(key, ctx.prefix) {
				ctx.done = true
				break
			}

			emitKey, emitValue, skip, err := r.materialize(key, ctx.it.Value())
			if err != nil {
				ctx.done = true
				return n, err
			}
			if skip {
				ctx.it.Next()
				continue
			}

			frameLen := FramedSize(emitKey, emitValue)
			frameStart := ctx.offset
			frameEnd := frameStart + int64(frameLen)
			ctx.it.Next()

			if frameEnd <= offset {
				// Entirely behind the requested offset: count it
				// without ever building its bytes.
				ctx.offset = frameEnd
				continue
			}

			ctx.pendingFrame = AppendKV(make([]byte, 0, frameLen), emitKey, emitValue)
			ctx.pendingFrameStart = frameStart
		}

		frame := ctx.pendingFrame
		frameStart := ctx.pendingFrameStart
		frameEnd := frameStart + int64(len(frame))

		sliceStart := int64(0)
		if offset > frameStart {
			sliceStart = offset - frameStart
		}
		remaining := int64(size - n)
		toCopy := int64(len(frame)) - sliceStart
		if toCopy > remaining {
			toCopy = remaining
		}
		if toCopy > 0 {
			n += copy(buf[n:], frame[sliceStart:sliceStart+toCopy])
		}

		ctx.offset = frameStart + sliceStart + toCopy

		if ctx.offset < frameEnd {
			// Buffer exhausted mid-frame; resume here next call.
			break
		}
		ctx.pendingFrame = nil
		frames++

		if n >= size {
			break
		}
	}

	if r.limiter != nil && n > 0 {
		_ = r.limiter.WaitN(context.Background(), n)
	}

	if r.metrics != nil && n > 0 {
		r.metrics.BytesServed.WithLabelValues(r.kindLabel()).Add(float64(n))
		if frames > 0 {
			r.metrics.FramesServed.WithLabelValues(r.kindLabel()).Add(float64(frames))
		}
	}

	return n, nil
}

func (r *SnapshotReader) kindLabel() string {
	if r.ctx.branch == branchMeta {
		return "meta"
	}
	return "data"
}

// materialize classifies one engine entry: raw passthrough on the data
// branch or an unrecognized meta key, suppression for transaction-info
// entries, and synthesis of a transaction-info pair from a log-index
// entry.
func (r *SnapshotReader) materialize(key, value []byte) (emitKey, emitValue []byte, skip bool, err error) {
	if r.ctx.branch != branchMeta {
		return cloneBytes(key), cloneBytes(value), false, nil
	}

	switch {
	case IsTransactionInfoKey(r.regionID, key):
		return nil, nil, true, nil
	case IsLogIndexKey(r.regionID, key):
		logIndex, derr := DecodeLogIndexValue(value)
		if derr != nil {
			return nil, nil, false, fmt.Errorf("snapshotfs: decode log index: %w", derr)
		}
		payload, rerr := r.logReader.ReadLogEntry(r.regionID, logIndex)
		if rerr != nil {
			return nil, nil, false, fmt.Errorf("snapshotfs: fetch log entry %d: %w", logIndex, rerr)
		}
		return TransactionPBKey(r.regionID, logIndex), payload, false, nil
	default:
		return cloneBytes(key), cloneBytes(value), false, nil
	}
}

// Write is unsupported on a snapshot reader.
func (r *SnapshotReader) Write(data []byte, offset int64) (int, error) {
	return 0, ErrUnsupported
}

// Size returns the last logical offset once the stream is exhausted, or
// math.MaxInt64 while it is still open: the transport treats any value
// above its last read cursor as "keep reading", so an unfinished stream
// must report a size no caller's cursor can reach.
func (r *SnapshotReader) Size() int64 {
	if r.ctx.done {
		return r.ctx.offset
	}
	return math.MaxInt64
}

// Sync is unsupported on a snapshot reader.
func (r *SnapshotReader) Sync() error {
	return ErrUnsupported
}

// Close marks the reader closed so further reads fail immediately. It
// does not release the iterator context's reading exclusivity; that
// happens when the transport calls Adaptor.Close with the virtual
// file's path.
func (r *SnapshotReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.metrics != nil {
		r.metrics.SnapshotReadersOpen.Dec()
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
