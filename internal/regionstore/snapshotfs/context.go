package snapshotfs

import (
	"sync"
	"sync/atomic"

	"github.com/regionkv/regiond/internal/regionstore"
	"github.com/regionkv/regiond/internal/telemetry/metric"
)

type branch int

const (
	branchData branch = iota
	branchMeta
)

// iteratorContext is the per-virtual-file cursor:
// a prefix, an iterator seeked to it, a logical byte offset, and a
// "done" flag. Exclusivity is a boolean, not a second mutex — acquire
// flips it with a compare-and-swap after the registry mutex has been
// released, so the flag is read/written atomically rather than locked
// around the iterator work it gates.
type iteratorContext struct {
	branch branch
	prefix []byte
	it     regionstore.Iterator
	offset int64
	done   bool

	// pendingFrame caches the framed bytes of the entry the iterator has
	// already advanced past but has not yet fully delivered, so a read
	// whose buffer is smaller than one frame can resume mid-frame on the
	// next call without re-deriving it (and, for a log-index entry,
	// without re-fetching its payload). pendingFrameStart is the
	// absolute stream offset at which pendingFrame begins.
	pendingFrame      []byte
	pendingFrameStart int64

	reading atomic.Bool
}

func (ic *iteratorContext) acquire() bool {
	return ic.reading.CompareAndSwap(false, true)
}

func (ic *iteratorContext) release() {
	ic.reading.Store(false)
}

// snapshotContext groups up to two iterator contexts sharing one engine
// snapshot handle, per (region, snapshot path).
type snapshotContext struct {
	snapshot regionstore.Snapshot
	refCount int
	data     *iteratorContext
	meta     *iteratorContext
}

// registry is the snapshot adaptor's path -> snapshotContext map,
// guarded by a mutex paired with a condition variable so Adaptor.Shutdown
// can block until every snapshot has been closed.
type registry struct {
	mu      sync.Mutex
	cond    *sync.Cond
	byPath  map[string]*snapshotContext
	metrics *metric.Registry
}

func newRegistry(metrics *metric.Registry) *registry {
	r := &registry{byPath: make(map[string]*snapshotContext), metrics: metrics}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// open increments the reference count for path, creating a fresh
// snapshot context (and engine snapshot) on first open.
func (r *registry) open(path string, engine regionstore.Engine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, ok := r.byPath[path]
	if !ok {
		snap, err := engine.NewSnapshot()
		if err != nil {
			return err
		}
		ctx = &snapshotContext{snapshot: snap}
		r.byPath[path] = ctx
		if r.metrics != nil {
			r.metrics.SnapshotContextsOpen.Inc()
		}
	}
	ctx.refCount++
	return nil
}

// close decrements the reference count for path, erasing the entry and
// releasing its engine snapshot once the count reaches zero.
func (r *registry) close(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, ok := r.byPath[path]
	if !ok {
		return
	}
	ctx.refCount--
	if ctx.refCount <= 0 {
		ctx.snapshot.Release()
		delete(r.byPath, path)
		if r.metrics != nil {
			r.metrics.SnapshotContextsOpen.Dec()
		}
		r.cond.Broadcast()
	}
}

func (r *registry) get(path string) (*snapshotContext, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx, ok := r.byPath[path]
	return ctx, ok
}

// iteratorFor returns the iterator context for branch under path,
// lazily creating it under the registry mutex on first access.
func (r *registry) iteratorFor(path string, br branch, regionID int64) (*iteratorContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, ok := r.byPath[path]
	if !ok {
		return nil, ErrSnapshotNotFound
	}

	switch br {
	case branchData:
		if ctx.data == nil {
			ctx.data = newDataIteratorContext(ctx.snapshot, regionID)
		}
		return ctx.data, nil
	case branchMeta:
		if ctx.meta == nil {
			ctx.meta = newMetaIteratorContext(ctx.snapshot, regionID)
		}
		return ctx.meta, nil
	default:
		return nil, ErrInvalidArgument
	}
}

// iteratorIfExists returns the already-created iterator context for
// branch, or nil if no read has opened that branch yet. Used by
// Adaptor.Close, which must not conjure a context into existence just
// to clear a flag on it.
func (r *registry) iteratorIfExists(path string, br branch) *iteratorContext {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, ok := r.byPath[path]
	if !ok {
		return nil
	}
	if br == branchData {
		return ctx.data
	}
	return ctx.meta
}

// snapshot reports every open path and its current reference count, for
// the admin debug endpoint.
func (r *registry) snapshot() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]int, len(r.byPath))
	for path, ctx := range r.byPath {
		out[path] = ctx.refCount
	}
	return out
}

// drain blocks until the registry is empty, for Adaptor.Shutdown.
func (r *registry) drain() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for len(r.byPath) > 0 {
		r.cond.Wait()
	}
}

func newDataIteratorContext(snap regionstore.Snapshot, regionID int64) *iteratorContext {
	prefix := regionstore.DataKeyPrefix(regionID)
	it := snap.NewIterator(regionstore.ColumnFamilyData, regionstore.IterOptions{Prefix: prefix, TotalOrder: true})
	it.Seek(prefix)
	return &iteratorContext{branch: branchData, prefix: prefix, it: it}
}

func newMetaIteratorContext(snap regionstore.Snapshot, regionID int64) *iteratorContext {
	prefix := RegionMetaPrefix(regionID)
	it := snap.NewIterator(regionstore.ColumnFamilyMeta, regionstore.IterOptions{Prefix: prefix, TotalOrder: true})
	it.Seek(prefix)
	return &iteratorContext{branch: branchMeta, prefix: prefix, it: it}
}
