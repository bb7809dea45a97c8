package snapshotfs

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"github.com/regionkv/regiond/internal/regionstore"
	"github.com/regionkv/regiond/internal/telemetry/metric"
)

const (
	defaultDataFileSuffix = "data.sst"
	defaultMetaFileSuffix = "meta.sst"
)

// Option configures an Adaptor at construction.
type Option func(*Adaptor)

// WithRateLimiter throttles bytes a SnapshotReader emits per Read call.
// Uncapped snapshot transfer can starve foreground traffic sharing the
// same link; nil (the default) disables throttling.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(a *Adaptor) { a.limiter = limiter }
}

// WithFileMarkers overrides the data/meta virtual file name suffixes.
// The names are illustrative; the only contract is that
// the two markers are distinct and known to both transport endpoints.
func WithFileMarkers(dataSuffix, metaSuffix string) Option {
	return func(a *Adaptor) {
		a.dataSuffix = dataSuffix
		a.metaSuffix = metaSuffix
	}
}

// WithMetrics attaches a metrics registry the adaptor, its readers, and
// its writers report open-context, bytes-served, and writer-ingest
// counters to. nil (the default) disables metrics entirely.
func WithMetrics(metrics *metric.Registry) Option {
	return func(a *Adaptor) { a.metrics = metrics }
}

type pathKind int

const (
	pathRegular pathKind = iota
	pathData
	pathMeta
)

// Adaptor is the façade the consensus transport calls:
// it dispatches Open to the right variant, owns the snapshot context
// registry, and brokers reference counting and lifetime. One Adaptor is
// constructed per region.
type Adaptor struct {
	regionID   int64
	engine     regionstore.Engine
	logReader  LogEntryReader
	limiter    *rate.Limiter
	dataSuffix string
	metaSuffix string
	metrics    *metric.Registry
	reg        *registry
}

// New constructs an Adaptor scoped to regionID, backed by engine for
// storage and logReader for rematerializing log-index entries.
func New(regionID int64, engine regionstore.Engine, logReader LogEntryReader, opts ...Option) *Adaptor {
	a := &Adaptor{
		regionID:   regionID,
		engine:     engine,
		logReader:  logReader,
		dataSuffix: defaultDataFileSuffix,
		metaSuffix: defaultMetaFileSuffix,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.reg = newRegistry(a.metrics)
	return a
}

// classify reports which virtual file kind path names, and — for the
// data/meta kinds — the snapshot path obtained by stripping the marker
// suffix.
func (a *Adaptor) classify(path string) (kind pathKind, snapshotPath string) {
	if rest, ok := stripMarker(path, a.dataSuffix); ok {
		return pathData, rest
	}
	if rest, ok := stripMarker(path, a.metaSuffix); ok {
		return pathMeta, rest
	}
	return pathRegular, ""
}

func stripMarker(path, suffix string) (string, bool) {
	if path == suffix {
		return "", true
	}
	if strings.HasSuffix(path, "/"+suffix) {
		return strings.TrimSuffix(path, "/"+suffix), true
	}
	return "", false
}

// Open classifies path and dispatches to the matching adaptor variant.
func (a *Adaptor) Open(path string, flags OpenFlag) (File, error) {
	kind, snapshotPath := a.classify(path)

	if kind == pathRegular {
		return openRegularFile(path, flags)
	}

	cf := regionstore.ColumnFamilyData
	br := branchData
	if kind == pathMeta {
		cf = regionstore.ColumnFamilyMeta
		br = branchMeta
	}

	if flags&OpenWriteOnly != 0 {
		sw, err := a.engine.NewSortedWriter(cf, path)
		if err != nil {
			return nil, fmt.Errorf("snapshotfs: open sorted writer %s: %w", path, err)
		}
		return newSortedFileWriter(sw, path, a.metrics), nil
	}

	ic, err := a.reg.iteratorFor(snapshotPath, br, a.regionID)
	if err != nil {
		return nil, err
	}
	if !ic.acquire() {
		return nil, ErrFileInUse
	}

	return newSnapshotReader(ic, a.regionID, a.logReader, a.limiter, a.metrics), nil
}

// OpenSnapshot increments the reference count for path, creating a
// fresh snapshot context on first open. It reports whether the open
// succeeded.
func (a *Adaptor) OpenSnapshot(path string) bool {
	return a.reg.open(path, a.engine) == nil
}

// CloseSnapshot decrements the reference count for path, tearing down
// the snapshot context once it reaches zero.
func (a *Adaptor) CloseSnapshot(path string) {
	a.reg.close(path)
}

// Close releases the reading exclusivity held on the virtual file named
// by path; the iterator and its logical offset are retained so a
// subsequent Open on the same path resumes where this reader left off.
func (a *Adaptor) Close(path string) {
	kind, snapshotPath := a.classify(path)
	if kind == pathRegular {
		return
	}
	br := branchData
	if kind == pathMeta {
		br = branchMeta
	}
	if ic := a.reg.iteratorIfExists(snapshotPath, br); ic != nil {
		ic.release()
	}
}

// OpenSnapshots reports every currently open snapshot path and its
// reference count, for the admin debug endpoint.
func (a *Adaptor) OpenSnapshots() map[string]int {
	return a.reg.snapshot()
}

// Rename delegates to the host filesystem verbatim.
func (a *Adaptor) Rename(oldPath, newPath string) error {
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("snapshotfs: rename %s -> %s: %w", oldPath, newPath, err)
	}
	return nil
}

// Link delegates to the host filesystem verbatim.
func (a *Adaptor) Link(oldPath, newPath string) error {
	if err := os.Link(oldPath, newPath); err != nil {
		return fmt.Errorf("snapshotfs: link %s -> %s: %w", oldPath, newPath, err)
	}
	return nil
}

// DeleteFile delegates to the host filesystem verbatim.
func (a *Adaptor) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("snapshotfs: delete %s: %w", path, err)
	}
	return nil
}

// CreateDirectory delegates to the host filesystem verbatim.
func (a *Adaptor) CreateDirectory(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("snapshotfs: mkdir %s: %w", path, err)
	}
	return nil
}

// PathExists delegates to the host filesystem verbatim.
func (a *Adaptor) PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirectoryExists delegates to the host filesystem verbatim.
func (a *Adaptor) DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// DirectoryReader delegates to the host filesystem verbatim.
func (a *Adaptor) DirectoryReader(path string) (*DirReader, error) {
	return newDirReader(path)
}

// Shutdown blocks until the snapshot registry drains, or ctx is done,
// whichever comes first. Callers must not tear down the adaptor while a
// transport session is outstanding; ctx only bounds how
// long Shutdown itself waits.
func (a *Adaptor) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		a.reg.drain()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
