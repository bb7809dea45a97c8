package regionstore

// ColumnFamily distinguishes the two key spaces a region replica keeps:
// raw row data, and the meta/log-index bookkeeping keys the snapshot
// transport's meta branch reads from.
type ColumnFamily int

const (
	ColumnFamilyData ColumnFamily = iota
	ColumnFamilyMeta
)

func (cf ColumnFamily) String() string {
	switch cf {
	case ColumnFamilyData:
		return "data"
	case ColumnFamilyMeta:
		return "meta"
	default:
		return "unknown"
	}
}

// IterOptions configures an iteration over a Snapshot.
type IterOptions struct {
	// Prefix bounds the iteration when TotalOrder is false: the
	// iterator only visits keys sharing this prefix and badger can use
	// its prefix bloom filter to skip ahead.
	Prefix []byte

	// TotalOrder, when true, walks the full key space starting at
	// Prefix instead of bounding to it internally; the caller is
	// responsible for stopping once keys no longer share the prefix.
	// This is the data branch's mode: badger's own prefix-bounded
	// iterator adds unnecessary overhead for an 8-byte numeric prefix
	// followed by variable-length row keys, so the caller bounds it
	// itself instead.
	TotalOrder bool
}

// Iterator walks a bounded region of one column family's key space
// within a fixed Snapshot.
type Iterator interface {
	Seek(prefix []byte)
	Valid() bool
	Key() []byte
	Value() []byte
	Next()
	Close()
}

// Snapshot is a consistent read view over both column families,
// acquired once per open snapshot path.
type Snapshot interface {
	NewIterator(cf ColumnFamily, opts IterOptions) Iterator
	Release()
}

// WriteOptions carries column-family-specific tuning for a sorted
// ingest stream.
type WriteOptions struct {
	SyncWrites bool
}

// SortedWriter accepts keys in non-decreasing order and bulk-loads them
// into a column family. Keys offered out of order must be rejected
// without partially committing.
type SortedWriter interface {
	Write(key, value []byte) error
	Commit() error
	Cancel() error
	KeysWritten() int
}

// Engine is the narrow surface internal/regionstore/snapshotfs needs
// from the embedded key-value store ("key-value engine"
// collaborator).
type Engine interface {
	NewSnapshot() (Snapshot, error)
	Options(cf ColumnFamily) WriteOptions
	NewSortedWriter(cf ColumnFamily, path string) (SortedWriter, error)
	Size(cf ColumnFamily) (lsm, vlog int64)
	Close() error
}
