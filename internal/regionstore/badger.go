package regionstore

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	bpb "github.com/dgraph-io/badger/v3/pb"
)

// ErrOutOfOrderKey is returned by SortedWriter.Write when a key sorts
// before the previously written key; repeating the previous key is
// accepted.
var ErrOutOfOrderKey = errors.New("regionstore: key out of order")

// Config configures a BadgerEngine's two column-family databases.
type Config struct {
	// Dir is the parent directory; the data and meta databases live at
	// <Dir>/data and <Dir>/meta respectively.
	Dir string

	// CacheSize is the block cache size in bytes for each database.
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	ValueLogFileSize int64

	// SyncWrites enables fsync after each write.
	SyncWrites bool
}

// DefaultConfig returns the default engine configuration for dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:              dir,
		CacheSize:        64 << 20,
		ValueLogFileSize: 1 << 30,
		SyncWrites:       false,
	}
}

// BadgerEngine implements Engine over a pair of badger.DB instances,
// emulating the data and meta column families an engine with native CF
// support (RocksDB) would provide as one database with two handles.
// Grounded on storage/badger.go's NewBadgerEngine: options construction
// and the badgerLogger bridge are carried over with cf-aware directory
// handling.
type BadgerEngine struct {
	cfg    Config
	logger *slog.Logger

	dataDB *badger.DB
	metaDB *badger.DB
}

// NewBadgerEngine opens the data and meta databases under cfg.Dir.
func NewBadgerEngine(cfg Config, logger *slog.Logger) (*BadgerEngine, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("regionstore: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	dataDB, err := openBadger(filepath.Join(cfg.Dir, "data"), cfg, logger.With("cf", "data"))
	if err != nil {
		return nil, fmt.Errorf("regionstore: open data db: %w", err)
	}

	metaDB, err := openBadger(filepath.Join(cfg.Dir, "meta"), cfg, logger.With("cf", "meta"))
	if err != nil {
		dataDB.Close()
		return nil, fmt.Errorf("regionstore: open meta db: %w", err)
	}

	return &BadgerEngine{cfg: cfg, logger: logger, dataDB: dataDB, metaDB: metaDB}, nil
}

func openBadger(dir string, cfg Config, logger *slog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.BlockCacheSize = cfg.CacheSize
	opts.ValueLogFileSize = cfg.ValueLogFileSize
	opts.SyncWrites = cfg.SyncWrites
	return badger.Open(opts)
}

func (e *BadgerEngine) dbFor(cf ColumnFamily) *badger.DB {
	if cf == ColumnFamilyMeta {
		return e.metaDB
	}
	return e.dataDB
}

// Options implements Engine.
func (e *BadgerEngine) Options(cf ColumnFamily) WriteOptions {
	return WriteOptions{SyncWrites: e.cfg.SyncWrites}
}

// Size implements Engine.
func (e *BadgerEngine) Size(cf ColumnFamily) (lsm, vlog int64) {
	return e.dbFor(cf).Size()
}

// NewSnapshot implements Engine. It opens a read-only transaction
// against each column family, the badger analog of RocksDB's
// create_snapshot().
func (e *BadgerEngine) NewSnapshot() (Snapshot, error) {
	return &badgerSnapshot{
		dataTxn: e.dataDB.NewTransaction(false),
		metaTxn: e.metaDB.NewTransaction(false),
	}, nil
}

// NewSortedWriter implements Engine using badger's StreamWriter, the
// direct-to-level bulk loader analogous to RocksDB's SstFileWriter plus
// IngestExternalFile.
func (e *BadgerEngine) NewSortedWriter(cf ColumnFamily, path string) (SortedWriter, error) {
	sw := e.dbFor(cf).NewStreamWriter()
	if err := sw.Prepare(); err != nil {
		return nil, fmt.Errorf("regionstore: prepare sorted writer for %s: %w", path, err)
	}
	return &badgerSortedWriter{sw: sw, cf: cf, path: path}, nil
}

// Close shuts down both column family databases.
func (e *BadgerEngine) Close() error {
	err1 := e.dataDB.Close()
	err2 := e.metaDB.Close()
	if err1 != nil {
		return fmt.Errorf("regionstore: close data db: %w", err1)
	}
	if err2 != nil {
		return fmt.Errorf("regionstore: close meta db: %w", err2)
	}
	return nil
}

type badgerSnapshot struct {
	dataTxn *badger.Txn
	metaTxn *badger.Txn
}

func (s *badgerSnapshot) txnFor(cf ColumnFamily) *badger.Txn {
	if cf == ColumnFamilyMeta {
		return s.metaTxn
	}
	return s.dataTxn
}

// NewIterator implements Snapshot. With opts.TotalOrder (used by both
// the data and the meta branch) the badger iterator is left unbounded;
// otherwise badger's own prefix bound is used. In both modes Valid
// reports false once a key no longer shares opts.Prefix.
func (s *badgerSnapshot) NewIterator(cf ColumnFamily, opts IterOptions) Iterator {
	txn := s.txnFor(cf)

	iterOpts := badger.DefaultIteratorOptions
	if !opts.TotalOrder {
		iterOpts.Prefix = opts.Prefix
	}

	it := txn.NewIterator(iterOpts)
	it.Seek(opts.Prefix)

	return &badgerIterator{it: it, prefix: opts.Prefix}
}

func (s *badgerSnapshot) Release() {
	s.dataTxn.Discard()
	s.metaTxn.Discard()
}

type badgerIterator struct {
	it     *badger.Iterator
	prefix []byte
}

func (i *badgerIterator) Seek(prefix []byte) {
	i.prefix = prefix
	i.it.Seek(prefix)
}

func (i *badgerIterator) Valid() bool {
	return i.it.Valid() && bytes.HasPrefix(i.it.Item().Key(), i.prefix)
}

func (i *badgerIterator) Key() []byte {
	return i.it.Item().KeyCopy(nil)
}

func (i *badgerIterator) Value() []byte {
	v, err := i.it.Item().ValueCopy(nil)
	if err != nil {
		return nil
	}
	return v
}

func (i *badgerIterator) Next() {
	i.it.Next()
}

func (i *badgerIterator) Close() {
	i.it.Close()
}

type badgerSortedWriter struct {
	sw      *badger.StreamWriter
	cf      ColumnFamily
	path    string
	lastKey []byte
	keys    int
	done    bool
}

func (w *badgerSortedWriter) Write(key, value []byte) error {
	if w.done {
		return fmt.Errorf("regionstore: write after close: %w", ErrClosed)
	}
	if w.lastKey != nil && bytes.Compare(key, w.lastKey) < 0 {
		return fmt.Errorf("regionstore: key %x after %x in %s: %w", key, w.lastKey, w.path, ErrOutOfOrderKey)
	}

	kv := &bpb.KV{
		Key:     append([]byte(nil), key...),
		Value:   append([]byte(nil), value...),
		Version: 1,
	}
	if err := w.sw.Write(&bpb.KVList{Kv: []*bpb.KV{kv}}); err != nil {
		return fmt.Errorf("regionstore: write key to %s: %w", w.path, err)
	}

	w.lastKey = append([]byte(nil), key...)
	w.keys++
	return nil
}

func (w *badgerSortedWriter) KeysWritten() int {
	return w.keys
}

// Commit finalizes the ingest. A writer that received no keys leaves no
// file behind; badger's StreamWriter has nothing to flush in that case
// so Cancel is sufficient.
func (w *badgerSortedWriter) Commit() error {
	if w.done {
		return fmt.Errorf("regionstore: commit after close: %w", ErrClosed)
	}
	w.done = true

	if w.keys == 0 {
		w.sw.Cancel()
		return nil
	}
	if err := w.sw.Flush(); err != nil {
		return fmt.Errorf("regionstore: flush sorted writer for %s: %w", w.path, err)
	}
	return nil
}

func (w *badgerSortedWriter) Cancel() error {
	if w.done {
		return nil
	}
	w.done = true
	w.sw.Cancel()
	return nil
}

// badgerLogger adapts slog.Logger to badger's Logger interface.
// Carried from storage/badger.go's badgerLogger verbatim.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
