// Package regionstore provides the embedded key-value engine backing a
// region replica's data and meta column families.
//
// Badger has no notion of column families, so the two branches a region
// needs (raw row data and the meta-info/log-index bookkeeping keys the
// snapshot transport rematerializes transaction payloads from) are
// emulated as two independently opened badger.DB instances under
// sibling directories. Engine, Snapshot, and Iterator give
// internal/regionstore/snapshotfs the narrow surface it needs without
// depending on badger types directly.
package regionstore
