// Package snapshotfs implements the file-system adaptor a Raft-style
// consensus transport uses to stream a consistent, point-in-time copy
// of a region's state between replicas.
//
// The transport addresses two virtual files beneath a snapshot
// directory — a data file and a meta file — as if they were ordinary
// files, even though their bytes are synthesized on the fly from a live
// iteration over the region's key-value engine snapshot. Adaptor is the
// façade the transport calls; SnapshotReader and SortedFileWriter are
// the two sides of the wire (outbound read, inbound bulk-load write);
// RegularFile and DirReader handle everything that isn't
// snapshot-specific.
//
// Concurrency model: the snapshot registry (path -> context, refcount)
// is guarded by a single mutex; per-virtual-file exclusivity is a
// boolean flag on the iterator context, not a second lock, because the
// transport itself guarantees at most one outstanding reader per file
// per session.
package snapshotfs
