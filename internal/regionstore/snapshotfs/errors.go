package snapshotfs

import "errors"

// Error kinds by effect on the transport.
var (
	// ErrInvalidArgument covers a negative read offset, an unparseable
	// framed buffer, or a path that classifies as neither data nor meta
	// nor a plain file.
	ErrInvalidArgument = errors.New("snapshotfs: invalid argument")

	// ErrSnapshotNotFound is returned opening a virtual file under a
	// path never introduced via OpenSnapshot.
	ErrSnapshotNotFound = errors.New("snapshotfs: snapshot not found")

	// ErrFileInUse is returned when a second Open targets a virtual
	// file whose iterator context already has a reader attached.
	ErrFileInUse = errors.New("snapshotfs: file in use")

	// ErrClosed is returned by a File's supported Read, Write or Sync
	// after Close.
	ErrClosed = errors.New("snapshotfs: closed")

	// ErrUnsupported is returned by a File variant for an operation it
	// does not implement (e.g. Write on a SnapshotReader).
	ErrUnsupported = errors.New("snapshotfs: unsupported operation")

	// ErrOutOfOrderKey is returned by SortedFileWriter.Write when the
	// framed stream offers keys out of non-decreasing order.
	ErrOutOfOrderKey = errors.New("snapshotfs: key out of order")
)
