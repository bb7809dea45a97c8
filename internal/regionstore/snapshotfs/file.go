package snapshotfs

// OpenFlag mirrors the access-mode bits a host open(2) call would take,
// the subset Adaptor.Open needs to classify a request.
type OpenFlag int

const (
	OpenReadOnly OpenFlag = 1 << iota
	OpenWriteOnly
	OpenReadWrite
)

// File is the capability set the transport operates on regardless of
// which adaptor variant actually backs a path. RegularFile,
// SortedFileWriter, and SnapshotReader each implement it; an operation a
// variant doesn't support returns ErrUnsupported (or, for Size, which
// has no error return, the sentinel -1).
type File interface {
	Read(buf []byte, offset int64) (int, error)
	Write(data []byte, offset int64) (int, error)
	Size() int64
	Sync() error
	Close() error
}
