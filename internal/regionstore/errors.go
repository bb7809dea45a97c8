package regionstore

import "errors"

// ErrClosed is returned by operations attempted after a SortedWriter
// has already been committed or cancelled.
var ErrClosed = errors.New("regionstore: closed")
