package snapshotfs

import (
	"fmt"

	"github.com/hashicorp/raft"
)

// LogEntryReader fetches the serialized transaction payload committed
// at logIndex for a region, the external collaborator names
// "read_log_entry(region, log_index, out payload)".
type LogEntryReader interface {
	ReadLogEntry(regionID int64, logIndex int64) ([]byte, error)
}

// RaftLogEntryReader implements LogEntryReader over a raft.LogStore. A
// committed Raft log entry's Data field is the serialized transaction
// payload the meta branch rematerializes onto the wire. regionID is
// ignored: every lookup goes to the one log store the reader wraps,
// whichever region asks.
type RaftLogEntryReader struct {
	logStore raft.LogStore
}

// NewRaftLogEntryReader wraps logStore, typically obtained from
// RaftNode.LogStore().
func NewRaftLogEntryReader(logStore raft.LogStore) *RaftLogEntryReader {
	return &RaftLogEntryReader{logStore: logStore}
}

// ReadLogEntry implements LogEntryReader.
func (r *RaftLogEntryReader) ReadLogEntry(regionID int64, logIndex int64) ([]byte, error) {
	var entry raft.Log
	if err := r.logStore.GetLog(uint64(logIndex), &entry); err != nil {
		return nil, fmt.Errorf("snapshotfs: get log entry %d: %w", logIndex, err)
	}
	return entry.Data, nil
}
