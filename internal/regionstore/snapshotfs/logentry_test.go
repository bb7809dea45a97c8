package snapshotfs

import (
	"testing"

	"github.com/hashicorp/raft"
)

func TestRaftLogEntryReader_ReadsCommittedPayload(t *testing.T) {
	store := raft.NewInmemStore()
	entry := &raft.Log{
		Index: 7,
		Term:  1,
		Type:  raft.LogCommand,
		Data:  []byte("committed transaction payload"),
	}
	if err := store.StoreLog(entry); err != nil {
		t.Fatalf("StoreLog() error: %v", err)
	}

	reader := NewRaftLogEntryReader(store)
	got, err := reader.ReadLogEntry(1, 7)
	if err != nil {
		t.Fatalf("ReadLogEntry() error: %v", err)
	}
	if string(got) != "committed transaction payload" {
		t.Errorf("ReadLogEntry() = %q, want %q", got, "committed transaction payload")
	}
}

func TestRaftLogEntryReader_MissingIndex(t *testing.T) {
	store := raft.NewInmemStore()
	reader := NewRaftLogEntryReader(store)

	if _, err := reader.ReadLogEntry(1, 99); err == nil {
		t.Fatal("ReadLogEntry() on a missing index: expected error")
	}
}
