// Package clusterserver provides Raft FSM implementation.
package clusterserver

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/hashicorp/raft"
)

// LogEntryType defines the type of Raft log entry applied to the region table.
type LogEntryType uint8

const (
	// LogEntryRegionUpdate creates or updates a region descriptor.
	LogEntryRegionUpdate LogEntryType = 1

	// LogEntryRegionRemove removes a region descriptor.
	LogEntryRegionRemove LogEntryType = 2

	// LogEntryCanAddPeer flips a region's can-add-peer flag.
	LogEntryCanAddPeer LogEntryType = 3
)

// LogEntry is the envelope for every Raft log entry applied to the FSM.
type LogEntry struct {
	Type    LogEntryType    `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RegionUpdatePayload carries a region descriptor upsert.
type RegionUpdatePayload struct {
	RegionID int64  `json:"region_id"`
	Version  uint64 `json:"version"`
}

// RegionRemovePayload carries a region descriptor removal.
type RegionRemovePayload struct {
	RegionID int64 `json:"region_id"`
}

// CanAddPeerPayload carries a can-add-peer flag flip.
//
// The decision of when it is safe to add a peer belongs to the meta-server
// control plane; this FSM only stores the bit once that decision is made.
type CanAddPeerPayload struct {
	RegionID   int64 `json:"region_id"`
	CanAddPeer bool  `json:"can_add_peer"`
}

// RegionDescriptor is the FSM's view of a single region.
type RegionDescriptor struct {
	RegionID   int64
	Version    uint64
	CanAddPeer bool
}

// FSM implements the Raft finite state machine tracking the region table.
//
// This mirrors the structure of a region's snapshot, not its data: it
// holds only the small descriptor set Raft needs to check-point quickly,
// entirely separate from the per-region KV snapshot served by
// snapshotfs.Adaptor.
type FSM struct {
	mu sync.RWMutex

	regions map[int64]*RegionDescriptor

	logger *slog.Logger
}

// NewFSM creates a new Raft FSM.
func NewFSM(logger *slog.Logger) *FSM {
	if logger == nil {
		logger = slog.Default()
	}

	return &FSM{
		regions: make(map[int64]*RegionDescriptor),
		logger:  logger,
	}
}

// Apply applies a Raft log entry to the FSM.
//
// Must be deterministic: same input always produces same output.
func (f *FSM) Apply(log *raft.Log) interface{} {
	var entry LogEntry
	if err := json.Unmarshal(log.Data, &entry); err != nil {
		f.logger.Error("FATAL: failed to unmarshal log entry - data corrupted",
			"error", err,
			"log_index", log.Index,
			"log_term", log.Term)
		panic(fmt.Sprintf("FSM.Apply: unmarshal failed at index=%d: %v", log.Index, err))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch entry.Type {
	case LogEntryRegionUpdate:
		f.applyRegionUpdate(entry.Payload)

	case LogEntryRegionRemove:
		f.applyRegionRemove(entry.Payload)

	case LogEntryCanAddPeer:
		f.applyCanAddPeer(entry.Payload)

	default:
		f.logger.Error("FATAL: unknown log entry type",
			"type", entry.Type,
			"log_index", log.Index)
		panic(fmt.Sprintf("FSM.Apply: unknown log type %d at index=%d", entry.Type, log.Index))
	}

	return nil
}

func (f *FSM) applyRegionUpdate(payload json.RawMessage) {
	var update RegionUpdatePayload
	if err := json.Unmarshal(payload, &update); err != nil {
		f.logger.Error("FATAL: failed to unmarshal region update payload", "error", err)
		panic(fmt.Sprintf("applyRegionUpdate: unmarshal failed: %v", err))
	}

	existing, ok := f.regions[update.RegionID]
	canAddPeer := false
	if ok {
		canAddPeer = existing.CanAddPeer
	}

	f.regions[update.RegionID] = &RegionDescriptor{
		RegionID:   update.RegionID,
		Version:    update.Version,
		CanAddPeer: canAddPeer,
	}

	f.logger.Info("region descriptor updated",
		"region_id", update.RegionID,
		"version", update.Version)
}

func (f *FSM) applyRegionRemove(payload json.RawMessage) {
	var remove RegionRemovePayload
	if err := json.Unmarshal(payload, &remove); err != nil {
		f.logger.Error("FATAL: failed to unmarshal region remove payload", "error", err)
		panic(fmt.Sprintf("applyRegionRemove: unmarshal failed: %v", err))
	}

	delete(f.regions, remove.RegionID)

	f.logger.Info("region descriptor removed", "region_id", remove.RegionID)
}

func (f *FSM) applyCanAddPeer(payload json.RawMessage) {
	var flag CanAddPeerPayload
	if err := json.Unmarshal(payload, &flag); err != nil {
		f.logger.Error("FATAL: failed to unmarshal can-add-peer payload", "error", err)
		panic(fmt.Sprintf("applyCanAddPeer: unmarshal failed: %v", err))
	}

	region, ok := f.regions[flag.RegionID]
	if !ok {
		region = &RegionDescriptor{RegionID: flag.RegionID}
		f.regions[flag.RegionID] = region
	}
	region.CanAddPeer = flag.CanAddPeer

	f.logger.Info("region can-add-peer flag set",
		"region_id", flag.RegionID,
		"can_add_peer", flag.CanAddPeer)
}

// Snapshot creates a snapshot of the FSM state.
//
// This is Raft's own cluster-metadata checkpoint mechanism and is distinct
// from the region data/meta snapshot transport served over snapshotfs.Adaptor.
func (f *FSM) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	regions := make(map[int64]*RegionDescriptor, len(f.regions))
	for k, v := range f.regions {
		cp := *v
		regions[k] = &cp
	}

	return &fsmSnapshot{regions: regions}, nil
}

// Restore restores the FSM state from a snapshot.
func (f *FSM) Restore(r io.ReadCloser) error {
	defer r.Close()

	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzReader.Close()

	var state struct {
		Regions map[int64]*RegionDescriptor `json:"regions"`
	}

	if err := json.NewDecoder(gzReader).Decode(&state); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if state.Regions == nil {
		state.Regions = make(map[int64]*RegionDescriptor)
	}
	f.regions = state.Regions

	f.logger.Info("fsm state restored from snapshot", "region_count", len(f.regions))

	return nil
}

// Region returns a copy of the descriptor for a region, if known.
func (f *FSM) Region(regionID int64) (RegionDescriptor, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	r, ok := f.regions[regionID]
	if !ok {
		return RegionDescriptor{}, false
	}
	return *r, true
}

// Regions returns a copy of the full region table.
func (f *FSM) Regions() map[int64]RegionDescriptor {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(map[int64]RegionDescriptor, len(f.regions))
	for k, v := range f.regions {
		out[k] = *v
	}
	return out
}

// fsmSnapshot implements raft.FSMSnapshot.
type fsmSnapshot struct {
	regions map[int64]*RegionDescriptor
}

// Persist writes the snapshot to the sink.
func (s *fsmSnapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		gzWriter := gzip.NewWriter(sink)
		defer gzWriter.Close()

		state := struct {
			Regions map[int64]*RegionDescriptor `json:"regions"`
		}{
			Regions: s.regions,
		}

		encoder := json.NewEncoder(gzWriter)
		if err := encoder.Encode(state); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}

		if err := gzWriter.Close(); err != nil {
			return fmt.Errorf("close gzip writer: %w", err)
		}

		return nil
	}()

	if err != nil {
		sink.Cancel()
		return err
	}

	return sink.Close()
}

// Release is called when the snapshot is no longer needed.
func (s *fsmSnapshot) Release() {}
