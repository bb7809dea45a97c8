package config

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestToRaftConfig_ValidConfig(t *testing.T) {
	cfg := &ServerConfig{
		Cluster: ClusterSection{
			NodeID:   "node-1",
			RaftAddr: "127.0.0.1:5343",
			DataDir:  "/tmp/raft",
		},
	}

	raftCfg, err := ToRaftConfig(cfg, discardLogger())
	if err != nil {
		t.Fatalf("ToRaftConfig() error = %v", err)
	}

	if raftCfg.NodeID != "node-1" {
		t.Errorf("NodeID = %q, want %q", raftCfg.NodeID, "node-1")
	}
	if raftCfg.BindAddr != "127.0.0.1:5343" {
		t.Errorf("BindAddr = %q, want %q", raftCfg.BindAddr, "127.0.0.1:5343")
	}
	if raftCfg.DataDir != "/tmp/raft" {
		t.Errorf("DataDir = %q, want %q", raftCfg.DataDir, "/tmp/raft")
	}
}

func TestToRaftConfig_AutoGenerateNodeID(t *testing.T) {
	cfg := &ServerConfig{
		Cluster: ClusterSection{
			RaftAddr: "127.0.0.1:5343",
			DataDir:  "/tmp/raft",
		},
	}

	raftCfg, err := ToRaftConfig(cfg, discardLogger())
	if err != nil {
		t.Fatalf("ToRaftConfig() error = %v", err)
	}

	if raftCfg.NodeID == "" {
		t.Error("expected a generated NodeID")
	}
	if !strings.HasPrefix(raftCfg.NodeID, "rnode-") {
		t.Errorf("generated NodeID %q missing rnode- prefix", raftCfg.NodeID)
	}
}

func TestToRaftConfig_PreserveExistingNodeID(t *testing.T) {
	cfg := &ServerConfig{
		Cluster: ClusterSection{
			NodeID:   "explicit-node",
			RaftAddr: "127.0.0.1:5343",
			DataDir:  "/tmp/raft",
		},
	}

	raftCfg, err := ToRaftConfig(cfg, discardLogger())
	if err != nil {
		t.Fatalf("ToRaftConfig() error = %v", err)
	}
	if raftCfg.NodeID != "explicit-node" {
		t.Errorf("NodeID = %q, want %q", raftCfg.NodeID, "explicit-node")
	}
}

func TestToRaftConfig_NilConfig(t *testing.T) {
	_, err := ToRaftConfig(nil, discardLogger())
	if err == nil {
		t.Error("expected error for nil config")
	}
}

func TestToRaftConfig_Bootstrap(t *testing.T) {
	cfg := &ServerConfig{
		Cluster: ClusterSection{
			RaftAddr:  "127.0.0.1:5343",
			DataDir:   "/tmp/raft",
			Bootstrap: true,
		},
	}

	raftCfg, err := ToRaftConfig(cfg, discardLogger())
	if err != nil {
		t.Fatalf("ToRaftConfig() error = %v", err)
	}
	if !raftCfg.Bootstrap {
		t.Error("expected Bootstrap to propagate")
	}
}

func TestGenerateNodeID_Format(t *testing.T) {
	id, err := generateNodeID()
	if err != nil {
		t.Fatalf("generateNodeID() error = %v", err)
	}
	if !strings.HasPrefix(id, "rnode-") {
		t.Errorf("generateNodeID() = %q, missing rnode- prefix", id)
	}
	if len(id) != len("rnode-")+16 {
		t.Errorf("generateNodeID() length = %d, want %d", len(id), len("rnode-")+16)
	}
}

func TestGenerateNodeID_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := generateNodeID()
		if err != nil {
			t.Fatalf("generateNodeID() error = %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate generated node ID: %s", id)
		}
		seen[id] = true
	}
}
