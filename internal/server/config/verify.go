// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyCluster(&cfg.Cluster); err != nil {
		return err
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}

	if cfg.SnapshotReadRateLimitBPS < 0 {
		return errors.New("storage.snapshot_read_rate_limit_bps must not be negative")
	}

	return nil
}

func verifyCluster(cfg *ClusterSection) error {
	if cfg.DataDir == "" {
		return errors.New("cluster.data_dir is required")
	}
	if cfg.RaftAddr == "" {
		return errors.New("cluster.raft_addr is required")
	}
	return nil
}
