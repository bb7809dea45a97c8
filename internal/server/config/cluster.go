// Package config defines the server configuration structure.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/regionkv/regiond/internal/server/clusterserver"
)

// ToRaftConfig converts ServerConfig's cluster section to clusterserver.RaftConfig.
//
// This handles default value population and NodeID generation.
func ToRaftConfig(cfg *ServerConfig, logger *slog.Logger) (clusterserver.RaftConfig, error) {
	if cfg == nil {
		return clusterserver.RaftConfig{}, fmt.Errorf("server config is nil")
	}

	nodeID := cfg.Cluster.NodeID
	if nodeID == "" {
		generated, err := generateNodeID()
		if err != nil {
			return clusterserver.RaftConfig{}, fmt.Errorf("generate node ID: %w", err)
		}
		nodeID = generated
		logger.Info("generated cluster node ID", "node_id", nodeID)
	}

	return clusterserver.RaftConfig{
		NodeID:    nodeID,
		BindAddr:  cfg.Cluster.RaftAddr,
		DataDir:   cfg.Cluster.DataDir,
		Bootstrap: cfg.Cluster.Bootstrap,
		Logger:    logger,
	}, nil
}

// generateNodeID generates a unique node identifier.
//
// Format: rnode-<16 hex chars> (e.g., "rnode-a1b2c3d4e5f67890")
func generateNodeID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return "rnode-" + hex.EncodeToString(buf), nil
}
