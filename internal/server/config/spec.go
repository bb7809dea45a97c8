// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for regiond.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Storage  StorageSection  `koanf:"storage"`
	Security SecuritySection `koanf:"security"`
	Cluster  ClusterSection  `koanf:"cluster"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures the node's externally reachable endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the admin HTTP server (health, metrics, debug).
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// StorageSection configures the embedded region engine and the snapshot
// transport built on top of it.
type StorageSection struct {
	DataDir                     string        `koanf:"data_dir"`
	SnapshotReadRateLimitBPS    int64         `koanf:"snapshot_read_rate_limit_bps"`
	SnapshotIdleTimeout         time.Duration `koanf:"snapshot_idle_timeout"`
}

// SecuritySection configures transport security and admin surface auth.
type SecuritySection struct {
	TLSCAFile  string `koanf:"tls_ca_file"`
	AdminToken string `koanf:"admin_token"`
}

// ClusterSection configures this node's Raft participation for a region.
type ClusterSection struct {
	NodeID    string   `koanf:"node_id"`
	RaftAddr  string   `koanf:"raft_addr"`
	DataDir   string   `koanf:"data_dir"`
	Bootstrap bool     `koanf:"bootstrap"`
	Seeds     []string `koanf:"seeds"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
