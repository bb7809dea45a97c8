// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr = "127.0.0.1:5080"

	DefaultDataDir                  = "/var/lib/regiond/data"
	DefaultClusterDataDir           = "/var/lib/regiond/raft"
	DefaultClusterRaftAddr          = "127.0.0.1:5343"
	DefaultSnapshotReadRateLimitBPS = 64 << 20 // 64 MiB/s
	DefaultSnapshotIdleTimeout      = 5 * time.Minute

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
		},
		Storage: StorageSection{
			DataDir:                  DefaultDataDir,
			SnapshotReadRateLimitBPS: DefaultSnapshotReadRateLimitBPS,
			SnapshotIdleTimeout:      DefaultSnapshotIdleTimeout,
		},
		Cluster: ClusterSection{
			RaftAddr: DefaultClusterRaftAddr,
			DataDir:  DefaultClusterDataDir,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
