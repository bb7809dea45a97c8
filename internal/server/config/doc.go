// Package config provides server configuration for regiond.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (data dir, raft addr presence)
//   - sanitize.go: Log sanitization (hide sensitive values)
//   - cluster.go: translation into clusterserver.RaftConfig
//
// Configuration is loaded via internal/infra/confloader from two sources:
// a YAML file and environment variables. The only command-line flag,
// --config, selects the file.
package config
