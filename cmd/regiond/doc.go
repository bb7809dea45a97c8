// Package main provides the entry point for regiond.
//
// regiond is a region-replica process: it owns an embedded key-value
// engine partitioned by region id, a Raft consensus group over the
// region table, and a snapshot transport adaptor per region that the
// consensus library's follower-install path reads and writes through.
//
// Usage:
//
//	regiond --config /path/to/config.yaml
//
// The process loads configuration, opens storage, starts the Raft node
// and the admin HTTP server, and waits for a shutdown signal.
package main
