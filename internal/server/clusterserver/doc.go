// Package clusterserver wires hashicorp/raft for a region node.
//
// RaftNode owns the consensus group backing a region: its network
// transport, its committed-log and stable stores, and Raft's own
// cluster-metadata snapshotting. FSM applies committed log entries to an
// in-memory region table (version and can-add-peer bit per region) and is
// check-pointed through Raft's SnapshotSink mechanism, which is a
// different and much smaller concern than the per-region data/meta
// snapshot transport served by internal/regionstore/snapshotfs.
//
// Node discovery, membership, and rebalancing are out of scope.
package clusterserver
