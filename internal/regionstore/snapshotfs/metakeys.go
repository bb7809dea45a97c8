package snapshotfs

import (
	"encoding/binary"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Meta-branch key space, scoped per region. Layout:
//
//	<region-id:8 bytes BE><kind:1 byte><caller-assigned suffix>
//
// kind separates plain info entries (0x00) from the two
// sub-namespaces the snapshot reader treats specially: log-index
// entries (rematerialized into a synthetic transaction-info pair on the
// wire) and transaction-info entries themselves (never sent raw).
const (
	metaKindInfo            byte = 0x00
	metaKindLogIndex        byte = 0x01
	metaKindTransactionInfo byte = 0x02
)

// RegionMetaPrefix returns the per-region prefix bounding the entire meta
// column family namespace for regionID: the 8-byte region id shared by
// all three kind sub-namespaces. This is the prefix the meta branch
// iterates under, since a single snapshot walk must see info, log-index,
// and transaction-info entries alike.
func RegionMetaPrefix(regionID int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(regionID))
	return buf
}

// MetaInfoPrefix returns the prefix identifying info entries: the meta
// sub-namespace that is neither a log-index pointer nor a
// transaction-info payload.
func MetaInfoPrefix(regionID int64) []byte {
	return regionPrefix(regionID, metaKindInfo)
}

// LogIndexKeyPrefix returns the prefix identifying log-index entries:
// records pointing from a logical slot to a committed Raft log index.
func LogIndexKeyPrefix(regionID int64) []byte {
	return regionPrefix(regionID, metaKindLogIndex)
}

// TransactionPBKeyPrefix returns the prefix identifying transaction-info
// entries: materialized transaction payloads keyed by log index.
func TransactionPBKeyPrefix(regionID int64) []byte {
	return regionPrefix(regionID, metaKindTransactionInfo)
}

// TransactionPBKey builds the synthetic key the snapshot reader emits
// in place of a log-index entry once it has fetched that index's
// committed payload.
func TransactionPBKey(regionID int64, logIndex int64) []byte {
	key := TransactionPBKeyPrefix(regionID)
	suffix := make([]byte, 8)
	binary.BigEndian.PutUint64(suffix, uint64(logIndex))
	return append(key, suffix...)
}

// EncodeLogIndexValue encodes a log index as the value stored under a
// log-index key: a single protobuf varint field rather than a
// fixed-width encoding/binary integer, matching the companion
// transaction-info key's "pb" naming.
func EncodeLogIndexValue(logIndex int64) []byte {
	return protowire.AppendVarint(nil, uint64(logIndex))
}

// DecodeLogIndexValue decodes a value previously produced by
// EncodeLogIndexValue.
func DecodeLogIndexValue(data []byte) (int64, error) {
	v, n := protowire.ConsumeVarint(data)
	if n < 0 {
		return 0, fmt.Errorf("%w: malformed log-index value", ErrInvalidArgument)
	}
	return int64(v), nil
}

// IsTransactionInfoKey reports whether key falls in the meta branch's
// transaction-info sub-namespace for regionID.
func IsTransactionInfoKey(regionID int64, key []byte) bool {
	return hasPrefix(key, TransactionPBKeyPrefix(regionID))
}

// IsLogIndexKey reports whether key falls in the meta branch's
// log-index sub-namespace for regionID.
func IsLogIndexKey(regionID int64, key []byte) bool {
	return hasPrefix(key, LogIndexKeyPrefix(regionID))
}

func regionPrefix(regionID int64, kind byte) []byte {
	buf := make([]byte, 9)
	binary.BigEndian.PutUint64(buf[:8], uint64(regionID))
	buf[8] = kind
	return buf
}

func hasPrefix(key, prefix []byte) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}
