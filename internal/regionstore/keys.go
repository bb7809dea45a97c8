package regionstore

import "encoding/binary"

// DataKeyPrefix returns the 8-byte big-endian region id prefix that
// scopes all of a region's rows within the shared data column family.
func DataKeyPrefix(regionID int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(regionID))
	return buf
}

// DataKey builds a full data-branch key from a region id and a caller
// logical key.
func DataKey(regionID int64, key []byte) []byte {
	full := make([]byte, 0, 8+len(key))
	full = append(full, DataKeyPrefix(regionID)...)
	full = append(full, key...)
	return full
}
