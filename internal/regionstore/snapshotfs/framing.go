package snapshotfs

import (
	"encoding/binary"
	"fmt"
)

// AppendKV appends the length-prefixed framing of one (key, value) pair
// to buf and returns the extended slice:
//
//	[4-byte LE key length][key][4-byte LE value length][value]
//
// buf may be nil, the same as the built-in append: a nil buf just means
// "start from an empty slice". Callers that only need the byte count
// should call FramedSize(key, value) instead.
func AppendKV(buf []byte, key, value []byte) []byte {
	var lenBuf [4]byte

	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(key)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, key...)

	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(value)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, value...)

	return buf
}

// FramedSize returns the number of bytes AppendKV would emit for the
// given key and value, without allocating or copying either. The
// snapshot reader's fast-forward path uses this to skip
// already-delivered entries cheaply.
func FramedSize(key, value []byte) int {
	return 4 + len(key) + 4 + len(value)
}

// KV is one decoded (key, value) pair from a framed stream.
type KV struct {
	Key   []byte
	Value []byte
}

// FrameScanner parses the length-prefixed wire format out of a byte
// stream, forward-only, the dual of AppendKV.
type FrameScanner struct {
	data []byte
	pos  int
}

// NewFrameScanner wraps data for sequential frame parsing.
func NewFrameScanner(data []byte) *FrameScanner {
	return &FrameScanner{data: data}
}

// Next returns the next (key, value) pair, or ok=false once the
// remaining bytes are exhausted. A malformed trailing frame (a length
// prefix that claims more bytes than remain) is reported as an error,
// not silently truncated — the sorted-file writer must not ingest a
// partial key.
func (s *FrameScanner) Next() (kv KV, ok bool, err error) {
	if s.pos >= len(s.data) {
		return KV{}, false, nil
	}

	key, n, err := s.readChunk()
	if err != nil {
		return KV{}, false, fmt.Errorf("snapshotfs: parse key frame: %w", err)
	}
	s.pos += n

	value, n, err := s.readChunk()
	if err != nil {
		return KV{}, false, fmt.Errorf("snapshotfs: parse value frame: %w", err)
	}
	s.pos += n

	return KV{Key: key, Value: value}, true, nil
}

func (s *FrameScanner) readChunk() ([]byte, int, error) {
	if len(s.data)-s.pos < 4 {
		return nil, 0, fmt.Errorf("%w: truncated length prefix", ErrInvalidArgument)
	}
	length := binary.LittleEndian.Uint32(s.data[s.pos : s.pos+4])
	start := s.pos + 4
	end := start + int(length)
	if end > len(s.data) {
		return nil, 0, fmt.Errorf("%w: truncated payload", ErrInvalidArgument)
	}
	return s.data[start:end], end - s.pos, nil
}
