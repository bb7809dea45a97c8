package snapshotfs

import (
	"bytes"
	"errors"
	"testing"
)

func TestAppendKV_NilBufferStartsFresh(t *testing.T) {
	var buf []byte
	buf = AppendKV(buf, []byte("k"), []byte("v"))
	if len(buf) != FramedSize([]byte("k"), []byte("v")) {
		t.Fatalf("AppendKV(nil, ...) len = %d, want %d", len(buf), FramedSize([]byte("k"), []byte("v")))
	}

	scanner := NewFrameScanner(buf)
	kv, ok, err := scanner.Next()
	if err != nil || !ok {
		t.Fatalf("Next() = ok=%v err=%v, want ok=true err=nil", ok, err)
	}
	if string(kv.Key) != "k" || string(kv.Value) != "v" {
		t.Errorf("Next() = %q/%q, want %q/%q", kv.Key, kv.Value, "k", "v")
	}
}

func TestFramedSize_MatchesAppendKVLength(t *testing.T) {
	cases := []struct {
		key, value []byte
	}{
		{[]byte("k1"), []byte("v1")},
		{[]byte(""), []byte("")},
		{[]byte("longer-key-here"), []byte("x")},
	}
	for _, c := range cases {
		want := FramedSize(c.key, c.value)
		got := len(AppendKV(make([]byte, 0, want), c.key, c.value))
		if got != want {
			t.Errorf("FramedSize(%q,%q) = %d, AppendKV produced %d bytes", c.key, c.value, want, got)
		}
	}
}

func TestFrameScanner_RoundTrip(t *testing.T) {
	pairs := []KV{
		{Key: []byte("alpha"), Value: []byte("1")},
		{Key: []byte("beta"), Value: []byte("")},
		{Key: []byte(""), Value: []byte("value-only")},
	}

	var buf []byte
	for _, p := range pairs {
		buf = AppendKV(buf, p.Key, p.Value)
	}

	scanner := NewFrameScanner(buf)
	var got []KV
	for {
		kv, ok, err := scanner.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, kv)
	}

	if len(got) != len(pairs) {
		t.Fatalf("got %d pairs, want %d", len(got), len(pairs))
	}
	for i := range pairs {
		if !bytes.Equal(got[i].Key, pairs[i].Key) || !bytes.Equal(got[i].Value, pairs[i].Value) {
			t.Errorf("pair %d = %q/%q, want %q/%q", i, got[i].Key, got[i].Value, pairs[i].Key, pairs[i].Value)
		}
	}
}

func TestFrameScanner_TruncatedLengthPrefix(t *testing.T) {
	_, _, err := NewFrameScanner([]byte{1, 2, 3}).Next()
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestFrameScanner_TruncatedPayload(t *testing.T) {
	buf := AppendKV(nil, []byte("k1"), []byte("v1"))
	buf = append([]byte{}, buf...)
	truncated := buf[:len(buf)-1]
	_, _, err := NewFrameScanner(truncated).Next()
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestFrameScanner_EmptyInput(t *testing.T) {
	_, ok, err := NewFrameScanner(nil).Next()
	if err != nil || ok {
		t.Fatalf("Next() = ok=%v err=%v, want ok=false err=nil", ok, err)
	}
}
