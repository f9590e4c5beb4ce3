package cfbzip

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

type chunkLog struct {
	buf    bytes.Buffer
	chunks int
	finals int
}

func (c *chunkLog) onChunk(chunk []byte, final bool) error {
	if final {
		c.finals++
		if len(chunk) != 0 {
			return errors.New("final chunk carries data")
		}
		return nil
	}
	c.chunks++
	c.buf.Write(chunk)
	return nil
}

func unzip(t *testing.T, archive []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	out := map[string][]byte{}
	for _, f := range zr.File {
		if f.Method != zip.Deflate {
			t.Fatalf("%s stored with method %d", f.Name, f.Method)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		out[f.Name] = b
	}
	return out
}

func TestEncoderRoundTrip(t *testing.T) {
	entries := []struct {
		path string
		data []byte
	}{
		{"emotes/a.png", []byte("first")},
		{"emotes/empty", nil},
		{"emotes/dir/big", bytes.Repeat([]byte("0123456789"), 10000)},
	}
	for _, level := range []int{flate.HuffmanOnly, flate.NoCompression, flate.BestSpeed, flate.DefaultCompression, flate.BestCompression} {
		var log chunkLog
		enc, err := NewEncoder(level, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), log.onChunk)
		if err != nil {
			t.Fatalf("level %d: %v", level, err)
		}
		for _, e := range entries {
			if err := enc.Push(e.path, e.data); err != nil {
				t.Fatalf("push %s: %v", e.path, err)
			}
		}
		if enc.Entries() != len(entries) {
			t.Fatalf("entries %d", enc.Entries())
		}
		if err := enc.Finish(); err != nil {
			t.Fatalf("finish: %v", err)
		}
		if log.finals != 1 {
			t.Fatalf("final signalled %d times", log.finals)
		}
		if enc.Written() != int64(log.buf.Len()) {
			t.Fatalf("written %d, chunks hold %d", enc.Written(), log.buf.Len())
		}
		files := unzip(t, log.buf.Bytes())
		for _, e := range entries {
			if !bytes.Equal(files[e.path], e.data) {
				t.Fatalf("level %d: %s content mismatch", level, e.path)
			}
		}
	}
}

func TestEncoderStreamsEntries(t *testing.T) {
	var log chunkLog
	enc, err := NewEncoder(flate.DefaultCompression, time.Now(), log.onChunk)
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}
	ew, err := enc.AddEntry("a")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := enc.AddEntry("b"); !errors.Is(err, ErrCodec) {
		t.Fatalf("expected ErrCodec for overlapping entries, got %v", err)
	}
	if err := ew.Write([]byte("part one "), false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ew.Write([]byte("part two"), true); err != nil {
		t.Fatalf("write: %v", err)
	}
	if log.chunks == 0 {
		t.Fatal("nothing emitted after the last write of an entry")
	}
	if err := ew.Write([]byte("late"), true); !errors.Is(err, ErrCodec) {
		t.Fatalf("expected ErrCodec for closed entry, got %v", err)
	}
	if err := enc.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := enc.Finish(); !errors.Is(err, ErrCodec) {
		t.Fatalf("expected ErrCodec for second finish, got %v", err)
	}
	if _, err := enc.AddEntry("c"); !errors.Is(err, ErrCodec) {
		t.Fatalf("expected ErrCodec after finish, got %v", err)
	}
	if got := unzip(t, log.buf.Bytes())["a"]; string(got) != "part one part two" {
		t.Fatalf("got %q", got)
	}
}

func TestEncoderInvalidLevel(t *testing.T) {
	for _, level := range []int{-3, 10} {
		if _, err := NewEncoder(level, time.Now(), func([]byte, bool) error { return nil }); !errors.Is(err, ErrCodec) {
			t.Fatalf("level %d: expected ErrCodec, got %v", level, err)
		}
	}
}

func TestEncoderCallbackError(t *testing.T) {
	sentinel := errors.New("sink full")
	enc, err := NewEncoder(flate.DefaultCompression, time.Now(), func([]byte, bool) error { return sentinel })
	if err != nil {
		t.Fatalf("new encoder: %v", err)
	}
	err = enc.Push("a", []byte("data"))
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if errors.Is(err, ErrCodec) {
		t.Fatalf("callback error wrapped as codec failure: %v", err)
	}
	if err := enc.Finish(); !errors.Is(err, sentinel) {
		t.Fatalf("finish after failure: %v", err)
	}
}
