package cfbzip

import (
	"bytes"
	"errors"
	"testing"
)

func TestOutputBufferAppend(t *testing.T) {
	b := NewOutputBuffer(4, 1<<20)
	var want []byte
	for i := 1; i <= 50; i++ {
		chunk := bytes.Repeat([]byte{byte(i)}, i)
		if err := b.Append(chunk); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		want = append(want, chunk...)
		if b.Cap() < b.Len() {
			t.Fatalf("capacity %d below length %d", b.Cap(), b.Len())
		}
	}
	if b.Len() != len(want) {
		t.Fatalf("length %d, want %d", b.Len(), len(want))
	}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatal("content mismatch")
	}
}

func TestOutputBufferCeiling(t *testing.T) {
	b := NewOutputBuffer(4, 10)
	if err := b.Append(make([]byte, 10)); err != nil {
		t.Fatalf("append to limit: %v", err)
	}
	if err := b.Append([]byte{1}); !errors.Is(err, ErrArchiveTooLarge) {
		t.Fatalf("expected ErrArchiveTooLarge, got %v", err)
	}
	if b.Cap() > 10 {
		t.Fatalf("capacity %d above limit", b.Cap())
	}
}

func TestOutputBufferSealAndRelease(t *testing.T) {
	b := NewOutputBuffer(0, 100)
	if _, err := b.Write([]byte("zip")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b.Seal()
	if !b.Sealed() {
		t.Fatal("not sealed")
	}
	if err := b.Append([]byte("x")); !errors.Is(err, ErrSealed) {
		t.Fatalf("expected ErrSealed, got %v", err)
	}
	out, err := b.Release()
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if string(out) != "zip" {
		t.Fatalf("released %q", out)
	}
	if b.Len() != 0 || b.Cap() != 0 {
		t.Fatalf("buffer still holds data: len %d cap %d", b.Len(), b.Cap())
	}
	if _, err := b.Release(); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased, got %v", err)
	}
	if err := b.Append([]byte("x")); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased, got %v", err)
	}
}
