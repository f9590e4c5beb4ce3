package cfbzip

import (
	"errors"
	"testing"
)

func TestScratchCheckout(t *testing.T) {
	s := NewScratch(16, 1024)
	for _, size := range []int64{4, 0, 16, 100, 7, 1024} {
		l, err := s.Checkout(size)
		if err != nil {
			t.Fatalf("checkout %d: %v", size, err)
		}
		if int64(len(l.Bytes())) != size {
			t.Fatalf("lease length %d, want %d", len(l.Bytes()), size)
		}
		if int64(s.Cap()) < size {
			t.Fatalf("capacity %d below %d", s.Cap(), size)
		}
		l.Release()
	}
	if s.Cap() > 1024 {
		t.Fatalf("capacity %d above limit", s.Cap())
	}
}

func TestScratchGrowthKeepsCapacity(t *testing.T) {
	s := NewScratch(8, 1<<20)
	l, _ := s.Checkout(300)
	l.Release()
	grown := s.Cap()
	l, _ = s.Checkout(10)
	l.Release()
	if s.Cap() != grown {
		t.Fatalf("capacity shrank from %d to %d", grown, s.Cap())
	}
}

func TestScratchBusy(t *testing.T) {
	s := NewScratch(16, 1024)
	l, err := s.Checkout(8)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if _, err := s.Checkout(8); !errors.Is(err, ErrScratchBusy) {
		t.Fatalf("expected ErrScratchBusy, got %v", err)
	}
	l.Release()
	l.Release()
	if _, err := s.Checkout(8); err != nil {
		t.Fatalf("checkout after release: %v", err)
	}
}

func TestScratchTooLarge(t *testing.T) {
	s := NewScratch(16, 1024)
	for _, size := range []int64{1025, -1} {
		if _, err := s.Checkout(size); !errors.Is(err, ErrEntryTooLarge) {
			t.Fatalf("size %d: expected ErrEntryTooLarge, got %v", size, err)
		}
	}
	if _, err := s.Checkout(1); err != nil {
		t.Fatalf("a failed checkout left a lease behind: %v", err)
	}
}
