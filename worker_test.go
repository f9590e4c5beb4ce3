package cfbzip

import (
	"errors"
	"testing"
)

func TestWorkerHandle(t *testing.T) {
	var msgs []OutMessage
	w := NewWorker(testConfig(), func(m OutMessage) { msgs = append(msgs, m) })

	if err := w.Handle(InMessage{Kind: KindBuffer, Payload: sampleContainer()}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	last := msgs[len(msgs)-1]
	if last.Kind != KindDone {
		t.Fatalf("last message %v", last.Kind)
	}
	if n, err := Verify(last.Payload); err != nil || n != 3 {
		t.Fatalf("verify: %d entries, %v", n, err)
	}

	if err := w.Handle(InMessage{Kind: KindSize}); !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage, got %v", err)
	}
}

func TestWorkerServe(t *testing.T) {
	dones := 0
	w := NewWorker(testConfig(), func(m OutMessage) {
		if m.Kind == KindDone {
			dones++
		}
	})

	in := make(chan InMessage, 3)
	in <- InMessage{Kind: KindBuffer, Payload: sampleContainer()}
	in <- InMessage{Kind: KindBuffer, Payload: sampleContainer()}
	close(in)
	if err := w.Serve(in); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if dones != 2 {
		t.Fatalf("done posted %d times, want 2", dones)
	}

	in = make(chan InMessage, 2)
	in <- InMessage{Kind: KindBuffer, Payload: []byte("garbage")}
	in <- InMessage{Kind: KindBuffer, Payload: sampleContainer()}
	close(in)
	if err := w.Serve(in); !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer, got %v", err)
	}
	if dones != 2 {
		t.Fatalf("session ran after a failure")
	}
}
