package cfbzip

import "fmt"

// Worker runs one conversion per inbound buffer message, posting progress
// and the finished archive through post. A worker runs one session at a
// time.
type Worker struct {
	cfg  Config
	post PostFunc
}

// NewWorker returns a worker using cfg for every session.
func NewWorker(cfg Config, post PostFunc) *Worker {
	return &Worker{cfg: cfg, post: post}
}

// Handle processes one message.
func (w *Worker) Handle(msg InMessage) error {
	switch msg.Kind {
	case KindBuffer:
		return Convert(msg.Payload, w.cfg, w.post)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Kind)
	}
}

// Serve handles messages until in is closed or a session fails.
func (w *Worker) Serve(in <-chan InMessage) error {
	for msg := range in {
		if err := w.Handle(msg); err != nil {
			return err
		}
	}
	return nil
}
