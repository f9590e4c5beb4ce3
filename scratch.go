package cfbzip

import "fmt"

// Scratch is the single buffer every stream is read into. Its capacity only
// grows; each checkout exposes exactly the requested length.
type Scratch struct {
	buf   []byte
	limit int64
	lease *Lease
}

// Lease is the exclusive right to the scratch buffer for one entry.
type Lease struct {
	s *Scratch
	b []byte
}

// NewScratch allocates initial bytes, clamped to limit.
func NewScratch(initial int, limit int64) *Scratch {
	if int64(initial) > limit {
		initial = int(limit)
	}
	if initial < 0 {
		initial = 0
	}
	return &Scratch{buf: make([]byte, initial), limit: limit}
}

// Checkout resizes the buffer to size bytes and lends it out. Only one lease
// may be outstanding.
func (s *Scratch) Checkout(size int64) (*Lease, error) {
	if s.lease != nil {
		return nil, ErrScratchBusy
	}
	if size < 0 || size > s.limit {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrEntryTooLarge, size, s.limit)
	}
	if size > int64(cap(s.buf)) {
		grow := int64(cap(s.buf)) * 2
		if grow < size {
			grow = size
		}
		if grow > s.limit {
			grow = s.limit
		}
		s.buf = make([]byte, grow)
	}
	s.buf = s.buf[:size]
	s.lease = &Lease{s: s, b: s.buf}
	return s.lease, nil
}

// Cap is the current capacity of the buffer.
func (s *Scratch) Cap() int {
	return cap(s.buf)
}

// Bytes returns the leased region. It is invalid after Release.
func (l *Lease) Bytes() []byte {
	return l.b
}

// Release returns the buffer. Releasing twice is a no-op.
func (l *Lease) Release() {
	if l.s != nil && l.s.lease == l {
		l.s.lease = nil
	}
	l.s = nil
	l.b = nil
}
