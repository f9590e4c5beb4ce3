package cfbzip

import "fmt"

// OutputBuffer accumulates the zip as the encoder emits it. Capacity grows
// on demand up to limit and never below the written length.
type OutputBuffer struct {
	buf      []byte
	written  int
	limit    int64
	sealed   bool
	released bool
}

// NewOutputBuffer allocates initial bytes of capacity, clamped to limit.
func NewOutputBuffer(initial int, limit int64) *OutputBuffer {
	if int64(initial) > limit {
		initial = int(limit)
	}
	if initial < 0 {
		initial = 0
	}
	return &OutputBuffer{buf: make([]byte, initial), limit: limit}
}

// Write implements io.Writer on top of Append.
func (b *OutputBuffer) Write(p []byte) (int, error) {
	if err := b.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Append copies chunk at the write cursor, growing the buffer first if needed.
func (b *OutputBuffer) Append(chunk []byte) error {
	if b.released {
		return ErrReleased
	}
	if b.sealed {
		return ErrSealed
	}
	need := int64(b.written) + int64(len(chunk))
	if need > b.limit {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrArchiveTooLarge, need, b.limit)
	}
	if need > int64(len(b.buf)) {
		b.grow(need)
	}
	b.written += copy(b.buf[b.written:], chunk)
	return nil
}

func (b *OutputBuffer) grow(need int64) {
	size := int64(len(b.buf)) * 2
	if size < need {
		size = need
	}
	if size > b.limit {
		size = b.limit
	}
	nb := make([]byte, size)
	copy(nb, b.buf[:b.written])
	b.buf = nb
}

// Len is the number of bytes written so far.
func (b *OutputBuffer) Len() int {
	return b.written
}

// Cap is the allocated size.
func (b *OutputBuffer) Cap() int {
	return len(b.buf)
}

// Bytes returns the written bytes without handing them off. The view is
// invalid after Release.
func (b *OutputBuffer) Bytes() []byte {
	return b.buf[:b.written]
}

// Seal stops further writes.
func (b *OutputBuffer) Seal() {
	b.sealed = true
}

// Sealed reports whether Seal was called.
func (b *OutputBuffer) Sealed() bool {
	return b.sealed
}

// Release hands the written bytes to the caller and drops the buffer's own
// reference, so the owner can no longer read or write them. Len and Cap
// report zero afterwards.
func (b *OutputBuffer) Release() ([]byte, error) {
	if b.released {
		return nil, ErrReleased
	}
	b.sealed = true
	b.released = true
	out := b.buf[:b.written:b.written]
	b.buf = nil
	b.written = 0
	return out, nil
}
