package cfbzip

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// ChunkFunc receives encoder output in order. chunk is only valid for the
// duration of the call. final is true exactly once, with an empty chunk,
// after the central directory has been emitted.
type ChunkFunc func(chunk []byte, final bool) error

// Encoder writes a deflate zip incrementally, emitting output through a
// ChunkFunc as the underlying writer flushes.
type Encoder struct {
	zw       *zip.Writer
	out      *chunkWriter
	modTime  time.Time
	open     *EntryWriter
	entries  int
	finished bool
}

// EntryWriter receives the content of one zip entry.
type EntryWriter struct {
	e    *Encoder
	w    io.Writer
	path string
	done bool
}

// NewEncoder returns an encoder compressing at level and stamping every
// entry with modTime.
func NewEncoder(level int, modTime time.Time, onChunk ChunkFunc) (*Encoder, error) {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return nil, fmt.Errorf("%w: invalid deflate level %d", ErrCodec, level)
	}
	cw := &chunkWriter{fn: onChunk}
	zw := zip.NewWriter(cw)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, level)
	})
	return &Encoder{zw: zw, out: cw, modTime: modTime}, nil
}

// fail keeps errors raised by the chunk callback as they are and marks
// everything else as an encoder failure.
func (e *Encoder) fail(err error) error {
	if e.out.err != nil {
		return e.out.err
	}
	return fmt.Errorf("%w: %w", ErrCodec, err)
}

// AddEntry starts a deflated entry at path. The previous entry must have
// received its last write.
func (e *Encoder) AddEntry(path string) (*EntryWriter, error) {
	if e.finished {
		return nil, fmt.Errorf("%w: add %q after finish", ErrCodec, path)
	}
	if e.open != nil && !e.open.done {
		return nil, fmt.Errorf("%w: add %q while %q is open", ErrCodec, path, e.open.path)
	}
	w, err := e.zw.CreateHeader(&zip.FileHeader{
		Name:     path,
		Method:   zip.Deflate,
		Modified: e.modTime,
	})
	if err != nil {
		return nil, e.fail(err)
	}
	e.open = &EntryWriter{e: e, w: w, path: path}
	e.entries++
	return e.open, nil
}

// Write compresses p. last closes the entry for writing and flushes what
// the encoder has buffered.
func (ew *EntryWriter) Write(p []byte, last bool) error {
	if ew.done {
		return fmt.Errorf("%w: write to closed entry %q", ErrCodec, ew.path)
	}
	if _, err := ew.w.Write(p); err != nil {
		return ew.e.fail(err)
	}
	if last {
		ew.done = true
		if err := ew.e.zw.Flush(); err != nil {
			return ew.e.fail(err)
		}
	}
	return nil
}

// Push writes data as one complete entry.
func (e *Encoder) Push(path string, data []byte) error {
	ew, err := e.AddEntry(path)
	if err != nil {
		return err
	}
	return ew.Write(data, true)
}

// Finish writes the central directory and signals the final chunk.
func (e *Encoder) Finish() error {
	if e.finished {
		return fmt.Errorf("%w: finish called twice", ErrCodec)
	}
	e.finished = true
	if err := e.zw.Close(); err != nil {
		return e.fail(err)
	}
	return e.out.final()
}

// Entries is the number of entries started so far.
func (e *Encoder) Entries() int {
	return e.entries
}

// Written is the number of compressed bytes emitted so far.
func (e *Encoder) Written() int64 {
	return e.out.Count()
}
