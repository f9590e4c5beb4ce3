package cfbzip

// chunkWriter hands every write to a ChunkFunc and counts bytes passed
// through. The first callback error sticks and fails every later write.
type chunkWriter struct {
	fn  ChunkFunc
	n   int64
	err error
}

func (cw *chunkWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := cw.fn(p, false); err != nil {
		cw.err = err
		return 0, err
	}
	cw.n += int64(len(p))
	return len(p), nil
}

func (cw *chunkWriter) final() error {
	if cw.err != nil {
		return cw.err
	}
	cw.err = cw.fn(nil, true)
	return cw.err
}

func (cw *chunkWriter) Count() int64 { return cw.n }
