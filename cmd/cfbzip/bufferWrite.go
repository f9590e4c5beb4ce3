package main

import (
	"bufio"
	"io"
)

type fileLike interface {
	io.Writer
	Sync() error
	Close() error
	Name() string
}

// BufferedFile is the output side of a conversion: a buffered writer that
// syncs the file to disk before closing it.
type BufferedFile struct {
	file     fileLike
	writer   *bufio.Writer
	progress *progressData
}

const writeBuffer = 1000 * 1000 * 1 //MiB

func NewBufferedFile(file fileLike, bufSize int, p *progressData) *BufferedFile {
	return &BufferedFile{
		file:     file,
		writer:   bufio.NewWriterSize(file, bufSize),
		progress: p,
	}
}

func (bf *BufferedFile) Write(p []byte) (int, error) {
	n, err := bf.writer.Write(p)
	if bf.progress != nil {
		bf.progress.stored.Add(int64(n))
	}
	return n, err
}

func (bf *BufferedFile) Flush() error {
	return bf.writer.Flush()
}

func (bf *BufferedFile) Sync() error {
	if err := bf.Flush(); err != nil {
		return err
	}
	return bf.file.Sync()
}

func (bf *BufferedFile) Close() error {
	if err := bf.Flush(); err != nil {
		bf.file.Close()
		return err
	}
	if err := bf.file.Sync(); err != nil {
		bf.file.Close()
		return err
	}
	return bf.file.Close()
}
