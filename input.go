package cfbzip

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	brotli "github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
	lz4 "github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
)

// Input wrappers understood by DecodeInput.
const (
	InputRaw    = "raw"
	InputGzip   = "gzip"
	InputZstd   = "zstd"
	InputXZ     = "xz"
	InputLZ4    = "lz4"
	InputSnappy = "snappy"
	InputS2     = "s2"
	InputBrotli = "brotli"
)

var inputMagic = []struct {
	kind  string
	magic []byte
}{
	{InputGzip, []byte{0x1F, 0x8B}},
	{InputZstd, []byte{0x28, 0xB5, 0x2F, 0xFD}},
	{InputXZ, []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}},
	{InputLZ4, []byte{0x04, 0x22, 0x4D, 0x18}},
	{InputSnappy, []byte{0xFF, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}},
	{InputS2, []byte{0xFF, 0x06, 0x00, 0x00, 'S', '2', 's', 'T', 'w', 'O'}},
}

const maxInputMagic = 10

// DetectInput names the wrapper around a container from its first bytes.
// Brotli has no magic and is only recognised by a .br name.
func DetectInput(name string, head []byte) string {
	for _, m := range inputMagic {
		if bytes.HasPrefix(head, m.magic) {
			return m.kind
		}
	}
	if strings.HasSuffix(strings.ToLower(name), ".br") {
		return InputBrotli
	}
	return InputRaw
}

func decompressor(r io.Reader, kind string) (io.ReadCloser, error) {
	switch kind {
	case InputGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return gr, nil
	case InputZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	case InputXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	case InputLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case InputSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case InputS2:
		return io.NopCloser(s2.NewReader(r)), nil
	case InputBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}

// DecodeInput reads a container from r, undoing any compression wrapper,
// and fails with ErrInputTooLarge once more than limit bytes come out. It
// returns the decoded bytes and the wrapper kind.
func DecodeInput(r io.Reader, name string, limit int64) ([]byte, string, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(maxInputMagic)
	kind := DetectInput(name, head)

	rc, err := decompressor(br, kind)
	if err != nil {
		return nil, kind, fmt.Errorf("%s input: %w", kind, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, kind, fmt.Errorf("%s input: %w", kind, err)
	}
	if int64(len(data)) > limit {
		return nil, kind, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, limit)
	}
	return data, kind, nil
}
