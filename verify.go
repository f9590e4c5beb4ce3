package cfbzip

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// Verify reads archive back, inflating every entry so the CRC of each is
// checked, and returns the number of entries.
func Verify(archive []byte) (int, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return 0, fmt.Errorf("%w: reopen archive: %w", ErrCodec, err)
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return 0, fmt.Errorf("%w: open %s: %w", ErrCodec, f.Name, err)
		}
		_, err = io.Copy(io.Discard, rc)
		rc.Close()
		if err != nil {
			return 0, fmt.Errorf("%w: read %s: %w", ErrCodec, f.Name, err)
		}
	}
	return len(zr.File), nil
}
