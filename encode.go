package cfbzip

import (
	"bytes"
	"encoding/base32"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/reedsolomon"
	"github.com/zeebo/xxh3"
)

// Archive encodings applied after conversion.
const (
	EncodeNone   = ""
	EncodeFEC    = "fec"
	EncodeBase32 = "b32"
	EncodeBase64 = "b64"
)

const fecMagic = "FEC1"

const (
	DefaultFECDataShards   = 10
	DefaultFECParityShards = 3
)

// EncodeArchive writes data to w using encoding. FEC output survives the
// loss of up to parityShards shards.
func EncodeArchive(w io.Writer, data []byte, encoding string, dataShards, parityShards int) error {
	switch encoding {
	case EncodeNone:
		_, err := w.Write(data)
		return err
	case EncodeFEC:
		return encodeWithFEC(w, data, dataShards, parityShards)
	case EncodeBase32:
		enc := base32.NewEncoder(base32.StdEncoding, w)
		if _, err := enc.Write(data); err != nil {
			return err
		}
		return enc.Close()
	case EncodeBase64:
		enc := base64.NewEncoder(base64.StdEncoding, w)
		if _, err := enc.Write(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown encoding %q", encoding)
	}
}

// DecodeArchive reverses EncodeArchive.
func DecodeArchive(r io.Reader, encoding string) ([]byte, error) {
	switch encoding {
	case EncodeNone:
		return io.ReadAll(r)
	case EncodeFEC:
		return decodeWithFEC(r)
	case EncodeBase32:
		return io.ReadAll(base32.NewDecoder(base32.StdEncoding, r))
	case EncodeBase64:
		return io.ReadAll(base64.NewDecoder(base64.StdEncoding, r))
	default:
		return nil, fmt.Errorf("unknown encoding %q", encoding)
	}
}

func encodeWithFEC(out io.Writer, data []byte, dataShards, parityShards int) error {
	if dataShards < 1 || dataShards > 255 || parityShards < 1 || parityShards > 255 {
		return fmt.Errorf("fec: shard counts %d+%d out of range", dataShards, parityShards)
	}
	if len(data) == 0 {
		return fmt.Errorf("fec: nothing to encode")
	}
	enc, err := reedsolomon.New(dataShards, parityShards)
	if err != nil {
		return err
	}
	shards, err := enc.Split(data)
	if err != nil {
		return err
	}
	if err := enc.Encode(shards); err != nil {
		return err
	}

	// Header: magic, shard counts, shard size, data size, then one xxh3
	// hash per shard so damaged shards can be dropped before reconstruction.
	shardSize := uint32(len(shards[0]))
	if _, err := out.Write([]byte(fecMagic)); err != nil {
		return err
	}
	hdr := []any{uint8(dataShards), uint8(parityShards), shardSize, uint64(len(data))}
	for _, s := range shards {
		hdr = append(hdr, xxh3.Hash(s))
	}
	for _, v := range hdr {
		if err := binary.Write(out, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, s := range shards {
		if _, err := out.Write(s); err != nil {
			return err
		}
	}
	return nil
}

func decodeWithFEC(f io.Reader) ([]byte, error) {
	hdr := make([]byte, 4)
	if _, err := io.ReadFull(f, hdr); err != nil {
		return nil, err
	}
	if string(hdr) != fecMagic {
		return nil, fmt.Errorf("invalid FEC file")
	}
	var dataShards, parityShards uint8
	var shardSize uint32
	var dataSize uint64
	if err := binary.Read(f, binary.LittleEndian, &dataShards); err != nil {
		return nil, err
	}
	if err := binary.Read(f, binary.LittleEndian, &parityShards); err != nil {
		return nil, err
	}
	if err := binary.Read(f, binary.LittleEndian, &shardSize); err != nil {
		return nil, err
	}
	if err := binary.Read(f, binary.LittleEndian, &dataSize); err != nil {
		return nil, err
	}
	total := int(dataShards) + int(parityShards)
	sums := make([]uint64, total)
	if err := binary.Read(f, binary.LittleEndian, sums); err != nil {
		return nil, err
	}

	// Shards that are cut short or fail their hash are left nil for
	// Reconstruct to rebuild.
	shards := make([][]byte, total)
	missing := 0
	for i := 0; i < total; i++ {
		buf := make([]byte, shardSize)
		if _, err := io.ReadFull(f, buf); err != nil || xxh3.Hash(buf) != sums[i] {
			missing++
			continue
		}
		shards[i] = buf
	}

	enc, err := reedsolomon.New(int(dataShards), int(parityShards))
	if err != nil {
		return nil, err
	}
	if missing > 0 {
		if err := enc.Reconstruct(shards); err != nil {
			return nil, fmt.Errorf("fec: %d of %d shards lost: %w", missing, total, err)
		}
	}
	ok, err := enc.Verify(shards)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fec: parity mismatch")
	}

	var buf bytes.Buffer
	if err := enc.Join(&buf, shards, int(dataSize)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
