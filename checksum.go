package cfbzip

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"hash/crc32"

	"github.com/opencontainers/go-digest"
	crc16 "github.com/sigurn/crc16"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

const (
	SumCRC32 uint8 = iota
	SumCRC16
	SumXXHash
	SumSHA256
	SumBlake3
	SumBlake2b
)

const defaultChecksumType = SumBlake3

var sumNames = []string{"crc32", "crc16", "xxhash", "sha256", "blake3", "blake2b"}

func newHasher(t uint8) hash.Hash {
	switch t {
	case SumCRC32:
		return crc32.NewIEEE()
	case SumCRC16:
		table := crc16.MakeTable(crc16.CRC16_CCITT_FALSE)
		return crc16.New(table)
	case SumXXHash:
		return xxh3.New()
	case SumSHA256:
		return sha256.New()
	case SumBlake2b:
		h, err := blake2b.New256(nil)
		if err != nil {
			// Only fails for an oversized key.
			panic(err)
		}
		return h
	case SumBlake3:
		fallthrough
	default:
		return blake3.New()
	}
}

// ParseSum maps a checksum name to its type.
func ParseSum(name string) (uint8, error) {
	if name == "" {
		return defaultChecksumType, nil
	}
	for i, n := range sumNames {
		if n == name {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("unknown checksum %q", name)
}

// SumName returns the name of checksum type t.
func SumName(t uint8) string {
	if int(t) < len(sumNames) {
		return sumNames[t]
	}
	return "unknown"
}

// Checksum hashes data with checksum type t.
func Checksum(t uint8, data []byte) []byte {
	h := newHasher(t)
	h.Write(data)
	return h.Sum(nil)
}

// Digest returns the content address of data in OCI digest form,
// for example "sha256:9f86...".
func Digest(data []byte) string {
	return digest.FromBytes(data).String()
}
