package cfbzip

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestChecksumTypes(t *testing.T) {
	data := []byte("emotes/pics/a.png")
	lengths := map[string]int{
		"crc32":   4,
		"crc16":   2,
		"xxhash":  8,
		"sha256":  32,
		"blake3":  32,
		"blake2b": 32,
	}
	for name, size := range lengths {
		t.Run(name, func(t *testing.T) {
			typ, err := ParseSum(name)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if SumName(typ) != name {
				t.Fatalf("name round trip: %s", SumName(typ))
			}
			sum := Checksum(typ, data)
			if len(sum) != size {
				t.Fatalf("length %d, want %d", len(sum), size)
			}
			if !bytes.Equal(sum, Checksum(typ, data)) {
				t.Fatal("checksum not deterministic")
			}
			if bytes.Equal(sum, Checksum(typ, []byte("emotes/pics/b.png"))) {
				t.Fatal("different inputs share a checksum")
			}
		})
	}
}

func TestParseSum(t *testing.T) {
	typ, err := ParseSum("")
	if err != nil || typ != defaultChecksumType {
		t.Fatalf("empty name: %d %v", typ, err)
	}
	if _, err := ParseSum("md5"); err == nil {
		t.Fatal("expected error for unknown checksum")
	}
	if SumName(200) != "unknown" {
		t.Fatalf("out of range name %q", SumName(200))
	}
}

func TestDigest(t *testing.T) {
	data := []byte("emotes")
	sum := sha256.Sum256(data)
	want := "sha256:" + hex.EncodeToString(sum[:])
	if got := Digest(data); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}
