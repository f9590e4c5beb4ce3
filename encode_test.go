package cfbzip

import (
	"bytes"
	"testing"
)

func sampleArchive(t *testing.T) []byte {
	t.Helper()
	archive, _, err := ConvertBytes(sampleContainer(), testConfig())
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	return archive
}

func TestEncodeArchiveRoundTrip(t *testing.T) {
	archive := sampleArchive(t)
	for _, enc := range []string{EncodeNone, EncodeFEC, EncodeBase32, EncodeBase64} {
		t.Run("enc="+enc, func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeArchive(&buf, archive, enc, DefaultFECDataShards, DefaultFECParityShards); err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := DecodeArchive(&buf, enc)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !bytes.Equal(got, archive) {
				t.Fatal("round trip mismatch")
			}
		})
	}
}

func TestFECRepairsDamage(t *testing.T) {
	archive := sampleArchive(t)
	var buf bytes.Buffer
	if err := EncodeArchive(&buf, archive, EncodeFEC, 4, 2); err != nil {
		t.Fatalf("encode: %v", err)
	}
	encoded := buf.Bytes()
	const header = 4 + 1 + 1 + 4 + 8 + 6*8
	shardSize := (len(encoded) - header) / 6
	// Damage the first data shard and cut off the last parity shard.
	encoded[header+shardSize/2] ^= 0xFF
	encoded = encoded[:len(encoded)-shardSize/2]
	got, err := DecodeArchive(bytes.NewReader(encoded), EncodeFEC)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, archive) {
		t.Fatal("FEC did not restore the archive")
	}
}

func TestEncodeArchiveErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeArchive(&buf, []byte("x"), "rot13", 1, 1); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
	if err := EncodeArchive(&buf, []byte("x"), EncodeFEC, 0, 1); err == nil {
		t.Fatal("expected error for zero data shards")
	}
	if _, err := DecodeArchive(bytes.NewReader([]byte("NOPE0000000000000000")), EncodeFEC); err == nil {
		t.Fatal("expected error for bad FEC header")
	}

	buf.Reset()
	if err := EncodeArchive(&buf, sampleArchive(t), EncodeFEC, 4, 1); err != nil {
		t.Fatalf("encode: %v", err)
	}
	encoded := buf.Bytes()
	const header = 4 + 1 + 1 + 4 + 8 + 5*8
	shardSize := (len(encoded) - header) / 5
	encoded[header+1] ^= 0xFF
	encoded[header+shardSize+1] ^= 0xFF
	if _, err := DecodeArchive(bytes.NewReader(encoded), EncodeFEC); err == nil {
		t.Fatal("expected error with more shards lost than parity")
	}
}
