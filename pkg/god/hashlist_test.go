package god

import (
	"bytes"
	"crypto/sha1"
	"testing"
)

func TestHashListRoundTrip(t *testing.T) {
	original := NewHashList()
	for i := 0; i < 5; i++ {
		original.AddBlockHash([]byte{byte(i), 0xAB, 0xCD})
	}

	var buf bytes.Buffer
	if err := original.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo() failed: %v", err)
	}
	if buf.Len() != HashListSize {
		t.Fatalf("WriteTo() wrote %d bytes, want %d", buf.Len(), HashListSize)
	}

	decoded, err := ReadHashList(&buf)
	if err != nil {
		t.Fatalf("ReadHashList() failed: %v", err)
	}

	if decoded.Len() != original.Len() {
		t.Errorf("Len() = %d, want %d", decoded.Len(), original.Len())
	}
	if decoded.Digest() != original.Digest() {
		t.Error("round-tripped digest differs from original")
	}
	if !bytes.Equal(decoded.Bytes(), original.Bytes()) {
		t.Error("round-tripped buffer differs from original")
	}
}

func TestHashListDigestCoversPadding(t *testing.T) {
	// The digest is the SHA-1 of the full 4096-byte buffer including zero
	// padding, not of the filled prefix.
	list := NewHashList()
	list.AddBlockHash([]byte("block"))

	expected := sha1.Sum(list.Bytes())
	if list.Digest() != expected {
		t.Error("Digest() should cover the padded buffer")
	}

	empty := NewHashList()
	zeroes := sha1.Sum(make([]byte, HashListSize))
	if empty.Digest() != zeroes {
		t.Error("empty list digest should be the digest of 4096 zero bytes")
	}
}

func TestHashListTruncate(t *testing.T) {
	list := NewHashList()
	for i := 0; i < 4; i++ {
		list.AddBlockHash([]byte{byte(i)})
	}

	list.Truncate(2)
	if list.Len() != 2 {
		t.Errorf("Len() after Truncate(2) = %d, want 2", list.Len())
	}

	// Truncating past the current length is a no-op.
	list.Truncate(10)
	if list.Len() != 2 {
		t.Errorf("Len() after Truncate(10) = %d, want 2", list.Len())
	}
}

func TestReadHashListStopsAtZeroEntry(t *testing.T) {
	buf := make([]byte, HashListSize)
	digest := sha1.Sum([]byte("data"))
	copy(buf, digest[:])
	copy(buf[HashSize:], digest[:])
	// The third entry stays zero; everything after it must be ignored.
	copy(buf[3*HashSize:], digest[:])

	list, err := ReadHashList(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("ReadHashList() failed: %v", err)
	}
	if list.Len() != 2 {
		t.Errorf("Len() = %d, want 2", list.Len())
	}
}

func TestReadHashListFromLongerStream(t *testing.T) {
	// Reading from a part file must only consume the 4096-byte window.
	stream := make([]byte, HashListSize+100)
	digest := sha1.Sum([]byte("entry"))
	copy(stream, digest[:])

	reader := bytes.NewReader(stream)
	list, err := ReadHashList(reader)
	if err != nil {
		t.Fatalf("ReadHashList() failed: %v", err)
	}
	if list.Len() != 1 {
		t.Errorf("Len() = %d, want 1", list.Len())
	}
	if reader.Len() < 100 {
		t.Errorf("ReadHashList() consumed past the 4096-byte window, %d bytes left", reader.Len())
	}
}
