package god

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/hansbonini/godtools/pkg/executable"
)

func buildTestHeader(t *testing.T) []byte {
	t.Helper()

	info := &executable.ExecutionInfo{
		MediaID:        0x12345678,
		TitleID:        0x4D5307E6,
		Platform:       2,
		ExecutableType: 1,
		DiscNumber:     1,
		DiscCount:      2,
	}

	blob, err := NewConHeaderBuilder().
		WithContentType(ContentTypeGamesOnDemand).
		WithExecutionInfo(info).
		WithBlockCounts(0xABCDE, 0).
		WithDataPartsInfo(3, 2*PartSize+0x123400).
		WithMhtHash(sha1.Sum([]byte("chain"))).
		WithGameTitle("Halo 3").
		WithGameIcon([]byte{0x89, 'P', 'N', 'G'}).
		Finalize()
	if err != nil {
		t.Fatalf("Finalize() failed: %v", err)
	}
	return blob
}

func TestConHeaderFieldOffsets(t *testing.T) {
	blob := buildTestHeader(t)

	if len(blob) != ConHeaderSize {
		t.Fatalf("header size = %d, want %d", len(blob), ConHeaderSize)
	}
	if string(blob[:4]) != conHeaderMagic {
		t.Errorf("magic = %q, want %q", blob[:4], conHeaderMagic)
	}

	if v := binary.BigEndian.Uint32(blob[0x0344:]); v != uint32(ContentTypeGamesOnDemand) {
		t.Errorf("content type at 0x0344 = %08X, want 00007000", v)
	}
	if v := binary.BigEndian.Uint32(blob[0x0354:]); v != 0x12345678 {
		t.Errorf("media id at 0x0354 = %08X, want 12345678", v)
	}
	if v := binary.BigEndian.Uint32(blob[0x0360:]); v != 0x4D5307E6 {
		t.Errorf("title id at 0x0360 = %08X, want 4D5307E6", v)
	}
	if blob[0x0364] != 2 || blob[0x0365] != 1 || blob[0x0366] != 1 || blob[0x0367] != 2 {
		t.Errorf("platform/type/disc bytes = % X, want 02 01 01 02", blob[0x0364:0x0368])
	}

	chain := sha1.Sum([]byte("chain"))
	if !bytes.Equal(blob[0x037D:0x037D+HashSize], chain[:]) {
		t.Error("mht hash at 0x037D does not match")
	}

	allocated := uint32(blob[0x0392])<<16 | uint32(blob[0x0393])<<8 | uint32(blob[0x0394])
	if allocated != 0xABCDE {
		t.Errorf("blocks allocated at 0x0392 = %06X, want 0ABCDE", allocated)
	}
	if v := binary.BigEndian.Uint16(blob[0x0395:]); v != 0 {
		t.Errorf("blocks not allocated at 0x0395 = %d, want 0", v)
	}

	// The part count is the one little-endian field of the blob.
	if v := binary.LittleEndian.Uint32(blob[0x03A0:]); v != 3 {
		t.Errorf("part count at 0x03A0 = %d (LE), want 3", v)
	}
	if v := binary.BigEndian.Uint32(blob[0x03A4:]); v != uint32((2*PartSize+0x123400)/0x100) {
		t.Errorf("parts total size at 0x03A4 = %08X, want %08X", v, (2*PartSize+0x123400)/0x100)
	}

	// "Halo 3" as null-terminated big-endian UTF-16, in both name slots.
	title := []byte{0, 'H', 0, 'a', 0, 'l', 0, 'o', 0, ' ', 0, '3', 0, 0}
	if !bytes.Equal(blob[0x0411:0x0411+len(title)], title) {
		t.Errorf("display name at 0x0411 = % X, want % X", blob[0x0411:0x0411+len(title)], title)
	}
	if !bytes.Equal(blob[0x1691:0x1691+len(title)], title) {
		t.Errorf("title name at 0x1691 = % X, want % X", blob[0x1691:0x1691+len(title)], title)
	}

	icon := []byte{0x89, 'P', 'N', 'G'}
	if v := binary.BigEndian.Uint32(blob[0x1712:]); v != uint32(len(icon)) {
		t.Errorf("icon size at 0x1712 = %d, want %d", v, len(icon))
	}
	if v := binary.BigEndian.Uint32(blob[0x1716:]); v != uint32(len(icon)) {
		t.Errorf("icon size mirror at 0x1716 = %d, want %d", v, len(icon))
	}
	if !bytes.Equal(blob[0x171A:0x171A+len(icon)], icon) {
		t.Error("icon payload at 0x171A does not match")
	}
	if !bytes.Equal(blob[0x571A:0x571A+len(icon)], icon) {
		t.Error("icon mirror at 0x571A does not match")
	}
}

func TestConHeaderFinalize(t *testing.T) {
	blob := buildTestHeader(t)

	// Control bytes are forced to zero before the digest is taken.
	for _, offset := range []int{0x035B, 0x035F, 0x0391} {
		if blob[offset] != 0 {
			t.Errorf("control byte at %#04X = %02X, want 00", offset, blob[offset])
		}
	}

	expected := sha1.Sum(blob[0x0344 : 0x0344+0xACBC])
	if !bytes.Equal(blob[0x032C:0x032C+HashSize], expected[:]) {
		t.Error("content digest at 0x032C does not cover the metadata range")
	}
}

func TestConHeaderDeterministic(t *testing.T) {
	if !bytes.Equal(buildTestHeader(t), buildTestHeader(t)) {
		t.Error("identical inputs produced different header blobs")
	}
}

func TestConHeaderCapacityLimits(t *testing.T) {
	info := &executable.ExecutionInfo{TitleID: 1, MediaID: 1, DiscNumber: 1, DiscCount: 1}

	t.Run("icon too large", func(t *testing.T) {
		builder := NewConHeaderBuilder().
			WithExecutionInfo(info).
			WithGameIcon(make([]byte, MaxIconSize+1))
		if _, err := builder.Finalize(); err == nil {
			t.Error("Finalize() should fail for an oversized icon")
		}
	})

	t.Run("icon at capacity", func(t *testing.T) {
		builder := NewConHeaderBuilder().
			WithExecutionInfo(info).
			WithGameIcon(make([]byte, MaxIconSize))
		if _, err := builder.Finalize(); err != nil {
			t.Errorf("Finalize() failed for an icon at capacity: %v", err)
		}
	})

	t.Run("title too long", func(t *testing.T) {
		// 64 characters plus the terminator exceed the 0x80-byte title slot.
		builder := NewConHeaderBuilder().
			WithExecutionInfo(info).
			WithGameTitle(strings.Repeat("A", 64))
		if _, err := builder.Finalize(); err == nil {
			t.Error("Finalize() should fail for an over-length title")
		}
	})

	t.Run("title at capacity", func(t *testing.T) {
		builder := NewConHeaderBuilder().
			WithExecutionInfo(info).
			WithGameTitle(strings.Repeat("A", 63))
		if _, err := builder.Finalize(); err != nil {
			t.Errorf("Finalize() failed for a title at capacity: %v", err)
		}
	})

	t.Run("error sticks across setters", func(t *testing.T) {
		builder := NewConHeaderBuilder().
			WithGameIcon(make([]byte, MaxIconSize+1)).
			WithExecutionInfo(info).
			WithGameTitle("fine")
		if builder.Err() == nil {
			t.Error("Err() should keep the first failure")
		}
	})
}
