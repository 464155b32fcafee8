package god

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/hansbonini/godtools/pkg/common"
	"github.com/hansbonini/godtools/pkg/executable"
)

// MaxIconSize is the capacity of each icon payload field
const MaxIconSize = 0x400

// The digest written at fieldContentDigest covers this range of the blob
const (
	contentDigestStart  = 0x0344
	contentDigestLength = 0xACBC
)

// Control bytes zeroed during finalization
var finalizeZeroOffsets = []int{0x035B, 0x035F, 0x0391}

type fieldEncoding int

const (
	encU8 fieldEncoding = iota
	encU16BE
	encU24BE
	encU32BE
	encU32LE
	encBytes
	encUTF16BE
)

// headerField describes one patchable field of the con header blob. All
// writes go through the generic patch routines below, so the layout lives in
// this table alone and can be checked against the format documentation in
// one place.
type headerField struct {
	offset   int
	width    int
	encoding fieldEncoding
}

const (
	fieldContentDigest      = "contentDigest"
	fieldContentType        = "contentType"
	fieldMediaID            = "mediaID"
	fieldTitleID            = "titleID"
	fieldPlatform           = "platform"
	fieldExecutableType     = "executableType"
	fieldDiscNumber         = "discNumber"
	fieldDiscCount          = "discCount"
	fieldMhtHash            = "mhtHash"
	fieldBlocksAllocated    = "blocksAllocated"
	fieldBlocksNotAllocated = "blocksNotAllocated"
	fieldPartCount          = "partCount"
	fieldPartsTotalSize     = "partsTotalSize"
	fieldDisplayName        = "displayName"
	fieldTitleName          = "titleName"
	fieldIconSize           = "iconSize"
	fieldIconSizeMirror     = "iconSizeMirror"
	fieldIcon               = "icon"
	fieldIconMirror         = "iconMirror"
)

var headerFields = map[string]headerField{
	fieldContentDigest:      {0x032C, HashSize, encBytes},
	fieldContentType:        {0x0344, 4, encU32BE},
	fieldMediaID:            {0x0354, 4, encU32BE},
	fieldTitleID:            {0x0360, 4, encU32BE},
	fieldPlatform:           {0x0364, 1, encU8},
	fieldExecutableType:     {0x0365, 1, encU8},
	fieldDiscNumber:         {0x0366, 1, encU8},
	fieldDiscCount:          {0x0367, 1, encU8},
	fieldMhtHash:            {0x037D, HashSize, encBytes},
	fieldBlocksAllocated:    {0x0392, 3, encU24BE},
	fieldBlocksNotAllocated: {0x0395, 2, encU16BE},
	fieldPartCount:          {0x03A0, 4, encU32LE}, // sic, opposite of its neighbors
	fieldPartsTotalSize:     {0x03A4, 4, encU32BE},
	fieldDisplayName:        {0x0411, 0x100, encUTF16BE},
	fieldTitleName:          {0x1691, 0x80, encUTF16BE},
	fieldIconSize:           {0x1712, 4, encU32BE},
	fieldIconSizeMirror:     {0x1716, 4, encU32BE},
	fieldIcon:               {0x171A, MaxIconSize, encBytes},
	fieldIconMirror:         {0x571A, MaxIconSize, encBytes},
}

// ConHeaderBuilder accumulates field values over the header template. The
// first failed patch sticks; later setters become no-ops and Finalize
// surfaces the error.
type ConHeaderBuilder struct {
	buffer []byte
	err    error
}

// NewConHeaderBuilder starts a builder over a fresh template
func NewConHeaderBuilder() *ConHeaderBuilder {
	return &ConHeaderBuilder{buffer: newConHeaderTemplate()}
}

// patchUint encodes an integer value into the named field
func (b *ConHeaderBuilder) patchUint(name string, value uint64) {
	if b.err != nil {
		return
	}
	field, ok := headerFields[name]
	if !ok {
		b.err = fmt.Errorf("%s: unknown field %q", common.ErrHeaderFieldOutOfBounds, name)
		return
	}

	slot := b.buffer[field.offset : field.offset+field.width]
	switch field.encoding {
	case encU8:
		slot[0] = uint8(value)
	case encU16BE:
		binary.BigEndian.PutUint16(slot, uint16(value))
	case encU24BE:
		slot[0] = uint8(value >> 16)
		slot[1] = uint8(value >> 8)
		slot[2] = uint8(value)
	case encU32BE:
		binary.BigEndian.PutUint32(slot, uint32(value))
	case encU32LE:
		binary.LittleEndian.PutUint32(slot, uint32(value))
	default:
		b.err = fmt.Errorf("%s: field %q is not numeric", common.ErrHeaderFieldOutOfBounds, name)
	}
}

// patchBytes copies a payload into the named field, bounds-checked against
// the field capacity
func (b *ConHeaderBuilder) patchBytes(name string, payload []byte) {
	if b.err != nil {
		return
	}
	field, ok := headerFields[name]
	if !ok || field.encoding != encBytes {
		b.err = fmt.Errorf("%s: unknown byte field %q", common.ErrHeaderFieldOutOfBounds, name)
		return
	}
	if len(payload) > field.width {
		b.err = fmt.Errorf("%s: %q holds %d bytes, got %d",
			common.ErrHeaderFieldOutOfBounds, name, field.width, len(payload))
		return
	}
	copy(b.buffer[field.offset:field.offset+field.width], payload)
}

// patchUTF16 writes a null-terminated big-endian UTF-16 string into the
// named field. The legacy format leaves over-length behavior unspecified, so
// the builder rejects strings that do not fit including the terminator.
func (b *ConHeaderBuilder) patchUTF16(name string, value string) {
	if b.err != nil {
		return
	}
	field, ok := headerFields[name]
	if !ok || field.encoding != encUTF16BE {
		b.err = fmt.Errorf("%s: unknown string field %q", common.ErrHeaderFieldOutOfBounds, name)
		return
	}

	units := append(utf16.Encode([]rune(value)), 0)
	if len(units)*2 > field.width {
		b.err = fmt.Errorf("%s: %q (%d UTF-16 bytes, capacity %d)",
			common.ErrTitleTooLong, value, len(units)*2, field.width)
		return
	}
	for i, unit := range units {
		binary.BigEndian.PutUint16(b.buffer[field.offset+i*2:], unit)
	}
}

// WithContentType sets the content-type code
func (b *ConHeaderBuilder) WithContentType(contentType ContentType) *ConHeaderBuilder {
	b.patchUint(fieldContentType, uint64(contentType))
	return b
}

// WithExecutionInfo copies the identity record fields
func (b *ConHeaderBuilder) WithExecutionInfo(info *executable.ExecutionInfo) *ConHeaderBuilder {
	b.patchUint(fieldMediaID, uint64(info.MediaID))
	b.patchUint(fieldTitleID, uint64(info.TitleID))
	b.patchUint(fieldPlatform, uint64(info.Platform))
	b.patchUint(fieldExecutableType, uint64(info.ExecutableType))
	b.patchUint(fieldDiscNumber, uint64(info.DiscNumber))
	b.patchUint(fieldDiscCount, uint64(info.DiscCount))
	return b
}

// WithBlockCounts sets the allocated (24-bit) and not-allocated block counts
func (b *ConHeaderBuilder) WithBlockCounts(allocated uint32, notAllocated uint16) *ConHeaderBuilder {
	if b.err == nil {
		if _, err := common.SafeUint64ToUint24(uint64(allocated)); err != nil {
			b.err = err
			return b
		}
	}
	b.patchUint(fieldBlocksAllocated, uint64(allocated))
	b.patchUint(fieldBlocksNotAllocated, uint64(notAllocated))
	return b
}

// WithDataPartsInfo sets the part count and the total data size. The size is
// stored in units of 256 bytes.
func (b *ConHeaderBuilder) WithDataPartsInfo(partCount uint32, partsTotalSize uint64) *ConHeaderBuilder {
	b.patchUint(fieldPartCount, uint64(partCount))
	b.patchUint(fieldPartsTotalSize, partsTotalSize/0x100)
	return b
}

// WithMhtHash sets the master hash chain digest
func (b *ConHeaderBuilder) WithMhtHash(hash [HashSize]byte) *ConHeaderBuilder {
	b.patchBytes(fieldMhtHash, hash[:])
	return b
}

// WithGameTitle writes the title into both the display-name and title-name
// fields
func (b *ConHeaderBuilder) WithGameTitle(title string) *ConHeaderBuilder {
	b.patchUTF16(fieldDisplayName, title)
	b.patchUTF16(fieldTitleName, title)
	return b
}

// WithGameIcon writes the PNG icon payload and its two length prefixes, with
// the payload mirrored into the secondary slot. A payload over MaxIconSize
// is a contract violation and fails the build before any byte is written.
func (b *ConHeaderBuilder) WithGameIcon(pngBytes []byte) *ConHeaderBuilder {
	if b.err == nil && len(pngBytes) > MaxIconSize {
		b.err = fmt.Errorf("%s: %d bytes, maximum %d", common.ErrIconTooLarge, len(pngBytes), MaxIconSize)
		return b
	}
	b.patchUint(fieldIconSize, uint64(len(pngBytes)))
	b.patchUint(fieldIconSizeMirror, uint64(len(pngBytes)))
	b.patchBytes(fieldIcon, pngBytes)
	b.patchBytes(fieldIconMirror, pngBytes)
	return b
}

// Err returns the first error recorded by any setter
func (b *ConHeaderBuilder) Err() error {
	return b.err
}

// Finalize zeroes the control bytes, computes the content digest over the
// metadata range and returns the completed blob. Identical inputs always
// produce an identical blob.
func (b *ConHeaderBuilder) Finalize() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}

	for _, offset := range finalizeZeroOffsets {
		b.buffer[offset] = 0
	}

	digest := sha1.Sum(b.buffer[contentDigestStart : contentDigestStart+contentDigestLength])
	b.patchBytes(fieldContentDigest, digest[:])
	if b.err != nil {
		return nil, b.err
	}

	return b.buffer, nil
}
