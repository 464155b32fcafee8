package iso

import (
	"encoding/binary"
	"fmt"
	"io"
)

// sparseImage is an io.ReadSeeker over a mostly zero virtual byte range with
// overlay segments, so layouts with large base offsets can be probed in
// tests without allocating the whole image.
type sparseImage struct {
	size     int64
	position int64
	segments []segment
}

type segment struct {
	offset int64
	data   []byte
}

func newSparseImage(size int64) *sparseImage {
	return &sparseImage{size: size}
}

// put overlays data at the given offset, growing the image if needed
func (s *sparseImage) put(offset int64, data []byte) {
	s.segments = append(s.segments, segment{offset: offset, data: data})
	if end := offset + int64(len(data)); end > s.size {
		s.size = end
	}
}

func (s *sparseImage) Read(p []byte) (int, error) {
	if s.position >= s.size {
		return 0, io.EOF
	}
	n := int64(len(p))
	if remaining := s.size - s.position; n > remaining {
		n = remaining
	}

	window := p[:n]
	for i := range window {
		window[i] = 0
	}
	for _, seg := range s.segments {
		start := seg.offset - s.position
		if start >= n || start+int64(len(seg.data)) <= 0 {
			continue
		}
		from := int64(0)
		if start < 0 {
			from = -start
			start = 0
		}
		copy(window[start:], seg.data[from:])
	}

	s.position += n
	return int(n), nil
}

func (s *sparseImage) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = s.position + offset
	case io.SeekEnd:
		next = s.size + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if next < 0 {
		return 0, fmt.Errorf("negative seek position %d", next)
	}
	s.position = next
	return next, nil
}

// descriptorBytes builds a volume descriptor sector payload
func descriptorBytes(rootSector, rootSize uint32) []byte {
	buf := make([]byte, 0, 36)
	buf = append(buf, VolumeSignature...)
	buf = binary.LittleEndian.AppendUint32(buf, rootSector)
	buf = binary.LittleEndian.AppendUint32(buf, rootSize)
	buf = append(buf, make([]byte, 8)...) // creation time
	return buf
}

// directorySector builds one directory sector: the given records back to
// back, the rest of the sector filled with 0xFF as real images pad it
func directorySector(records ...[]byte) []byte {
	sector := make([]byte, SectorSize)
	for i := range sector {
		sector[i] = 0xFF
	}
	offset := 0
	for _, record := range records {
		copy(sector[offset:], record)
		offset += len(record)
	}
	return sector
}

// dirEntryBytes encodes one directory record, 4-byte aligned
func dirEntryBytes(sector, size uint32, attributes byte, name string) []byte {
	buf := make([]byte, 0, 14+len(name)+3)
	buf = binary.LittleEndian.AppendUint16(buf, 0) // left
	buf = binary.LittleEndian.AppendUint16(buf, 0) // right
	buf = binary.LittleEndian.AppendUint32(buf, sector)
	buf = binary.LittleEndian.AppendUint32(buf, size)
	buf = append(buf, attributes, byte(len(name)))
	buf = append(buf, name...)
	for len(buf)%4 != 0 {
		buf = append(buf, 0xFF)
	}
	return buf
}

// sentinelBytes ends the current directory sector
func sentinelBytes() []byte {
	return []byte{0xFF, 0xFF, 0xFF, 0xFF}
}

// testImage builds a small XSF image with a two-sector root directory and
// one subdirectory:
//
//	\default.xex   sector 36, 84 bytes
//	\Media\        sector 35
//	\Media\track1.xwb  sector 38, 256 bytes
//	\readme.txt    sector 37, 10 bytes (second root sector, past a sentinel)
func testImage() *sparseImage {
	img := newSparseImage(40 * SectorSize)
	img.put(descriptorSector*SectorSize, descriptorBytes(33, 2*SectorSize))

	img.put(33*SectorSize, directorySector(
		dirEntryBytes(36, 84, byte(AttrArchive), "default.xex"),
		dirEntryBytes(35, SectorSize, byte(AttrDirectory), "Media"),
		sentinelBytes(),
	))
	img.put(34*SectorSize, directorySector(
		dirEntryBytes(37, 10, byte(AttrArchive), "readme.txt"),
	))
	img.put(35*SectorSize, directorySector(
		dirEntryBytes(38, 256, byte(AttrArchive), "track1.xwb"),
	))

	return img
}
