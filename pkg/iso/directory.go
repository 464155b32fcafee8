package iso

import (
	"fmt"
	"io"
	"strings"

	"github.com/hansbonini/godtools/pkg/common"
)

// Attributes is the GDFX directory entry attribute bitmask. Unknown bits are
// carried as-is for forward compatibility.
type Attributes uint8

const (
	AttrReadOnly  Attributes = 0x01
	AttrHidden    Attributes = 0x02
	AttrSystem    Attributes = 0x04
	AttrDirectory Attributes = 0x10
	AttrArchive   Attributes = 0x20
	AttrNormal    Attributes = 0x80
)

// IsDirectory reports whether the directory bit is set
func (a Attributes) IsDirectory() bool {
	return a&AttrDirectory != 0
}

// The on-disk entry layout stores two u16 subtree link fields ahead of each
// record. A value of 0xFFFF in either marks the remainder of the current
// sector as unused; beyond that the fields carry no meaning for enumeration.
const entrySentinel = 0xFFFF

// DirectoryEntry is one record of a directory table. Name comparison is
// ASCII case-insensitive while the stored name keeps its original case.
type DirectoryEntry struct {
	Name         string
	Attributes   Attributes
	Extent       Extent
	Left         uint16
	Right        uint16
	Subdirectory *DirectoryTable
}

// IsDirectory reports whether the entry refers to a subdirectory
func (e *DirectoryEntry) IsDirectory() bool {
	return e.Attributes.IsDirectory()
}

// DirectoryTable is an ordered list of entries in binary declaration order,
// with subdirectory tables built eagerly.
type DirectoryTable struct {
	Extent  Extent
	Entries []DirectoryEntry
}

// ReadRootDirectory reads the whole directory tree starting at the volume's
// root directory extent.
func ReadRootDirectory(reader io.ReadSeeker, volume *VolumeDescriptor) (*DirectoryTable, error) {
	return readDirectoryTable(reader, volume, volume.RootDirectory)
}

// readDirectoryTable decodes one directory extent. Entries are 4-byte aligned
// within their sector; a sentinel ends the current sector only, so decoding
// resumes at the next sector until the extent is exhausted. Directories may
// span multiple sectors, each padded independently.
func readDirectoryTable(reader io.ReadSeeker, volume *VolumeDescriptor, extent Extent) (*DirectoryTable, error) {
	table := &DirectoryTable{Extent: extent}

	start := extent.Offset(volume.RootOffset)
	end := extent.End(volume.RootOffset)

	position := start
	for position < end {
		if _, err := reader.Seek(position, io.SeekStart); err != nil {
			return nil, common.FormatError(common.ErrFailedToReadDirectory, err)
		}

		left, err := common.ReadUint16LE(reader)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadEntry, err)
		}
		right, err := common.ReadUint16LE(reader)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadEntry, err)
		}

		if left == entrySentinel || right == entrySentinel {
			common.LogDebug(common.DebugSentinelHit)
			sectorIndex := (position - start) / SectorSize
			position = start + (sectorIndex+1)*SectorSize
			continue
		}

		entry, next, err := readDirectoryEntry(reader, volume, position, left, right)
		if err != nil {
			return nil, err
		}
		table.Entries = append(table.Entries, *entry)
		position = next
	}

	return table, nil
}

// readDirectoryEntry reads the remainder of a record whose subtree fields are
// already consumed, returning the entry and the aligned position of the next
// record.
func readDirectoryEntry(reader io.ReadSeeker, volume *VolumeDescriptor, position int64, left, right uint16) (*DirectoryEntry, int64, error) {
	sector, err := common.ReadUint32LE(reader)
	if err != nil {
		return nil, 0, common.FormatError(common.ErrFailedToReadEntry, err)
	}
	size, err := common.ReadUint32LE(reader)
	if err != nil {
		return nil, 0, common.FormatError(common.ErrFailedToReadEntry, err)
	}
	attributes, err := common.ReadUint8(reader)
	if err != nil {
		return nil, 0, common.FormatError(common.ErrFailedToReadEntry, err)
	}
	nameLength, err := common.ReadUint8(reader)
	if err != nil {
		return nil, 0, common.FormatError(common.ErrFailedToReadEntry, err)
	}

	name, err := common.ReadBytes(reader, int(nameLength))
	if err != nil {
		return nil, 0, common.FormatError(common.ErrFailedToReadEntry, err)
	}

	entry := &DirectoryEntry{
		Name:       string(name),
		Attributes: Attributes(attributes),
		Extent:     Extent{Sector: sector, Size: size},
		Left:       left,
		Right:      right,
	}

	// Records are 4-byte aligned; the fixed prefix is 14 bytes.
	next := position + int64(common.AlignUp(uint64(14+int(nameLength)), 4))

	if entry.IsDirectory() {
		subdirectory, err := readDirectoryTable(reader, volume, entry.Extent)
		if err != nil {
			return nil, 0, fmt.Errorf("directory %q: %w", entry.Name, err)
		}
		entry.Subdirectory = subdirectory
	}

	return entry, next, nil
}

// GetEntry finds an entry of this table by name, ASCII case-insensitively
func (t *DirectoryTable) GetEntry(name string) *DirectoryEntry {
	for i := range t.Entries {
		if strings.EqualFold(t.Entries[i].Name, name) {
			return &t.Entries[i]
		}
	}
	return nil
}

// Walk visits every entry of the tree depth-first in declaration order. The
// path passed to the callback uses backslash separators.
func (t *DirectoryTable) Walk(visit func(path string, entry *DirectoryEntry)) {
	t.walk("", visit)
}

func (t *DirectoryTable) walk(prefix string, visit func(path string, entry *DirectoryEntry)) {
	for i := range t.Entries {
		entry := &t.Entries[i]
		path := prefix + "\\" + entry.Name
		visit(path, entry)
		if entry.Subdirectory != nil {
			entry.Subdirectory.walk(path, visit)
		}
	}
}
