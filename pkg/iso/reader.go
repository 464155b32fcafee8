package iso

import (
	"io"

	"github.com/hansbonini/godtools/pkg/common"
)

// Reader binds a detected layout, its volume descriptor and the eagerly read
// directory tree to the underlying image stream.
type Reader struct {
	Layout Layout
	Volume *VolumeDescriptor
	Root   *DirectoryTable

	source io.ReadSeeker
}

// NewReader detects the image layout and parses the volume descriptor and the
// whole directory tree.
func NewReader(source io.ReadSeeker) (*Reader, error) {
	layout, err := DetectLayout(source)
	if err != nil {
		return nil, err
	}

	volume, err := ReadVolumeDescriptor(source, layout)
	if err != nil {
		return nil, err
	}

	root, err := ReadRootDirectory(source, volume)
	if err != nil {
		return nil, err
	}

	return &Reader{
		Layout: layout,
		Volume: volume,
		Root:   root,
		source: source,
	}, nil
}

// FindEntry resolves a path to its directory entry, or nil when any component
// is missing.
func (r *Reader) FindEntry(path WindowsPath) *DirectoryEntry {
	var entry *DirectoryEntry
	table := r.Root

	for _, name := range path.Components {
		if table == nil {
			return nil
		}
		entry = table.GetEntry(name)
		if entry == nil {
			return nil
		}
		table = entry.Subdirectory
	}

	return entry
}

// OpenEntry positions the underlying stream at the first byte of the entry's
// data and returns it.
func (r *Reader) OpenEntry(entry *DirectoryEntry) (io.ReadSeeker, error) {
	if _, err := r.source.Seek(entry.Extent.Offset(r.Volume.RootOffset), io.SeekStart); err != nil {
		return nil, common.FormatError(common.ErrFailedToSeekSourceImage, err)
	}
	return r.source, nil
}

// DataRegion positions the underlying stream at the start of the file system
// data region (the layout's root offset) and returns it. The region from here
// to the end of the image is what the container writer consumes byte for
// byte.
func (r *Reader) DataRegion() (io.ReadSeeker, error) {
	if _, err := r.source.Seek(r.Volume.RootOffset, io.SeekStart); err != nil {
		return nil, common.FormatError(common.ErrFailedToSeekSourceImage, err)
	}
	return r.source, nil
}

// MaxUsedPrefixSize returns the smallest prefix of the data region, in bytes,
// that still contains every file and directory extent. Images padded past
// this point can be trimmed to it without losing content.
func (r *Reader) MaxUsedPrefixSize() int64 {
	return maxUsedPrefix(r.Root)
}

func maxUsedPrefix(table *DirectoryTable) int64 {
	var max int64
	for i := range table.Entries {
		entry := &table.Entries[i]
		end := int64(entry.Extent.Sector)*SectorSize + int64(entry.Extent.Size)
		if end > max {
			max = end
		}
		if entry.Subdirectory != nil {
			if sub := maxUsedPrefix(entry.Subdirectory); sub > max {
				max = sub
			}
		}
	}
	return max
}
