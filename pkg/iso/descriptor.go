package iso

import (
	"fmt"
	"io"

	"github.com/hansbonini/godtools/pkg/common"
)

// VolumeDescriptor holds the parsed GDFX descriptor sector together with the
// geometry derived from the detected layout.
type VolumeDescriptor struct {
	RootOffset    int64    // Base offset of the file system within the image
	SectorSize    uint32   // Always 2048 for every supported layout
	Identifier    [20]byte // Raw signature bytes
	RootDirectory Extent   // Extent of the root directory table
	CreationTime  [8]byte  // FILETIME of image creation
	VolumeSize    int64    // Bytes from the root offset to the end of the image
	VolumeSectors int64    // VolumeSize in sectors
}

// ReadVolumeDescriptor parses the descriptor sector of an already detected
// layout.
func ReadVolumeDescriptor(reader io.ReadSeeker, layout Layout) (*VolumeDescriptor, error) {
	rootOffset := layout.RootOffset()

	if _, err := reader.Seek(rootOffset+descriptorSector*SectorSize, io.SeekStart); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadVolume, err)
	}

	descriptor := &VolumeDescriptor{
		RootOffset: rootOffset,
		SectorSize: SectorSize,
	}

	if _, err := io.ReadFull(reader, descriptor.Identifier[:]); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadVolume, err)
	}
	if string(descriptor.Identifier[:]) != VolumeSignature {
		return nil, fmt.Errorf("%s: got %q", common.ErrInvalidVolumeSignature, descriptor.Identifier[:])
	}

	rootSector, err := common.ReadUint32LE(reader)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadVolume, err)
	}
	rootSize, err := common.ReadUint32LE(reader)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadVolume, err)
	}
	descriptor.RootDirectory = Extent{Sector: rootSector, Size: rootSize}

	if _, err := io.ReadFull(reader, descriptor.CreationTime[:]); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadVolume, err)
	}

	end, err := reader.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadVolume, err)
	}
	descriptor.VolumeSize = end - rootOffset
	descriptor.VolumeSectors = descriptor.VolumeSize / SectorSize

	return descriptor, nil
}
