// Package iso implements reading of GDFX (XDVDFS) disc images as used by
// Xbox and Xbox 360 titles. It detects the volume layout variant, parses the
// volume descriptor and exposes the directory tree and raw data region.
package iso

import (
	"errors"
	"io"

	"github.com/hansbonini/godtools/pkg/common"
)

// SectorSize is the logical sector size shared by every supported layout
const SectorSize = 0x800

// VolumeSignature identifies a GDFX volume descriptor sector
const VolumeSignature = "MICROSOFT*XBOX*MEDIA"

// The volume descriptor always sits 32 sectors past the layout's base offset
const descriptorSector = 0x20

// ErrSignatureNotFound is returned when no layout candidate carries the
// GDFX volume descriptor signature.
var ErrSignatureNotFound = errors.New(common.ErrInvalidVolumeSignature)

// Layout identifies a disc layout variant. Each variant places the embedded
// GDFX file system at a different base offset within the image.
type Layout int

const (
	// LayoutXSF is a bare GDFX image starting at offset zero
	LayoutXSF Layout = iota
	// LayoutGDF is a full dual-layer dump with the video partition prefix
	LayoutGDF
	// LayoutXGD3 is the later disc format with a shorter prefix
	LayoutXGD3
)

// layoutProbeOrder is the fixed priority order for signature probing
var layoutProbeOrder = []Layout{LayoutXSF, LayoutGDF, LayoutXGD3}

// RootOffset returns the base offset of the GDFX file system for this layout
func (l Layout) RootOffset() int64 {
	switch l {
	case LayoutGDF:
		return 0xFD90000
	case LayoutXGD3:
		return 0x2080000
	default:
		return 0
	}
}

func (l Layout) String() string {
	switch l {
	case LayoutXSF:
		return "XSF"
	case LayoutGDF:
		return "GDF"
	case LayoutXGD3:
		return "XGD3"
	default:
		return "unknown"
	}
}

// DetectLayout probes each layout candidate in priority order and returns the
// first one whose descriptor sector carries the GDFX signature. A stream too
// short for a candidate counts as a non-match for that candidate, not as a
// failure. When no candidate matches, ErrSignatureNotFound is returned; there
// is deliberately no fallback to a default layout.
func DetectLayout(reader io.ReadSeeker) (Layout, error) {
	for _, layout := range layoutProbeOrder {
		common.LogDebug(common.DebugProbingLayout, layout, layout.RootOffset())

		match, err := checkSignature(reader, layout)
		if err != nil {
			return 0, common.FormatError(common.ErrFailedToReadVolume, err)
		}
		if match {
			return layout, nil
		}
	}
	return 0, ErrSignatureNotFound
}

// checkSignature reads the 20-byte signature at the candidate's descriptor
// sector. Reads past the end of the stream report a clean non-match.
func checkSignature(reader io.ReadSeeker, layout Layout) (bool, error) {
	offset := layout.RootOffset() + descriptorSector*SectorSize

	if _, err := reader.Seek(offset, io.SeekStart); err != nil {
		return false, err
	}

	buf := make([]byte, len(VolumeSignature))
	if _, err := io.ReadFull(reader, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}

	return string(buf) == VolumeSignature, nil
}
