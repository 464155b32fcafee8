// Package executable parses the embedded title executables of a disc image
// far enough to extract the identity record (title id, media id, version,
// disc numbering) used to name and describe the converted output. Two
// mutually exclusive container formats exist: XEX (Xbox 360, big-endian) and
// XBE (original Xbox, little-endian). They share no binary structure and are
// probed in a fixed order.
package executable

import (
	"errors"
	"fmt"

	"github.com/hansbonini/godtools/pkg/common"
	"github.com/hansbonini/godtools/pkg/iso"
)

// ErrNoExecutable is returned when an image contains neither a default.xex
// nor a default.xbe entry.
var ErrNoExecutable = errors.New(common.ErrNoExecutableFound)

// Format is the executable container format a title was parsed from
type Format int

const (
	// FormatXex is the Xbox 360 executable container (big-endian)
	FormatXex Format = iota
	// FormatXbe is the original Xbox executable container (little-endian)
	FormatXbe
)

func (f Format) String() string {
	switch f {
	case FormatXex:
		return "XEX"
	case FormatXbe:
		return "XBE"
	default:
		return "unknown"
	}
}

// ExecutionInfo is the canonical identity record shared by both executable
// formats. Field values keep their per-format endianness interpretation;
// they are never normalized between formats.
type ExecutionInfo struct {
	MediaID        uint32
	Version        uint32
	BaseVersion    uint32
	TitleID        uint32
	Platform       uint8
	ExecutableType uint8
	DiscNumber     uint8
	DiscCount      uint8
}

// TitleInfo is the identity record together with the format it came from
type TitleInfo struct {
	Format        Format
	ExecutionInfo ExecutionInfo
}

// FromImage locates the title executable inside the image and extracts its
// identity record. default.xex is tried first, then default.xbe.
func FromImage(image *iso.Reader) (*TitleInfo, error) {
	if entry := image.FindEntry(iso.ParseWindowsPath("\\default.xex")); entry != nil {
		reader, err := image.OpenEntry(entry)
		if err != nil {
			return nil, err
		}
		header, err := ReadXexHeader(reader)
		if err != nil {
			return nil, fmt.Errorf("error reading default.xex: %w", err)
		}
		if header.ExecutionInfo == nil {
			return nil, errors.New("no execution info in default.xex header")
		}
		return &TitleInfo{Format: FormatXex, ExecutionInfo: *header.ExecutionInfo}, nil
	}

	if entry := image.FindEntry(iso.ParseWindowsPath("\\default.xbe")); entry != nil {
		reader, err := image.OpenEntry(entry)
		if err != nil {
			return nil, err
		}
		header, err := ReadXbeHeader(reader)
		if err != nil {
			return nil, fmt.Errorf("error reading default.xbe: %w", err)
		}
		return &TitleInfo{Format: FormatXbe, ExecutionInfo: *header.ExecutionInfo}, nil
	}

	return nil, ErrNoExecutable
}
