package executable

import (
	"fmt"
	"io"

	"github.com/hansbonini/godtools/pkg/common"
)

// XEX2 header field layout based on https://free60.org/System-Software/Formats/XEX/
// All multi-byte values are big-endian.

const xexMagic = "XEX2"

// XexModuleFlags is the module flag bitmask of a XEX2 header
type XexModuleFlags uint32

const (
	XexModuleTitle          XexModuleFlags = 0x01
	XexModuleExportsToTitle XexModuleFlags = 0x02
	XexModuleSystemDebugger XexModuleFlags = 0x04
	XexModuleDLL            XexModuleFlags = 0x08
	XexModulePatch          XexModuleFlags = 0x10
	XexModuleFullPatch      XexModuleFlags = 0x20
	XexModuleDeltaPatch     XexModuleFlags = 0x40
	XexModuleUserMode       XexModuleFlags = 0x80
)

// xexFieldExecutionID marks the optional-header field whose value is the
// byte offset of the execution info record, relative to the header start.
const xexFieldExecutionID = 0x00040006

// XexHeader is the subset of a XEX2 header needed to identify a title
type XexHeader struct {
	ModuleFlags       XexModuleFlags
	CodeOffset        uint32
	CertificateOffset uint32
	ExecutionInfo     *ExecutionInfo
}

// ReadXexHeader parses a XEX2 header starting at the reader's current
// position. The optional-header table is scanned in declaration order; the
// execution info field may appear anywhere in it, so the parser seeks to the
// record and back without assuming any ordering.
func ReadXexHeader(reader io.ReadSeeker) (*XexHeader, error) {
	headerOffset, err := reader.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}

	magic, err := common.ReadBytes(reader, 4)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if string(magic) != xexMagic {
		return nil, fmt.Errorf("missing %q magic bytes in XEX header", xexMagic)
	}

	header := &XexHeader{}

	flags, err := common.ReadUint32BE(reader)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	header.ModuleFlags = XexModuleFlags(flags)

	if header.CodeOffset, err = common.ReadUint32BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if err = common.SkipBytes(reader, 4); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if header.CertificateOffset, err = common.ReadUint32BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}

	fieldCount, err := common.ReadUint32BE(reader)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}

	for i := uint32(0); i < fieldCount; i++ {
		key, err := common.ReadUint32BE(reader)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
		}
		value, err := common.ReadUint32BE(reader)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
		}
		common.LogDebug(common.DebugExecutionField, key, value)

		if key != xexFieldExecutionID {
			continue
		}

		tablePosition, err := reader.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
		}
		if _, err := reader.Seek(headerOffset+int64(value), io.SeekStart); err != nil {
			return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
		}

		info, err := readXexExecutionInfo(reader)
		if err != nil {
			return nil, err
		}
		header.ExecutionInfo = info

		if _, err := reader.Seek(tablePosition, io.SeekStart); err != nil {
			return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
		}
	}

	return header, nil
}

// readXexExecutionInfo decodes the fixed 20-byte execution info record,
// big-endian throughout.
func readXexExecutionInfo(reader io.Reader) (*ExecutionInfo, error) {
	info := &ExecutionInfo{}
	var err error

	if info.MediaID, err = common.ReadUint32BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if info.Version, err = common.ReadUint32BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if info.BaseVersion, err = common.ReadUint32BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if info.TitleID, err = common.ReadUint32BE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if info.Platform, err = common.ReadUint8(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if info.ExecutableType, err = common.ReadUint8(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if info.DiscNumber, err = common.ReadUint8(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if info.DiscCount, err = common.ReadUint8(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}

	return info, nil
}
