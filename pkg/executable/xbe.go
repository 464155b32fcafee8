package executable

import (
	"fmt"
	"io"

	"github.com/hansbonini/godtools/pkg/common"
)

// XBE headers are little-endian throughout. The certificate holding the
// identity record is reached through two chained pointer fields: the load
// base address at 0x0104 and the certificate virtual address at 0x0118; the
// certificate sits at headerStart + (certificateAddress - baseAddress).

const xbeMagic = "XBEH"

const (
	xbeBaseAddressOffset        = 0x0104
	xbeCertificateAddressOffset = 0x0118
)

// Certificate field offsets, relative to the certificate start
const (
	xbeCertTitleIDOffset = 0x08
	xbeCertVersionOffset = 0xB0
)

// XbeHeader is the subset of an XBE header needed to identify a title
type XbeHeader struct {
	BaseAddress        uint32
	CertificateAddress uint32
	ExecutionInfo      *ExecutionInfo
}

// ReadXbeHeader parses an XBE header starting at the reader's current
// position and extracts the certificate's identity fields. Fields the XBE
// certificate does not carry (media id, base version, platform, executable
// type) are zero; historical decoders also derived flag bits here through
// unsatisfiable bit tests, so no flags are surfaced at all. Disc number and
// count default to 1.
func ReadXbeHeader(reader io.ReadSeeker) (*XbeHeader, error) {
	headerOffset, err := reader.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}

	magic, err := common.ReadBytes(reader, 4)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if string(magic) != xbeMagic {
		return nil, fmt.Errorf("missing %q magic bytes in XBE header", xbeMagic)
	}

	header := &XbeHeader{}

	if _, err := reader.Seek(headerOffset+xbeBaseAddressOffset, io.SeekStart); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if header.BaseAddress, err = common.ReadUint32LE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}

	if _, err := reader.Seek(headerOffset+xbeCertificateAddressOffset, io.SeekStart); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if header.CertificateAddress, err = common.ReadUint32LE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}

	if header.CertificateAddress < header.BaseAddress {
		return nil, fmt.Errorf("XBE certificate address %08X below base address %08X",
			header.CertificateAddress, header.BaseAddress)
	}
	certificateOffset := headerOffset + int64(header.CertificateAddress-header.BaseAddress)

	info, err := readXbeExecutionInfo(reader, certificateOffset)
	if err != nil {
		return nil, err
	}
	header.ExecutionInfo = info

	return header, nil
}

// readXbeExecutionInfo decodes the certificate's identity fields,
// little-endian throughout.
func readXbeExecutionInfo(reader io.ReadSeeker, certificateOffset int64) (*ExecutionInfo, error) {
	info := &ExecutionInfo{
		DiscNumber: 1,
		DiscCount:  1,
	}
	var err error

	if _, err = reader.Seek(certificateOffset+xbeCertTitleIDOffset, io.SeekStart); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if info.TitleID, err = common.ReadUint32LE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}

	if _, err = reader.Seek(certificateOffset+xbeCertVersionOffset, io.SeekStart); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}
	if info.Version, err = common.ReadUint32LE(reader); err != nil {
		return nil, common.FormatError(common.ErrFailedToReadExecutable, err)
	}

	return info, nil
}
