package god

import (
	"io"

	"github.com/hansbonini/godtools/pkg/common"
)

// Container geometry. A part file holds up to 203 subparts of up to 204
// 4096-byte blocks each, every subpart preceded by its hash list and the
// whole file preceded by the master hash list.
const (
	// BlockSize is the unit of hashing
	BlockSize = 0x1000
	// BlocksPerPart is the maximum number of data blocks in one part
	BlocksPerPart = 0xA1C4
	// BlocksPerSubPart is the maximum number of data blocks in one subpart
	BlocksPerSubPart = 0xCC
	// SubPartsPerPart is the maximum number of subparts in one part
	SubPartsPerPart = 0xCB
	// SubPartSize is the data payload of a full subpart
	SubPartSize = BlockSize * BlocksPerSubPart
	// PartBlocks is the total block count of a full part file, hash lists
	// included: one master list, 203 subpart lists and 0xA1C4 data blocks
	PartBlocks = 0xA290
	// PartSize is the on-disk size of a full part file
	PartSize = PartBlocks * BlockSize
	// PartDataSize is the data payload of a full part
	PartDataSize = BlocksPerPart * BlockSize
)

// WritePart streams one part's worth of data from the source into a part
// file. The source must already be positioned at the first byte belonging to
// this part; the destination must be positioned at the start of an empty
// file. Up to BlocksPerPart blocks are consumed; at source exhaustion the
// part ends early without padding.
//
// Each invocation is self-contained, so disjoint parts can be written
// concurrently as long as every worker has its own source and destination
// handles.
func WritePart(source io.Reader, destination io.WriteSeeker) error {
	master := NewHashList()

	masterPosition, err := destination.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	// Placeholder; rewritten once all subpart digests are known.
	if err := master.WriteTo(destination); err != nil {
		return err
	}

	buffer := make([]byte, SubPartSize)

	for subpart := 0; subpart < SubPartsPerPart; subpart++ {
		n, err := io.ReadFull(source, buffer)
		if err == io.EOF {
			break
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return err
		}
		if n == 0 {
			break
		}

		subList := NewHashList()
		blocks := 0
		for offset := 0; offset < n; offset += BlockSize {
			end := offset + BlockSize
			if end > n {
				end = n
			}
			subList.AddBlockHash(buffer[offset:end])
			blocks++
		}

		if err := subList.WriteTo(destination); err != nil {
			return err
		}
		if _, err := destination.Write(buffer[:n]); err != nil {
			return err
		}

		// The master entry is the digest of the full padded list buffer,
		// zero padding included.
		master.AddBlockHash(subList.Bytes())
		common.LogDebug(common.DebugSubPartWritten, subpart, blocks)

		if n < SubPartSize {
			break
		}
	}

	if _, err := destination.Seek(masterPosition, io.SeekStart); err != nil {
		return err
	}
	return master.WriteTo(destination)
}

// PartCount returns the number of parts needed for the given data size,
// using ceiling division: a size exactly filling N parts yields N.
func PartCount(dataSize uint64) uint64 {
	return common.DivCeil(common.DivCeil(dataSize, BlockSize), BlocksPerPart)
}

// SubPartCount returns the number of subparts contained in a part file of
// the given on-disk size.
func SubPartCount(fileSize int64) int {
	remainder := fileSize - HashListSize
	if remainder <= 0 {
		return 0
	}
	count := remainder / (HashListSize + SubPartSize)
	if remainder%(HashListSize+SubPartSize) != 0 {
		count++
	}
	return int(count)
}
