package god

import (
	"io"
	"os"

	"github.com/hansbonini/godtools/pkg/common"
)

// ChainPartHashes links the per-part master hash lists into a single chain:
// iterating from the last part backward, each part's master list is extended
// with the digest of the next part's finalized master list and rewritten in
// place. The returned digest is the first part's chained master list digest,
// which transitively certifies the entire sequence.
//
// The pass must only run once every part file exists and is fully flushed.
// It is idempotent: the subpart entry count is recomputed from each part
// file's size and the list truncated to it before the chain digest is
// appended, so stale chain entries from a previous run are discarded.
func ChainPartHashes(layout *FileLayout, partCount uint64) ([HashSize]byte, error) {
	var zero [HashSize]byte

	next, err := readPartMHT(layout, partCount-1)
	if err != nil {
		return zero, common.FormatError(common.ErrFailedToReadPartMHT, err)
	}

	for part := int64(partCount) - 2; part >= 0; part-- {
		previous, err := readPartMHT(layout, uint64(part))
		if err != nil {
			return zero, common.FormatError(common.ErrFailedToReadPartMHT, err)
		}

		previous.AddHash(next.Digest())

		if err := writePartMHT(layout, uint64(part), previous); err != nil {
			return zero, common.FormatError(common.ErrFailedToWritePartMHT, err)
		}
		common.LogDebug(common.DebugChainStep, part+1, part)

		next = previous
	}

	return next.Digest(), nil
}

// readPartMHT reads a part's master hash list, truncated to the entry count
// implied by the part file's size.
func readPartMHT(layout *FileLayout, partIndex uint64) (*HashList, error) {
	path := layout.PartFilePath(partIndex)

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	list, err := ReadHashList(file)
	if err != nil {
		return nil, err
	}
	list.Truncate(SubPartCount(info.Size()))

	return list, nil
}

// writePartMHT rewrites a part's master hash list in place at the start of
// the part file.
func writePartMHT(layout *FileLayout, partIndex uint64, list *HashList) error {
	path := layout.PartFilePath(partIndex)

	file, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	return list.WriteTo(file)
}
