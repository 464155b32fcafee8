// Package pkg provides the Games on Demand conversion processor tying the
// image reader, executable parsers and container writer together.
package pkg

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/hansbonini/godtools/pkg/common"
	"github.com/hansbonini/godtools/pkg/executable"
	"github.com/hansbonini/godtools/pkg/god"
	"github.com/hansbonini/godtools/pkg/iso"
	"golang.org/x/sync/errgroup"
)

// TitleNamer resolves a title id to a display name. The processor never
// performs lookups itself; callers decide between the XboxUnity client, the
// built-in table or nothing at all.
type TitleNamer func(titleID uint32) (string, bool)

// ProgressFunc is invoked once per completed part with a monotonically
// advancing counter.
type ProgressFunc func(done, total uint64)

// ConvertOptions controls a single conversion
type ConvertOptions struct {
	GameTitle  string       // Explicit title; takes precedence over TitleNamer
	GameIcon   []byte       // Optional PNG icon, at most god.MaxIconSize bytes
	TitleNamer TitleNamer   // Optional title lookup
	Trim       bool         // Crop the data region to its used prefix
	Workers    int          // Part-writer pool size; 0 means NumCPU
	Progress   ProgressFunc // Optional per-part progress callback
}

// ImageInfo is the metadata extracted from a source image before conversion
type ImageInfo struct {
	Layout      iso.Layout
	Title       *executable.TitleInfo
	ContentType god.ContentType
	DataSize    uint64
	TrimmedSize uint64
	BlockCount  uint64
	PartCount   uint64
}

// GodProcessor converts disc images into Games on Demand containers
type GodProcessor struct {
	options ConvertOptions
}

// NewGodProcessor creates a processor with the given options
func NewGodProcessor(options ConvertOptions) *GodProcessor {
	return &GodProcessor{options: options}
}

// Inspect extracts the image metadata without writing anything
func (p *GodProcessor) Inspect(sourcePath string) (*ImageInfo, error) {
	source, err := os.Open(sourcePath)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToOpenSourceImage, err)
	}
	defer source.Close()

	image, err := iso.NewReader(source)
	if err != nil {
		return nil, err
	}
	return p.inspectImage(image)
}

func (p *GodProcessor) inspectImage(image *iso.Reader) (*ImageInfo, error) {
	title, err := executable.FromImage(image)
	if err != nil {
		return nil, err
	}

	contentType := god.ContentTypeGamesOnDemand
	if title.Format == executable.FormatXbe {
		contentType = god.ContentTypeXboxOriginal
	}

	info := &ImageInfo{
		Layout:      image.Layout,
		Title:       title,
		ContentType: contentType,
		DataSize:    uint64(image.Volume.VolumeSize),
	}

	info.TrimmedSize = info.DataSize
	if trimmed := common.AlignUp(uint64(image.MaxUsedPrefixSize()), god.BlockSize); trimmed < info.DataSize {
		info.TrimmedSize = trimmed
	}

	effective := info.DataSize
	if p.options.Trim {
		effective = info.TrimmedSize
	}
	info.BlockCount = common.DivCeil(effective, god.BlockSize)
	info.PartCount = god.PartCount(effective)

	return info, nil
}

// Convert reads the source image and writes the complete Games on Demand
// container (part files plus con header) under destDir.
func (p *GodProcessor) Convert(sourcePath, destDir string) error {
	common.LogInfo(common.InfoExtractingMetadata)

	source, err := os.Open(sourcePath)
	if err != nil {
		return common.FormatError(common.ErrFailedToOpenSourceImage, err)
	}
	defer source.Close()

	image, err := iso.NewReader(source)
	if err != nil {
		return err
	}
	common.LogInfo(common.InfoDetectedLayout, image.Layout)

	info, err := p.inspectImage(image)
	if err != nil {
		return err
	}
	common.LogInfo(common.InfoTitleID, info.Title.ExecutionInfo.TitleID)
	common.LogInfo(common.InfoMediaID, info.Title.ExecutionInfo.MediaID)

	dataSize := info.DataSize
	if p.options.Trim && info.TrimmedSize < dataSize {
		common.LogInfo(common.InfoTrimmedImage, info.TrimmedSize)
		dataSize = info.TrimmedSize
	}

	layout := god.NewFileLayout(destDir, &info.Title.ExecutionInfo, info.ContentType)

	if err := ensureEmptyDir(layout.DataDirPath()); err != nil {
		return common.FormatError(common.ErrFailedToClearDataDir, err)
	}

	if err := p.writeParts(sourcePath, layout, image.Volume.RootOffset, dataSize, info.PartCount); err != nil {
		common.LogWarn(common.WarnPartialOutput, destDir)
		return err
	}

	common.LogInfo(common.InfoChainingHashes)
	mhtDigest, err := god.ChainPartHashes(layout, info.PartCount)
	if err != nil {
		return err
	}

	common.LogInfo(common.InfoWritingConHeader)
	if err := p.writeConHeader(layout, info, mhtDigest); err != nil {
		return err
	}

	common.LogInfo(common.InfoConversionDone, layout.ConHeaderFilePath())
	return nil
}

// writeParts runs the bounded part-writer pool. Each worker opens its own
// source handle so seek state is never shared; part files may complete in
// any order.
func (p *GodProcessor) writeParts(sourcePath string, layout *god.FileLayout, rootOffset int64, dataSize, partCount uint64) error {
	workers := p.options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	common.LogInfo(common.InfoWritingParts, partCount, workers)

	var group errgroup.Group
	group.SetLimit(workers)

	var done atomic.Uint64

	for partIndex := uint64(0); partIndex < partCount; partIndex++ {
		partIndex := partIndex
		group.Go(func() error {
			if err := p.writePart(sourcePath, layout, rootOffset, dataSize, partIndex); err != nil {
				return fmt.Errorf("%s %d: %w", common.ErrFailedToWritePartFile, partIndex, err)
			}
			finished := done.Add(1)
			common.LogInfo(common.InfoPartWritten, finished, partCount)
			if p.options.Progress != nil {
				p.options.Progress(finished, partCount)
			}
			return nil
		})
	}

	return group.Wait()
}

// writePart writes a single part from its disjoint slice of the data region
func (p *GodProcessor) writePart(sourcePath string, layout *god.FileLayout, rootOffset int64, dataSize, partIndex uint64) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer source.Close()

	start := partIndex * god.PartDataSize
	if _, err := source.Seek(rootOffset+int64(start), io.SeekStart); err != nil {
		return err
	}

	remaining := dataSize - start
	if remaining > god.PartDataSize {
		remaining = god.PartDataSize
	}

	partFile, err := os.Create(layout.PartFilePath(partIndex))
	if err != nil {
		return common.FormatError(common.ErrFailedToCreatePartFile, err)
	}

	if err := god.WritePart(io.LimitReader(source, int64(remaining)), partFile); err != nil {
		partFile.Close()
		return err
	}
	return partFile.Close()
}

// writeConHeader assembles and writes the con header blob
func (p *GodProcessor) writeConHeader(layout *god.FileLayout, info *ImageInfo, mhtDigest [god.HashSize]byte) error {
	lastPart, err := os.Stat(layout.PartFilePath(info.PartCount - 1))
	if err != nil {
		return common.FormatError(common.ErrFailedToWriteConHeader, err)
	}
	totalSize := uint64(lastPart.Size()) + (info.PartCount-1)*god.PartSize

	blockCount, err := common.SafeUint64ToUint32(info.BlockCount)
	if err != nil {
		return err
	}

	builder := god.NewConHeaderBuilder().
		WithContentType(info.ContentType).
		WithExecutionInfo(&info.Title.ExecutionInfo).
		WithBlockCounts(blockCount, 0).
		WithDataPartsInfo(uint32(info.PartCount), totalSize).
		WithMhtHash(mhtDigest)

	if title, ok := p.resolveTitle(info.Title.ExecutionInfo.TitleID); ok {
		common.LogInfo(common.InfoGameTitle, title)
		builder.WithGameTitle(title)
	} else {
		common.LogWarn(common.WarnNoTitleName)
	}

	if p.options.GameIcon != nil {
		builder.WithGameIcon(p.options.GameIcon)
	}

	blob, err := builder.Finalize()
	if err != nil {
		return err
	}

	if err := os.WriteFile(layout.ConHeaderFilePath(), blob, 0644); err != nil {
		return common.FormatError(common.ErrFailedToWriteConHeader, err)
	}
	return nil
}

// resolveTitle picks the explicit title when set, otherwise asks the namer
func (p *GodProcessor) resolveTitle(titleID uint32) (string, bool) {
	if p.options.GameTitle != "" {
		return p.options.GameTitle, true
	}
	if p.options.TitleNamer != nil {
		return p.options.TitleNamer(titleID)
	}
	return "", false
}

// ensureEmptyDir clears and recreates a directory
func ensureEmptyDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return err
	}
	return os.MkdirAll(path, 0755)
}
