package god

import (
	"fmt"
	"path/filepath"

	"github.com/hansbonini/godtools/pkg/executable"
)

// ContentType is the content-type code carried in the con header and used in
// the output directory layout.
type ContentType uint32

const (
	ContentTypeInstalledGame ContentType = 0x4000
	ContentTypeXboxOriginal  ContentType = 0x5000
	ContentTypeGamesOnDemand ContentType = 0x7000
)

func (c ContentType) String() string {
	switch c {
	case ContentTypeInstalledGame:
		return "Installed Game"
	case ContentTypeXboxOriginal:
		return "Xbox Original"
	case ContentTypeGamesOnDemand:
		return "Games on Demand"
	default:
		return fmt.Sprintf("ContentType(%08X)", uint32(c))
	}
}

// FileLayout maps a title identity and content type to the output paths the
// content-delivery system expects:
//
//	<base>/<TITLEID>/<CONTENTTYPE>/<MEDIAID>         con header
//	<base>/<TITLEID>/<CONTENTTYPE>/<MEDIAID>.data/DataNNNN   part files
//
// Xbox Original content is keyed by title id in place of the media id.
type FileLayout struct {
	BasePath    string
	Info        *executable.ExecutionInfo
	ContentType ContentType
}

// NewFileLayout creates a layout rooted at basePath
func NewFileLayout(basePath string, info *executable.ExecutionInfo, contentType ContentType) *FileLayout {
	return &FileLayout{
		BasePath:    basePath,
		Info:        info,
		ContentType: contentType,
	}
}

func (l *FileLayout) titleIDString() string {
	return fmt.Sprintf("%08X", l.Info.TitleID)
}

func (l *FileLayout) contentTypeString() string {
	return fmt.Sprintf("%08X", uint32(l.ContentType))
}

func (l *FileLayout) mediaIDString() string {
	if l.ContentType == ContentTypeXboxOriginal {
		return fmt.Sprintf("%08X", l.Info.TitleID)
	}
	return fmt.Sprintf("%08X", l.Info.MediaID)
}

// DataDirPath returns the directory holding the part files
func (l *FileLayout) DataDirPath() string {
	return filepath.Join(l.BasePath, l.titleIDString(), l.contentTypeString(), l.mediaIDString()+".data")
}

// PartFilePath returns the path of the part file with the given index
func (l *FileLayout) PartFilePath(partIndex uint64) string {
	return filepath.Join(l.DataDirPath(), fmt.Sprintf("Data%04d", partIndex))
}

// ConHeaderFilePath returns the path of the con header file
func (l *FileLayout) ConHeaderFilePath() string {
	return filepath.Join(l.BasePath, l.titleIDString(), l.contentTypeString(), l.mediaIDString())
}
