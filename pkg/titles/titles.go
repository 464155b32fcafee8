// Package titles provides a built-in offline table mapping known title ids
// to human-readable game titles. It backs the title lookup when the
// XboxUnity service is unavailable or disabled.
package titles

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/hansbonini/godtools/pkg/common"
	"gopkg.in/yaml.v3"
)

//go:embed titles.yaml
var titlesYAML []byte

type titleTable struct {
	Titles map[string]string `yaml:"titles"`
}

var (
	loadOnce sync.Once
	loadErr  error
	table    map[string]string
)

func load() {
	var parsed titleTable
	if err := yaml.Unmarshal(titlesYAML, &parsed); err != nil {
		loadErr = common.FormatError(common.ErrFailedToLoadTitleTable, err)
		return
	}
	table = make(map[string]string, len(parsed.Titles))
	for id, name := range parsed.Titles {
		table[strings.ToUpper(id)] = name
	}
}

// Lookup returns the known name for a title id, if the built-in table has one
func Lookup(titleID uint32) (string, bool) {
	loadOnce.Do(load)
	if loadErr != nil {
		common.LogWarn("%v", loadErr)
		return "", false
	}
	name, ok := table[fmt.Sprintf("%08X", titleID)]
	return name, ok
}
