package iso

import "strings"

// WindowsPath is a backslash-separated path into the image's directory tree.
// Components are matched ASCII case-insensitively; empty components are
// dropped, so "\\a\\\\b" and "a\\b" resolve identically.
type WindowsPath struct {
	Components []string
}

// ParseWindowsPath splits a backslash-separated path into its components
func ParseWindowsPath(path string) WindowsPath {
	var components []string
	for _, component := range strings.Split(path, "\\") {
		if component != "" {
			components = append(components, component)
		}
	}
	return WindowsPath{Components: components}
}

func (p WindowsPath) String() string {
	return "\\" + strings.Join(p.Components, "\\")
}
