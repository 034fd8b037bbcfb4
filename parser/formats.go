package parser

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Extensions lists the data file extensions ForPath understands.
var Extensions = []string{".json", ".yaml", ".yml"}

// Supported reports whether ForPath has a parser for path. Extensions
// match case-insensitively.
func Supported(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// ForPath returns the parser for a data file, chosen by extension.
func ForPath(path string) (DataParser, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return NewJSONDataParser(), nil
	case ".yaml", ".yml":
		return NewYAMLDataParser(), nil
	default:
		return nil, fmt.Errorf("unsupported data file extension %q", ext)
	}
}
