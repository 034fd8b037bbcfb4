// Package parser provides functionality for parsing collection data files.
package parser

import (
	"fmt"

	"github.com/goccy/go-yaml"
	yamlparser "github.com/goccy/go-yaml/parser"
)

// YAMLDataParser implements DataParser for YAML.
// Documents are converted to JSON first so both formats validate alike.
type YAMLDataParser struct {
	json JSONDataParser
}

// NewYAMLDataParser creates a new YAMLDataParser.
func NewYAMLDataParser() DataParser {
	return &YAMLDataParser{}
}

// Parse decodes YAML bytes into generic JSON data.
// A data file holds one entry, so multi-document streams are rejected.
func (p *YAMLDataParser) Parse(data []byte) (any, error) {
	file, err := yamlparser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}
	if n := len(file.Docs); n > 1 {
		return nil, fmt.Errorf("decoding YAML: expected a single document, found %d", n)
	}

	converted, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}
	return p.json.Parse(converted)
}
