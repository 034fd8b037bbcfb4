package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSONDataParser implements DataParser for JSON.
type JSONDataParser struct{}

// NewJSONDataParser creates a new JSONDataParser.
func NewJSONDataParser() DataParser {
	return &JSONDataParser{}
}

// Parse decodes JSON bytes, keeping numbers as json.Number.
func (p *JSONDataParser) Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty JSON document")
		}
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON document")
	}
	return doc, nil
}
