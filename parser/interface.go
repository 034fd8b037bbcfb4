package parser

// DataParser parses raw data file bytes into generic JSON data
// (map[string]any, []any, json.Number, string, bool or nil).
type DataParser interface {
	// Parse decodes a single data document.
	Parse(data []byte) (any, error)
}
