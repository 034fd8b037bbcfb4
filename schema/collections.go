package schema

import "sort"

// CollectionType distinguishes how a collection's entries are stored.
type CollectionType string

// DataCollection entries are structured data files (JSON or YAML).
const DataCollection CollectionType = "data"

// UnitsCollectionName is the registry key of the units collection.
const UnitsCollectionName = "units"

// Collection is a named collection definition.
// Model is the Go value whose JSON schema is the collection's contract.
// Field names the document property holding the validated value; an empty
// Field means the whole document is validated.
type Collection struct {
	Model any
	Name  string
	Type  CollectionType
	Field string
}

// Units is the units collection: each entry's nodes must be a Unit.
var Units = Collection{
	Name:  UnitsCollectionName,
	Type:  DataCollection,
	Field: "nodes",
	Model: Unit{},
}

var collections = map[string]Collection{
	Units.Name: Units,
}

// Collections returns the collection definitions keyed by name.
// The map is a copy; callers may modify it freely.
func Collections() map[string]Collection {
	out := make(map[string]Collection, len(collections))
	for name, c := range collections {
		out[name] = c
	}
	return out
}

// Lookup returns the collection registered under name.
func Lookup(name string) (Collection, bool) {
	c, ok := collections[name]
	return c, ok
}

// Names returns the collection names in sorted order.
func Names() []string {
	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
