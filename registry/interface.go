package registry

// CollectionRegistry manages JSON schemas for content collections.
type CollectionRegistry interface {
	// Register adds a schema for a collection (e.g. "units").
	// model can be a Go value (to generate schema) or a JSON schema string/map.
	Register(name string, model interface{}) error

	// GetSchema returns the JSON schema for a collection.
	GetSchema(name string) (string, bool)

	// List returns all registered collection names, sorted.
	List() []string
}
