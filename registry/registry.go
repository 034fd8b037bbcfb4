// Package registry implements a collection registry for managing JSON schemas.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/reglet-content/schema"
)

// ErrAlreadyRegistered is returned when a collection name is registered twice.
var ErrAlreadyRegistered = errors.New("collection already registered")

// Registry implements CollectionRegistry using in-memory storage.
type Registry struct {
	schemas    map[string]string
	mu         sync.RWMutex
	strictMode bool
	reflector  *jsonschema.Reflector
}

// RegistryOption configures the Registry.
type RegistryOption func(*Registry)

// WithStrictMode rejects object properties the model does not declare.
// Without it, unknown properties pass validation and are dropped on decode.
func WithStrictMode(strict bool) RegistryOption {
	return func(r *Registry) {
		r.strictMode = strict
	}
}

// NewRegistry creates a new, empty collection registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		schemas:   make(map[string]string),
		reflector: new(jsonschema.Reflector),
	}

	for _, opt := range opts {
		opt(r)
	}

	// Collection models are usually slices, which the reflector cannot
	// expand in place, so definitions stay referenced under $defs.
	r.reflector.Anonymous = true
	r.reflector.AllowAdditionalProperties = !r.strictMode

	return r
}

// NewDefaultRegistry creates a registry holding every collection in schema.Collections.
func NewDefaultRegistry(opts ...RegistryOption) (*Registry, error) {
	r := NewRegistry(opts...)
	for _, name := range schema.Names() {
		c, _ := schema.Lookup(name)
		if err := r.Register(c.Name, c.Model); err != nil {
			return nil, fmt.Errorf("registering collection %q: %w", c.Name, err)
		}
	}
	return r, nil
}

// Register adds a schema for a collection.
// model can be a Go value (to generate schema) or a raw JSON schema string, []byte or map.
func (r *Registry) Register(name string, model interface{}) error {
	if name == "" {
		return errors.New("collection name is required")
	}
	if model == nil {
		return fmt.Errorf("collection %q: model is required", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	schemaStr, err := r.schemaFor(model)
	if err != nil {
		return fmt.Errorf("collection %q: %w", name, err)
	}

	r.schemas[name] = schemaStr
	return nil
}

func (r *Registry) schemaFor(model interface{}) (string, error) {
	switch v := model.(type) {
	case string:
		if !json.Valid([]byte(v)) {
			return "", errors.New("schema string is not valid JSON")
		}
		return v, nil
	case []byte:
		if !json.Valid(v) {
			return "", errors.New("schema bytes are not valid JSON")
		}
		return string(v), nil
	case map[string]interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal schema map: %w", err)
		}
		return string(b), nil
	default:
		s := r.reflector.Reflect(model)
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal generated schema: %w", err)
		}
		return string(b), nil
	}
}

// GetSchema retrieves the JSON Schema for a collection.
func (r *Registry) GetSchema(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[name]
	return s, ok
}

// List returns all registered collection names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.schemas))
	for k := range r.schemas {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
