// Package validation checks collection data against registered JSON schemas.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/reglet-dev/reglet-content/registry"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator implements CollectionValidator by compiling registry schemas.
// Compiled schemas are cached per collection and safe for concurrent use.
type Validator struct {
	registry registry.CollectionRegistry
	compiled map[string]*jsonschema.Schema
	mu       sync.Mutex
}

// NewValidator creates a validator backed by reg.
func NewValidator(reg registry.CollectionRegistry) *Validator {
	return &Validator{
		registry: reg,
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// Validate checks data against the schema registered for the named collection.
// data may be decoded JSON or any value that encodes to JSON.
// The error return is reserved for failures unrelated to the data's shape.
func (v *Validator) Validate(name string, data any) (*ValidationResult, error) {
	doc, _, err := normalize(data)
	if err != nil {
		return nil, err
	}
	return v.validateDocument(name, doc)
}

func (v *Validator) validateDocument(name string, doc any) (*ValidationResult, error) {
	sch, err := v.schema(name)
	if err != nil {
		return nil, err
	}

	err = sch.Validate(doc)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, fmt.Errorf("validating %s: %w", name, err)
	}

	leaves := leafErrors(verr, nil)
	slices.SortStableFunc(leaves, compareLeaves)

	errs := make([]FieldError, 0, len(leaves))
	for _, l := range leaves {
		errs = append(errs, FieldError{Path: l.InstanceLocation, Message: l.Message})
	}
	return &ValidationResult{Errors: errs}, nil
}

// Decode validates data against the named collection and decodes it into T.
// Invalid data yields a *SchemaError.
func Decode[T any](v *Validator, name string, data any) (T, error) {
	var out T

	doc, raw, err := normalize(data)
	if err != nil {
		return out, err
	}

	res, err := v.validateDocument(name, doc)
	if err != nil {
		return out, err
	}
	if !res.Valid {
		return out, &SchemaError{Collection: name, Errors: res.Errors}
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decoding %s entry: %w", name, err)
	}
	return out, nil
}

func (v *Validator) schema(name string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if sch, ok := v.compiled[name]; ok {
		return sch, nil
	}

	raw, ok := v.registry.GetSchema(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}

	resource := "https://reglet.dev/collections/" + url.PathEscape(name) + ".schema.json"

	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(resource, strings.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("loading schema for %s: %w", name, err)
	}

	sch, err := c.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compiling schema for %s: %w", name, err)
	}

	v.compiled[name] = sch
	return sch, nil
}

// normalize converts data into the generic JSON form the schema validator
// accepts, returning both the decoded value and its encoding.
func normalize(data any) (any, []byte, error) {
	var raw []byte
	switch d := data.(type) {
	case json.RawMessage:
		raw = d
	default:
		b, err := json.Marshal(data)
		if err != nil {
			return nil, nil, fmt.Errorf("encoding data as JSON: %w", err)
		}
		raw = b
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decoding JSON data: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, errors.New("unexpected data after JSON value")
	}
	return doc, raw, nil
}

// leafErrors flattens the validator's error tree into its leaves, which carry
// the concrete mismatch; inner nodes only say which subschema failed.
func leafErrors(e *jsonschema.ValidationError, out []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return append(out, e)
	}
	for _, c := range e.Causes {
		out = leafErrors(c, out)
	}
	return out
}

// compareLeaves orders errors by document position, then by keyword.
// Object properties are validated in map order, so the tree alone is not stable.
func compareLeaves(a, b *jsonschema.ValidationError) int {
	if c := comparePointers(a.InstanceLocation, b.InstanceLocation); c != 0 {
		return c
	}
	return strings.Compare(a.KeywordLocation, b.KeywordLocation)
}

// comparePointers compares JSON pointers segment by segment; array indices
// compare numerically and a parent sorts before its children.
func comparePointers(a, b string) int {
	as := strings.Split(strings.TrimPrefix(a, "/"), "/")
	bs := strings.Split(strings.TrimPrefix(b, "/"), "/")
	if a == "" {
		as = nil
	}
	if b == "" {
		bs = nil
	}

	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		ai, aerr := strconv.Atoi(as[i])
		bi, berr := strconv.Atoi(bs[i])
		switch {
		case aerr == nil && berr == nil:
			return ai - bi
		case aerr == nil:
			return -1
		case berr == nil:
			return 1
		default:
			return strings.Compare(as[i], bs[i])
		}
	}
	return len(as) - len(bs)
}
