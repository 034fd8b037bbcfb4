package validation

// CollectionValidator validates collection data against a registered schema.
type CollectionValidator interface {
	// Validate checks that data matches the schema registered for the collection.
	Validate(name string, data any) (*ValidationResult, error)
}

// ValidationResult is the outcome of validating one value.
type ValidationResult struct {
	Errors []FieldError
	Valid  bool
}

// FieldError is a single schema mismatch.
type FieldError struct {
	// Path is a JSON pointer to the offending value ("" is the root).
	Path    string
	Message string
}

// First returns the first mismatch, or false when the result is valid.
func (r *ValidationResult) First() (FieldError, bool) {
	if r == nil || len(r.Errors) == 0 {
		return FieldError{}, false
	}
	return r.Errors[0], true
}
