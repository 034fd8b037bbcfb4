package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSchemaValidation is matched by every *SchemaError.
var ErrSchemaValidation = errors.New("schema validation failed")

// ErrUnknownCollection is returned when no schema is registered for a collection.
var ErrUnknownCollection = errors.New("unknown collection")

// SchemaError reports data that does not match a collection schema.
// Errors holds every mismatch; the message names the first.
type SchemaError struct {
	Collection string
	// Source is the file the data came from, if any.
	Source string
	// Field is the document property that was validated, if any.
	Field  string
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		fmt.Fprintf(&b, "%s: ", e.Source)
	}
	fmt.Fprintf(&b, "invalid %s entry", e.Collection)
	if len(e.Errors) > 0 {
		first := e.Errors[0]
		fmt.Fprintf(&b, ": %s: %s", e.Location(first), first.Message)
		if n := len(e.Errors) - 1; n > 0 {
			fmt.Fprintf(&b, " (and %d more)", n)
		}
	}
	return b.String()
}

// Location renders where fe occurred, prefixed with the validated field.
func (e *SchemaError) Location(fe FieldError) string {
	loc := e.Field + fe.Path
	if loc == "" {
		return "/"
	}
	return loc
}

// Is implements error matching for errors.Is() checks.
// This allows: errors.Is(err, validation.ErrSchemaValidation)
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaValidation
}
