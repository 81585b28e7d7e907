package motor

import (
	"errors"
	"fmt"
)

// ErrModeMismatch is returned when an edit targets the representation that is not
// currently authoritative for a field.
var ErrModeMismatch = errors.New("edit does not match the active view mode")

// ParseError reports text that is not syntactically valid JSON.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("invalid JSON at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NotObjectError reports valid JSON whose top level is not a plain object.
type NotObjectError struct {
	Kind string // array, null, string, number or boolean
}

func (e *NotObjectError) Error() string {
	return fmt.Sprintf("JSON value is %s, expected an object", articled(e.Kind))
}

// NotFoundError reports a pair id that is no longer present in a store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pair %q not found", e.ID)
}

func articled(kind string) string {
	switch kind {
	case "array":
		return "an array"
	case "null":
		return "null"
	default:
		return "a " + kind
	}
}
