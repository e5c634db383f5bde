package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no item matches the requested key.
	// This is expected absence, not a transport failure.
	ErrNotFound = errors.New("dynatable: item not found")

	// ErrUnsupportedType is returned when a value falls outside the
	// supported attribute union (string, number, bool, binary, null,
	// list, map).
	ErrUnsupportedType = errors.New("dynatable: unsupported attribute type")

	// ErrPageLimit is returned when a paginated read exceeds the
	// configured page safety bound without exhausting its result set.
	ErrPageLimit = errors.New("dynatable: page safety limit exceeded")

	// ErrInvalidKey is returned when a key with an empty attribute name
	// is passed to an operation.
	ErrInvalidKey = errors.New("dynatable: key name must be non-empty")
)

// UnsupportedTypeError reports the attribute whose value could not be
// encoded or decoded. Matches ErrUnsupportedType via errors.Is.
type UnsupportedTypeError struct {
	Attribute string
	GoType    string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("dynatable: attribute %q has unsupported type %s", e.Attribute, e.GoType)
}

func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// AccessError wraps a transport, auth, or retry-exhaustion failure from
// the table client.
type AccessError struct {
	Op  string
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("dynatable: %s: %v", e.Op, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// PartialFailureError reports a bulk operation that committed some items
// but not others. Processed counts the items that succeeded; FailedItems
// identifies what never committed after retries were exhausted. For
// key-only operations (deletes) each failed entry carries just its key
// attributes.
type PartialFailureError struct {
	Op          string
	Processed   int
	FailedItems []Item
	Err         error
}

func (e *PartialFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dynatable: %s: %d processed, %d failed: %v", e.Op, e.Processed, len(e.FailedItems), e.Err)
	}
	return fmt.Sprintf("dynatable: %s: %d processed, %d failed", e.Op, e.Processed, len(e.FailedItems))
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
