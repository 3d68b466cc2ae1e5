// Package apierr defines the typed error categories the service layer
// raises, so that the HTTP boundary can map them to status codes without
// string matching. Errors from the core bubble up unchanged; only the
// boundary translates them into status codes and JSON bodies.
package apierr

import "fmt"

// Category discriminates the five error kinds the wire contract defines.
type Category int

const (
	CategoryNotFound Category = iota
	CategoryIndexNotReady
	CategoryDimensionMismatch
	CategoryConfigInvalid
	CategoryValidation
)

// Error is the typed error every service-layer failure is surfaced as.
type Error struct {
	Category Category
	Message  string
}

func (e *Error) Error() string { return e.Message }

// NotFound constructs a 404-mapped error naming the missing resource kind.
func NotFound(resource, idOrName string) *Error {
	return &Error{Category: CategoryNotFound, Message: fmt.Sprintf("%s %q not found", resource, idOrName)}
}

// IndexNotReady constructs a 409-mapped error for a search against an
// index name that is not attached.
func IndexNotReady(name string) *Error {
	return &Error{Category: CategoryIndexNotReady, Message: fmt.Sprintf("index %q is not attached to this library", name)}
}

// DimensionMismatch constructs a 400-mapped error for a query vector whose
// length disagrees with the index's fixed dimension.
func DimensionMismatch(expected, got int) *Error {
	return &Error{
		Category: CategoryDimensionMismatch,
		Message:  fmt.Sprintf("query dimension %d does not match index dimension %d", got, expected),
	}
}

// ConfigInvalid constructs a 400-mapped error for an unsupported index
// kind/metric combination or invalid LSH parameters.
func ConfigInvalid(reason string) *Error {
	return &Error{Category: CategoryConfigInvalid, Message: reason}
}

// Validation constructs a 422-mapped error for a schema-level payload
// failure at the boundary.
func Validation(reason string) *Error {
	return &Error{Category: CategoryValidation, Message: reason}
}
