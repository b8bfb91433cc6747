package sdb

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a lookup names an item that has no
	// attributes, either because it was never written or because its
	// writes have not replicated yet.
	ErrNotFound = errors.New("simpledb: item not found")

	// ErrInvalidQuery is returned when a condition or query was built from
	// arguments that cannot compile to a select expression.
	ErrInvalidQuery = errors.New("simpledb: invalid query")

	// ErrDecode is returned when a stored value cannot be decoded by the
	// codec registered for its attribute.
	ErrDecode = errors.New("simpledb: cannot decode attribute value")

	// ErrMalformedResponse is returned when the service answers with a
	// document that is neither a recognizable success response nor an
	// error envelope.
	ErrMalformedResponse = errors.New("simpledb: malformed service response")
)

// RemoteError is a failure reported by the service itself, such as
// NoSuchDomain or InvalidParameterValue. Match the category with
// errors.As and switch on Code for specific conditions.
type RemoteError struct {
	// Code is the service's stable error identifier.
	Code string

	// Message is the service's human-readable description.
	Message string

	// RequestID identifies the failed request for support purposes.
	RequestID string

	// BoxUsage is the machine time charged for the failed call.
	BoxUsage string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("simpledb: %s: %s", e.Code, e.Message)
}
