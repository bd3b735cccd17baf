package docstore

import (
	"errors"
	"fmt"
)

// ErrItemNotFound signals that the store holds no record for the requested id.
// Executors translate their backend's native not-found condition to this
// sentinel; every other store error passes through untouched.
var ErrItemNotFound = errors.New("item not found")

// ConfigurationError reports invalid construction parameters. It is returned
// synchronously before any network interaction.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// NewConfigurationError creates a ConfigurationError from a format string.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError reports invalid call arguments. It is returned before any
// store call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid argument: " + e.Reason
}

// NewValidationError creates a ValidationError from a format string.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// EntityNotFoundError reports that a by-id read produced nothing usable:
// either the store has no such record, or the record is tagged with a foreign
// namespace. Both cases share this one type so callers cannot learn whether a
// document exists in another namespace; only the message text differs, for
// diagnostics.
type EntityNotFoundError struct {
	id        string
	namespace string
	foreign   bool
}

func (e *EntityNotFoundError) Error() string {
	if e.foreign {
		return fmt.Sprintf("entity %q was found but not in namespace %q", e.id, e.namespace)
	}
	return fmt.Sprintf("entity %q was not found", e.id)
}

// ID returns the identifier the failed lookup used.
func (e *EntityNotFoundError) ID() string {
	return e.id
}

func newNotFoundError(id string) *EntityNotFoundError {
	return &EntityNotFoundError{id: id}
}

func newForeignNamespaceError(id, namespace string) *EntityNotFoundError {
	return &EntityNotFoundError{id: id, namespace: namespace, foreign: true}
}

// IsNotFound reports whether err is an EntityNotFoundError.
func IsNotFound(err error) bool {
	var nfe *EntityNotFoundError
	return errors.As(err, &nfe)
}
