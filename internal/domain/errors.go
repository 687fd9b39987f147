package domain

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries field level messages for rejected input.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError builds a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// First returns the first message in field-name order.
func (e *ValidationError) First() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(e.Fields[k]) > 0 {
			return e.Fields[k][0]
		}
	}
	return "The given data was invalid."
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(msgs, ", ")))
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// AuthorizationError means the actor lacks the right to perform Action on Entity.
type AuthorizationError struct {
	Action string
	Entity string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not authorized to %s %s", e.Action, e.Entity)
}

// NotFoundError means a referenced entity id does not resolve.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s #%d not found", e.Entity, e.ID)
}

// WriteError is a persistence failure inside a rolled back transaction.
type WriteError struct {
	Op       string
	Message  string
	EntityID int64
	Err      error
}

func (e *WriteError) Error() string {
	if e.EntityID != 0 {
		return fmt.Sprintf("%s failed for #%d: %s", e.Op, e.EntityID, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *WriteError) Unwrap() error { return e.Err }
