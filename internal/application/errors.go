package application

import (
	"errors"
	"sort"
	"strings"
)

// ErrUserNotFound is returned when no active user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ValidationError carries field -> message violations for a rejected write.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}
