package service

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports bad input field by field. Handlers render it as
// a 400 with the details map.
type ValidationError struct {
	Message string
	Details map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Details[k]))
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{
		Message: "validation failed",
		Details: map[string]string{field: msg},
	}
}
