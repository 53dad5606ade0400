package product

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrImageRequired   = errors.New("image file is required")
	ErrInvalidPrice    = errors.New("price must be a number between 0 and 99999999.99")
)

// ValidationError lists the request fields that failed validation,
// keyed by field name with the failed rule as value.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "invalid product: " + strings.Join(parts, ", ")
}
