// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Pipeline error taxonomy.
var (
	// ErrConfiguration a source descriptor failed validation; fatal to the sweep.
	ErrConfiguration = errors.New("invalid source configuration")

	// ErrFetch a network, parse or format failure inside one adapter.
	ErrFetch = errors.New("fetch failed")

	// ErrReconcile a single item could not be normalized or written.
	ErrReconcile = errors.New("reconcile failed")

	// ErrAmbiguousIdentity an item has no usable URL to key on.
	ErrAmbiguousIdentity = errors.New("no usable url for item")

	// ErrNotFound a repository lookup matched nothing.
	ErrNotFound = errors.New("record not found")

	// ErrUnsupportedKind no adapter is registered for a kind.
	ErrUnsupportedKind = errors.New("unsupported source kind")
)

// ConfigurationError carries every validation failure of a source list.
type ConfigurationError struct {
	// Details maps source name to its ordered error messages.
	Details map[string][]string
}

// Error lists the failing sources in name order.
func (e *ConfigurationError) Error() string {
	names := make([]string, 0, len(e.Details))
	for name := range e.Details {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		label := name
		if label == "" {
			label = "(unnamed)"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", label, strings.Join(e.Details[name], ", ")))
	}
	return fmt.Sprintf("%s: %s", ErrConfiguration.Error(), strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
