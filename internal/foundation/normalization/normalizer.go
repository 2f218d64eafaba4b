// Package normalization maps loosely written configuration strings onto typed enums.
package normalization

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Normalizer maps case-insensitive, whitespace-tolerant strings to enum values.
type Normalizer[T comparable] struct {
	values   map[string]T
	fallback T
	keys     []string
}

// NewNormalizer creates a normalizer. Unknown or empty input normalizes to fallback.
func NewNormalizer[T comparable](values map[string]T, fallback T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	for k, v := range values {
		normalized[clean(k)] = v
	}
	return &Normalizer[T]{
		values:   normalized,
		fallback: fallback,
		keys:     slices.Sorted(maps.Keys(normalized)),
	}
}

// Normalize returns the value for raw, or the fallback when raw is unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[clean(raw)]; ok {
		return v
	}
	return n.fallback
}

// Parse returns the value for raw. Empty input yields the fallback; any
// other unknown input is an error listing the accepted spellings.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	cleaned := clean(raw)
	if cleaned == "" {
		return n.fallback, nil
	}
	if v, ok := n.values[cleaned]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %s", raw, strings.Join(n.keys, ", "))
}

// Keys returns the accepted spellings in sorted order.
func (n *Normalizer[T]) Keys() []string {
	return slices.Clone(n.keys)
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
