// Package fieldmap applies lower-cased name/value records onto typed structs
// through explicit column tables.
package fieldmap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
)

// Setter writes one raw value onto target.
type Setter[T any] func(target *T, raw string) error

// Columns maps a normalized field name to its setter.
type Columns[T any] map[string]Setter[T]

// Normalize trims and lower-cases a field name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Text assigns the trimmed value.
func Text[T any](field func(*T) *string) Setter[T] {
	return func(target *T, raw string) error {
		*field(target) = strings.TrimSpace(raw)
		return nil
	}
}

// OptionalText assigns the trimmed value, storing nil for blank input.
func OptionalText[T any](field func(*T) **string) Setter[T] {
	return func(target *T, raw string) error {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			*field(target) = nil
			return nil
		}
		*field(target) = &trimmed
		return nil
	}
}

// Date parses the value with the first matching layout. Blank input leaves the
// field unset.
func Date[T any](name string, field func(*T) **time.Time, layouts ...string) Setter[T] {
	return func(target *T, raw string) error {
		parsed, err := ParseDate(name, raw, layouts...)
		if err != nil {
			return err
		}
		if parsed != nil {
			*field(target) = parsed
		}
		return nil
	}
}

// Int parses decimal text. Blank input leaves the field untouched.
func Int[T any](name string, field func(*T) *int) Setter[T] {
	return func(target *T, raw string) error {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil
		}
		value, err := strconv.Atoi(trimmed)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid integer for %s: %q", name, raw))
		}
		*field(target) = value
		return nil
	}
}

// Bool accepts 1/0, true/false, yes/no. Blank input leaves the field untouched.
func Bool[T any](name string, field func(*T) *bool) Setter[T] {
	return func(target *T, raw string) error {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "":
			return nil
		case "1", "true", "t", "yes", "y":
			*field(target) = true
		case "0", "false", "f", "no", "n":
			*field(target) = false
		default:
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid boolean for %s: %q", name, raw))
		}
		return nil
	}
}

// ParseDate parses raw with the given layouts. Blank input returns nil.
func ParseDate(name, raw string, layouts ...string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return &parsed, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid date for %s: %q", name, raw)).
		WithDetails(map[string]any{"field": name, "value": raw})
}

// Present returns the sorted, normalized names in fields that have a column.
func Present[T any](fields map[string]string, cols Columns[T]) []string {
	var out []string
	for name := range fields {
		if key := Normalize(name); cols[key] != nil {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// Apply writes every known field onto target and returns the sorted names of
// fields that have no column.
func Apply[T any](target *T, fields map[string]string, cols Columns[T]) ([]string, error) {
	var unknown []string
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		set, ok := cols[Normalize(name)]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if err := set(target, fields[name]); err != nil {
			return unknown, err
		}
	}
	return unknown, nil
}
