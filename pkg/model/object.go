package model

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrFieldNotFound is returned when a path does not address a field.
	ErrFieldNotFound = errors.New("model: field not found")
	// ErrNotAssignable is returned when a value is set on an object or array field.
	ErrNotAssignable = errors.New("model: field does not hold a value")
	// SkipChildren can be returned from a WalkFunc to skip the subtree of the
	// current field. Walk itself never returns it.
	SkipChildren = errors.New("model: skip children")
)

// Lookup returns the field addressed by path. The returned pointer aliases
// the object, so callers can mutate the field in place.
func (o *Object) Lookup(path string) (*Field, error) {
	segments, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	fields := o.Fields
	var current *Field
	for i, segment := range segments {
		current = findField(fields, segment.Name)
		if current == nil {
			return nil, fmt.Errorf("%w: %q", ErrFieldNotFound, path)
		}
		for _, idx := range segment.Indices {
			if idx >= len(current.Items) {
				return nil, fmt.Errorf("%w: %q: index %d out of range", ErrFieldNotFound, path, idx)
			}
			current = &current.Items[idx]
		}
		if i < len(segments)-1 {
			fields = current.Nested
		}
	}
	return current, nil
}

func findField(fields []Field, name string) *Field {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}

// SetValue coerces value to the declared type of the field at path and
// stores it. Enum values are stored as their index.
func (o *Object) SetValue(path string, value any) error {
	field, err := o.Lookup(path)
	if err != nil {
		return err
	}
	coerced, err := CoerceValue(*field, value)
	if err != nil {
		return fmt.Errorf("model: set %q: %w", path, err)
	}
	field.Value = coerced
	return nil
}

// WalkFunc is called for every field in tree order with its full path and
// nesting depth (0 for top-level fields).
type WalkFunc func(path string, depth int, field *Field) error

// Walk visits every field depth first: a field, then its nested fields, then
// its array items addressed as `name[i]`.
func (o *Object) Walk(fn WalkFunc) error {
	return walkFields(o.Fields, "", 0, fn)
}

func walkFields(fields []Field, parent string, depth int, fn WalkFunc) error {
	for i := range fields {
		field := &fields[i]
		if err := walkField(field, JoinPath(parent, field.Name), depth, fn); err != nil {
			return err
		}
	}
	return nil
}

func walkField(field *Field, path string, depth int, fn WalkFunc) error {
	if err := fn(path, depth, field); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	if err := walkFields(field.Nested, path, depth+1, fn); err != nil {
		return err
	}
	for i := range field.Items {
		if err := walkField(&field.Items[i], IndexPath(path, i), depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// SortFields orders fields by their Order value, keeping declaration order
// for ties. Nested fields and items are sorted recursively.
func SortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})
	for i := range fields {
		SortFields(fields[i].Nested)
		for j := range fields[i].Items {
			SortFields(fields[i].Items[j].Nested)
		}
	}
}
