package model

import "github.com/goliatone/go-showif/pkg/visibility"

// Resolver exposes an Object as a visibility.FieldResolver. Paths that
// address object or array fields resolve with KindUnknown so the evaluator
// reports a type mismatch instead of a missing field.
type Resolver struct {
	obj *Object
}

// NewResolver wraps obj. The resolver reads the object on every call, so
// values set after construction are observed.
func NewResolver(obj *Object) *Resolver {
	return &Resolver{obj: obj}
}

// Resolve implements visibility.FieldResolver.
func (r *Resolver) Resolve(path string) (visibility.ResolvedField, bool) {
	if r == nil || r.obj == nil {
		return visibility.ResolvedField{}, false
	}
	field, err := r.obj.Lookup(path)
	if err != nil {
		return visibility.ResolvedField{}, false
	}
	return ResolveField(*field), true
}
