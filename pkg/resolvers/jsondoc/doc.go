// Package jsondoc resolves rule fields straight from a raw JSON document, for
// hosts that keep their state as JSON rather than as a model.Object. Paths use
// the same `a.b[2].c` syntax as the model package and are translated to gjson
// paths. JSON has no enum type, so enum fields are declared up front with
// WithEnum and may hold either the label or the index.
package jsondoc
