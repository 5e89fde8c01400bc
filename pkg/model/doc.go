// Package model defines the inspected object tree the inspector lays out and
// the rule evaluator reads from. An Object holds an ordered list of Fields;
// object fields carry Nested children and array fields carry Items, so every
// field is addressable by a dotted path with bracketed indices such as
// `settings.items[2].enabled`. Values are stored loosely (whatever the loader
// decoded) and coerced to the declared FieldType when resolved, with enum
// values accepted either as an index or as a label. NewResolver exposes the
// tree as a visibility.FieldResolver.
package model
