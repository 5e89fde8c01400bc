// Package visibility evaluates ShowIf rules: declarative conditions that make
// one field of an inspected object visible only while another field holds a
// given value. A Rule names the compared field, the declared ValueKind, a
// Comparison and an ExpectedSet. Evaluate resolves the compared field through
// a FieldResolver (literal name first, then as a sibling of the annotated
// field) and returns a tri-state Verdict.
//
// Equals and NotEquals treat the expected set as any-of / none-of. Ordering
// comparisons read only the first expected value. Floats compare with a
// relative tolerance, enums can be matched by label or by index, and every
// misconfiguration surfaces as an error verdict rather than a panic.
package visibility
