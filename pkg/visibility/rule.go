package visibility

import (
	"strconv"
	"strings"
)

// ExpectedKind tags which list an ExpectedSet carries.
type ExpectedKind int

const (
	ExpectNone ExpectedKind = iota
	ExpectBools
	ExpectInts
	ExpectFloats
	ExpectStrings
	ExpectEnumNames
	ExpectEnumIndices
)

// ExpectedSet is the ordered list of values a rule compares against. It holds
// exactly one kind of list; enum names and enum indices are mutually
// exclusive by construction.
type ExpectedSet struct {
	kind    ExpectedKind
	bools   []bool
	ints    []int64
	floats  []float64
	strings []string
}

// Bools builds a bool expected set.
func Bools(values ...bool) ExpectedSet {
	return ExpectedSet{kind: ExpectBools, bools: append([]bool(nil), values...)}
}

// Ints builds an int expected set.
func Ints(values ...int64) ExpectedSet {
	return ExpectedSet{kind: ExpectInts, ints: append([]int64(nil), values...)}
}

// Floats builds a float expected set.
func Floats(values ...float64) ExpectedSet {
	return ExpectedSet{kind: ExpectFloats, floats: append([]float64(nil), values...)}
}

// Strings builds a string expected set.
func Strings(values ...string) ExpectedSet {
	return ExpectedSet{kind: ExpectStrings, strings: append([]string(nil), values...)}
}

// EnumNames builds an expected set matched against enum labels.
func EnumNames(names ...string) ExpectedSet {
	return ExpectedSet{kind: ExpectEnumNames, strings: append([]string(nil), names...)}
}

// EnumIndices builds an expected set matched against enum positions.
func EnumIndices(indices ...int) ExpectedSet {
	ints := make([]int64, 0, len(indices))
	for _, idx := range indices {
		ints = append(ints, int64(idx))
	}
	return ExpectedSet{kind: ExpectEnumIndices, ints: ints}
}

func (s ExpectedSet) Kind() ExpectedKind { return s.kind }

// Len reports how many values the set carries.
func (s ExpectedSet) Len() int {
	switch s.kind {
	case ExpectBools:
		return len(s.bools)
	case ExpectInts, ExpectEnumIndices:
		return len(s.ints)
	case ExpectFloats:
		return len(s.floats)
	case ExpectStrings, ExpectEnumNames:
		return len(s.strings)
	default:
		return 0
	}
}

// Bools returns a copy of the bool list, or nil when the set holds another kind.
func (s ExpectedSet) Bools() []bool {
	if s.kind != ExpectBools {
		return nil
	}
	return append([]bool(nil), s.bools...)
}

// Ints returns a copy of the int list, or nil when the set holds another kind.
func (s ExpectedSet) Ints() []int64 {
	if s.kind != ExpectInts {
		return nil
	}
	return append([]int64(nil), s.ints...)
}

// Floats returns a copy of the float list, or nil when the set holds another kind.
func (s ExpectedSet) Floats() []float64 {
	if s.kind != ExpectFloats {
		return nil
	}
	return append([]float64(nil), s.floats...)
}

// Strings returns a copy of the string list, or nil when the set holds another kind.
func (s ExpectedSet) Strings() []string {
	if s.kind != ExpectStrings {
		return nil
	}
	return append([]string(nil), s.strings...)
}

// EnumNames returns a copy of the enum name list, or nil.
func (s ExpectedSet) EnumNames() []string {
	if s.kind != ExpectEnumNames {
		return nil
	}
	return append([]string(nil), s.strings...)
}

// EnumIndices returns a copy of the enum index list, or nil.
func (s ExpectedSet) EnumIndices() []int64 {
	if s.kind != ExpectEnumIndices {
		return nil
	}
	return append([]int64(nil), s.ints...)
}

// Values renders the set as display strings in order.
func (s ExpectedSet) Values() []string {
	out := make([]string, 0, s.Len())
	switch s.kind {
	case ExpectBools:
		for _, v := range s.bools {
			out = append(out, strconv.FormatBool(v))
		}
	case ExpectInts:
		for _, v := range s.ints {
			out = append(out, strconv.FormatInt(v, 10))
		}
	case ExpectEnumIndices:
		for _, v := range s.ints {
			out = append(out, "#"+strconv.FormatInt(v, 10))
		}
	case ExpectFloats:
		for _, v := range s.floats {
			out = append(out, strconv.FormatFloat(v, 'g', -1, 64))
		}
	case ExpectStrings, ExpectEnumNames:
		out = append(out, s.strings...)
	}
	return out
}

// Rule describes one conditional-visibility test: show the annotated field
// when the compared field matches the expected values under the comparison.
// Rules are immutable; accessors return copies.
type Rule struct {
	field      string
	kind       ValueKind
	comparison Comparison
	expected   ExpectedSet
}

// NewRule is the explicit constructor every convenience form normalises into.
func NewRule(field string, kind ValueKind, comparison Comparison, expected ExpectedSet) Rule {
	return Rule{field: field, kind: kind, comparison: comparison, expected: expected}
}

func (r Rule) Field() string          { return r.field }
func (r Rule) Kind() ValueKind        { return r.kind }
func (r Rule) Comparison() Comparison { return r.comparison }
func (r Rule) Expected() ExpectedSet  { return r.expected }

// WithComparison returns a copy of the rule using another comparison.
func (r Rule) WithComparison(c Comparison) Rule {
	r.comparison = c
	return r
}

func (r Rule) String() string {
	values := r.expected.Values()
	if len(values) == 0 {
		values = []string{"<none>"}
	}
	return r.field + ":" + r.kind.String() + " " + r.comparison.String() + " " + strings.Join(values, ", ")
}

// ShowIf shows the field when the bool field is true.
func ShowIf(field string) Rule {
	return NewRule(field, KindBool, Equals, Bools(true))
}

// ShowIfBool shows the field when the bool field equals expected.
func ShowIfBool(field string, expected bool) Rule {
	return NewRule(field, KindBool, Equals, Bools(expected))
}

// ShowIfInt shows the field when the int field equals any expected value.
func ShowIfInt(field string, expected ...int64) Rule {
	return NewRule(field, KindInt, Equals, Ints(expected...))
}

// ShowIfFloat shows the field when the float field is approximately any expected value.
func ShowIfFloat(field string, expected ...float64) Rule {
	return NewRule(field, KindFloat, Equals, Floats(expected...))
}

// ShowIfString shows the field when the string field equals any expected value.
func ShowIfString(field string, expected ...string) Rule {
	return NewRule(field, KindString, Equals, Strings(expected...))
}

// ShowIfEnum shows the field when the enum's active name is one of names.
func ShowIfEnum(field string, names ...string) Rule {
	return NewRule(field, KindEnum, Equals, EnumNames(names...))
}

// ShowIfEnumIndex shows the field when the enum's index is one of indices.
func ShowIfEnumIndex(field string, indices ...int) Rule {
	return NewRule(field, KindEnum, Equals, EnumIndices(indices...))
}

// ShowIfNotBool shows the field when the bool field differs from expected.
func ShowIfNotBool(field string, expected bool) Rule {
	return NewRule(field, KindBool, NotEquals, Bools(expected))
}

// ShowIfNotInt shows the field when the int field matches none of expected.
func ShowIfNotInt(field string, expected ...int64) Rule {
	return NewRule(field, KindInt, NotEquals, Ints(expected...))
}

// ShowIfNotFloat shows the field when the float field is not approximately any expected value.
func ShowIfNotFloat(field string, expected ...float64) Rule {
	return NewRule(field, KindFloat, NotEquals, Floats(expected...))
}

// ShowIfNotString shows the field when the string field matches none of expected.
func ShowIfNotString(field string, expected ...string) Rule {
	return NewRule(field, KindString, NotEquals, Strings(expected...))
}

// ShowIfNotEnum shows the field when the enum's active name is not one of names.
func ShowIfNotEnum(field string, names ...string) Rule {
	return NewRule(field, KindEnum, NotEquals, EnumNames(names...))
}

// ShowIfNotEnumIndex shows the field when the enum's index is not one of indices.
func ShowIfNotEnumIndex(field string, indices ...int) Rule {
	return NewRule(field, KindEnum, NotEquals, EnumIndices(indices...))
}

// ShowIfGreater shows the field when the int field exceeds threshold.
func ShowIfGreater(field string, threshold int64) Rule {
	return NewRule(field, KindInt, Greater, Ints(threshold))
}

// ShowIfGreaterOrEqual shows the field when the int field is at least threshold.
func ShowIfGreaterOrEqual(field string, threshold int64) Rule {
	return NewRule(field, KindInt, GreaterOrEqual, Ints(threshold))
}

// ShowIfLess shows the field when the int field is below threshold.
func ShowIfLess(field string, threshold int64) Rule {
	return NewRule(field, KindInt, Less, Ints(threshold))
}

// ShowIfLessOrEqual shows the field when the int field is at most threshold.
func ShowIfLessOrEqual(field string, threshold int64) Rule {
	return NewRule(field, KindInt, LessOrEqual, Ints(threshold))
}

// ShowIfGreaterFloat shows the field when the float field exceeds threshold.
func ShowIfGreaterFloat(field string, threshold float64) Rule {
	return NewRule(field, KindFloat, Greater, Floats(threshold))
}

// ShowIfGreaterOrEqualFloat shows the field when the float field is at least threshold.
func ShowIfGreaterOrEqualFloat(field string, threshold float64) Rule {
	return NewRule(field, KindFloat, GreaterOrEqual, Floats(threshold))
}

// ShowIfLessFloat shows the field when the float field is below threshold.
func ShowIfLessFloat(field string, threshold float64) Rule {
	return NewRule(field, KindFloat, Less, Floats(threshold))
}

// ShowIfLessOrEqualFloat shows the field when the float field is at most threshold.
func ShowIfLessOrEqualFloat(field string, threshold float64) Rule {
	return NewRule(field, KindFloat, LessOrEqual, Floats(threshold))
}
