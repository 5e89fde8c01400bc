package expr

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-showif/pkg/visibility"
)

// Format renders rule in the syntax accepted by Parse. Bool equality rules
// with a single value use the shorthand forms; everything else carries an
// explicit kind. An expected set that is empty or holds values of another
// kind is written as the empty list `[]`; both evaluate to NoExpectedValues.
// Rules of KindUnknown have no parseable form and are rendered for display
// only.
func Format(rule visibility.Rule) string {
	expected := rule.Expected()
	if !fitsKind(rule.Kind(), expected) {
		expected = visibility.ExpectedSet{}
	}
	if rule.Kind() == visibility.KindBool && rule.Comparison() == visibility.Equals {
		if values := expected.Bools(); len(values) == 1 {
			if values[0] {
				return rule.Field()
			}
			return "!" + rule.Field()
		}
	}

	values := emptyList
	if expected.Len() > 0 {
		values = strings.Join(formatValues(expected), ", ")
	}

	var b strings.Builder
	b.WriteString(rule.Field())
	b.WriteByte(':')
	b.WriteString(rule.Kind().String())
	b.WriteByte(' ')
	b.WriteString(rule.Comparison().String())
	b.WriteByte(' ')
	b.WriteString(values)
	return b.String()
}

// fitsKind reports whether the evaluator reads expected for a rule of kind.
func fitsKind(kind visibility.ValueKind, expected visibility.ExpectedSet) bool {
	switch kind {
	case visibility.KindBool:
		return expected.Kind() == visibility.ExpectBools
	case visibility.KindInt:
		return expected.Kind() == visibility.ExpectInts
	case visibility.KindFloat:
		return expected.Kind() == visibility.ExpectFloats
	case visibility.KindString:
		return expected.Kind() == visibility.ExpectStrings
	case visibility.KindEnum:
		return expected.Kind() == visibility.ExpectEnumNames || expected.Kind() == visibility.ExpectEnumIndices
	default:
		return false
	}
}

func formatValues(expected visibility.ExpectedSet) []string {
	switch expected.Kind() {
	case visibility.ExpectStrings:
		return quoteAll(expected.Strings())
	case visibility.ExpectEnumNames:
		return quoteAll(expected.EnumNames())
	case visibility.ExpectFloats:
		floats := expected.Floats()
		out := make([]string, 0, len(floats))
		for _, f := range floats {
			out = append(out, strconv.FormatFloat(f, 'g', -1, 64))
		}
		return out
	default:
		return expected.Values()
	}
}

func quoteAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strconv.Quote(v))
	}
	return out
}
