package visibility

import (
	"math"
	"strings"
)

// Evaluate decides whether the field at fieldPath should be shown according
// to rule. The compared field is resolved by its literal name first and then
// as a sibling of fieldPath. Evaluate never panics and has no side effects;
// every failure is reported as an error verdict.
func Evaluate(rule Rule, fieldPath string, resolver FieldResolver) Verdict {
	name := rule.Field()
	if strings.TrimSpace(name) == "" {
		return Failed(EmptyFieldName, "compared field name is empty")
	}

	compared, ok := resolve(resolver, fieldPath, name)
	if !ok {
		return Failed(FieldNotFound, "field not found: could not find %q", name)
	}

	switch rule.Kind() {
	case KindBool:
		return evaluateBool(rule, compared)
	case KindInt:
		return evaluateInt(rule, compared)
	case KindFloat:
		return evaluateFloat(rule, compared)
	case KindString:
		return evaluateString(rule, compared)
	case KindEnum:
		return evaluateEnum(rule, compared)
	default:
		return Failed(UnsupportedValueType, "unsupported value type %s for %q", rule.Kind(), name)
	}
}

func resolve(resolver FieldResolver, fieldPath, name string) (ResolvedField, bool) {
	if resolver == nil {
		return ResolvedField{}, false
	}
	if field, ok := resolver.Resolve(name); ok {
		return field, true
	}
	sibling, ok := SiblingPath(fieldPath, name)
	if !ok || sibling == name {
		return ResolvedField{}, false
	}
	return resolver.Resolve(sibling)
}

func evaluateBool(rule Rule, compared ResolvedField) Verdict {
	name := rule.Field()
	if compared.Kind != KindBool {
		return mismatch(KindBool, name, compared.Kind)
	}
	expected := rule.Expected().Bools()
	if len(expected) == 0 {
		return noExpected(name)
	}
	switch rule.Comparison() {
	case Equals:
		return verdictOf(compared.Bool == expected[0])
	case NotEquals:
		return verdictOf(compared.Bool != expected[0])
	default:
		return unsupportedComparison(rule, "bool")
	}
}

func evaluateInt(rule Rule, compared ResolvedField) Verdict {
	name := rule.Field()
	var current int64
	switch compared.Kind {
	case KindInt:
		current = compared.Int
	case KindEnum:
		current = int64(compared.EnumIndex)
	default:
		return mismatch(KindInt, name, compared.Kind)
	}
	expected := rule.Expected().Ints()
	if len(expected) == 0 {
		return noExpected(name)
	}
	return compareInts(rule, current, expected, "int")
}

func evaluateFloat(rule Rule, compared ResolvedField) Verdict {
	name := rule.Field()
	if compared.Kind != KindFloat {
		return mismatch(KindFloat, name, compared.Kind)
	}
	expected := rule.Expected().Floats()
	if len(expected) == 0 {
		return noExpected(name)
	}

	current := compared.Float
	switch rule.Comparison() {
	case Equals:
		return verdictOf(anyFloat(current, expected))
	case NotEquals:
		return verdictOf(!anyFloat(current, expected))
	case Greater:
		return verdictOf(current > expected[0])
	case GreaterOrEqual:
		return verdictOf(current >= expected[0])
	case Less:
		return verdictOf(current < expected[0])
	case LessOrEqual:
		return verdictOf(current <= expected[0])
	default:
		return unsupportedComparison(rule, "float")
	}
}

func evaluateString(rule Rule, compared ResolvedField) Verdict {
	name := rule.Field()
	switch compared.Kind {
	case KindString:
		expected := rule.Expected().Strings()
		if len(expected) == 0 {
			return noExpected(name)
		}
		switch rule.Comparison() {
		case Equals:
			return verdictOf(anyString(compared.String, expected))
		case NotEquals:
			return verdictOf(!anyString(compared.String, expected))
		default:
			return unsupportedComparison(rule, "string")
		}
	case KindEnum:
		// Strings compare against the enum's active label.
		expected := rule.Expected().Strings()
		if len(expected) == 0 {
			return Failed(NoExpectedValues, "enum value name is empty on %q", name)
		}
		if len(compared.EnumNames) == 0 {
			return Failed(EnumHasNoNames, "enum on %q has no names", name)
		}
		return compareEnumNames(rule, compared, expected)
	default:
		return mismatch(KindString, name, compared.Kind)
	}
}

func evaluateEnum(rule Rule, compared ResolvedField) Verdict {
	name := rule.Field()
	if compared.Kind != KindEnum {
		return mismatch(KindEnum, name, compared.Kind)
	}
	if len(compared.EnumNames) == 0 {
		return Failed(EnumHasNoNames, "enum on %q has no names", name)
	}

	expected := rule.Expected()
	if names := expected.EnumNames(); len(names) > 0 {
		return compareEnumNames(rule, compared, names)
	}
	if indices := expected.EnumIndices(); len(indices) > 0 {
		if rule.Comparison().IsOrdering() {
			return unsupportedComparison(rule, "enum")
		}
		return compareInts(rule, int64(compared.EnumIndex), indices, "enum")
	}
	return Failed(NoExpectedValues, "no expected enum values provided for %q", name)
}

func compareInts(rule Rule, current int64, expected []int64, kind string) Verdict {
	switch rule.Comparison() {
	case Equals:
		return verdictOf(anyInt(current, expected))
	case NotEquals:
		return verdictOf(!anyInt(current, expected))
	case Greater:
		return verdictOf(current > expected[0])
	case GreaterOrEqual:
		return verdictOf(current >= expected[0])
	case Less:
		return verdictOf(current < expected[0])
	case LessOrEqual:
		return verdictOf(current <= expected[0])
	default:
		return unsupportedComparison(rule, kind)
	}
}

// compareEnumNames matches expected labels against the name table. A label
// that is absent from the table is a configuration error, not a mismatch.
func compareEnumNames(rule Rule, compared ResolvedField, expected []string) Verdict {
	var met bool
	switch rule.Comparison() {
	case Equals:
		met = true
	case NotEquals:
		met = false
	default:
		return unsupportedComparison(rule, "enum")
	}

	found := false
	for _, name := range expected {
		for idx, candidate := range compared.EnumNames {
			if candidate != name {
				continue
			}
			found = true
			if idx == compared.EnumIndex {
				return verdictOf(met)
			}
		}
	}
	if !found {
		return Failed(EnumValueNotFound, "enum value(s) %q not found on %q", strings.Join(expected, ", "), rule.Field())
	}
	return verdictOf(!met)
}

func anyInt(value int64, expected []int64) bool {
	for _, candidate := range expected {
		if candidate == value {
			return true
		}
	}
	return false
}

func anyFloat(value float64, expected []float64) bool {
	for _, candidate := range expected {
		if Approximately(candidate, value) {
			return true
		}
	}
	return false
}

func anyString(value string, expected []string) bool {
	for _, candidate := range expected {
		if candidate == value {
			return true
		}
	}
	return false
}

// Approximately reports whether a and b are equal within a relative tolerance
// of 1e-6, with an absolute floor of eight times the smallest float32.
func Approximately(a, b float64) bool {
	tolerance := math.Max(1e-6*math.Max(math.Abs(a), math.Abs(b)), math.SmallestNonzeroFloat32*8)
	return math.Abs(b-a) < tolerance
}

// SiblingPath replaces the last segment of fieldPath with name. It reports
// false when fieldPath has no parent segment.
func SiblingPath(fieldPath, name string) (string, bool) {
	idx := strings.LastIndex(fieldPath, ".")
	if idx < 0 {
		return "", false
	}
	return fieldPath[:idx+1] + name, true
}

func mismatch(want ValueKind, name string, got ValueKind) Verdict {
	return Failed(TypeMismatch, "expected %s on %q, found %s", want, name, got)
}

func noExpected(name string) Verdict {
	return Failed(NoExpectedValues, "no expected values provided for %q", name)
}

func unsupportedComparison(rule Rule, kind string) Verdict {
	return Failed(UnsupportedComparison, "unsupported comparison %s for %s on %q", rule.Comparison().Name(), kind, rule.Field())
}
