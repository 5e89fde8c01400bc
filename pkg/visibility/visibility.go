package visibility

import (
	"fmt"
	"strings"
)

// ValueKind declares the semantic type a rule compares. Resolvers report the
// same enumeration for the field they resolved; KindUnknown marks fields with
// no comparable kind (objects, arrays, nulls).
type ValueKind int

const (
	KindUnknown ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindEnum
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ParseValueKind maps the textual kind names used in rule files and the rule
// syntax back to a ValueKind.
func ParseValueKind(raw string) (ValueKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "bool", "boolean":
		return KindBool, nil
	case "int", "integer":
		return KindInt, nil
	case "float", "number":
		return KindFloat, nil
	case "string":
		return KindString, nil
	case "enum":
		return KindEnum, nil
	default:
		return KindUnknown, fmt.Errorf("visibility: unknown value kind %q", raw)
	}
}

// Comparison is the operator applied between the resolved value and the
// expected values of a rule. Equals is the zero value.
type Comparison int

const (
	Equals Comparison = iota
	NotEquals
	Greater
	GreaterOrEqual
	Less
	LessOrEqual
)

func (c Comparison) String() string {
	switch c {
	case Equals:
		return "=="
	case NotEquals:
		return "!="
	case Greater:
		return ">"
	case GreaterOrEqual:
		return ">="
	case Less:
		return "<"
	case LessOrEqual:
		return "<="
	default:
		return "?"
	}
}

// Name returns the long-form identifier used in rule files.
func (c Comparison) Name() string {
	switch c {
	case Equals:
		return "equals"
	case NotEquals:
		return "notEquals"
	case Greater:
		return "greater"
	case GreaterOrEqual:
		return "greaterOrEqual"
	case Less:
		return "less"
	case LessOrEqual:
		return "lessOrEqual"
	default:
		return "unknown"
	}
}

// IsOrdering reports whether the comparison needs an ordered kind.
func (c Comparison) IsOrdering() bool {
	switch c {
	case Greater, GreaterOrEqual, Less, LessOrEqual:
		return true
	default:
		return false
	}
}

// ParseComparison accepts both operator ("!=") and long-form ("notEquals")
// spellings. An empty string yields Equals.
func ParseComparison(raw string) (Comparison, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "==", "=", "eq", "equals":
		return Equals, nil
	case "!=", "ne", "notequals", "not_equals":
		return NotEquals, nil
	case ">", "gt", "greater":
		return Greater, nil
	case ">=", "gte", "greaterorequal", "greater_or_equal":
		return GreaterOrEqual, nil
	case "<", "lt", "less":
		return Less, nil
	case "<=", "lte", "lessorequal", "less_or_equal":
		return LessOrEqual, nil
	default:
		return Equals, fmt.Errorf("visibility: unknown comparison %q", raw)
	}
}

// ResolvedField is the snapshot of the compared field handed back by a
// FieldResolver. Only the value matching Kind is meaningful; enum fields
// expose their name table and current index.
type ResolvedField struct {
	Kind      ValueKind
	Bool      bool
	Int       int64
	Float     float64
	String    string
	EnumIndex int
	EnumNames []string
}

// BoolField builds a resolved bool field.
func BoolField(v bool) ResolvedField { return ResolvedField{Kind: KindBool, Bool: v} }

// IntField builds a resolved int field.
func IntField(v int64) ResolvedField { return ResolvedField{Kind: KindInt, Int: v} }

// FloatField builds a resolved float field.
func FloatField(v float64) ResolvedField { return ResolvedField{Kind: KindFloat, Float: v} }

// StringField builds a resolved string field.
func StringField(v string) ResolvedField { return ResolvedField{Kind: KindString, String: v} }

// EnumField builds a resolved enum field from its current index and name table.
func EnumField(index int, names ...string) ResolvedField {
	return ResolvedField{Kind: KindEnum, EnumIndex: index, EnumNames: names}
}

// EnumName returns the label of the current enum value, if the index points
// inside the name table.
func (f ResolvedField) EnumName() (string, bool) {
	if f.EnumIndex < 0 || f.EnumIndex >= len(f.EnumNames) {
		return "", false
	}
	return f.EnumNames[f.EnumIndex], true
}

// FieldResolver looks up the compared field. Implementations must accept
// fully qualified paths as well as bare leaf names; the evaluator derives the
// sibling path itself and calls Resolve a second time when needed.
type FieldResolver interface {
	Resolve(path string) (ResolvedField, bool)
}

// FieldResolverFunc adapts a function into a FieldResolver.
type FieldResolverFunc func(path string) (ResolvedField, bool)

// Resolve delegates to the underlying function.
func (fn FieldResolverFunc) Resolve(path string) (ResolvedField, bool) {
	return fn(path)
}

// MapResolver resolves paths from a fixed map. Handy for tests and for hosts
// that already flatten their fields into dotted paths.
type MapResolver map[string]ResolvedField

// Resolve implements FieldResolver.
func (m MapResolver) Resolve(path string) (ResolvedField, bool) {
	field, ok := m[path]
	return field, ok
}

// Evaluator determines the verdict of a rule attached to the field at
// fieldPath, reading the compared field through resolver.
type Evaluator interface {
	Evaluate(rule Rule, fieldPath string, resolver FieldResolver) Verdict
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule Rule, fieldPath string, resolver FieldResolver) Verdict

// Evaluate delegates to the underlying function.
func (fn EvaluatorFunc) Evaluate(rule Rule, fieldPath string, resolver FieldResolver) Verdict {
	return fn(rule, fieldPath, resolver)
}

// Default is the stateless evaluator backed by Evaluate.
var Default Evaluator = EvaluatorFunc(Evaluate)
