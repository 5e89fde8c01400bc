package uischema

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-showif/pkg/visibility"
)

// ErrInvalidRule is returned for structured rules that fail validation.
var ErrInvalidRule = errors.New("uischema: invalid rule")

// RuleConfig is the structured spelling of a ShowIf rule:
//
//	rules:
//	  - field: mode
//	    kind: enum
//	    comparison: notEquals
//	    values: [Off]
//
// Enum values given as integers match by index, strings match by label.
type RuleConfig struct {
	Field      string `json:"field" yaml:"field" validate:"required,field_path"`
	Kind       string `json:"kind" yaml:"kind" validate:"required,value_kind"`
	Comparison string `json:"comparison,omitempty" yaml:"comparison,omitempty" validate:"omitempty,comparison"`
	Values     []any  `json:"values" yaml:"values" validate:"required,min=1"`
}

// Validate checks the rule's shape with the package validator.
func (c RuleConfig) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return convertValidationError(ErrInvalidRule, err)
	}
	return nil
}

// Rule validates the config and converts it into a visibility.Rule.
func (c RuleConfig) Rule() (visibility.Rule, error) {
	if err := c.Validate(); err != nil {
		return visibility.Rule{}, err
	}
	kind, err := visibility.ParseValueKind(c.Kind)
	if err != nil {
		return visibility.Rule{}, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	comparison, err := visibility.ParseComparison(c.Comparison)
	if err != nil {
		return visibility.Rule{}, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	expected, err := expectedSet(kind, c.Values)
	if err != nil {
		return visibility.Rule{}, fmt.Errorf("%w: field %q: %v", ErrInvalidRule, c.Field, err)
	}
	return visibility.NewRule(strings.TrimSpace(c.Field), kind, comparison, expected), nil
}

func expectedSet(kind visibility.ValueKind, values []any) (visibility.ExpectedSet, error) {
	switch kind {
	case visibility.KindBool:
		out := make([]bool, 0, len(values))
		for _, v := range values {
			b, ok := v.(bool)
			if !ok {
				return visibility.ExpectedSet{}, fmt.Errorf("%v is not a bool", v)
			}
			out = append(out, b)
		}
		return visibility.Bools(out...), nil
	case visibility.KindInt:
		out := make([]int64, 0, len(values))
		for _, v := range values {
			i, ok := asInt(v)
			if !ok {
				return visibility.ExpectedSet{}, fmt.Errorf("%v is not an int", v)
			}
			out = append(out, i)
		}
		return visibility.Ints(out...), nil
	case visibility.KindFloat:
		out := make([]float64, 0, len(values))
		for _, v := range values {
			f, ok := asFloat(v)
			if !ok {
				return visibility.ExpectedSet{}, fmt.Errorf("%v is not a number", v)
			}
			out = append(out, f)
		}
		return visibility.Floats(out...), nil
	case visibility.KindString:
		out := make([]string, 0, len(values))
		for _, v := range values {
			out = append(out, asText(v))
		}
		return visibility.Strings(out...), nil
	case visibility.KindEnum:
		var (
			names   []string
			indices []int
		)
		for _, v := range values {
			if s, ok := v.(string); ok {
				names = append(names, s)
				continue
			}
			i, ok := asInt(v)
			if !ok || i < 0 {
				return visibility.ExpectedSet{}, fmt.Errorf("%v is not an enum label or index", v)
			}
			indices = append(indices, int(i))
		}
		if len(names) > 0 && len(indices) > 0 {
			return visibility.ExpectedSet{}, errors.New("enum labels and indices cannot be mixed")
		}
		if len(indices) > 0 {
			return visibility.EnumIndices(indices...), nil
		}
		return visibility.EnumNames(names...), nil
	default:
		return visibility.ExpectedSet{}, fmt.Errorf("unsupported kind %s", kind)
	}
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
