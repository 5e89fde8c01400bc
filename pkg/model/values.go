package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-showif/pkg/visibility"
)

// ErrInvalidValue is returned when a value cannot be coerced to a field type.
var ErrInvalidValue = errors.New("model: invalid value")

// CoerceValue converts value into the canonical Go representation of the
// field's declared type: bool, int64, float64, string, or an int enum index.
func CoerceValue(field Field, value any) (any, error) {
	switch field.Type {
	case FieldTypeBoolean:
		if b, ok := toBool(value); ok {
			return b, nil
		}
	case FieldTypeInteger:
		if i, ok := toInt(value); ok {
			return i, nil
		}
	case FieldTypeNumber:
		if f, ok := toFloat(value); ok {
			return f, nil
		}
	case FieldTypeString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case FieldTypeEnum:
		if idx := enumIndex(field.EnumNames, value); idx >= 0 {
			return idx, nil
		}
		return nil, fmt.Errorf("%w: %v is not one of %s", ErrInvalidValue, value, strings.Join(field.EnumNames, ", "))
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotAssignable, field.Type)
	}
	return nil, fmt.Errorf("%w: %v (%T) is not a %s", ErrInvalidValue, value, value, field.Type)
}

// ResolveField snapshots a field for the evaluator. Values that do not
// coerce to the declared type resolve to that type's zero value; enum values
// stored as an unknown label resolve to index -1.
func ResolveField(field Field) visibility.ResolvedField {
	switch field.Type {
	case FieldTypeBoolean:
		b, _ := toBool(field.Value)
		return visibility.BoolField(b)
	case FieldTypeInteger:
		i, _ := toInt(field.Value)
		return visibility.IntField(i)
	case FieldTypeNumber:
		f, _ := toFloat(field.Value)
		return visibility.FloatField(f)
	case FieldTypeString:
		s, _ := field.Value.(string)
		return visibility.StringField(s)
	case FieldTypeEnum:
		names := append([]string(nil), field.EnumNames...)
		return visibility.EnumField(EnumIndex(field), names...)
	default:
		return visibility.ResolvedField{Kind: visibility.KindUnknown}
	}
}

// EnumIndex returns the index of the field's current enum value, or -1.
// A nil value selects the first entry.
func EnumIndex(field Field) int {
	if field.Value == nil {
		if len(field.EnumNames) > 0 {
			return 0
		}
		return -1
	}
	return enumIndex(field.EnumNames, field.Value)
}

func enumIndex(names []string, value any) int {
	if name, ok := value.(string); ok {
		for idx, candidate := range names {
			if candidate == name {
				return idx
			}
		}
		if parsed, err := strconv.Atoi(name); err == nil && parsed >= 0 && parsed < len(names) {
			return parsed
		}
		return -1
	}
	idx, ok := toInt(value)
	if !ok || idx < 0 || idx >= int64(len(names)) {
		return -1
	}
	return int(idx)
}

func toBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	default:
		return false, false
	}
}

func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float32:
		return integral(float64(v))
	case float64:
		return integral(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func integral(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		if i, ok := toInt(value); ok {
			return float64(i), true
		}
		return 0, false
	}
}
