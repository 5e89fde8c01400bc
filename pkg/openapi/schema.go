package openapi

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/visibility"
	"github.com/goliatone/go-showif/pkg/visibility/expr"
)

const (
	showIfExtensionKey = "x-showif"
	orderExtensionKey  = "x-order"
)

func convertObject(name string, schema *openapi3.Schema, cfg Options) (*model.Object, error) {
	if kind := schemaType(schema); kind != "" && kind != openapi3.TypeObject {
		return nil, fmt.Errorf("%w: %q is a %s, not an object", ErrUnsupportedSchema, name, kind)
	}

	obj := &model.Object{Name: name, Type: name}
	if schema.Title != "" {
		obj.Metadata = map[string]string{"title": schema.Title}
	}

	fields, err := convertProperties(name, schema, nil, cfg)
	if err != nil {
		return nil, err
	}
	obj.Fields = fields
	model.SortFields(obj.Fields)
	return obj, nil
}

// convertProperties maps the properties of an object schema. values carries
// per-instance overrides (array elements) keyed by property name.
func convertProperties(parent string, schema *openapi3.Schema, values map[string]any, cfg Options) ([]model.Field, error) {
	properties := collectProperties(schema)
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]model.Field, 0, len(names))
	for _, name := range names {
		ref := properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		path := model.JoinPath(parent, name)
		value, hasValue := values[name]
		field, err := convertField(name, path, ref.Value, value, hasValue, cfg)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func convertField(name, path string, schema *openapi3.Schema, value any, hasValue bool, cfg Options) (model.Field, error) {
	field := model.Field{
		Name:        name,
		Label:       schema.Title,
		Description: schema.Description,
	}
	if field.Label == "" && name != "" && cfg.Labeler != nil {
		field.Label = cfg.Labeler(name)
	}

	fieldType, err := fieldTypeOf(schema)
	if err != nil {
		return model.Field{}, fmt.Errorf("%w: property %q: %v", ErrUnsupportedSchema, path, err)
	}
	field.Type = fieldType
	if fieldType == model.FieldTypeEnum {
		for _, entry := range schema.Enum {
			field.EnumNames = append(field.EnumNames, fmt.Sprint(entry))
		}
	}

	if order, ok := schema.Extensions[orderExtensionKey]; ok {
		n, ok := toOrder(order)
		if !ok {
			return model.Field{}, fmt.Errorf("openapi: property %q: %s must be an integer, got %v", path, orderExtensionKey, order)
		}
		field.Order = n
	}

	rules, err := extractRules(schema.Extensions[showIfExtensionKey])
	if err != nil {
		return model.Field{}, fmt.Errorf("openapi: property %q: %w", path, err)
	}
	field.Rules = rules

	if !hasValue {
		value = schema.Default
	}

	switch fieldType {
	case model.FieldTypeObject:
		overrides, _ := value.(map[string]any)
		nested, err := convertProperties(path, schema, overrides, cfg)
		if err != nil {
			return model.Field{}, err
		}
		field.Nested = nested
	case model.FieldTypeArray:
		items, err := convertItems(path, schema, value, cfg)
		if err != nil {
			return model.Field{}, err
		}
		field.Items = items
	default:
		if value != nil {
			coerced, err := model.CoerceValue(field, value)
			if err != nil {
				return model.Field{}, fmt.Errorf("openapi: property %q: %w", path, err)
			}
			field.Value = coerced
		}
	}
	return field, nil
}

// convertItems creates one item per element of the array value. Arrays
// without a value have no items.
func convertItems(path string, schema *openapi3.Schema, value any, cfg Options) ([]model.Field, error) {
	elements, ok := value.([]any)
	if !ok || len(elements) == 0 {
		return nil, nil
	}
	if schema.Items == nil || schema.Items.Value == nil {
		return nil, fmt.Errorf("%w: array %q has no items schema", ErrUnsupportedSchema, path)
	}

	items := make([]model.Field, 0, len(elements))
	for idx, element := range elements {
		item, err := convertField("", model.IndexPath(path, idx), schema.Items.Value, element, true, cfg)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func fieldTypeOf(schema *openapi3.Schema) (model.FieldType, error) {
	switch kind := schemaType(schema); kind {
	case openapi3.TypeBoolean:
		return model.FieldTypeBoolean, nil
	case openapi3.TypeInteger:
		return model.FieldTypeInteger, nil
	case openapi3.TypeNumber:
		return model.FieldTypeNumber, nil
	case openapi3.TypeString:
		if len(schema.Enum) > 0 {
			return model.FieldTypeEnum, nil
		}
		return model.FieldTypeString, nil
	case openapi3.TypeArray:
		return model.FieldTypeArray, nil
	case openapi3.TypeObject:
		return model.FieldTypeObject, nil
	case "":
		if len(collectProperties(schema)) > 0 {
			return model.FieldTypeObject, nil
		}
		return "", fmt.Errorf("schema has no type")
	default:
		return "", fmt.Errorf("type %q is not supported", kind)
	}
}

// schemaType returns the first non-null declared type.
func schemaType(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil {
		return ""
	}
	for _, kind := range schema.Type.Slice() {
		if kind != openapi3.TypeNull {
			return kind
		}
	}
	return ""
}

// collectProperties merges the schema's own properties with those declared
// through allOf. Direct properties win.
func collectProperties(schema *openapi3.Schema) openapi3.Schemas {
	out := make(openapi3.Schemas, len(schema.Properties))
	for _, ref := range schema.AllOf {
		if ref == nil || ref.Value == nil {
			continue
		}
		for name, property := range collectProperties(ref.Value) {
			out[name] = property
		}
	}
	for name, property := range schema.Properties {
		out[name] = property
	}
	return out
}

func extractRules(raw any) ([]visibility.Rule, error) {
	var texts []string
	switch value := raw.(type) {
	case nil:
		return nil, nil
	case string:
		texts = []string{value}
	case []any:
		for _, entry := range value {
			text, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("%s entries must be strings, got %T", showIfExtensionKey, entry)
			}
			texts = append(texts, text)
		}
	case []string:
		texts = value
	default:
		return nil, fmt.Errorf("%s must be a string or a list of strings, got %T", showIfExtensionKey, raw)
	}

	rules := make([]visibility.Rule, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		rule, err := expr.Parse(text)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func toOrder(raw any) (int, bool) {
	switch value := raw.(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		if value != math.Trunc(value) {
			return 0, false
		}
		return int(value), true
	default:
		return 0, false
	}
}
