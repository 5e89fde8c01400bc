package model

import "github.com/goliatone/go-showif/pkg/visibility"

// FieldType is the declared kind of an inspected field.
type FieldType string

const (
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeString  FieldType = "string"
	FieldTypeEnum    FieldType = "enum"
	FieldTypeObject  FieldType = "object"
	FieldTypeArray   FieldType = "array"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeBoolean, FieldTypeInteger, FieldTypeNumber, FieldTypeString,
		FieldTypeEnum, FieldTypeObject, FieldTypeArray:
		return true
	default:
		return false
	}
}

// IsContainer reports whether fields of this type hold children instead of a value.
func (t FieldType) IsContainer() bool {
	return t == FieldTypeObject || t == FieldTypeArray
}

// ValueKind maps the field type onto the kind the evaluator compares.
func (t FieldType) ValueKind() visibility.ValueKind {
	switch t {
	case FieldTypeBoolean:
		return visibility.KindBool
	case FieldTypeInteger:
		return visibility.KindInt
	case FieldTypeNumber:
		return visibility.KindFloat
	case FieldTypeString:
		return visibility.KindString
	case FieldTypeEnum:
		return visibility.KindEnum
	default:
		return visibility.KindUnknown
	}
}

// Field is a single entry of the inspected object. Rules are the ShowIf
// conditions attached to the field; the inspector evaluates one of them.
type Field struct {
	Name        string            `json:"name"`
	Label       string            `json:"label,omitempty"`
	Description string            `json:"description,omitempty"`
	Type        FieldType         `json:"type"`
	Value       any               `json:"value,omitempty"`
	EnumNames   []string          `json:"enumNames,omitempty"`
	Nested      []Field           `json:"nested,omitempty"`
	Items       []Field           `json:"items,omitempty"`
	Rules       []visibility.Rule `json:"-"`
	Order       int               `json:"order,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// DisplayLabel returns the label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// HasRules reports whether any ShowIf rule is attached.
func (f Field) HasRules() bool { return len(f.Rules) > 0 }

// Object is the root of an inspected tree.
type Object struct {
	Name     string            `json:"name"`
	Type     string            `json:"type,omitempty"`
	Fields   []Field           `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
