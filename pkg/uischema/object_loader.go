package uischema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/visibility"
	"github.com/goliatone/go-showif/pkg/visibility/expr"
)

// ErrInvalidObject is returned when an object file fails validation.
var ErrInvalidObject = errors.New("uischema: invalid object")

type objectFile struct {
	Name     string            `json:"name" yaml:"name" validate:"required"`
	Type     string            `json:"type" yaml:"type"`
	Metadata map[string]string `json:"metadata" yaml:"metadata"`
	Fields   []fieldFile       `json:"fields" yaml:"fields" validate:"dive"`
}

type fieldFile struct {
	Name        string            `json:"name" yaml:"name"`
	Label       string            `json:"label" yaml:"label"`
	Description string            `json:"description" yaml:"description"`
	Type        string            `json:"type" yaml:"type" validate:"required,field_type"`
	Value       any               `json:"value" yaml:"value"`
	Enum        []string          `json:"enum" yaml:"enum" validate:"required_if=Type enum,dive,required"`
	Order       int               `json:"order" yaml:"order"`
	ShowIf      StringList        `json:"showIf" yaml:"showIf"`
	Rules       []RuleConfig      `json:"rules" yaml:"rules" validate:"dive"`
	Fields      []fieldFile       `json:"fields" yaml:"fields" validate:"dive"`
	Items       []fieldFile       `json:"items" yaml:"items" validate:"dive"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}

// LoadOption configures LoadObject.
type LoadOption func(*loadConfig)

type loadConfig struct {
	labeler model.Labeler
}

// WithLabeler overrides how labels are derived for fields without one. Pass
// nil to leave labels empty.
func WithLabeler(labeler model.Labeler) LoadOption {
	return func(cfg *loadConfig) {
		cfg.labeler = labeler
	}
}

// LoadObject parses a JSON or YAML object file. source names the file in
// error messages.
func LoadObject(data []byte, source string, opts ...LoadOption) (*model.Object, error) {
	cfg := loadConfig{labeler: model.DefaultLabeler}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var raw objectFile
	if err := decode(data, source, &raw); err != nil {
		return nil, err
	}
	if err := validatorInstance().Struct(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", source, convertValidationError(ErrInvalidObject, err))
	}

	obj := &model.Object{
		Name:     raw.Name,
		Type:     raw.Type,
		Metadata: cloneStrings(raw.Metadata),
	}
	if obj.Type == "" {
		obj.Type = raw.Name
	}

	fields, err := buildFields(raw.Fields, "", source, cfg, false)
	if err != nil {
		return nil, err
	}
	obj.Fields = fields
	model.SortFields(obj.Fields)
	return obj, nil
}

func buildFields(raw []fieldFile, parent, source string, cfg loadConfig, items bool) ([]model.Field, error) {
	out := make([]model.Field, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for idx, entry := range raw {
		path := model.JoinPath(parent, entry.Name)
		if items {
			path = model.IndexPath(parent, idx)
		} else {
			if err := validateName(entry.Name); err != nil {
				return nil, fmt.Errorf("%w: %s: field %d under %q: %v", ErrInvalidObject, source, idx, parent, err)
			}
			if _, dup := seen[entry.Name]; dup {
				return nil, fmt.Errorf("%w: %s: duplicate field %q", ErrInvalidObject, source, path)
			}
			seen[entry.Name] = struct{}{}
		}

		field, err := buildField(entry, path, source, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, field)
	}
	return out, nil
}

func buildField(entry fieldFile, path, source string, cfg loadConfig) (model.Field, error) {
	field := model.Field{
		Name:        entry.Name,
		Label:       entry.Label,
		Description: entry.Description,
		Type:        model.FieldType(entry.Type),
		EnumNames:   append([]string(nil), entry.Enum...),
		Order:       entry.Order,
		Metadata:    cloneStrings(entry.Metadata),
	}
	if field.Label == "" && cfg.labeler != nil && field.Name != "" {
		field.Label = cfg.labeler(field.Name)
	}

	if entry.Value != nil {
		if field.Type.IsContainer() {
			return model.Field{}, fmt.Errorf("%w: %s: %s field %q cannot hold a value", ErrInvalidObject, source, field.Type, path)
		}
		value, err := model.CoerceValue(field, entry.Value)
		if err != nil {
			return model.Field{}, fmt.Errorf("%w: %s: field %q: %v", ErrInvalidObject, source, path, err)
		}
		field.Value = value
	}

	rules, err := compileRules(entry.ShowIf, entry.Rules)
	if err != nil {
		return model.Field{}, fmt.Errorf("uischema: %s: field %q: %w", source, path, err)
	}
	field.Rules = rules

	switch field.Type {
	case model.FieldTypeObject:
		nested, err := buildFields(entry.Fields, path, source, cfg, false)
		if err != nil {
			return model.Field{}, err
		}
		field.Nested = nested
	case model.FieldTypeArray:
		items, err := buildFields(entry.Items, path, source, cfg, true)
		if err != nil {
			return model.Field{}, err
		}
		field.Items = items
	default:
		if len(entry.Fields) > 0 || len(entry.Items) > 0 {
			return model.Field{}, fmt.Errorf("%w: %s: %s field %q cannot have children", ErrInvalidObject, source, field.Type, path)
		}
	}
	return field, nil
}

func compileRules(showIf StringList, configs []RuleConfig) ([]visibility.Rule, error) {
	var rules []visibility.Rule
	for _, text := range showIf {
		rule, err := expr.Parse(text)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	for _, cfg := range configs {
		rule, err := cfg.Rule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is required")
	}
	if strings.ContainsAny(name, ".[] ") {
		return fmt.Errorf("name %q may not contain '.', '[', ']' or spaces", name)
	}
	return nil
}

func cloneStrings(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
