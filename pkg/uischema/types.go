package uischema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-showif/pkg/visibility"
)

// Store keeps the overlays parsed by LoadFS keyed by object type. It is safe
// for concurrent readers once built.
type Store struct {
	objects map[string]ObjectConfig
}

// ObjectConfig is the overlay for one object type.
type ObjectConfig struct {
	ID     string
	Source string
	Title  string
	Fields map[string]FieldConfig
}

// FieldConfig customises a single field. Keys in ObjectConfig.Fields are
// field paths; `[]` in place of an index matches every array element.
type FieldConfig struct {
	Label        string            `json:"label,omitempty" yaml:"label,omitempty"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Order        *int              `json:"order,omitempty" yaml:"order,omitempty"`
	ShowIf       StringList        `json:"showIf,omitempty" yaml:"showIf,omitempty"`
	Rules        []RuleConfig      `json:"rules,omitempty" yaml:"rules,omitempty" validate:"dive"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	OriginalPath string            `json:"-" yaml:"-"`

	compiled []visibility.Rule
}

// CompiledRules returns the rules parsed from ShowIf and Rules at load time,
// in that order.
func (c FieldConfig) CompiledRules() []visibility.Rule {
	return append([]visibility.Rule(nil), c.compiled...)
}

// StringList decodes from either a single string or a list of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = appendNonEmpty(nil, single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("uischema: expected string or list of strings: %w", err)
	}
	*l = appendNonEmpty(nil, many...)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = appendNonEmpty(nil, node.Value)
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*l = appendNonEmpty(nil, many...)
		return nil
	default:
		return fmt.Errorf("uischema: line %d: expected string or list of strings", node.Line)
	}
}

func appendNonEmpty(dst []string, values ...string) []string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			dst = append(dst, trimmed)
		}
	}
	return dst
}

// NormalizeFieldPath trims whitespace and stray dots from an overlay key.
func NormalizeFieldPath(path string) string {
	trimmed := strings.Trim(strings.TrimSpace(path), ".")
	for strings.Contains(trimmed, "..") {
		trimmed = strings.ReplaceAll(trimmed, "..", ".")
	}
	return trimmed
}
