package uischema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-showif/pkg/model"
)

// Decorator applies overlay configuration to objects. It implements
// model.Decorator.
type Decorator struct {
	store *Store
}

var _ model.Decorator = (*Decorator)(nil)

// NewDecorator builds a Decorator backed by store. A nil or empty store makes
// the decorator a no-op.
func NewDecorator(store *Store) *Decorator {
	return &Decorator{store: store}
}

// Decorate looks up the overlay by obj.Type (falling back to obj.Name) and
// applies it. Overlay rules replace the rules a field was loaded with. Keys
// that match no field are reported as errors naming the overlay file.
func (d *Decorator) Decorate(obj *model.Object) error {
	if d == nil || d.store.Empty() || obj == nil {
		return nil
	}

	cfg, ok := d.store.Object(obj.Type)
	if !ok {
		cfg, ok = d.store.Object(obj.Name)
	}
	if !ok {
		return nil
	}

	if cfg.Title != "" {
		if obj.Metadata == nil {
			obj.Metadata = make(map[string]string)
		}
		obj.Metadata["title"] = cfg.Title
	}

	matched := make(map[string]bool, len(cfg.Fields))
	reorder := false
	err := obj.Walk(func(path string, _ int, field *model.Field) error {
		key := path
		fieldCfg, ok := cfg.Fields[key]
		if !ok {
			key = model.WildcardPath(path)
			fieldCfg, ok = cfg.Fields[key]
		}
		if !ok {
			return nil
		}
		matched[key] = true
		if fieldCfg.Order != nil {
			reorder = true
		}
		applyFieldConfig(field, fieldCfg)
		return nil
	})
	if err != nil {
		return err
	}

	if unknown := unmatched(cfg.Fields, matched); len(unknown) > 0 {
		return fmt.Errorf("uischema: object %q (file %s) references unknown field(s) %s", cfg.ID, cfg.Source, strings.Join(unknown, ", "))
	}
	if reorder {
		model.SortFields(obj.Fields)
	}
	return nil
}

func applyFieldConfig(field *model.Field, cfg FieldConfig) {
	if cfg.Label != "" {
		field.Label = cfg.Label
	}
	if cfg.Description != "" {
		field.Description = cfg.Description
	}
	if cfg.Order != nil {
		field.Order = *cfg.Order
	}
	if rules := cfg.CompiledRules(); len(rules) > 0 {
		field.Rules = rules
	}
	if len(cfg.Metadata) > 0 {
		if field.Metadata == nil {
			field.Metadata = make(map[string]string, len(cfg.Metadata))
		}
		for k, v := range cfg.Metadata {
			field.Metadata[k] = v
		}
	}
}

func unmatched(fields map[string]FieldConfig, matched map[string]bool) []string {
	var out []string
	for key := range fields {
		if !matched[key] {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
