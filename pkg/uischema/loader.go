package uischema

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

type overlayFile struct {
	Objects map[string]overlayObject `json:"objects" yaml:"objects"`
}

type overlayObject struct {
	Title  string                 `json:"title" yaml:"title"`
	Fields map[string]FieldConfig `json:"fields" yaml:"fields" validate:"dive"`
}

// LoadFS walks fsys and parses every JSON/YAML overlay file. When fsys is nil
// or holds no overlay files the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{objects: make(map[string]ObjectConfig)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}

		var doc overlayFile
		if err := decode(data, path, &doc); err != nil {
			return err
		}

		for objectID, raw := range doc.Objects {
			id := strings.TrimSpace(objectID)
			if id == "" {
				return fmt.Errorf("uischema: file %s defines an empty object id", path)
			}
			if _, exists := store.objects[id]; exists {
				return fmt.Errorf("uischema: duplicate object %q (file %s)", id, path)
			}

			cfg, err := normaliseObject(raw, id, path)
			if err != nil {
				return err
			}
			store.objects[id] = cfg
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Object returns the overlay for the given object type.
func (s *Store) Object(id string) (ObjectConfig, bool) {
	if s == nil {
		return ObjectConfig{}, false
	}
	cfg, ok := s.objects[id]
	return cfg, ok
}

// IDs lists the object types with overlays, sorted.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.objects))
	for id := range s.objects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any overlays.
func (s *Store) Empty() bool {
	return s == nil || len(s.objects) == 0
}

func normaliseObject(raw overlayObject, id, source string) (ObjectConfig, error) {
	if err := validatorInstance().Struct(raw); err != nil {
		return ObjectConfig{}, fmt.Errorf("uischema: object %q (file %s): %w", id, source, convertValidationError(ErrInvalidRule, err))
	}

	cfg := ObjectConfig{
		ID:     id,
		Source: source,
		Title:  raw.Title,
		Fields: make(map[string]FieldConfig, len(raw.Fields)),
	}
	for key, field := range raw.Fields {
		path := NormalizeFieldPath(key)
		if path == "" {
			return ObjectConfig{}, fmt.Errorf("uischema: object %q (file %s) field key %q normalises to empty path", id, source, key)
		}
		if _, exists := cfg.Fields[path]; exists {
			return ObjectConfig{}, fmt.Errorf("uischema: object %q (file %s) defines duplicate field path %q", id, source, path)
		}

		rules, err := compileRules(field.ShowIf, field.Rules)
		if err != nil {
			return ObjectConfig{}, fmt.Errorf("uischema: object %q (file %s) field %q: %w", id, source, path, err)
		}
		field.compiled = rules
		field.OriginalPath = key
		field.Metadata = cloneStrings(field.Metadata)
		cfg.Fields[path] = field
	}
	return cfg, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
