package jsondoc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/visibility"
)

// ErrInvalidJSON is returned when the document is not valid JSON.
var ErrInvalidJSON = errors.New("jsondoc: invalid json")

// Document is a JSON value addressed by field paths. Resolve is safe for
// concurrent use; Set is not and must not race with Resolve.
type Document struct {
	data  []byte
	enums map[string][]string
}

// Option configures a Document.
type Option func(*Document)

// WithEnum declares the field at path as an enum with the given labels. An
// index written as `[]` (`items[].mode`) applies to every element.
func WithEnum(path string, names ...string) Option {
	return func(d *Document) {
		d.enums[path] = append([]string(nil), names...)
	}
}

// WithEnums declares several enum fields at once.
func WithEnums(enums map[string][]string) Option {
	return func(d *Document) {
		for path, names := range enums {
			d.enums[path] = append([]string(nil), names...)
		}
	}
}

// New parses data. An empty input is treated as an empty object.
func New(data []byte, opts ...Option) (*Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	doc := &Document{
		data:  append([]byte(nil), data...),
		enums: make(map[string][]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(doc)
		}
	}
	return doc, nil
}

// Raw returns a copy of the current document bytes.
func (d *Document) Raw() []byte {
	return append([]byte(nil), d.data...)
}

// Resolve implements visibility.FieldResolver. Objects, arrays and nulls
// resolve with KindUnknown.
func (d *Document) Resolve(path string) (visibility.ResolvedField, bool) {
	jsonPath, err := gjsonPath(path)
	if err != nil {
		return visibility.ResolvedField{}, false
	}
	result := gjson.GetBytes(d.data, jsonPath)
	if !result.Exists() {
		return visibility.ResolvedField{}, false
	}

	if names, ok := d.enumNames(path); ok {
		return visibility.EnumField(enumIndex(result, names), names...), true
	}

	switch result.Type {
	case gjson.True, gjson.False:
		return visibility.BoolField(result.Bool()), true
	case gjson.String:
		return visibility.StringField(result.String()), true
	case gjson.Number:
		if i, err := strconv.ParseInt(result.Raw, 10, 64); err == nil {
			return visibility.IntField(i), true
		}
		return visibility.FloatField(result.Float()), true
	default:
		return visibility.ResolvedField{Kind: visibility.KindUnknown}, true
	}
}

// Set writes value at path, creating intermediate objects as needed. Enum
// fields accept a label or an index and are stored as given. Floats keep a
// fractional part so they resolve as floats again.
func (d *Document) Set(path string, value any) error {
	switch v := value.(type) {
	case float64:
		return d.setFloat(path, v)
	case float32:
		return d.setFloat(path, float64(v))
	}
	jsonPath, err := gjsonPath(path)
	if err != nil {
		return fmt.Errorf("jsondoc: set %q: %w", path, err)
	}
	if names, ok := d.enumNames(path); ok {
		if idx := enumIndex(valueResult(value), names); idx < 0 {
			return fmt.Errorf("jsondoc: set %q: %v is not one of %s", path, value, strings.Join(names, ", "))
		}
	}
	updated, err := sjson.SetBytes(d.data, jsonPath, value)
	if err != nil {
		return fmt.Errorf("jsondoc: set %q: %w", path, err)
	}
	d.data = updated
	return nil
}

func (d *Document) enumNames(path string) ([]string, bool) {
	if names, ok := d.enums[path]; ok {
		return names, true
	}
	names, ok := d.enums[model.WildcardPath(path)]
	return names, ok
}

func enumIndex(result gjson.Result, names []string) int {
	switch result.Type {
	case gjson.String:
		for idx, name := range names {
			if name == result.Str {
				return idx
			}
		}
	case gjson.Number:
		idx, err := strconv.Atoi(result.Raw)
		if err == nil && idx >= 0 && idx < len(names) {
			return idx
		}
	}
	return -1
}

func valueResult(value any) gjson.Result {
	switch v := value.(type) {
	case string:
		return gjson.Result{Type: gjson.String, Str: v}
	case int:
		return gjson.Result{Type: gjson.Number, Raw: strconv.Itoa(v)}
	case int64:
		return gjson.Result{Type: gjson.Number, Raw: strconv.FormatInt(v, 10)}
	default:
		return gjson.Result{}
	}
}

// gjsonPath converts `a.b[2].c` into gjson's `a.b.2.c`, escaping characters
// gjson treats as operators.
func gjsonPath(path string) (string, error) {
	segments, err := model.ParsePath(path)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		parts = append(parts, escape(segment.Name))
		for _, idx := range segment.Indices {
			parts = append(parts, strconv.Itoa(idx))
		}
	}
	return strings.Join(parts, "."), nil
}

func escape(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '*', '?', '#', '@', '|', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
