package jsondoc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/visibility"
)

// FromObject snapshots the current values of obj into a document. Enum
// fields are written as their label and declared on the document, so the
// result resolves exactly like the object does.
func FromObject(obj *model.Object) (*Document, error) {
	doc, err := New(nil)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return doc, nil
	}

	err = obj.Walk(func(path string, _ int, field *model.Field) error {
		switch field.Type {
		case model.FieldTypeObject:
			if len(field.Nested) == 0 {
				return doc.Set(path, map[string]any{})
			}
			return nil
		case model.FieldTypeArray:
			if len(field.Items) == 0 {
				return doc.Set(path, []any{})
			}
			return nil
		}

		resolved := model.ResolveField(*field)
		switch resolved.Kind {
		case visibility.KindBool:
			return doc.Set(path, resolved.Bool)
		case visibility.KindInt:
			return doc.Set(path, resolved.Int)
		case visibility.KindFloat:
			return doc.setFloat(path, resolved.Float)
		case visibility.KindString:
			return doc.Set(path, resolved.String)
		case visibility.KindEnum:
			var value any = resolved.EnumIndex
			if name, ok := resolved.EnumName(); ok {
				value = name
			}
			if err := doc.Set(path, value); err != nil {
				return err
			}
			doc.enums[path] = resolved.EnumNames
			return nil
		default:
			return nil
		}
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// setFloat keeps a decimal point on integral values so they resolve as
// floats again.
func (d *Document) setFloat(path string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("jsondoc: set %q: %v is not representable in json", path, value)
	}
	raw := strconv.FormatFloat(value, 'g', -1, 64)
	if !strings.ContainsAny(raw, ".eE") {
		raw += ".0"
	}
	jsonPath, err := gjsonPath(path)
	if err != nil {
		return fmt.Errorf("jsondoc: set %q: %w", path, err)
	}
	updated, err := sjson.SetRawBytes(d.data, jsonPath, []byte(raw))
	if err != nil {
		return fmt.Errorf("jsondoc: set %q: %w", path, err)
	}
	d.data = updated
	return nil
}
