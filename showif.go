// Package showif evaluates ShowIf conditional-visibility rules and lays out
// objects whose fields carry them.
//
// The building blocks live in sub-packages: visibility holds the evaluator,
// expr the rule syntax, model and uischema the inspected objects, inspector
// the layout pass and renderers the output formats. This package wires the
// common paths together.
package showif

import (
	"context"
	"io"
	"io/fs"

	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/render"
	"github.com/goliatone/go-showif/pkg/renderers/html"
	"github.com/goliatone/go-showif/pkg/renderers/text"
	"github.com/goliatone/go-showif/pkg/visibility"
	"github.com/goliatone/go-showif/pkg/visibility/expr"
)

// RenderOptions aliases render.RenderOptions for callers of Render.
type RenderOptions = render.RenderOptions

// Evaluate parses ruleText and evaluates it for the field at fieldPath. Only
// syntax errors are returned as errors; evaluation failures are error
// verdicts.
func Evaluate(ruleText, fieldPath string, resolver visibility.FieldResolver) (visibility.Verdict, error) {
	rule, err := expr.Parse(ruleText)
	if err != nil {
		return visibility.Verdict{}, err
	}
	return visibility.Evaluate(rule, fieldPath, resolver), nil
}

// Inspect lays out obj with a default inspector configured by options.
func Inspect(obj *model.Object, options ...inspector.Option) inspector.Layout {
	return inspector.New(options...).Inspect(obj)
}

// NewRegistry returns a registry holding the text and HTML renderers. The
// text renderer picks its colour profile from out; pass nil for plain text.
func NewRegistry(out io.Writer) (*render.Registry, error) {
	var textOpts []text.Option
	if out != nil {
		textOpts = append(textOpts, text.WithOutput(out))
	}
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(text.New(textOpts...), htmlRenderer), nil
}

// Render inspects obj and renders the layout with the named built-in
// renderer ("text" or "html").
func Render(ctx context.Context, obj *model.Object, format string, opts RenderOptions) ([]byte, error) {
	registry, err := NewRegistry(nil)
	if err != nil {
		return nil, err
	}
	out, _, err := registry.Render(ctx, format, Inspect(obj), opts)
	return out, err
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// or extend them.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
