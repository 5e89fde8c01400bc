// Package html renders inspected layouts as an HTML fragment through a
// pongo2 template.
package html

import (
	"context"
	"errors"
	"io/fs"

	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/render"
	"github.com/goliatone/go-showif/pkg/render/template"
	"github.com/goliatone/go-showif/pkg/render/template/pongo"
)

const layoutTemplate = "layout"

// Option customises the renderer.
type Option func(*config)

type config struct {
	engine    template.TemplateRenderer
	templates fs.FS
}

// WithTemplateRenderer injects a custom engine. It must provide a "layout"
// template.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(cfg *config) {
		cfg.engine = engine
	}
}

// WithTemplatesFS replaces the bundled templates.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// Renderer implements render.Renderer.
type Renderer struct {
	engine template.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer, compiling against the bundled templates
// unless an engine or template filesystem is supplied.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	engine := cfg.engine
	if engine == nil {
		files := cfg.templates
		if files == nil {
			files = TemplatesFS()
		}
		var err error
		engine, err = pongo.New(pongo.WithFS(files))
		if err != nil {
			return nil, err
		}
	}
	return &Renderer{engine: engine}, nil
}

func (r *Renderer) Name() string        { return "html" }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render produces the HTML fragment. Labels and descriptions pass through
// SanitizeLabel; everything else is escaped by the template.
func (r *Renderer) Render(ctx context.Context, layout inspector.Layout, opts render.RenderOptions) ([]byte, error) {
	if r == nil || r.engine == nil {
		return nil, errors.New("html: renderer is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := r.engine.RenderTemplate(layoutTemplate, viewData(layout, opts))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

func viewData(layout inspector.Layout, opts render.RenderOptions) map[string]any {
	rows := make([]any, 0, len(layout.Rows))
	for _, row := range layout.Rows {
		if row.Hidden() && !opts.ShowHidden {
			continue
		}
		rows = append(rows, map[string]any{
			"path":        row.Path,
			"label":       SanitizeLabel(row.Label),
			"description": SanitizeLabel(row.Description),
			"value":       row.Value,
			"rule":        row.Rule,
			"state":       row.State.String(),
			"warning":     row.Warning,
			"height":      row.Height,
			"depth":       row.Depth,
			"hidden":      row.Hidden(),
		})
	}
	return map[string]any{
		"object":     layout.Object,
		"title":      opts.TitleFor(layout.Title),
		"height":     layout.Height(),
		"rows":       rows,
		"show_rules": opts.ShowRules,
	}
}
