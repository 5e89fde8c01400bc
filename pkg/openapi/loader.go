package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-showif/pkg/model"
)

var (
	// ErrSchemaNotFound is returned when the requested component schema is missing.
	ErrSchemaNotFound = errors.New("openapi: schema not found")
	// ErrUnsupportedSchema is returned for schemas that cannot become an object.
	ErrUnsupportedSchema = errors.New("openapi: unsupported schema")
)

// Options configures LoadObject.
type Options struct {
	// Validate runs the kin-openapi document validation before mapping.
	Validate bool

	// ExternalRefs allows $ref values that point outside the document.
	ExternalRefs bool

	// Labeler derives labels for properties without a title. Nil leaves
	// them empty.
	Labeler model.Labeler
}

// Option mutates Options.
type Option func(*Options)

// WithValidation toggles document validation.
func WithValidation(enabled bool) Option {
	return func(opts *Options) {
		opts.Validate = enabled
	}
}

// WithExternalRefs allows references to external documents.
func WithExternalRefs() Option {
	return func(opts *Options) {
		opts.ExternalRefs = true
	}
}

// WithLabeler overrides how missing labels are derived.
func WithLabeler(labeler model.Labeler) Option {
	return func(opts *Options) {
		opts.Labeler = labeler
	}
}

func newOptions(options ...Option) Options {
	cfg := Options{Validate: true, Labeler: model.DefaultLabeler}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// LoadObject parses an OpenAPI document (JSON or YAML) and converts the
// component schema named schemaName into an object.
func LoadObject(ctx context.Context, data []byte, schemaName string, options ...Option) (*model.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	if schemaName == "" {
		return nil, errors.New("openapi: schema name is required")
	}
	cfg := newOptions(options...)

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.ExternalRefs,
	}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.Validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	if doc.Components == nil {
		return nil, fmt.Errorf("%w: %q (document has no components)", ErrSchemaNotFound, schemaName)
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, schemaName)
	}
	return convertObject(schemaName, ref.Value, cfg)
}

// LoadObjectFS reads name from fsys and delegates to LoadObject.
func LoadObjectFS(ctx context.Context, fsys fs.FS, name, schemaName string, options ...Option) (*model.Object, error) {
	if fsys == nil {
		return nil, errors.New("openapi: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("openapi: fs path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return LoadObject(ctx, data, schemaName, options...)
}
