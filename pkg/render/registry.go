package render

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-showif/pkg/inspector"
)

// ErrRendererNotFound is returned for formats nobody registered.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Registry maps output formats to renderers. Format names are matched
// case-insensitively. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Renderer
}

// NewRegistry creates a registry holding renderers. Duplicate or unnamed
// renderers panic.
func NewRegistry(renderers ...Renderer) *Registry {
	r := &Registry{byName: make(map[string]Renderer, len(renderers))}
	for _, renderer := range renderers {
		r.MustRegister(renderer)
	}
	return r
}

func formatKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds renderer under its Name().
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: nil renderer")
	}
	key := formatKey(renderer.Name())
	if key == "" {
		return errors.New("render: renderer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[key]; taken {
		return fmt.Errorf("render: format %q already registered", key)
	}
	r.byName[key] = renderer
	return nil
}

func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get returns the renderer for a format.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byName[formatKey(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// Render renders layout in the named format and reports the content type.
func (r *Registry) Render(ctx context.Context, name string, layout inspector.Layout, options RenderOptions) ([]byte, string, error) {
	renderer, err := r.Get(name)
	if err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	out, err := renderer.Render(ctx, layout, options)
	if err != nil {
		return nil, "", fmt.Errorf("render: %s: %w", formatKey(name), err)
	}
	return out, renderer.ContentType(), nil
}

// List returns the registered format names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.byName))
}

func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}
