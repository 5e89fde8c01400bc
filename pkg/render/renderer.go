package render

import (
	"context"

	"github.com/goliatone/go-showif/pkg/inspector"
)

// Renderer converts an inspected Layout into bytes (text, HTML, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, layout inspector.Layout, options RenderOptions) ([]byte, error)
}
