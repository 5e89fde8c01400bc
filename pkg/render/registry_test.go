package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/render"
)

type stubRenderer struct {
	name string
	err  error
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/" + s.name }

func (s stubRenderer) Render(_ context.Context, layout inspector.Layout, opts render.RenderOptions) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.name + ":" + opts.TitleFor(layout.Title)), nil
}

func TestRegistryRender(t *testing.T) {
	t.Parallel()

	registry := render.NewRegistry(stubRenderer{name: "b"}, stubRenderer{name: "a"})
	if diff := cmp.Diff([]string{"a", "b"}, registry.List()); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("a") || registry.Has("c") {
		t.Fatalf("unexpected Has results")
	}

	out, contentType, err := registry.Render(context.Background(), "a", inspector.Layout{Title: "Door"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if string(out) != "a:Door" || contentType != "text/a" {
		t.Fatalf("unexpected output %q (%s)", out, contentType)
	}

	out, _, err = registry.Render(context.Background(), "b", inspector.Layout{Title: "Door"}, render.RenderOptions{Title: "Gate"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if string(out) != "b:Gate" {
		t.Fatalf("expected title override, got %q", out)
	}
}

func TestRegistryErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	registry := render.NewRegistry(stubRenderer{name: "broken", err: boom})

	if _, err := registry.Get("missing"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if _, _, err := registry.Render(context.Background(), "broken", inspector.Layout{}, render.RenderOptions{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped renderer error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := registry.Render(ctx, "broken", inspector.Layout{}, render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if err := registry.Register(stubRenderer{name: "broken"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected unnamed renderer to fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected NewRegistry to panic on duplicates")
		}
	}()
	render.NewRegistry(stubRenderer{name: "x"}, stubRenderer{name: "x"})
}

func TestRegistry_FormatNamesIgnoreCase(t *testing.T) {
	t.Parallel()

	registry := render.NewRegistry(stubRenderer{name: "Text"})
	if !registry.Has("TEXT") || !registry.Has(" text ") {
		t.Fatalf("expected case-insensitive lookup, got %v", registry.List())
	}
	if diff := cmp.Diff([]string{"text"}, registry.List()); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}
	out, _, err := registry.Render(context.Background(), "Text", inspector.Layout{Title: "Door"}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if string(out) != "Text:Door" {
		t.Fatalf("unexpected output %q", out)
	}
}
