package showif_test

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-showif"
	"github.com/goliatone/go-showif/pkg/render"
	"github.com/goliatone/go-showif/pkg/testsupport"
	"github.com/goliatone/go-showif/pkg/visibility"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	resolver := visibility.MapResolver{
		"mode":          visibility.EnumField(1, "Off", "Burst"),
		"waves[0].used": visibility.BoolField(true),
	}

	verdict, err := showif.Evaluate(`mode == "Burst"`, "count", resolver)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !verdict.IsVisible() {
		t.Fatalf("expected visible, got %v", verdict)
	}

	verdict, err = showif.Evaluate("used", "waves[0].delay", resolver)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !verdict.IsVisible() {
		t.Fatalf("expected sibling lookup to succeed, got %v", verdict)
	}

	if _, err := showif.Evaluate("a || b", "x", resolver); err == nil {
		t.Fatalf("expected a syntax error")
	}
}

func TestInspectAndRender(t *testing.T) {
	t.Parallel()

	obj := testsupport.LoadObject(t, filepath.Join("testdata", "door.yaml"))
	layout := showif.Inspect(obj)

	var states []string
	for _, row := range layout.Rows {
		states = append(states, row.Path+"="+row.State.String())
	}
	want := []string{"locked=visible", "keyId=visible", "code=hidden"}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}

	out, err := showif.Render(testsupport.Context(t), obj, "text", showif.RenderOptions{ShowRules: true})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if got, want := string(out), "Front door\n  Locked: true\n  Key Id: gold [locked]\n"; got != want {
		t.Fatalf("unexpected text output:\n%s\nwant:\n%s", got, want)
	}
}

func TestNewRegistry(t *testing.T) {
	t.Parallel()

	registry, err := showif.NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"html", "text"}, registry.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}

	_, err = showif.Render(testsupport.Context(t), nil, "pdf", showif.RenderOptions{})
	if err == nil {
		t.Fatalf("expected unknown renderer error")
	}
	var _ render.Renderer = mustGet(t, registry, "html")
}

func mustGet(t *testing.T, registry *render.Registry, name string) render.Renderer {
	t.Helper()
	r, err := registry.Get(name)
	if err != nil {
		t.Fatalf("Get(%q): %v", name, err)
	}
	return r
}

func TestEmbeddedTemplates(t *testing.T) {
	t.Parallel()

	if _, err := fs.Stat(showif.EmbeddedTemplates(), "layout.tpl"); err != nil {
		t.Fatalf("expected layout.tpl in embedded templates: %v", err)
	}
}
