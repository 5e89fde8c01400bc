package html_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/render"
	"github.com/goliatone/go-showif/pkg/renderers/html"
	"github.com/goliatone/go-showif/pkg/uischema"
	"github.com/goliatone/go-showif/pkg/visibility"
)

func demoLayout(t *testing.T) inspector.Layout {
	t.Helper()
	obj, err := uischema.DemoObject()
	if err != nil {
		t.Fatalf("demo object: %v", err)
	}
	return inspector.New().Inspect(obj)
}

func TestRenderer_DemoLayout(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.Name() != "html" || !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("unexpected identity %s %s", r.Name(), r.ContentType())
	}

	out, err := r.Render(context.Background(), demoLayout(t), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	for _, want := range []string{
		`<section class="showif-inspector" data-object="Enemy Spawner" style="min-height: 256px">`,
		`<h2 class="showif-title">Enemy Spawner</h2>`,
		`data-path="burstCount" data-depth="0" style="height: 18px"`,
		`<label>Enemies per burst</label> <span class="showif-value">5</span>`,
		`class="showif-row showif-error" data-path="warning"`,
		`role="alert">enum value(s) &quot;Paused&quot; not found on &quot;mode&quot;</div>`,
		`style="height: 56px"`,
		`<p class="showif-help">Shown when the spawner is misconfigured.</p>`,
		`data-path="waves[1].delay" data-depth="2"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, `data-path="spawnRate"`) || strings.Contains(got, " hidden>") {
		t.Fatalf("hidden rows should be skipped:\n%s", got)
	}
	if strings.Contains(got, "showif-rule") {
		t.Fatalf("rules should only render on request:\n%s", got)
	}
}

func TestRenderer_ShowHiddenAndRules(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), demoLayout(t), render.RenderOptions{ShowHidden: true, ShowRules: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	if !strings.Contains(got, `data-path="spawnRate" data-depth="0" style="height: 0px" hidden>`) {
		t.Fatalf("expected hidden spawnRate row:\n%s", got)
	}
	if !strings.Contains(got, `<code class="showif-rule">mode:enum == &quot;Burst&quot;</code>`) {
		t.Fatalf("expected escaped rule text:\n%s", got)
	}
}

func TestRenderer_SanitisesLabels(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	obj := &model.Object{
		Name: "Unsafe <Object>",
		Fields: []model.Field{
			{
				Name:  "flag",
				Label: `<script>alert(1)</script><b>Bold</b> <a href="javascript:x">link</a>`,
				Type:  model.FieldTypeBoolean,
				Value: true,
			},
			{
				Name:  "note",
				Type:  model.FieldTypeString,
				Value: "<img src=x onerror=alert(1)>",
				Rules: []visibility.Rule{visibility.ShowIf("flag")},
			},
		},
	}
	out, err := r.Render(context.Background(), inspector.New().Inspect(obj), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)

	if strings.Contains(got, "<script>") || strings.Contains(got, "javascript:") || strings.Contains(got, "<img") {
		t.Fatalf("unsafe markup leaked:\n%s", got)
	}
	if !strings.Contains(got, "<label><b>Bold</b> link</label>") {
		t.Fatalf("expected inline markup to survive:\n%s", got)
	}
	if !strings.Contains(got, `data-object="Unsafe &lt;Object&gt;"`) {
		t.Fatalf("expected escaped object name:\n%s", got)
	}
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"layout.tpl": {Data: []byte(`{{ title }}:{% for row in rows %} {{ row.path }}={{ row.state }}{% endfor %}`)},
	}
	r, err := html.New(html.WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	obj := &model.Object{
		Name: "Tiny",
		Fields: []model.Field{
			{Name: "on", Type: model.FieldTypeBoolean, Value: false},
			{Name: "extra", Type: model.FieldTypeString, Rules: []visibility.Rule{visibility.ShowIf("on")}},
		},
	}
	out, err := r.Render(context.Background(), inspector.New().Inspect(obj), render.RenderOptions{ShowHidden: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "Tiny: on=visible extra=hidden" {
		t.Fatalf("unexpected output %q", got)
	}
}

type recordingEngine struct {
	name string
	data any
}

func (e *recordingEngine) Render(name string, data any, out ...io.Writer) (string, error) {
	return e.RenderTemplate(name, data, out...)
}

func (e *recordingEngine) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	e.name = name
	e.data = data
	return "ok", nil
}

func (e *recordingEngine) RenderString(string, any, ...io.Writer) (string, error) { return "", nil }

func (e *recordingEngine) RegisterFilter(string, func(any, any) (any, error)) error { return nil }

func (e *recordingEngine) GlobalContext(any) error { return nil }

func TestRenderer_InjectedEngine(t *testing.T) {
	engine := &recordingEngine{}
	r, err := html.New(html.WithTemplateRenderer(engine))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := r.Render(context.Background(), demoLayout(t), render.RenderOptions{Title: "Override"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "ok" || engine.name != "layout" {
		t.Fatalf("unexpected engine call %q %q", out, engine.name)
	}
	data, ok := engine.data.(map[string]any)
	if !ok {
		t.Fatalf("expected map data, got %T", engine.data)
	}
	if data["title"] != "Override" {
		t.Fatalf("expected title override, got %v", data["title"])
	}
	if rows := data["rows"].([]any); len(rows) != 11 {
		t.Fatalf("expected 11 drawn rows, got %d", len(rows))
	}
}

func TestSanitizeLabel(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                                  "",
		"  Plain  ":                         "Plain",
		"<em>Speed</em> <small>m/s</small>": "<em>Speed</em> <small>m/s</small>",
		`<div onclick="x">Box</div>`:        "Box",
		"<script>alert(1)</script>":         "",
	}
	for input, want := range cases {
		if got := html.SanitizeLabel(input); got != want {
			t.Fatalf("SanitizeLabel(%q) = %q, want %q", input, got, want)
		}
	}
}
