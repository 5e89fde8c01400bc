package pongo_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/goliatone/go-showif/pkg/render/template/pongo"
)

func newEngine(t *testing.T, options ...pongo.Option) *pongo.Engine {
	t.Helper()
	options = append([]pongo.Option{pongo.WithFS(os.DirFS("testdata/templates"))}, options...)
	engine, err := pongo.New(options...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	var buf bytes.Buffer
	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Hello Ada!" {
		t.Fatalf("unexpected result %q", result)
	}
	if buf.String() != result {
		t.Fatalf("writer mismatch: %q", buf.String())
	}
}

func TestEngine_RenderDispatchesInlineContent(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render("{{ count }} rows", map[string]any{"count": 3})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "3 rows" {
		t.Fatalf("unexpected result %q", result)
	}

	result, err = engine.Render("hello.tpl", struct {
		Name string `json:"name"`
	}{Name: "Grace"})
	if err != nil {
		t.Fatalf("render struct data: %v", err)
	}
	if result != "Hello Grace!" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "staging" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		s, _ := input.(string)
		return strings.ToUpper(s) + "!", nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatal("expected duplicate filter error")
	}

	result, err := engine.RenderString(`{{ word|shout }} {{ height|px }} [{{ pad|trim }}]`, map[string]any{
		"word":   "hey",
		"height": 56.0,
		"pad":    "  x  ",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "HEY! 56px [x]" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_Errors(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatal("expected error without template source")
	}

	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatal("expected missing template error")
	}
	if _, err := engine.RenderString("{% if %}", nil); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := engine.RenderString("{{ x }}", []string{"not", "an", "object"}); err == nil {
		t.Fatal("expected data conversion error")
	}
}
