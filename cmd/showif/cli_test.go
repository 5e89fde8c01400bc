package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-showif"
	"github.com/goliatone/go-showif/internal/httpapi"
	"github.com/goliatone/go-showif/pkg/api"
	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/render"
	"github.com/goliatone/go-showif/pkg/renderers/tui"
	"github.com/goliatone/go-showif/pkg/visibility"
)

const doorYAML = `name: Door
fields:
  - name: locked
    type: boolean
    value: true
  - name: keyId
    type: string
    value: gold
    showIf: locked
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func newTestServer(t *testing.T) string {
	t.Helper()
	registry, err := showif.NewRegistry(nil)
	require.NoError(t, err)
	srv := httptest.NewServer(httpapi.New(httpapi.WithRenderers(registry)))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion, originalCommit, originalDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = originalVersion, originalCommit, originalDate
	})
	version, commit, date = "1.2.3", "abcdef1", "2026-10-16"

	out, err := run(t, "version")
	require.NoError(t, err)
	require.Equal(t, "showif 1.2.3\ncommit: abcdef1\nbuilt: 2026-10-16\n", out)
}

func TestEvalDocument(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "values",
			args: []string{"eval", "count:int > 3", "--field", "reward", "--values", `{"count": 4}`},
			want: "visible\n",
		},
		{
			name: "set overrides values",
			args: []string{"eval", "count:int > 3", "--field", "reward", "--values", `{"count": 4}`, "--set", "count=1"},
			want: "hidden\n",
		},
		{
			name: "set integral float",
			args: []string{"eval", "ratio:float >= 0.5", "--field", "reward", "--values", `{"ratio": 0.25}`, "--set", "ratio=2.0"},
			want: "visible\n",
		},
		{
			name: "declared enum",
			args: []string{"eval", "mode:enum == Burst", "--field", "rate", "--values", `{"mode": 0}`, "--enum", "mode=Off,Burst", "--set", "mode=Burst"},
			want: "visible\n",
		},
		{
			name: "sibling lookup",
			args: []string{"eval", "useDelay", "--field", "waves[1].delay", "--values", `{"waves": [{"useDelay": true}, {"useDelay": false}]}`},
			want: "hidden\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEvalValuesFile(t *testing.T) {
	path := writeFile(t, "values.json", `{"speed": 2.0}`)

	out, err := run(t, "eval", "speed:float >= 1.5", "--field", "boost", "--values-file", path, "--json")
	require.NoError(t, err)

	var resp api.EvaluateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "speed:float >= 1.5", resp.Rule)
	assert.Equal(t, visibility.Visible(), resp.Verdict)
}

func TestEvalDemoObject(t *testing.T) {
	out, err := run(t, "eval", "mode:enum != Off", "--field", "maxAlive", "--demo")
	require.NoError(t, err)
	assert.Equal(t, "visible\n", out)

	out, err = run(t, "eval", "mode:enum != Off", "--field", "maxAlive", "--demo", "--set", "mode=Off")
	require.NoError(t, err)
	assert.Equal(t, "hidden\n", out)

	out, err = run(t, "eval", "useDelay", "--field", "waves[0].delay", "--demo")
	require.NoError(t, err)
	assert.Equal(t, "hidden\n", out)
}

func TestEvalErrorVerdict(t *testing.T) {
	out, err := run(t, "eval", "missing", "--field", "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errVerdict))
	assert.Contains(t, err.Error(), "fieldNotFound")
	assert.Equal(t, "error: field not found: could not find \"missing\"\n", out)
}

func TestEvalRejectsBadInput(t *testing.T) {
	_, err := run(t, "eval", "a && b", "--field", "x")
	require.Error(t, err)

	_, err = run(t, "eval", "a", "--field", "x", "--set", "novalue")
	require.ErrorContains(t, err, "want path=value")

	_, err = run(t, "eval", "a", "--field", "x", "--values", "{")
	require.Error(t, err)
}

func TestEvalRemote(t *testing.T) {
	url := newTestServer(t)

	out, err := run(t, "eval", "mode:enum == Burst", "--field", "rate", "--server", url,
		"--values", `{"mode": "Burst"}`, "--enum", "mode=Off,Burst")
	require.NoError(t, err)
	assert.Equal(t, "visible\n", out)

	out, err = run(t, "eval", "mode:enum == Paused", "--field", "rate", "--server", url,
		"--values", `{"mode": "Burst"}`, "--enum", "mode=Off,Burst")
	require.ErrorIs(t, err, errVerdict)
	assert.Equal(t, "error: enum value(s) \"Paused\" not found on \"mode\"\n", out)
}

func TestInspectDemoJSON(t *testing.T) {
	out, err := run(t, "inspect", "--demo", "--format", "json")
	require.NoError(t, err)

	var layout inspector.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &layout))
	assert.Equal(t, "Enemy Spawner", layout.Title)
	assert.Len(t, layout.Rows, 13)
	assert.Len(t, layout.Visible(), 11)
	assert.InDelta(t, 256, layout.Total, 1e-9)
	assert.InDelta(t, 256, layout.Height(), 1e-9)

	row, ok := layout.Row("warning")
	require.True(t, ok)
	assert.True(t, row.Flagged())
	assert.Equal(t, visibility.EnumValueNotFound, row.Reason)
}

func TestInspectObjectText(t *testing.T) {
	path := writeFile(t, "door.yaml", doorYAML)

	out, err := run(t, "inspect", "--object", path, "--show-rules")
	require.NoError(t, err)
	assert.Equal(t, "Door\n  Locked: true\n  Key Id: gold [locked]\n", out)

	out, err = run(t, "inspect", "--object", path, "--format", "html", "--title", "Front door")
	require.NoError(t, err)
	assert.Contains(t, out, "Front door")
	assert.Contains(t, out, `data-path="keyId"`)
}

func TestInspectOverlays(t *testing.T) {
	object := writeFile(t, "door.yaml", doorYAML)
	overlays := filepath.Dir(writeFile(t, "door.ui.yaml", `objects:
  Door:
    title: Vault door
    fields:
      keyId:
        showIf: "!locked"
`))

	out, err := run(t, "inspect", "--object", object, "--overlay", overlays, "--show-hidden")
	require.NoError(t, err)
	assert.Equal(t, "Vault door\n  Locked: true\n  Key Id (hidden by !locked)\n", out)

	relabel := filepath.Dir(writeFile(t, "labels.ui.yaml", `objects:
  Door:
    fields:
      keyId:
        label: Combination
`))
	out, err = run(t, "inspect", "--object", object, "--overlay", overlays, "--overlay", relabel, "--show-hidden")
	require.NoError(t, err)
	assert.Equal(t, "Vault door\n  Locked: true\n  Combination (hidden by !locked)\n", out)
}

func TestInspectRemote(t *testing.T) {
	url := newTestServer(t)
	path := writeFile(t, "door.yaml", doorYAML)

	out, err := run(t, "inspect", "--object", path, "--server", url)
	require.NoError(t, err)
	assert.Equal(t, "Door\n  Locked: true\n  Key Id: gold\n", out)

	out, err = run(t, "inspect", "--object", path, "--server", url, "--format", "json")
	require.NoError(t, err)
	var layout inspector.Layout
	require.NoError(t, json.Unmarshal([]byte(out), &layout))
	assert.Len(t, layout.Rows, 2)
}

func TestInspectErrors(t *testing.T) {
	_, err := run(t, "inspect")
	require.ErrorIs(t, err, errNoSource)

	_, err = run(t, "inspect", "--demo", "--format", "pdf")
	require.ErrorIs(t, err, render.ErrRendererNotFound)

	_, err = run(t, "inspect", "--openapi", "api.yaml")
	require.ErrorContains(t, err, "--schema is required")

	_, err = run(t, "inspect", "--demo", "--object", "x.yaml")
	require.Error(t, err, "sources are mutually exclusive")
}

func TestEditRequiresTerminal(t *testing.T) {
	_, err := run(t, "edit", "--demo")
	require.ErrorIs(t, err, errNotInteractive)
}

type scriptedDriver struct {
	prompts []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.prompts = append(d.prompts, "input:"+cfg.Message)
	return cfg.Default, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	d.prompts = append(d.prompts, "confirm:"+cfg.Message)
	return false, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	d.prompts = append(d.prompts, "select:"+cfg.Message)
	return 0, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func TestEditWritesValues(t *testing.T) {
	driver := &scriptedDriver{}
	originalTerminal, originalDriver := isTerminal, newPromptDriver
	t.Cleanup(func() {
		isTerminal, newPromptDriver = originalTerminal, originalDriver
	})
	isTerminal = func(int) bool { return true }
	newPromptDriver = func(io.Writer) tui.PromptDriver { return driver }

	output := filepath.Join(t.TempDir(), "values.json")
	out, err := run(t, "edit", "--demo", "--output", output)
	require.NoError(t, err)
	assert.Equal(t, "Values written to "+output+"\n", out)

	assert.Equal(t, []string{"confirm:Enabled", "select:Mode", "input:Warning"}, driver.prompts)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var values map[string]any
	require.NoError(t, json.Unmarshal(data, &values))
	assert.Equal(t, false, values["enabled"])
	assert.Equal(t, "Off", values["mode"])
	assert.Equal(t, "", values["warning"])
	assert.EqualValues(t, 5, values["burstCount"])
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"true", true},
		{"false", false},
		{"1", int64(1)},
		{"-7", int64(-7)},
		{"2.5", 2.5},
		{"Burst", "Burst"},
		{"True", "True"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseScalar(tt.raw), "parseScalar(%q)", tt.raw)
	}
}

func TestParseEnums(t *testing.T) {
	enums, err := parseEnums([]string{"mode=Off, Burst ,Continuous", "waves[].kind=A,B"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"mode":         {"Off", "Burst", "Continuous"},
		"waves[].kind": {"A", "B"},
	}, enums)

	_, err = parseEnums([]string{"=A"})
	require.Error(t, err)
}
