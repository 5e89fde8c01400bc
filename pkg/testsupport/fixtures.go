// Package testsupport holds fixture and golden helpers shared by tests.
package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/uischema"
)

// EnvUpdateGoldens enables golden rewrites when set to any value.
const EnvUpdateGoldens = "UPDATE_GOLDENS"

// DemoObject returns a fresh copy of the bundled spawner object with its
// overlays applied.
func DemoObject(t testing.TB) *model.Object {
	t.Helper()

	obj, err := uischema.DemoObject()
	if err != nil {
		t.Fatalf("demo object: %v", err)
	}
	return obj
}

// LoadObject reads an object file (JSON or YAML) from path.
func LoadObject(t testing.TB, path string) *model.Object {
	t.Helper()

	obj, err := LoadObjectFromPath(path)
	if err != nil {
		t.Fatalf("load object: %v", err)
	}
	return obj
}

// LoadObjectFromPath is LoadObject for callers without a testing.TB.
func LoadObjectFromPath(path string) (*model.Object, error) {
	if path == "" {
		return nil, errors.New("testsupport: object path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read object: %w", err)
	}
	return uischema.LoadObject(data, filepath.Base(path))
}

// MustLoadLayout reads a JSON layout golden.
func MustLoadLayout(t testing.TB, path string) inspector.Layout {
	t.Helper()

	var layout inspector.Layout
	if err := json.Unmarshal(MustReadGolden(t, path), &layout); err != nil {
		t.Fatalf("unmarshal layout golden: %v", err)
	}
	return layout
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t testing.TB, path string, value any) {
	t.Helper()

	if os.Getenv(EnvUpdateGoldens) == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, append(payload, '\n'))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written.
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()

	if os.Getenv(EnvUpdateGoldens) == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

func MustReadGoldenString(t testing.TB, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// Context returns a context cancelled when the test ends.
func Context(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
