package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/openapi"
	"github.com/goliatone/go-showif/pkg/uischema"
)

var errNoSource = errors.New("one of --object, --openapi or --demo is required")

// sourceFlags select where an object comes from.
type sourceFlags struct {
	object   string
	openapi  string
	schema   string
	overlays []string
	demo     bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.object, "object", "", "Object file (JSON or YAML)")
	cmd.Flags().StringVar(&f.openapi, "openapi", "", "OpenAPI document holding the object schema")
	cmd.Flags().StringVar(&f.schema, "schema", "", "Component schema name, used with --openapi")
	cmd.Flags().StringArrayVar(&f.overlays, "overlay", nil, "Directory of overlay files applied to the object (repeatable, applied in order)")
	cmd.Flags().BoolVar(&f.demo, "demo", false, "Use the bundled spawner object")
	cmd.MarkFlagsMutuallyExclusive("object", "openapi", "demo")
}

func (f *sourceFlags) set() bool {
	return f.object != "" || f.openapi != "" || f.demo
}

func (f *sourceFlags) load(ctx context.Context) (*model.Object, error) {
	var (
		obj *model.Object
		err error
	)
	switch {
	case f.demo:
		obj, err = uischema.DemoObject()
	case f.object != "":
		var data []byte
		data, err = os.ReadFile(f.object)
		if err != nil {
			return nil, fmt.Errorf("read object: %w", err)
		}
		obj, err = uischema.LoadObject(data, filepath.Base(f.object))
	case f.openapi != "":
		if f.schema == "" {
			return nil, errors.New("--schema is required with --openapi")
		}
		obj, err = openapi.LoadObjectFS(ctx, os.DirFS(filepath.Dir(f.openapi)), filepath.Base(f.openapi), f.schema)
	default:
		return nil, errNoSource
	}
	if err != nil {
		return nil, err
	}

	decorators := make([]model.Decorator, 0, len(f.overlays))
	for _, dir := range f.overlays {
		store, err := uischema.LoadFS(os.DirFS(dir))
		if err != nil {
			return nil, fmt.Errorf("load overlays %s: %w", dir, err)
		}
		decorators = append(decorators, uischema.NewDecorator(store))
	}
	if err := model.Decorate(obj, decorators...); err != nil {
		return nil, err
	}
	return obj, nil
}

// objectJSON reads the --object file as JSON, converting YAML input. The
// server only accepts JSON bodies.
func (f *sourceFlags) objectJSON() (json.RawMessage, error) {
	if f.object == "" {
		return nil, errors.New("--object is required with --server")
	}
	data, err := os.ReadFile(f.object)
	if err != nil {
		return nil, fmt.Errorf("read object: %w", err)
	}
	if uischema.DetectFormat(data) == uischema.FormatJSON {
		return data, nil
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(f.object), err)
	}
	return json.Marshal(doc)
}
