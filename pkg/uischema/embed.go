package uischema

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-showif/pkg/model"
)

//go:embed ui/objects/* ui/overlays/*
var embedded embed.FS

// EmbeddedOverlays returns the bundled overlay files. Callers may pass the
// filesystem to LoadFS.
func EmbeddedOverlays() fs.FS {
	sub, err := fs.Sub(embedded, "ui/overlays")
	if err != nil {
		// the embed directive guarantees the directory exists
		panic(err)
	}
	return sub
}

// DemoObject loads the bundled spawner object and applies the bundled
// overlays to it.
func DemoObject() (*model.Object, error) {
	data, err := embedded.ReadFile("ui/objects/spawner.yaml")
	if err != nil {
		return nil, err
	}
	obj, err := LoadObject(data, "ui/objects/spawner.yaml")
	if err != nil {
		return nil, err
	}
	store, err := LoadFS(EmbeddedOverlays())
	if err != nil {
		return nil, err
	}
	if err := NewDecorator(store).Decorate(obj); err != nil {
		return nil, err
	}
	return obj, nil
}
