package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var templates embed.FS

// TemplatesFS exposes the bundled templates so callers can copy or extend
// them.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
