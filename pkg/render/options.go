package render

// RenderOptions describe per-request presentation choices. They never change
// verdicts; the layout is already decided when a renderer sees it.
type RenderOptions struct {
	// ShowHidden includes hidden rows, marked as such, instead of skipping
	// them. Useful when debugging rules.
	ShowHidden bool
	// ShowRules prints the deciding rule next to each conditional field.
	ShowRules bool
	// Title overrides the layout title.
	Title string
	// Width caps the output width for renderers that lay out text. Zero
	// means the renderer default.
	Width int
}

// TitleFor returns the override title or the layout's own.
func (o RenderOptions) TitleFor(layoutTitle string) string {
	if o.Title != "" {
		return o.Title
	}
	return layoutTitle
}
