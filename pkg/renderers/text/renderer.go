// Package text renders inspected layouts as styled terminal text.
package text

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/render"
)

const indentUnit = "  "

// Styles groups the lipgloss styles the renderer applies.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Hidden lipgloss.Style
	Rule   lipgloss.Style
	Banner lipgloss.Style
}

// Option customises the renderer.
type Option func(*Renderer)

// WithOutput sets the writer used to detect the color profile. Output that
// is not a terminal renders without escape sequences.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		if w != nil {
			r.output = w
		}
	}
}

// WithStyles replaces the default styles. The styles must come from the
// renderer passed to DefaultStyles to pick up its color profile.
func WithStyles(build func(*lipgloss.Renderer) Styles) Option {
	return func(r *Renderer) {
		if build != nil {
			r.buildStyles = build
		}
	}
}

// Renderer implements render.Renderer.
type Renderer struct {
	output      io.Writer
	buildStyles func(*lipgloss.Renderer) Styles
	styles      Styles
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer. Without WithOutput it renders plain text.
func New(options ...Option) *Renderer {
	r := &Renderer{
		output:      io.Discard,
		buildStyles: DefaultStyles,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	r.styles = r.buildStyles(lipgloss.NewRenderer(r.output))
	return r
}

// DefaultStyles returns the built-in palette bound to lr.
func DefaultStyles(lr *lipgloss.Renderer) Styles {
	return Styles{
		Title:  lr.NewStyle().Bold(true).Underline(true),
		Label:  lr.NewStyle().Bold(true),
		Value:  lr.NewStyle().Foreground(lipgloss.Color("39")),
		Hidden: lr.NewStyle().Faint(true).Strikethrough(true),
		Rule:   lr.NewStyle().Faint(true).Italic(true),
		Banner: lr.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("214")).
			Foreground(lipgloss.Color("214")).
			Padding(0, 1),
	}
}

func (r *Renderer) Name() string        { return "text" }
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render writes the title followed by one line per drawn row. Flagged rows
// get a bordered warning box above the field line.
func (r *Renderer) Render(ctx context.Context, layout inspector.Layout, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var blocks []string
	if title := opts.TitleFor(layout.Title); title != "" {
		blocks = append(blocks, r.styles.Title.Render(title))
	}

	for _, row := range layout.Rows {
		if row.Hidden() && !opts.ShowHidden {
			continue
		}
		indent := strings.Repeat(indentUnit, row.Depth+1)
		if row.Flagged() {
			banner := r.styles.Banner
			if opts.Width > 0 {
				if width := opts.Width - len(indent) - 2; width > 0 {
					banner = banner.Width(width)
				}
			}
			box := banner.Render("! " + row.Warning)
			blocks = append(blocks, indentBlock(box, indent))
		}
		blocks = append(blocks, indent+r.line(row, opts))
	}
	return []byte(strings.Join(blocks, "\n") + "\n"), nil
}

func (r *Renderer) line(row inspector.Row, opts render.RenderOptions) string {
	if row.Hidden() {
		return r.styles.Hidden.Render(row.Label) + " " + r.styles.Rule.Render("(hidden by "+row.Rule+")")
	}

	var b strings.Builder
	b.WriteString(r.styles.Label.Render(row.Label))
	if row.Value != "" {
		b.WriteString(": ")
		b.WriteString(r.styles.Value.Render(row.Value))
	}
	if opts.ShowRules && row.Rule != "" {
		b.WriteString(" ")
		b.WriteString(r.styles.Rule.Render("[" + row.Rule + "]"))
	}
	return b.String()
}

func indentBlock(block, indent string) string {
	lines := strings.Split(block, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
