package inspector

import (
	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/visibility"
)

// Metrics are the vertical sizes used to compute row heights.
type Metrics struct {
	LineHeight   float64 `json:"lineHeight"`
	Spacing      float64 `json:"spacing"`
	BannerHeight float64 `json:"bannerHeight"`
}

// DefaultMetrics mirrors a single-line property editor with a two-line
// help box.
func DefaultMetrics() Metrics {
	return Metrics{LineHeight: 18, Spacing: 2, BannerHeight: 36}
}

// Row is one inspected field.
type Row struct {
	Path        string               `json:"path"`
	Label       string               `json:"label"`
	Description string               `json:"description,omitempty"`
	Type        model.FieldType      `json:"type"`
	Depth       int                  `json:"depth"`
	Value       string               `json:"value,omitempty"`
	Rule        string               `json:"rule,omitempty"`
	State       visibility.State     `json:"state"`
	Reason      visibility.ErrorKind `json:"reason,omitempty"`
	Warning     string               `json:"warning,omitempty"`
	Height      float64              `json:"height"`
}

// Hidden reports whether the row takes no space.
func (r Row) Hidden() bool { return r.State == visibility.StateHidden }

// Flagged reports whether the row carries a warning banner.
func (r Row) Flagged() bool { return r.State == visibility.StateError }

// Verdict rebuilds the verdict the row was laid out from.
func (r Row) Verdict() visibility.Verdict {
	return visibility.Verdict{State: r.State, Reason: r.Reason, Message: r.Warning}
}

// Layout is the result of inspecting an object.
type Layout struct {
	Object  string  `json:"object"`
	Title   string  `json:"title,omitempty"`
	Rows    []Row   `json:"rows"`
	Total   float64 `json:"height"`
	Metrics Metrics `json:"metrics"`
}

// Height returns the summed height of all rows, with spacing between the
// rows that take space.
func (l Layout) Height() float64 {
	var total float64
	shown := 0
	for _, row := range l.Rows {
		if row.Height == 0 {
			continue
		}
		if shown > 0 {
			total += l.Metrics.Spacing
		}
		total += row.Height
		shown++
	}
	return total
}

// Visible returns the rows that are drawn, including flagged ones.
func (l Layout) Visible() []Row {
	out := make([]Row, 0, len(l.Rows))
	for _, row := range l.Rows {
		if !row.Hidden() {
			out = append(out, row)
		}
	}
	return out
}

// Warnings returns the flagged rows in order.
func (l Layout) Warnings() []Row {
	var out []Row
	for _, row := range l.Rows {
		if row.Flagged() {
			out = append(out, row)
		}
	}
	return out
}

// Row returns the row for path.
func (l Layout) Row(path string) (Row, bool) {
	for _, row := range l.Rows {
		if row.Path == path {
			return row, true
		}
	}
	return Row{}, false
}
