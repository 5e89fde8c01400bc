// Package tui edits an object interactively. Only fields whose ShowIf rules
// currently allow them are asked, and the object is re-inspected after every
// answer so dependent fields appear and disappear as values change.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-showif/internal/logging"
	"github.com/goliatone/go-showif/pkg/inspector"
	"github.com/goliatone/go-showif/pkg/model"
)

// Editor drives a prompt session over an object.
type Editor struct {
	driver    PromptDriver
	inspector *inspector.Inspector
	theme     Theme
	logger    *logging.Logger
}

// New constructs an Editor. Without WithPromptDriver it uses the survey
// driver on stdout.
func New(options ...Option) *Editor {
	e := &Editor{
		theme: DefaultTheme(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil)
	}
	if e.inspector == nil {
		e.inspector = inspector.New(inspector.WithLogger(e.logger))
	}
	return e
}

// Edit prompts every visible leaf field once, in tree order, storing each
// answer on obj. Flagged fields print their warning banner before the
// prompt and are still asked.
func (e *Editor) Edit(ctx context.Context, obj *model.Object) error {
	if obj == nil {
		return ErrNoObject
	}

	layout := e.inspector.Inspect(obj)
	if layout.Title != "" {
		if err := e.driver.Info(ctx, e.theme.HeaderPrefix+layout.Title); err != nil {
			return err
		}
	}

	answered := make(map[string]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		row, ok := nextRow(layout, answered)
		if !ok {
			return nil
		}
		answered[row.Path] = struct{}{}

		field, err := obj.Lookup(row.Path)
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		if row.Flagged() {
			if err := e.driver.Info(ctx, e.theme.BannerPrefix+row.Warning); err != nil {
				return err
			}
		}

		value, err := e.ask(ctx, row, *field)
		if err != nil {
			return err
		}
		if err := obj.SetValue(row.Path, value); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		e.logger.WithFields(map[string]any{"field": row.Path}).Debug("value updated")

		layout = e.inspector.Inspect(obj)
	}
}

// nextRow returns the first drawn leaf row that has not been asked yet.
func nextRow(layout inspector.Layout, answered map[string]struct{}) (inspector.Row, bool) {
	for _, row := range layout.Rows {
		if row.Hidden() || row.Type.IsContainer() {
			continue
		}
		if _, done := answered[row.Path]; done {
			continue
		}
		return row, true
	}
	return inspector.Row{}, false
}

func (e *Editor) ask(ctx context.Context, row inspector.Row, field model.Field) (any, error) {
	message := strings.Repeat("  ", row.Depth) + row.Label
	switch field.Type {
	case model.FieldTypeBoolean:
		current := model.ResolveField(field)
		return e.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: current.Bool,
			Help:    row.Description,
		})
	case model.FieldTypeEnum:
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      field.EnumNames,
			DefaultIndex: model.EnumIndex(field),
			Help:         row.Description,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(field.EnumNames) {
			return nil, fmt.Errorf("tui: %s: selection %d out of range", row.Path, idx)
		}
		return idx, nil
	default:
		text, err := e.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   row.Value,
			Help:      row.Description,
			Validator: validatorFor(field),
		})
		if err != nil {
			return nil, err
		}
		return parseInput(field, text)
	}
}

func validatorFor(field model.Field) func(string) error {
	return func(text string) error {
		_, err := parseInput(field, text)
		return err
	}
}

func parseInput(field model.Field, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch field.Type {
	case model.FieldTypeInteger:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tui: %q is not an integer", text)
		}
		return v, nil
	case model.FieldTypeNumber:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("tui: %q is not a number", text)
		}
		return v, nil
	default:
		return text, nil
	}
}
