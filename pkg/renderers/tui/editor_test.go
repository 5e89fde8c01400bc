package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-showif/pkg/model"
	"github.com/goliatone/go-showif/pkg/uischema"
	"github.com/goliatone/go-showif/pkg/visibility"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	prompts      []string
	inputPos     int
	selectPos    int
	confirmPos   int
	confirmErr   error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, "input:"+cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, "confirm:"+cfg.Message)
	if s.confirmErr != nil {
		return false, s.confirmErr
	}
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, "select:"+cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestEditor_FollowsVisibilityChanges(t *testing.T) {
	obj, err := uischema.DemoObject()
	if err != nil {
		t.Fatalf("demo object: %v", err)
	}

	driver := &stubDriver{
		confirm:   []bool{true, true, false},
		selectIdx: []int{2},
		inputs:    []string{"3.5", "20", "oops", "1.25"},
	}
	if err := New(WithPromptDriver(driver)).Edit(context.Background(), obj); err != nil {
		t.Fatalf("edit: %v", err)
	}

	wantPrompts := []string{
		"confirm:Enabled",
		"select:Mode",
		"input:Spawns per second",
		"input:Max Alive",
		"input:Warning",
		"confirm:    Use Delay",
		"input:    Delay (s)",
		"confirm:    Use Delay",
	}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt sequence mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{
		"» Enemy Spawner",
		`⚠ enum value(s) "Paused" not found on "mode"`,
	}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}

	values := map[string]any{}
	_ = obj.Walk(func(path string, _ int, field *model.Field) error {
		if !field.Type.IsContainer() {
			values[path] = field.Value
		}
		return nil
	})
	wantValues := map[string]any{
		"enabled":           true,
		"mode":              2,
		"burstCount":        int64(5),
		"spawnRate":         3.5,
		"maxAlive":          int64(20),
		"warning":           "oops",
		"waves[0].useDelay": true,
		"waves[0].delay":    1.25,
		"waves[1].useDelay": false,
		"waves[1].delay":    float64(2),
	}
	if diff := cmp.Diff(wantValues, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_Aborts(t *testing.T) {
	obj := &model.Object{
		Name:   "Flags",
		Fields: []model.Field{{Name: "on", Type: model.FieldTypeBoolean}},
	}
	driver := &stubDriver{confirmErr: ErrAborted}
	err := New(WithPromptDriver(driver), WithTheme(Theme{})).Edit(context.Background(), obj)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if diff := cmp.Diff([]string{"Flags"}, driver.infoMessages); diff != "" {
		t.Fatalf("info messages mismatch (-want +got):\n%s", diff)
	}
}

func TestEditor_RejectsInvalidInput(t *testing.T) {
	obj := &model.Object{
		Name: "Counts",
		Fields: []model.Field{
			{Name: "count", Type: model.FieldTypeInteger},
		},
	}
	driver := &stubDriver{inputs: []string{"many"}}
	if err := New(WithPromptDriver(driver)).Edit(context.Background(), obj); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestEditor_Preconditions(t *testing.T) {
	if err := New(WithPromptDriver(&stubDriver{})).Edit(context.Background(), nil); !errors.Is(err, ErrNoObject) {
		t.Fatalf("expected ErrNoObject, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	obj := &model.Object{
		Fields: []model.Field{{Name: "on", Type: model.FieldTypeBoolean, Rules: []visibility.Rule{visibility.ShowIf("on")}}},
	}
	if err := New(WithPromptDriver(&stubDriver{})).Edit(ctx, obj); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		field   model.Field
		text    string
		want    any
		wantErr bool
	}{
		{"int", model.Field{Type: model.FieldTypeInteger}, " 42 ", int64(42), false},
		{"int invalid", model.Field{Type: model.FieldTypeInteger}, "4.2", nil, true},
		{"number", model.Field{Type: model.FieldTypeNumber}, "0.75", 0.75, false},
		{"number invalid", model.Field{Type: model.FieldTypeNumber}, "fast", nil, true},
		{"string", model.Field{Type: model.FieldTypeString}, " hi ", "hi", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseInput(tc.field, tc.text)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseInput: %v", err)
			}
			if got != tc.want {
				t.Fatalf("parseInput() = %#v, want %#v", got, tc.want)
			}
		})
	}
}
