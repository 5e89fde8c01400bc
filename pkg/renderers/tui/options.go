package tui

import (
	"github.com/goliatone/go-showif/internal/logging"
	"github.com/goliatone/go-showif/pkg/inspector"
)

// Theme holds the prefixes printed in front of messages.
type Theme struct {
	BannerPrefix string
	HeaderPrefix string
}

// DefaultTheme is used unless WithTheme is given.
func DefaultTheme() Theme {
	return Theme{BannerPrefix: "⚠ ", HeaderPrefix: "» "}
}

// Option configures the Editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithInspector overrides the inspector deciding which fields are asked.
func WithInspector(insp *inspector.Inspector) Option {
	return func(e *Editor) {
		if insp != nil {
			e.inspector = insp
		}
	}
}

func WithTheme(theme Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(e *Editor) {
		e.logger = logger
	}
}
