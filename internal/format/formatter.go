package format

import (
	"fmt"
	"io"

	"github.com/sdlcforge/parsh/internal/syntax"
)

// Formatter renders a parsed command tree in a specific format.
type Formatter interface {
	// Render writes the commands to w.
	Render(cmds []*syntax.Command, w io.Writer) error
}

// Config holds configuration options common to all formatters.
type Config struct {
	// UseColor enables colored output where the format supports it.
	UseColor bool
}

// normalizeConfig returns a non-nil config with defaults applied.
func normalizeConfig(config *Config) *Config {
	if config == nil {
		return &Config{}
	}
	return config
}

// NewFormatter creates the formatter for the named format: "text",
// "json" or "yaml".
func NewFormatter(name string, config *Config) (Formatter, error) {
	switch name {
	case "text":
		return NewTextFormatter(config), nil
	case "json":
		return NewJSONFormatter(config), nil
	case "yaml":
		return NewYAMLFormatter(config), nil
	default:
		return nil, fmt.Errorf("unknown format %q (valid: text, json, yaml)", name)
	}
}
