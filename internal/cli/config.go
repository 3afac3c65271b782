package cli

import (
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// ColorMode represents the color output mode for the CLI.
type ColorMode int

const (
	// ColorAuto enables color output when connected to a terminal.
	ColorAuto ColorMode = iota

	// ColorAlways forces color output regardless of terminal
	// detection.
	ColorAlways

	// ColorNever disables color output.
	ColorNever
)

// String returns the string representation of ColorMode.
func (c ColorMode) String() string {
	switch c {
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "unknown"
	}
}

// envDefaults are the environment-provided configuration defaults.
type envDefaults struct {
	// Posix enables POSIX mode (PARSH_POSIX).
	Posix bool `envconfig:"POSIX"`

	// Format selects the dump format (PARSH_FORMAT).
	Format string `envconfig:"FORMAT" default:"text"`

	// Color selects the color mode: auto, always or never
	// (PARSH_COLOR).
	Color string `envconfig:"COLOR" default:"auto"`
}

// Config holds all CLI configuration options.
type Config struct {
	// ProgName is the invocation name used to prefix diagnostics.
	ProgName string

	// PosixMode rejects non-portable operators and syntaxes.
	PosixMode bool

	// LoginShell records a leading dash in the invocation name.
	// Advisory; the parsing core carries it as configuration only.
	LoginShell bool

	// Format is the dump format: text, json or yaml.
	Format string

	// ColorMode determines when to use colored output.
	ColorMode ColorMode

	// UseColor is the resolved color decision.
	UseColor bool

	// TTYInput reports whether standard input is a terminal;
	// suppresses the NUL-byte warning.
	TTYInput bool

	// Verbose records the --verbose flag; nothing reads it, so it
	// does not change the output.
	Verbose bool
}

// NewConfig creates a Config populated from the environment.
func NewConfig() *Config {
	var env envDefaults
	// Unparseable environment values fall back to the defaults:
	// envconfig stops at the first bad value, so the whole
	// environment layer is reset.
	if err := envconfig.Process("parsh", &env); err != nil {
		env = envDefaults{Format: "text", Color: "auto"}
	}

	config := &Config{
		ProgName:  "parsh",
		PosixMode: env.Posix,
		Format:    env.Format,
	}
	switch env.Color {
	case "always":
		config.ColorMode = ColorAlways
	case "never":
		config.ColorMode = ColorNever
	default:
		config.ColorMode = ColorAuto
	}
	return config
}

// ApplyInvocationName applies the program-name rules: sh (or any
// path ending in /sh) enables POSIX mode, a leading dash marks a
// login shell.
func ApplyInvocationName(config *Config, argv0 string) {
	name := argv0
	if strings.HasPrefix(name, "-") {
		config.LoginShell = true
		name = name[1:]
	}
	base := filepath.Base(name)
	if base != "" && base != "." && base != string(filepath.Separator) {
		config.ProgName = base
	}
	if base == "sh" {
		config.PosixMode = true
	}
}
