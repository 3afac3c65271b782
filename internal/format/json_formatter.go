package format

import (
	"encoding/json"
	"io"

	"github.com/sdlcforge/parsh/internal/syntax"
)

// JSONFormatter generates JSON output for programmatic consumption.
// The output is valid JSON with 2-space indentation.
type JSONFormatter struct {
	config *Config
}

// NewJSONFormatter creates a new JSONFormatter with the given
// configuration.
func NewJSONFormatter(config *Config) *JSONFormatter {
	return &JSONFormatter{config: normalizeConfig(config)}
}

// jsonOutput wraps the dumped commands.
type jsonOutput struct {
	Commands []Command `json:"commands"`
}

// Render implements the Formatter interface.
func (f *JSONFormatter) Render(cmds []*syntax.Command, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonOutput{Commands: DumpCommands(cmds)})
}
