package format

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sdlcforge/parsh/internal/syntax"
)

// YAMLFormatter generates YAML output.
type YAMLFormatter struct {
	config *Config
}

// NewYAMLFormatter creates a new YAMLFormatter with the given
// configuration.
func NewYAMLFormatter(config *Config) *YAMLFormatter {
	return &YAMLFormatter{config: normalizeConfig(config)}
}

// yamlOutput wraps the dumped commands.
type yamlOutput struct {
	Commands []Command `yaml:"commands"`
}

// Render implements the Formatter interface.
func (f *YAMLFormatter) Render(cmds []*syntax.Command, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(yamlOutput{Commands: DumpCommands(cmds)}); err != nil {
		return err
	}
	return enc.Close()
}
