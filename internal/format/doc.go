// Package format renders parsed command trees for inspection.
//
// Three formats are provided: an indented, optionally colored text
// tree for terminals, JSON for programmatic consumption, and YAML.
// All formatters implement the Formatter interface and render the
// same dump model, a format-neutral projection of the syntax tree.
package format
