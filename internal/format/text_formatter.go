package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/sdlcforge/parsh/internal/syntax"
)

// ColorScheme defines the styles for the elements of a text dump.
// When colors are disabled every style prints plain.
type ColorScheme struct {
	// Keyword colors structural labels (command, nesting names).
	Keyword *color.Color

	// PartKind colors part kind names.
	PartKind *color.Color

	// Text colors literal part text.
	Text *color.Color

	// Operator colors terminators and redirection operators.
	Operator *color.Color

	// Location colors line references.
	Location *color.Color
}

// NewColorScheme creates a ColorScheme with colors enabled or
// disabled.
func NewColorScheme(useColor bool) *ColorScheme {
	scheme := &ColorScheme{
		Keyword:  color.New(color.FgCyan, color.Bold),
		PartKind: color.New(color.FgGreen),
		Text:     color.New(color.FgWhite),
		Operator: color.New(color.FgYellow),
		Location: color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{
		scheme.Keyword, scheme.PartKind, scheme.Text, scheme.Operator, scheme.Location,
	} {
		if useColor {
			// Override the package's terminal auto-detection; the
			// caller already resolved the color decision.
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return scheme
}

// TextFormatter renders an indented tree for terminals.
type TextFormatter struct {
	config *Config
	colors *ColorScheme
}

// NewTextFormatter creates a new TextFormatter with the given
// configuration.
func NewTextFormatter(config *Config) *TextFormatter {
	config = normalizeConfig(config)
	return &TextFormatter{
		config: config,
		colors: NewColorScheme(config.UseColor),
	}
}

// Render implements the Formatter interface.
func (f *TextFormatter) Render(cmds []*syntax.Command, w io.Writer) error {
	var buf strings.Builder
	for _, cmd := range DumpCommands(cmds) {
		f.renderCommand(&buf, &cmd, 0)
	}
	_, err := io.WriteString(w, buf.String())
	return err
}

func (f *TextFormatter) indent(buf *strings.Builder, depth int) {
	buf.WriteString(strings.Repeat("  ", depth))
}

func (f *TextFormatter) location(line int) string {
	return f.colors.Location.Sprintf("@%d", line)
}

func (f *TextFormatter) renderCommand(buf *strings.Builder, cmd *Command, depth int) {
	f.indent(buf, depth)
	buf.WriteString(f.colors.Keyword.Sprint("command"))
	if cmd.Bang {
		buf.WriteString(" !")
	}
	fmt.Fprintf(buf, " %s %s\n",
		f.colors.Operator.Sprint(cmd.Terminator), f.location(cmd.Line))

	for _, arg := range cmd.Args {
		f.renderArgument(buf, arg, depth+1)
	}
	for _, redir := range cmd.Redirs {
		f.renderRedirection(buf, &redir, depth+1)
	}
}

func (f *TextFormatter) renderArgument(buf *strings.Builder, arg Argument, depth int) {
	f.indent(buf, depth)
	buf.WriteString(f.colors.Keyword.Sprint("argument"))
	buf.WriteByte('\n')
	for _, part := range arg.Parts {
		f.renderPart(buf, &part, depth+1)
	}
}

func (f *TextFormatter) renderRedirection(buf *strings.Builder, redir *Redirection, depth int) {
	f.indent(buf, depth)
	fmt.Fprintf(buf, "%s %s %s\n",
		f.colors.Keyword.Sprint("redirection"),
		f.colors.PartKind.Sprint(redir.Kind),
		f.colors.Operator.Sprintf("'%s'", redir.Operator))

	if len(redir.LeftHandSide) > 0 {
		f.indent(buf, depth+1)
		buf.WriteString("lhs\n")
		for _, part := range redir.LeftHandSide {
			f.renderPart(buf, &part, depth+2)
		}
	}
	if len(redir.RightHandSide) > 0 {
		f.indent(buf, depth+1)
		buf.WriteString("rhs\n")
		for _, part := range redir.RightHandSide {
			f.renderPart(buf, &part, depth+2)
		}
	}
}

func (f *TextFormatter) renderPart(buf *strings.Builder, part *Part, depth int) {
	f.indent(buf, depth)
	buf.WriteString(f.colors.PartKind.Sprint(part.Kind))
	if part.Text != "" || part.Body == nil {
		fmt.Fprintf(buf, " %s", f.colors.Text.Sprint(strconv.Quote(part.Text)))
	}
	fmt.Fprintf(buf, " %s\n", f.location(part.Line))

	if part.Body != nil {
		f.renderState(buf, part.Body, depth+1)
	}
}

func (f *TextFormatter) renderState(buf *strings.Builder, state *State, depth int) {
	f.indent(buf, depth)
	buf.WriteString(f.colors.Keyword.Sprint(state.Nesting))
	buf.WriteByte('\n')
	for _, arg := range state.Args {
		f.renderArgument(buf, arg, depth+1)
	}
	for _, cmd := range state.Commands {
		f.renderCommand(buf, &cmd, depth+1)
	}
}
