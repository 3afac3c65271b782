package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdlcforge/parsh/internal/syntax"
)

// parseResult carries everything a test may want to inspect.
type parseResult struct {
	cmds     []*syntax.Command
	warnings []string
	ctx      *Context
	err      error
}

func parseWith(opts Options, src string) *parseResult {
	result := &parseResult{}
	opts.Warn = func(f string, args ...any) {
		result.warnings = append(result.warnings, fmt.Sprintf(f, args...))
	}
	opts.Emit = func(cmd *syntax.Command) {
		result.cmds = append(result.cmds, cmd)
	}
	result.ctx = New(opts)
	result.err = result.ctx.Run(strings.NewReader(src))
	return result
}

func parse(t *testing.T, src string) *parseResult {
	t.Helper()
	result := parseWith(Options{}, src)
	require.NoError(t, result.err, "input: %q", src)
	return result
}

func parseError(t *testing.T, src string) error {
	t.Helper()
	result := parseWith(Options{}, src)
	require.Error(t, result.err, "input: %q", src)
	return result.err
}

// textOf flattens the text parts of an argument chain.
func textOf(arg *syntax.Part) string {
	var sb strings.Builder
	for p := arg; p != nil; p = p.Next {
		sb.Write(p.Text)
	}
	return sb.String()
}

// argTexts renders a command's arguments as flat strings.
func argTexts(cmd *syntax.Command) []string {
	out := make([]string, 0, len(cmd.Args))
	for _, arg := range cmd.Args {
		out = append(out, textOf(arg))
	}
	return out
}

func TestParseSimpleCommand(t *testing.T) {
	t.Parallel()
	result := parse(t, "echo hello\n")

	require.Len(t, result.cmds, 1)
	cmd := result.cmds[0]
	assert.Equal(t, syntax.Newline, cmd.Terminator)
	assert.Empty(t, cmd.Redirs)
	assert.False(t, cmd.HaveBang)

	require.Len(t, cmd.Args, 2)
	assert.Equal(t, syntax.PartUnquoted, cmd.Args[0].Kind)
	assert.Equal(t, "echo", string(cmd.Args[0].Text))
	assert.Nil(t, cmd.Args[0].Next)
	assert.Equal(t, syntax.PartUnquoted, cmd.Args[1].Kind)
	assert.Equal(t, "hello", string(cmd.Args[1].Text))
}

func TestParseAssignmentsAndRedirections(t *testing.T) {
	t.Parallel()
	result := parse(t, "a=1 b=2 cmd >out 2>&1 <in\n")

	require.Len(t, result.cmds, 1)
	cmd := result.cmds[0]
	assert.Equal(t, []string{"a=1", "b=2", "cmd"}, argTexts(cmd))

	require.Len(t, cmd.Redirs, 3)
	assert.Equal(t, syntax.RedirectOutput, cmd.Redirs[0].Kind)
	assert.Nil(t, cmd.Redirs[0].LeftHandSide)
	assert.Equal(t, "out", textOf(cmd.Redirs[0].RightHandSide))

	assert.Equal(t, syntax.RedirectOutputToFD, cmd.Redirs[1].Kind)
	require.NotNil(t, cmd.Redirs[1].LeftHandSide)
	assert.Equal(t, "2", textOf(cmd.Redirs[1].LeftHandSide))
	assert.Equal(t, "1", textOf(cmd.Redirs[1].RightHandSide))

	assert.Equal(t, syntax.RedirectInput, cmd.Redirs[2].Kind)
	assert.Nil(t, cmd.Redirs[2].LeftHandSide)
	assert.Equal(t, "in", textOf(cmd.Redirs[2].RightHandSide))
}

func TestParseTerminators(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		expected []syntax.Terminator
	}{
		{"semicolon", "a; b\n", []syntax.Terminator{syntax.Semicolon, syntax.Newline}},
		{"ampersand", "a& b\n", []syntax.Terminator{syntax.Ampersand, syntax.Newline}},
		{"pipe", "a | b\n", []syntax.Terminator{syntax.Pipe, syntax.Newline}},
		{"and-or", "a && b || c\n", []syntax.Terminator{syntax.And, syntax.Or, syntax.Newline}},
		{"pipe-ampersand", "a |& b\n", []syntax.Terminator{syntax.PipeAmpersand, syntax.Newline}},
		{"ampersand-pipe", "a &| b\n", []syntax.Terminator{syntax.AmpersandPipe, syntax.Newline}},
		{"socket-pipe", "a <>| b\n", []syntax.Terminator{syntax.SocketPipe, syntax.Newline}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := parse(t, tt.src)
			require.Len(t, result.cmds, len(tt.expected))
			for i, terminator := range tt.expected {
				assert.Equal(t, terminator, result.cmds[i].Terminator)
			}
		})
	}
}

func TestParseBang(t *testing.T) {
	t.Parallel()
	result := parse(t, "! true\n")
	require.Len(t, result.cmds, 1)
	assert.True(t, result.cmds[0].HaveBang)
	assert.Equal(t, []string{"true"}, argTexts(result.cmds[0]))
}

func TestParseCleanStateAfterRun(t *testing.T) {
	t.Parallel()
	result := parse(t, "echo a\nif true; then echo b; fi\ncat <<X\nbody\nX\n")

	ctx := result.ctx
	assert.Nil(t, ctx.modes.prev, "mode stack must be one frame deep")
	assert.Equal(t, ModeNormal, ctx.modes.mode)
	assert.Nil(t, ctx.state.Parent)
	assert.Empty(t, ctx.state.Commands)
	assert.Empty(t, ctx.hereDocs.queue)
	assert.Nil(t, ctx.hereDocs.prev)
	assert.Nil(t, ctx.interp.Parent)
	assert.False(t, ctx.prematureEOF)
}

func TestParseLineContinuationEquivalence(t *testing.T) {
	t.Parallel()
	plain := parse(t, "echo hello world\n")
	split := parse(t, "echo hel\\\nlo wor\\\nld\n")

	require.Len(t, plain.cmds, 1)
	require.Len(t, split.cmds, 1)
	assert.Equal(t, argTexts(plain.cmds[0]), argTexts(split.cmds[0]))

	for i, arg := range plain.cmds[0].Args {
		other := split.cmds[0].Args[i]
		assert.Equal(t, arg.Kind, other.Kind)
	}
}

func TestParseLineNumbersMonotonic(t *testing.T) {
	t.Parallel()
	result := parse(t, "echo a b\necho c \\\nd e\necho 'x\ny' z\n")

	const maxLine = 5
	for _, cmd := range result.cmds {
		assert.GreaterOrEqual(t, cmd.TerminatorLine, 1)
		assert.LessOrEqual(t, cmd.TerminatorLine, maxLine)
		for _, arg := range cmd.Args {
			last := 0
			for p := arg; p != nil; p = p.Next {
				assert.GreaterOrEqual(t, p.Line, 1)
				assert.LessOrEqual(t, p.Line, maxLine)
				assert.GreaterOrEqual(t, p.Line, last, "line numbers decrease within argument")
				last = p.Line
			}
		}
	}
}

func TestParseVariableSplitting(t *testing.T) {
	t.Parallel()
	result := parse(t, "echo a$b-$?c\n")

	require.Len(t, result.cmds, 1)
	cmd := result.cmds[0]
	require.Len(t, cmd.Args, 2)

	var kinds []syntax.PartKind
	var texts []string
	for p := cmd.Args[1]; p != nil; p = p.Next {
		kinds = append(kinds, p.Kind)
		texts = append(texts, string(p.Text))
	}
	assert.Equal(t, []syntax.PartKind{
		syntax.PartUnquoted, syntax.PartVariable,
		syntax.PartUnquoted, syntax.PartVariable, syntax.PartUnquoted,
	}, kinds)
	assert.Equal(t, []string{"a", "b", "-", "?", "c"}, texts)
}

func TestParsePositionalMultiDigitWarns(t *testing.T) {
	t.Parallel()
	result := parse(t, "echo $12\n")

	require.Len(t, result.cmds, 1)
	arg := result.cmds[0].Args[1]
	assert.Equal(t, syntax.PartVariable, arg.Kind)
	assert.Equal(t, "1", string(arg.Text))
	require.NotNil(t, arg.Next)
	assert.Equal(t, syntax.PartUnquoted, arg.Next.Kind)
	assert.Equal(t, "2", string(arg.Next.Text))

	require.Len(t, result.warnings, 1)
	assert.Contains(t, result.warnings[0], "multiple digits")
}

func TestParseNestedSubstitutionWithBackquote(t *testing.T) {
	t.Parallel()
	result := parse(t, "echo $(echo `echo x`)\n")

	require.Len(t, result.cmds, 1)
	cmd := result.cmds[0]
	require.Len(t, cmd.Args, 2)

	sub := cmd.Args[1]
	assert.Equal(t, syntax.PartSubshellSubstitution, sub.Kind)
	require.NotNil(t, sub.Sub)
	assert.Equal(t, syntax.CodeRoot, sub.Sub.DealingWith)
	require.Len(t, sub.Sub.Commands, 1)

	inner := sub.Sub.Commands[0]
	require.Len(t, inner.Args, 2)
	assert.Equal(t, "echo", textOf(inner.Args[0]))

	bq := inner.Args[1]
	assert.Equal(t, syntax.PartBackquoteExpression, bq.Kind)
	require.NotNil(t, bq.Sub)
	require.Len(t, bq.Sub.Commands, 1)
	assert.Equal(t, []string{"echo", "x"}, argTexts(bq.Sub.Commands[0]))

	// The backquote parse is reported on the operator's line.
	assert.Len(t, result.warnings, 1)
	assert.Contains(t, result.warnings[0], "backquote expression found at line 1")
}

func TestParseQuoteExpressionWithSubstitution(t *testing.T) {
	t.Parallel()
	result := parse(t, "echo \"a${b:-c}d\"\n")

	require.Len(t, result.cmds, 1)
	cmd := result.cmds[0]
	require.Len(t, cmd.Args, 2)

	quote := cmd.Args[1]
	require.Equal(t, syntax.PartQuoteExpression, quote.Kind)
	require.NotNil(t, quote.Sub)
	assert.Equal(t, syntax.TextRoot, quote.Sub.DealingWith)
	require.Len(t, quote.Sub.Args, 1)

	parts := quote.Sub.Args[0]
	assert.Equal(t, syntax.PartQuoted, parts.Kind)
	assert.Equal(t, "a", string(parts.Text))

	varsub := parts.Next
	require.NotNil(t, varsub)
	assert.Equal(t, syntax.PartVariableSubstitution, varsub.Kind)
	require.NotNil(t, varsub.Sub)
	require.Len(t, varsub.Sub.Args, 3)
	assert.Equal(t, syntax.PartVariable, varsub.Sub.Args[0].Kind)
	assert.Equal(t, "b", string(varsub.Sub.Args[0].Text))
	assert.Equal(t, syntax.PartOperator, varsub.Sub.Args[1].Kind)
	assert.Equal(t, ":-", string(varsub.Sub.Args[1].Text))
	assert.Equal(t, syntax.PartUnquoted, varsub.Sub.Args[2].Kind)
	assert.Equal(t, "c", string(varsub.Sub.Args[2].Text))

	tail := varsub.Next
	require.NotNil(t, tail)
	assert.Equal(t, syntax.PartQuoted, tail.Kind)
	assert.Equal(t, "d", string(tail.Text))
	assert.Nil(t, tail.Next)
}

func TestParseStrayDoubleSemicolon(t *testing.T) {
	t.Parallel()
	err := parseError(t, "echo x;;\n")
	assert.Contains(t, err.Error(), "stray ';;' at line 1")
}

func TestParsePrematureEndOfFile(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated single quote", "echo 'abc"},
		{"unterminated substitution", "echo $(foo\n"},
		{"unterminated double quote", "echo \"abc\n"},
		{"unterminated if", "if true\nthen echo hi\n"},
		{"pending here-document", "cat <<EOF\nbody\n"},
		{"trailing backslash", "echo \\"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := parseError(t, tt.src)
			assert.Contains(t, err.Error(), "premature end of file")
		})
	}
}

func TestParseMissingRedirectionTarget(t *testing.T) {
	t.Parallel()
	err := parseError(t, "echo >\n")
	assert.Contains(t, err.Error(), "premature end of command")
}

func TestParseNulByteRemoved(t *testing.T) {
	t.Parallel()
	result := parse(t, "ec\x00ho hi\n")

	require.Len(t, result.cmds, 1)
	assert.Equal(t, []string{"echo", "hi"}, argTexts(result.cmds[0]))
	require.Len(t, result.warnings, 1)
	assert.Contains(t, result.warnings[0], "ignoring NUL byte at line 1")
}

func TestParseNulByteWarningSuppressedOnTTY(t *testing.T) {
	t.Parallel()
	result := parseWith(Options{TTYInput: true}, "ec\x00ho hi\n")
	require.NoError(t, result.err)
	assert.Empty(t, result.warnings)
}
