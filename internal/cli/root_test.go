package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/sdlcforge/parsh/internal/errors"
)

// runCommand executes the root command with the given input and
// arguments, returning stdout, stderr and the error.
func runCommand(t *testing.T, config *Config, input string, args ...string) (string, string, error) {
	t.Helper()
	if config == nil {
		config = &Config{ProgName: "parsh", Format: "text", ColorMode: ColorNever}
	}
	cmd := NewRootCmd(config)
	cmd.SetIn(strings.NewReader(input))
	var out, errOut strings.Builder
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCmdParsesSimpleInput(t *testing.T) {
	t.Parallel()
	out, errOut, err := runCommand(t, nil, "echo hello\n")
	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Contains(t, out, "command newline @1")
	assert.Contains(t, out, `unquoted "echo" @1`)
	assert.Contains(t, out, `unquoted "hello" @1`)
}

func TestRootCmdJSONFormat(t *testing.T) {
	t.Parallel()
	out, _, err := runCommand(t, nil, "echo hi\n", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"commands"`)
	assert.Contains(t, out, `"terminator": "newline"`)
}

func TestRootCmdYAMLFormat(t *testing.T) {
	t.Parallel()
	out, _, err := runCommand(t, nil, "echo hi\n", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "commands:")
	assert.Contains(t, out, "terminator: newline")
}

func TestRootCmdRejectsUnknownFormat(t *testing.T) {
	t.Parallel()
	_, _, err := runCommand(t, nil, "", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
	assert.Equal(t, 1, ExitCode(err))
}

func TestRootCmdRejectsPositionalArgs(t *testing.T) {
	t.Parallel()
	_, _, err := runCommand(t, nil, "", "script.sh")
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestRootCmdSyntaxErrorExitCode(t *testing.T) {
	t.Parallel()
	_, _, err := runCommand(t, nil, "echo x;;\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stray ';;' at line 1")
	assert.Equal(t, 2, ExitCode(err))
}

func TestRootCmdPosixFlag(t *testing.T) {
	t.Parallel()
	_, errOut, err := runCommand(t, nil, "echo $'a'\n", "--posix")
	require.NoError(t, err)
	assert.Contains(t, errOut, "parsh: warning:")
	assert.Contains(t, errOut, "not portable")
}

func TestRootCmdWarningsCarryProgName(t *testing.T) {
	t.Parallel()
	config := &Config{ProgName: "sh", PosixMode: true, Format: "text", ColorMode: ColorNever}
	_, errOut, err := runCommand(t, config, "echo $'a'\n")
	require.NoError(t, err)
	assert.Contains(t, errOut, "sh: warning:")
}

func TestRootCmdColorFlagConflict(t *testing.T) {
	t.Parallel()
	_, _, err := runCommand(t, nil, "", "--color", "--no-color")
	require.Error(t, err)
	var usageErr *perrors.UsageError
	assert.True(t, errors.As(err, &usageErr))
	assert.Equal(t, 1, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 2, ExitCode(perrors.NewSyntaxError(3, "stray 'x'")))
	assert.Equal(t, 2, ExitCode(perrors.NewPrematureEOFError()))
	assert.Equal(t, 2, ExitCode(perrors.NewInputError(errors.New("bad"))))
	assert.Equal(t, 1, ExitCode(perrors.NewUsageError("wrong")))
	assert.Equal(t, 1, ExitCode(errors.New("other")))
}
