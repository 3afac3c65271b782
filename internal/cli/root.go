package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	perrors "github.com/sdlcforge/parsh/internal/errors"
	"github.com/sdlcforge/parsh/internal/format"
	"github.com/sdlcforge/parsh/internal/parser"
	"github.com/sdlcforge/parsh/internal/syntax"
	"github.com/sdlcforge/parsh/internal/version"
)

// NewRootCmd creates the root command. The default action parses
// standard input and dumps the resulting command tree.
func NewRootCmd(config *Config) *cobra.Command {
	var noColor bool
	var forceColor bool

	rootCmd := &cobra.Command{
		Use:     "parsh",
		Short:   "Streaming POSIX-style shell parser",
		Version: version.Version,
		Long: `parsh reads shell source from standard input and prints the fully
elaborated command tree, with syntax errors reported against their
source line.

Invoked as 'sh' it enforces POSIX mode: non-portable operators and
syntaxes are rejected with a warning.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor && forceColor {
				return perrors.NewUsageError("--color and --no-color are mutually exclusive")
			}
			if noColor {
				config.ColorMode = ColorNever
			}
			if forceColor {
				config.ColorMode = ColorAlways
			}
			config.UseColor = ResolveColorMode(config)

			if _, err := format.NewFormatter(config.Format, nil); err != nil {
				return perrors.NewUsageError("%v", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(config, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	rootCmd.Flags().BoolVar(&config.PosixMode,
		"posix", config.PosixMode, "Enforce POSIX mode (as when invoked as 'sh')")
	rootCmd.Flags().StringVar(&config.Format,
		"format", config.Format, "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&forceColor,
		"color", false, "Force colored output")
	rootCmd.PersistentFlags().BoolVar(&noColor,
		"no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&config.Verbose,
		"verbose", "v", false, "Verbose mode (currently has no effect on the output)")

	return rootCmd
}

// runParse drives the pipeline over the input and renders the
// retired commands.
func runParse(config *Config, in io.Reader, out, errw io.Writer) error {
	var cmds []*syntax.Command

	ctx := parser.New(parser.Options{
		TTYInput:  config.TTYInput,
		PosixMode: config.PosixMode,
		Warn: func(f string, args ...any) {
			fmt.Fprintf(errw, "%s: warning: %s\n", config.ProgName, fmt.Sprintf(f, args...))
		},
		Emit: func(cmd *syntax.Command) {
			cmds = append(cmds, cmd)
		},
	})

	if err := ctx.Run(in); err != nil {
		return err
	}

	formatter, err := format.NewFormatter(config.Format, &format.Config{UseColor: config.UseColor})
	if err != nil {
		return perrors.NewUsageError("%v", err)
	}
	return formatter.Render(cmds, out)
}

// ExitCode maps an error to the process exit status: usage problems
// exit 1, parse and input failures exit 2.
func ExitCode(err error) int {
	switch err.(type) {
	case *perrors.SyntaxError, *perrors.PrematureEOFError, *perrors.InputError:
		return 2
	default:
		return 1
	}
}
