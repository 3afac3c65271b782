package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sdlcforge/parsh/internal/builtins"
	"github.com/sdlcforge/parsh/internal/cli"
)

func main() {
	name := strings.TrimPrefix(filepath.Base(os.Args[0]), "-")
	if code, ok := builtins.Run(name, os.Args[1:], os.Stdout, os.Stderr); ok {
		os.Exit(code)
	}

	config := cli.NewConfig()
	cli.ApplyInvocationName(config, os.Args[0])
	config.TTYInput = cli.IsTerminal(os.Stdin.Fd())

	if err := cli.NewRootCmd(config).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.ProgName, err)
		os.Exit(cli.ExitCode(err))
	}
}
