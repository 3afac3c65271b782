// Package cli wires the parsing pipeline to the command line.
//
// The binary reads shell source from standard input and dumps the
// parsed command tree on standard output. Configuration layers, in
// increasing precedence: PARSH_-prefixed environment variables, the
// invocation-name rules (a program name of sh enables POSIX mode, a
// leading dash marks a login shell), and command-line flags.
// No positional arguments are accepted.
package cli
