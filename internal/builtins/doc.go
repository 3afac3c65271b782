// Package builtins implements the trivial builtin commands the shell
// acknowledges: ':', 'true', 'false' and 'pwd'. The binary dispatches
// to them on its invocation name, busybox style; everything else
// about command execution lives downstream of the parsing core.
package builtins
