// Package errors defines the diagnostic types the parsing pipeline
// reports through.
//
// All error types implement the standard error interface. The CLI
// prefixes rendered messages with the program name, so Error methods
// return bare messages in the shape the diagnostics contract
// requires: "<message> at line <N>" for located errors.
//
// # Error Types
//
//   - SyntaxError: fatal syntax problem with a captured line number
//     (stray token, missing right-hand side, illegal name, invalid
//     substitution)
//
//   - PrematureEOFError: input ended with open lexical or grammatical
//     state
//
//   - InputError: the input stream could not be read; wraps the cause
//
//   - UsageError: the command line itself is wrong
//
// # Usage
//
// All error types have constructor functions (NewXxxError) that create
// properly initialized error instances.
package errors
