// Package parser implements the parsing pipeline: a ring-buffer
// driver feeding a preparser, a mode-stack tokeniser, an argument
// assembler and a grammar interpreter.
//
// # Stages
//
// The preparser scrubs NUL bytes, collapses backslash-newline
// continuations and counts source lines. The tokeniser dispatches on
// the top of a stack of lexical modes and feeds the assembler through
// push primitives. The assembler accumulates argument part chains,
// redirections and commands inside a tree of parser states. The
// grammar interpreter runs over completed commands at each top-level
// terminator, recognising reserved words, resolving compound
// statements, binding redirection right-hand sides and splitting
// unquoted text into variable references.
//
// # Streaming
//
// Every stage tolerates a byte window that ends mid-token: it
// reports how many bytes it consumed and is re-entered with the same
// state once more data arrives. Double-quoted text is appended chunk
// by chunk and here-document bodies a line at a time. A '…' or $'…'
// string is consumed only once its closing quote is in the window,
// so it does need a contiguous buffer: the driver grows its buffer
// until the whole string fits.
//
// # Errors
//
// Fatal diagnostics abort the pipeline from arbitrarily deep call
// frames. Internally that is a panic carrying the typed error;
// the exported entry points recover it and return it as an error.
// No panic escapes the package.
package parser
