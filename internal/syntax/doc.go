// Package syntax defines the data model shared by every stage of the
// parsing pipeline: argument part chains, redirections, commands,
// parser-state nodes and interpreter-state nodes.
//
// # Argument Parts
//
// An argument is a linked chain of parts. Text parts (quoted,
// unquoted, variable, operator) carry bytes; expression parts carry a
// nested parser state while the tokeniser owns them and a nested
// interpreter state once the grammar interpreter has consumed them.
//
// # Ownership
//
// Ownership runs strictly downward: parser states own their commands,
// commands own their argument chains, expression parts own their
// child states. Parent links exist only so the pipeline can unwind;
// they must never be used to reach siblings.
//
// # Line Numbers
//
// Every part records the 1-based source line it started on. Line
// numbers are monotonic within one argument chain and are the anchor
// for every diagnostic the pipeline emits.
package syntax
