// Package escape decodes the ANSI-C escape sequences of $'…' bodies
// and encodes code points as UTF-8.
//
// The encoder accepts the original-Unicode range up to 0x7FFFFFFF and
// emits up to six bytes, which \U sequences may require; the standard
// library encoder stops at four bytes and cannot serve here.
//
// Escapes that decode to a NUL byte are dropped, with a warning
// through the caller's hook, since the preparser guarantees the
// pipeline never sees NUL bytes.
package escape
