package parser

import (
	"bytes"

	"github.com/sdlcforge/parsh/internal/syntax"
)

// initHereDocument resolves the pending here-document's terminator on
// the first byte after the newline that closed its command line, then
// switches to body collection.
func (c *Context) initHereDocument() {
	hd := c.hereDocs.queue[0]
	hd.indented = hd.redir.Kind == syntax.HereDocumentIndented

	c.resolveHereDocTerminator(hd)

	term := hd.arg.Next
	hd.verbatim = term.Kind == syntax.PartQuoted
	hd.terminator = term.Text
	if hd.terminator == nil {
		// An empty terminator is legal; nil marks an unresolved one.
		hd.terminator = []byte{}
	}

	// The terminator part is reused as the empty body part the
	// collected lines append to.
	term.Kind = syntax.PartQuoted
	term.Text = nil
	term.Line = c.tokLine
	hd.argEnd = term
	c.state.CurrentArgEnd = term

	c.modes.mode = ModeHereDoc
}

// resolveHereDocTerminator concatenates the argument parts that
// followed the << operator into a single terminator part. A part
// whose value is only known at run time cannot delimit a
// here-document.
func (c *Context) resolveHereDocTerminator(hd *hereDoc) {
	term := hd.arg.Next
	if term == nil {
		c.failSyntax(hd.arg.Line, "missing right-hand side of '%s'", hd.redir.Kind.Token())
	}
	switch term.Kind {
	case syntax.PartQuoted, syntax.PartUnquoted, syntax.PartQuoteExpression:
	case syntax.PartBackquoteExpression,
		syntax.PartArithmeticExpression,
		syntax.PartVariableSubstitution,
		syntax.PartSubshellSubstitution,
		syntax.PartProcessSubstitutionInput,
		syntax.PartProcessSubstitutionOutput,
		syntax.PartProcessSubstitutionInputOutput:
		c.failRunTimeTerminator(hd)
	default:
		c.failSyntax(hd.arg.Line, "missing right-hand side of '%s'", hd.redir.Kind.Token())
	}

	if term.Kind == syntax.PartQuoteExpression {
		child := term.Child
		term.Kind = syntax.PartQuoted
		term.Text = nil
		term.Child = nil
		term.Append(c.flattenQuoteExpression(hd, child))
	}

	for next := term.Next; next != nil; next = term.Next {
		switch next.Kind {
		case syntax.PartQuoted:
			term.Kind = syntax.PartQuoted
			term.Append(next.Text)

		case syntax.PartUnquoted:
			term.Append(next.Text)

		case syntax.PartQuoteExpression:
			term.Kind = syntax.PartQuoted
			term.Append(c.flattenQuoteExpression(hd, next.Child))

		case syntax.PartBackquoteExpression,
			syntax.PartArithmeticExpression,
			syntax.PartVariableSubstitution,
			syntax.PartSubshellSubstitution,
			syntax.PartProcessSubstitutionInput,
			syntax.PartProcessSubstitutionOutput,
			syntax.PartProcessSubstitutionInputOutput:
			c.failRunTimeTerminator(hd)

		case syntax.PartRedirection,
			syntax.PartFunctionMark,
			syntax.PartSubshell,
			syntax.PartArithmeticSubshell:
			// The interpreter recognises these as new arguments.
			return

		default:
			c.failSyntax(next.Line, "internal error: %s part in here-document terminator", next.Kind)
		}

		if c.state.CurrentArgEnd == next {
			c.state.CurrentArgEnd = term
		}
		term.Next = next.Next
	}
}

// flattenQuoteExpression collects the literal bytes of a quoted
// terminator's nested state.
func (c *Context) flattenQuoteExpression(hd *hereDoc, state *syntax.ParserState) []byte {
	var text []byte
	collect := func(arg *syntax.Part) {
		for p := arg; p != nil; p = p.Next {
			if p.Kind != syntax.PartQuoted && p.Kind != syntax.PartUnquoted {
				c.failRunTimeTerminator(hd)
			}
			text = append(text, p.Text...)
		}
	}
	for _, cmd := range state.Commands {
		for _, arg := range cmd.Args {
			collect(arg)
		}
	}
	for _, arg := range state.Args {
		collect(arg)
	}
	collect(state.CurrentArg)
	return text
}

func (c *Context) failRunTimeTerminator(hd *hereDoc) {
	c.failSyntax(hd.arg.Line,
		"use of run-time evaluated expression as right-hand side of %s",
		hd.redir.Kind.Token())
}

// lexHereDocument collects here-document body lines: leading tabs are
// stripped in indented mode, each complete line is compared against
// the terminator, and unless the terminator was quoted, \$, \`,
// $-forms and backquote expressions keep their meaning.
func (c *Context) lexHereDocument(rest []byte) (int, bool) {
	hd := c.hereDocs.queue[0]

	if rest[0] == '\t' && hd.indented {
		// A body line starts where the last part is quoted text
		// that is still empty or ends in a newline.
		end := c.state.CurrentArgEnd
		if end != nil && end.Kind == syntax.PartQuoted &&
			(len(end.Text) == 0 || end.Text[len(end.Text)-1] == '\n') {
			return 1, false
		}
	}

	for n := c.hereDocs.lineOffset; n < len(rest); n++ {
		b := rest[n]
		if b == '\n' {
			return c.finishHereDocumentLine(rest, n), false
		}
		if hd.verbatim {
			continue
		}
		switch b {
		case '\\':
			if n+1 == len(rest) {
				return 0, true
			}
			if rest[n+1] == '$' || rest[n+1] == '`' {
				if n > 0 {
					c.pushQuoted(rest[:n])
				}
				c.pushQuoted(rest[n+1 : n+2])
				return n + 2, false
			}
			n++

		case '$':
			if n > 0 {
				c.pushQuoted(rest[:n])
			}
			c.hereDocs.lineOffset = 0
			m, more := c.lexDollar(rest[n:], false)
			return n + m, more

		case '`':
			if n > 0 {
				c.pushQuoted(rest[:n])
			}
			c.hereDocs.lineOffset = 0
			c.pushMode(ModeBQQuote)
			c.pushEnter(syntax.PartBackquoteExpression)
			return n + 1, false
		}
	}
	return 0, true
}

// finishHereDocumentLine handles a completed body line: a terminator
// match completes the here-document, anything else joins the body.
// The queue head is re-read since a nested queue may have merged in
// while the line was being scanned.
func (c *Context) finishHereDocumentLine(rest []byte, lineLen int) int {
	c.tokLine++
	c.hereDocs.lineOffset = 0
	hd := c.hereDocs.queue[0]

	if hd.terminator == nil ||
		lineLen != len(hd.terminator) || !bytes.Equal(rest[:lineLen], hd.terminator) {
		c.pushQuoted(rest[:lineLen+1])
		return lineLen + 1
	}

	hd.redir.Kind = syntax.HereString
	c.hereDocs.queue = c.hereDocs.queue[1:]

	if len(c.hereDocs.queue) != 0 {
		c.modes.mode = ModeHereDocInit
		return lineLen + 1
	}

	c.state.CurrentArgEnd = nil
	c.popMode()
	if c.hereDocs.interpretWhenEmpty {
		c.hereDocs.interpretWhenEmpty = false
		c.interpretAndEliminate()
	}
	return lineLen + 1
}
