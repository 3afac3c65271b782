package parser

import (
	"github.com/sdlcforge/parsh/internal/escape"
	"github.com/sdlcforge/parsh/internal/syntax"
)

// pushEndOfFile terminates any trailing command and records whether
// the pipeline still holds open state.
func (c *Context) pushEndOfFile() {
	c.pushCommandTerminalMaybe(syntax.Semicolon)

	open := c.state.Parent != nil ||
		c.modes.prev != nil ||
		c.state.NeedRightHandSide ||
		len(c.hereDocs.queue) != 0 ||
		c.hereDocs.prev != nil ||
		c.interp.Parent != nil
	if !c.doNotRun && len(c.state.Commands) != 0 {
		open = true
	}
	if open {
		c.prematureEOF = true
	}
}

// pushWhitespace closes the argument under construction and appends
// it to the active command's argument vector. Between a redirection
// operator and its right-hand side this is a no-op, or a fatal
// premature end of command when strict.
func (c *Context) pushWhitespace(strict bool) {
	if c.state.NeedRightHandSide {
		if strict {
			c.failSyntax(0, "premature end of command")
		}
		return
	}

	if c.state.CurrentArg != nil {
		c.state.Args = append(c.state.Args, c.state.CurrentArg)
		c.state.CurrentArg = nil
		c.state.CurrentArgEnd = nil
	}
}

// pushCommandTerminal closes the command under construction with the
// given terminator and, at the top of the parser tree, hands the
// completed commands to the grammar interpreter.
func (c *Context) pushCommandTerminal(terminal syntax.Terminator) {
	c.pushWhitespace(true)

	cmd := &syntax.Command{
		Terminator:     terminal,
		TerminatorLine: c.tokLine,
		Args:           c.state.Args,
		Redirs:         c.state.Redirs,
	}
	c.state.Commands = append(c.state.Commands, cmd)
	c.state.Args = nil
	c.state.Redirs = nil

	if c.state.Parent == nil && !c.doNotRun {
		c.interpretAndEliminate()
	}
}

// pushCommandTerminalMaybe closes the command only if anything has
// accumulated for it.
func (c *Context) pushCommandTerminalMaybe(terminal syntax.Terminator) {
	if len(c.state.Args) != 0 || c.state.CurrentArg != nil {
		c.pushCommandTerminal(terminal)
	}
}

// pushSemicolon closes the command with a semicolon terminator; when
// maybe is set, only if anything has accumulated.
func (c *Context) pushSemicolon(maybe bool) {
	if maybe {
		c.pushCommandTerminalMaybe(syntax.Semicolon)
	} else {
		c.pushCommandTerminal(syntax.Semicolon)
	}
}

// pushNewArgumentPart extends the argument under construction with a
// fresh part of the given kind.
func (c *Context) pushNewArgumentPart(kind syntax.PartKind) *syntax.Part {
	part := &syntax.Part{Kind: kind, Line: c.tokLine}

	if c.state.CurrentArgEnd != nil {
		c.state.CurrentArgEnd.Next = part
	} else {
		c.state.CurrentArg = part
	}
	c.state.CurrentArgEnd = part
	return part
}

// pushText appends text to the argument under construction,
// extending the final part when it has the same kind and line and
// starting a new part otherwise.
func (c *Context) pushText(text []byte, kind syntax.PartKind) {
	c.state.NeedRightHandSide = false

	end := c.state.CurrentArgEnd
	if end == nil || end.Kind != kind || end.Line != c.tokLine {
		end = c.pushNewArgumentPart(kind)
	}
	end.Append(text)
}

// pushQuoted appends literal text not subject to expansion.
func (c *Context) pushQuoted(text []byte) {
	c.pushText(text, syntax.PartQuoted)
}

// pushEscaped decodes an ANSI-C $'…' body and appends the result as
// quoted text.
func (c *Context) pushEscaped(text []byte) {
	c.pushText(escape.Decode(text, escape.WarnFunc(c.warnf)), syntax.PartQuoted)
}

// pushUnquoted appends plain text subject to later expansion.
func (c *Context) pushUnquoted(text []byte) {
	c.pushText(text, syntax.PartUnquoted)
}

// redirectionFDCandidate reports whether the argument under
// construction qualifies as a redirection left-hand side: a lone
// unquoted part that is purely numeric, or, outside POSIX mode, a
// simple $NAME variable reference.
func (c *Context) redirectionFDCandidate(arg *syntax.Part) bool {
	if arg.Next != nil || arg.Kind != syntax.PartUnquoted || len(arg.Text) == 0 {
		return false
	}

	digits := true
	for _, b := range arg.Text {
		if b < '0' || b > '9' {
			digits = false
			break
		}
	}
	if digits {
		return true
	}

	if c.opts.PosixMode || arg.Text[0] != '$' || len(arg.Text) < 2 {
		return false
	}
	for i, b := range arg.Text[1:] {
		switch {
		case b == '_' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z':
		case '0' <= b && b <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// isStderrRedirection reports whether the kind redirects standard
// output and standard error together; such operators never take a
// left-hand side.
func isStderrRedirection(kind syntax.RedirKind) bool {
	switch kind {
	case syntax.RedirectOutputAndStderr,
		syntax.RedirectOutputAndStderrAppend,
		syntax.RedirectOutputAndStderrClobber,
		syntax.RedirectOutputAndStderrToFD:
		return true
	default:
		return false
	}
}

// pushRedirection opens a redirection: the preceding argument becomes
// its left-hand side when it qualifies as a file-descriptor number,
// a placeholder part marks where the right-hand side will follow, and
// here-document forms join the pending queue.
func (c *Context) pushRedirection(kind syntax.RedirKind) {
	redir := &syntax.Redirection{Kind: kind}
	c.state.Redirs = append(c.state.Redirs, redir)

	if cur := c.state.CurrentArg; cur != nil {
		if cur.Kind != syntax.PartRedirection &&
			!isStderrRedirection(kind) &&
			c.redirectionFDCandidate(cur) {
			redir.LeftHandSide = cur
			c.state.CurrentArg = nil
			c.state.CurrentArgEnd = nil
		} else {
			c.pushWhitespace(true)
		}
	}

	placeholder := &syntax.Part{Kind: syntax.PartRedirection, Line: c.tokLine}
	c.state.CurrentArg = placeholder
	c.state.CurrentArgEnd = placeholder

	if kind == syntax.HereDocument || kind == syntax.HereDocumentIndented {
		c.hereDocs.queue = append(c.hereDocs.queue, &hereDoc{
			redir: redir,
			arg:   placeholder,
		})
	}

	c.state.NeedRightHandSide = true
}

// pushEnter opens a nested parser state owned by a fresh expression
// part of the given kind.
func (c *Context) pushEnter(kind syntax.PartKind) {
	c.state.NeedRightHandSide = false
	part := c.pushNewArgumentPart(kind)

	child := &syntax.ParserState{Parent: c.state}
	part.Child = child
	c.state = child
}

// pushLeave closes the current nested parser state and returns to
// its parent. Subshell-like expressions get a synthetic semicolon,
// text-like expressions a synthetic newline so the interpreter sees
// a completed dummy command, and backquote expressions are re-parsed
// through a fresh sub-context.
func (c *Context) pushLeave() {
	parent := c.state.Parent
	part := parent.CurrentArgEnd

	switch part.Kind {
	case syntax.PartBackquoteExpression:
		c.reparseBackquote(part)

	case syntax.PartQuoteExpression,
		syntax.PartArithmeticExpression,
		syntax.PartVariableSubstitution,
		syntax.PartArithmeticSubshell:
		c.pushWhitespace(false)
		c.pushCommandTerminalMaybe(syntax.Newline)

	default:
		c.pushSemicolon(true)
	}

	c.state = parent
}

// reparseBackquote concatenates the raw bytes collected for a
// backquote expression and runs them through a fresh sub-context;
// the resulting parser state replaces the collected one.
func (c *Context) reparseBackquote(part *syntax.Part) {
	var raw []byte
	for _, arg := range c.state.Args {
		for p := arg; p != nil; p = p.Next {
			raw = append(raw, p.Text...)
		}
	}
	for p := c.state.CurrentArg; p != nil; p = p.Next {
		raw = append(raw, p.Text...)
	}

	nested := c.newNested(part.Line)
	nested.runBytes(raw)
	part.Child = nested.state
}

// pushFunctionMark records a literal () as its own argument.
func (c *Context) pushFunctionMark() {
	c.pushWhitespace(true)
	c.pushNewArgumentPart(syntax.PartFunctionMark)
	c.pushWhitespace(true)
}

// pushShellIO opens a nested expression that is lexed in the given
// mode.
func (c *Context) pushShellIO(kind syntax.PartKind, mode Mode) {
	c.pushMode(mode)
	c.pushEnter(kind)
}

// symbolAction is one recognised operator: its token, whether POSIX
// mode admits it, and the primitive it triggers.
type symbolAction struct {
	token    string
	portable bool
	action   func(*Context)
}

// symbolTable lists the recognised operators longest-match-first.
var symbolTable = []symbolAction{
	{"<<<", false, func(c *Context) { c.pushRedirection(syntax.HereString) }},
	{"<<-", true, func(c *Context) { c.pushRedirection(syntax.HereDocumentIndented) }},
	{"<>(", false, func(c *Context) { c.pushShellIO(syntax.PartProcessSubstitutionInputOutput, ModeNormal) }},
	{"<>|", false, func(c *Context) { c.pushCommandTerminal(syntax.SocketPipe) }},
	{"<>&", false, func(c *Context) { c.pushRedirection(syntax.RedirectInputOutputToFD) }},
	{"&>>", false, func(c *Context) { c.pushRedirection(syntax.RedirectOutputAndStderrAppend) }},
	{"&>&", false, func(c *Context) { c.pushRedirection(syntax.RedirectOutputAndStderrToFD) }},
	{"&>|", false, func(c *Context) { c.pushRedirection(syntax.RedirectOutputAndStderrClobber) }},
	{"()", true, func(c *Context) { c.pushFunctionMark() }},
	{"((", true, func(c *Context) { c.pushShellIO(syntax.PartArithmeticSubshell, ModeRRBQuote) }},
	{";;", true, func(c *Context) { c.pushCommandTerminal(syntax.DoubleSemicolon) }},
	{"<(", false, func(c *Context) { c.pushShellIO(syntax.PartProcessSubstitutionOutput, ModeNormal) }},
	{"<<", true, func(c *Context) { c.pushRedirection(syntax.HereDocument) }},
	{"<>", true, func(c *Context) { c.pushRedirection(syntax.RedirectInputOutput) }},
	{"<&", true, func(c *Context) { c.pushRedirection(syntax.RedirectInputToFD) }},
	{">(", false, func(c *Context) { c.pushShellIO(syntax.PartProcessSubstitutionInput, ModeNormal) }},
	{">>", true, func(c *Context) { c.pushRedirection(syntax.RedirectOutputAppend) }},
	{">&", true, func(c *Context) { c.pushRedirection(syntax.RedirectOutputToFD) }},
	{">|", true, func(c *Context) { c.pushRedirection(syntax.RedirectOutputClobber) }},
	{"||", true, func(c *Context) { c.pushCommandTerminal(syntax.Or) }},
	{"|&", true, func(c *Context) { c.pushCommandTerminal(syntax.PipeAmpersand) }},
	{"&&", true, func(c *Context) { c.pushCommandTerminal(syntax.And) }},
	{"&|", false, func(c *Context) { c.pushCommandTerminal(syntax.AmpersandPipe) }},
	{"&>", false, func(c *Context) { c.pushRedirection(syntax.RedirectOutputAndStderr) }},
	{"(", true, func(c *Context) { c.pushShellIO(syntax.PartSubshell, ModeNormal) }},
	{";", true, func(c *Context) { c.pushSemicolon(false) }},
	{"<", true, func(c *Context) { c.pushRedirection(syntax.RedirectInput) }},
	{">", true, func(c *Context) { c.pushRedirection(syntax.RedirectOutput) }},
	{"|", true, func(c *Context) { c.pushCommandTerminal(syntax.Pipe) }},
	{"&", true, func(c *Context) { c.pushCommandTerminal(syntax.Ampersand) }},
}

// pushSymbol resolves the longest recognised operator at the start of
// the token and triggers its primitive, skipping operators POSIX mode
// rejects. It returns how many bytes it consumed; an unrecognised
// byte is pushed through as plain text.
func (c *Context) pushSymbol(token []byte) int {
	for _, sym := range symbolTable {
		if len(token) < len(sym.token) || string(token[:len(sym.token)]) != sym.token {
			continue
		}
		if !sym.portable && !c.checkExtension(sym.token, c.tokLine) {
			continue
		}
		sym.action(c)
		return len(sym.token)
	}

	c.pushUnquoted(token[:1])
	return 1
}
