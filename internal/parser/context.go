package parser

import (
	perrors "github.com/sdlcforge/parsh/internal/errors"
	"github.com/sdlcforge/parsh/internal/syntax"
)

// Mode is a tokeniser lexical mode.
type Mode int

const (
	// ModeNormal lexes ordinary command text.
	ModeNormal Mode = iota

	// ModeComment consumes bytes until the end of the line.
	ModeComment

	// ModeBQQuote collects a backquote expression body.
	ModeBQQuote

	// ModeDQQuote lexes a double-quote body.
	ModeDQQuote

	// ModeRRBQuote lexes a $((…)) or ((…)) body, closed by )).
	ModeRRBQuote

	// ModeRBQuote lexes a nested (…) arithmetic scope, closed by ).
	ModeRBQuote

	// ModeSBQuote lexes a $[…] body, closed by ].
	ModeSBQuote

	// ModeCBQuote lexes a ${…} body, closed by }.
	ModeCBQuote

	// ModeHereDocInit resolves the pending here-document terminator
	// on the first byte after the command line's newline.
	ModeHereDocInit

	// ModeHereDoc collects here-document body lines.
	ModeHereDoc
)

// String returns the string representation of Mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeComment:
		return "comment"
	case ModeBQQuote:
		return "backquote"
	case ModeDQQuote:
		return "double-quote"
	case ModeRRBQuote:
		return "double-round-bracket"
	case ModeRBQuote:
		return "round-bracket"
	case ModeSBQuote:
		return "square-bracket"
	case ModeCBQuote:
		return "curly-bracket"
	case ModeHereDocInit:
		return "here-document-init"
	case ModeHereDoc:
		return "here-document"
	default:
		return "unknown"
	}
}

// modeFrame is one frame of the tokeniser mode stack.
type modeFrame struct {
	mode Mode

	// sheIsComment is set whenever a following # would start a
	// comment: immediately after whitespace, a newline or an
	// operator.
	sheIsComment bool

	prev *modeFrame
}

// hereDoc is one pending here-document.
type hereDoc struct {
	// redir is the redirection the body will be bound to; its kind
	// is rewritten to HereString once the body is complete.
	redir *syntax.Redirection

	// arg is the placeholder argument part of kind PartRedirection
	// that anchors the terminator and later the body.
	arg *syntax.Part

	// argEnd is the part body bytes are appended to, once the
	// terminator has been resolved.
	argEnd *syntax.Part

	// terminator is the resolved terminator text.
	terminator []byte

	// indented strips leading tabs from every body line (<<-).
	indented bool

	// verbatim disables $ and backquote recognition in the body
	// (quoted terminator).
	verbatim bool
}

// hereDocStack is one per-shell-level queue of pending
// here-documents. Entering a nested quoting mode from here-document
// mode pushes a fresh queue so that here-documents declared inside
// the nested code stay pending until it closes.
type hereDocStack struct {
	queue []*hereDoc

	// lineOffset is the scan offset into the current body line.
	lineOffset int

	// interpretWhenEmpty runs the deferred grammar interpretation
	// once the queue drains.
	interpretWhenEmpty bool

	prev *hereDocStack
}

// WarnFunc receives recoverable diagnostics.
type WarnFunc func(format string, args ...any)

// EmitFunc receives each completed top-level command once the
// grammar interpreter retires it.
type EmitFunc func(*syntax.Command)

// Options configures a Context.
type Options struct {
	// TTYInput suppresses the NUL-byte warning.
	TTYInput bool

	// PosixMode rejects non-portable operators and syntaxes.
	PosixMode bool

	// Warn receives recoverable diagnostics. Nil discards them.
	Warn WarnFunc

	// Emit receives retired top-level commands. Nil discards them.
	Emit EmitFunc
}

// Context owns every mutable sub-stack of the pipeline: the mode
// stack, the parser-state tree, the here-document queues and the
// interpreter-state stack.
type Context struct {
	opts Options

	// eofReached is set once the input source is exhausted.
	eofReached bool

	// prematureEOF records open state observed at end of file.
	prematureEOF bool

	// doNotRun suppresses grammar interpretation at top-level
	// terminators; set for the sub-parsing of backquote bodies.
	doNotRun bool

	// preOffset is the preparser's scan cursor into the unconsumed
	// window.
	preOffset int

	// preLine is the preparser's source line counter.
	preLine int

	// lineContinuations counts collapsed backslash-newlines, applied
	// to tokLine only once the current token finishes.
	lineContinuations int

	// tokLine is the tokeniser's source line counter.
	tokLine int

	// interpOffset is the grammar interpreter's cursor into the
	// active parser state's command vector.
	interpOffset int

	modes    *modeFrame
	state    *syntax.ParserState
	hereDocs *hereDocStack
	interp   *syntax.InterpreterState
}

// New creates a Context ready to consume input.
func New(opts Options) *Context {
	return &Context{
		opts:     opts,
		preLine:  1,
		tokLine:  1,
		modes:    &modeFrame{mode: ModeNormal, sheIsComment: true},
		state:    &syntax.ParserState{},
		hereDocs: &hereDocStack{},
		interp:   &syntax.InterpreterState{DealingWith: syntax.MainBody},
	}
}

// newNested creates the sub-context used to parse a backquote body
// or to interpret a nested expression. It inherits configuration but
// starts with fresh stacks, positioned at the given source line.
func (c *Context) newNested(line int) *Context {
	nested := New(Options{
		TTYInput:  c.opts.TTYInput,
		PosixMode: c.opts.PosixMode,
		Warn:      c.opts.Warn,
	})
	nested.doNotRun = true
	nested.preLine = line
	nested.tokLine = line
	return nested
}

// bail carries a fatal diagnostic up to the exported entry points.
type bail struct {
	err error
}

// fail aborts the pipeline with the given diagnostic.
func (c *Context) fail(err error) {
	panic(&bail{err: err})
}

// failSyntax aborts the pipeline with a located syntax error.
func (c *Context) failSyntax(line int, format string, args ...any) {
	c.fail(perrors.NewSyntaxError(line, format, args...))
}

// recoverBail converts a bail panic into the returned error.
func (c *Context) recoverBail(errp *error) {
	if r := recover(); r != nil {
		b, ok := r.(*bail)
		if !ok {
			panic(r)
		}
		*errp = b.err
	}
}

// warnf emits a recoverable diagnostic.
func (c *Context) warnf(format string, args ...any) {
	if c.opts.Warn != nil {
		c.opts.Warn(format, args...)
	}
}

// emit hands a retired top-level command to the configured consumer.
func (c *Context) emit(cmd *syntax.Command) {
	if c.opts.Emit != nil {
		c.opts.Emit(cmd)
	}
}

// checkExtension reports whether a non-portable token may be parsed.
// In POSIX mode it warns and refuses.
func (c *Context) checkExtension(token string, line int) bool {
	if !c.opts.PosixMode {
		return true
	}
	c.warnf("the '%s' token (at line %d) is not portable, not parsing as it", token, line)
	return false
}

// pushMode enters a lexical mode. Entering any mode from
// here-document mode opens a nested here-document queue.
func (c *Context) pushMode(mode Mode) {
	if mode == ModeBQQuote {
		c.warnf("backquote expression found at line %d, stop it!", c.tokLine)
	}
	if c.modes.mode == ModeHereDoc {
		c.hereDocs = &hereDocStack{prev: c.hereDocs}
	}
	c.modes = &modeFrame{mode: mode, sheIsComment: true, prev: c.modes}
}

// popMode leaves the current lexical mode. Returning to here-document
// mode merges the nested queue's pending items back into the outer
// queue; in POSIX mode pending items at this point are an error.
func (c *Context) popMode() {
	c.modes = c.modes.prev

	if c.modes.mode == ModeHereDoc {
		nested := c.hereDocs
		if len(nested.queue) != 0 && c.opts.PosixMode {
			c.failSyntax(c.tokLine,
				"subshell expression closed before here-documents, this is non-portable")
		}
		c.hereDocs = nested.prev
		if len(nested.queue) != 0 {
			c.hereDocs.queue = append(nested.queue, c.hereDocs.queue...)
		}
	}
}
