package parser

import (
	"bytes"

	"github.com/sdlcforge/parsh/internal/syntax"
)

// reservedWord identifies a word with grammatical meaning in command
// position.
type reservedWord int

const (
	notReserved reservedWord = iota
	rwBang
	rwOpenCurly
	rwCloseCurly
	rwCase
	rwDo
	rwDone
	rwElif
	rwElse
	rwEsac
	rwFi
	rwFor
	rwIf
	rwIn
	rwThen
	rwUntil
	rwWhile
)

var reservedWords = map[string]reservedWord{
	"!":     rwBang,
	"{":     rwOpenCurly,
	"}":     rwCloseCurly,
	"case":  rwCase,
	"do":    rwDo,
	"done":  rwDone,
	"elif":  rwElif,
	"else":  rwElse,
	"esac":  rwEsac,
	"fi":    rwFi,
	"for":   rwFor,
	"if":    rwIf,
	"in":    rwIn,
	"then":  rwThen,
	"until": rwUntil,
	"while": rwWhile,
}

// getReservedWord resolves an argument to a reserved word. Only a
// lone unquoted part qualifies; "if", if=1 and \if are ordinary
// arguments.
func getReservedWord(arg *syntax.Part) reservedWord {
	if arg.Kind != syntax.PartUnquoted || arg.Next != nil {
		return notReserved
	}
	return reservedWords[string(arg.Text)]
}

func (c *Context) strayTerminal(cmd *syntax.Command) {
	if cmd.Terminator == syntax.Newline {
		c.failSyntax(cmd.TerminatorLine, "stray %s", cmd.Terminator.Token())
	}
	c.failSyntax(cmd.TerminatorLine, "stray '%s'", cmd.Terminator.Token())
}

func (c *Context) strayReservedWord(arg *syntax.Part) {
	c.failSyntax(arg.Line, "stray '%s'", arg.Text)
}

func (c *Context) strayRedirection(cmd *syntax.Command, arg *syntax.Part) {
	kind := cmd.Redirs[cmd.RedirsOffset].Kind
	c.failSyntax(arg.Line, "stray '%s'", kind.Token())
}

// pushInterpretedArgument appends a finished argument to the active
// interpreter state.
func (c *Context) pushInterpretedArgument(arg *syntax.Part) {
	c.interp.Args = append(c.interp.Args, arg)
}

// pushState opens a nested interpreter state for a compound
// construct, anchored by a command part in the enclosing argument
// list.
func (c *Context) pushState(dealingWith syntax.Nesting, line int) {
	state := &syntax.InterpreterState{
		Parent:      c.interp,
		DealingWith: dealingWith,
	}
	c.pushInterpretedArgument(&syntax.Part{
		Kind: syntax.PartCommand,
		Sub:  state,
		Line: line,
	})
	c.interp = state
}

func (c *Context) popState() {
	c.interp = c.interp.Parent
}

// newCommandRequirement is the shared tail of reserved words that
// open a command list.
func (c *Context) newCommandRequirement() {
	c.interp.Requirement = syntax.NeedCommand
	c.interp.AllowNewline = true
}

func (c *Context) openCurly(line int) {
	c.pushState(syntax.CurlyNesting, line)
	c.newCommandRequirement()
}

func (c *Context) doKeyword(line int) {
	c.pushState(syntax.DoClause, line)
	c.newCommandRequirement()
}

// pushCommandInterp moves the structured argument and redirection
// vectors onto the command and queues it at the active nesting level.
func (c *Context) pushCommandInterp(cmd *syntax.Command) {
	cmd.Args = c.interp.Args
	cmd.Redirs = c.interp.Redirs
	cmd.HaveBang = c.interp.HaveBang
	c.interp.Args = nil
	c.interp.Redirs = nil
	c.interp.HaveBang = false
	c.state.Commands[c.interpOffset] = nil

	c.interp.Commands = append(c.interp.Commands, cmd)
}

// interpretNestedCode runs the grammar interpreter over a nested
// expression's parser state; the structured interpreter state
// replaces it on the owning part.
func (c *Context) interpretNestedCode(part *syntax.Part, dealingWith syntax.Nesting, requirement syntax.Requirement) {
	nested := c.newNested(part.Line)
	nested.state = part.Child
	nested.interp.DealingWith = dealingWith
	nested.interp.Requirement = requirement
	root := nested.interp

	nested.interpretAndEliminate()

	if nested.interpOffset < len(nested.state.Commands) || nested.interp != root {
		c.failSyntax(part.Line, "premature end of subexpression")
	}

	part.Child = nil
	part.Sub = root
}

// validateIdentifier rejects names that are empty, start with a digit
// or contain anything but letters, digits and underscores.
func (c *Context) validateIdentifier(arg *syntax.Part, kind, word string) {
	text := arg.Text
	ok := len(text) > 0 && !isDigit(text[0])
	if ok {
		for _, b := range text {
			if !isNameByte(b) {
				ok = false
				break
			}
		}
	}
	if !ok {
		c.failSyntax(arg.Line, "illegal %s \"%s\" for '%s'", kind, text, word)
	}
}

// interpretAndEliminate applies the grammar to the completed commands
// of the active parser state, from the interpreter's cursor forward.
// Completed top-level commands are retired to the Emit hook and their
// storage released. With here-documents pending the run is deferred
// until the queue drains.
func (c *Context) interpretAndEliminate() {
	if len(c.hereDocs.queue) != 0 {
		c.hereDocs.interpretWhenEmpty = true
		return
	}

	interpreted := 0
	for ; c.interpOffset < len(c.state.Commands); c.interpOffset++ {
		cmd := c.state.Commands[c.interpOffset]

		switch {
		case c.interp.DealingWith == syntax.TextRoot:
			c.interp.Requirement = syntax.NeedValue
		case c.interp.DealingWith != syntax.ForStatement &&
			c.interp.DealingWith != syntax.VariableSubstitutionBracket:
			c.interp.Requirement = syntax.NeedCommand
		}

		argi := 0
		var arg *syntax.Part
		for arg != nil || argi < len(cmd.Args) {
			if arg == nil {
				arg = cmd.Args[argi]
			}
			arg = c.interpretArgument(cmd, arg)
			if arg == nil {
				argi++
			}
		}

		if c.interp.DealingWith == syntax.TextRoot ||
			c.interp.DealingWith == syntax.VariableSubstitutionBracket {
			// The dummy command dissolves; its parts live on in the
			// interpreter state's argument vector.
			c.state.Commands[c.interpOffset] = nil
			continue
		}

		if c.interp.AllowNewline {
			c.interp.AllowNewline = false
			if cmd.Terminator == syntax.Newline {
				c.state.Commands[c.interpOffset] = nil
				continue
			}
		}

		req := c.interp.Requirement
		if req == syntax.NeedCommand && len(cmd.Args) == argi ||
			req == syntax.NeedFunctionBody ||
			req == syntax.NeedVariableName {
			c.strayTerminal(cmd)
		}

		if req == syntax.NeedInOrDo ||
			(req == syntax.NeedValue && c.interp.DealingWith == syntax.ForStatement) {
			c.interp.Requirement = syntax.NeedDo
			if cmd.Terminator != syntax.Semicolon && cmd.Terminator != syntax.Newline {
				c.strayTerminal(cmd)
			}
		}

		c.pushCommandInterp(cmd)

		switch cmd.Terminator {
		case syntax.Semicolon, syntax.Newline, syntax.Ampersand:
			c.interp.DisallowBang = false
			if c.interp.DealingWith == syntax.MainBody {
				for _, done := range c.interp.Commands {
					c.emit(done)
				}
				c.interp.Commands = c.interp.Commands[:0]
				interpreted = c.interpOffset + 1
			}
		case syntax.DoubleSemicolon:
			c.strayTerminal(cmd)
		default:
			c.interp.DisallowBang = true
		}
	}

	if interpreted > 0 {
		c.state.Commands = append(c.state.Commands[:0], c.state.Commands[interpreted:]...)
		c.interpOffset -= interpreted
	}
	if len(c.state.Commands) == 0 {
		c.state.Commands = nil
	}
}

// interpretArgument dispatches one argument chain against the active
// requirement. It returns the unconsumed remainder of the chain, or
// nil when the whole chain was consumed.
func (c *Context) interpretArgument(cmd *syntax.Command, arg *syntax.Part) *syntax.Part {
	st := c.interp

	if st.Requirement == syntax.NeedCommand {
		if rw := getReservedWord(arg); rw != notReserved {
			c.interpretReservedWord(arg, rw)
			return nil
		}
	}

	switch {
	case st.DealingWith == syntax.VariableSubstitutionBracket:
		return c.interpretSubstitutionArgument(arg)

	case arg.Kind == syntax.PartRedirection:
		if st.DealingWith == syntax.ForStatement {
			c.strayRedirection(cmd, arg)
		}
		rest := c.bindRedirection(cmd, arg)
		if st.Requirement != syntax.NeedFunctionBody {
			st.Requirement = syntax.NoRequirement // e.g. "<somefile;" is ok
		}
		return rest

	case arg.Kind == syntax.PartFunctionMark:
		if st.Requirement == syntax.NeedFunctionBody ||
			st.Requirement == syntax.NeedCommandEnd ||
			len(st.Args) != 1 ||
			st.DealingWith == syntax.ForStatement {
			c.failSyntax(arg.Line, "stray '()'")
		}
		rest := arg.Next
		arg.Next = nil
		c.pushArgument(arg)

		// Swap the () ahead of the function name to make function
		// definitions easy to identify.
		st.Args[0], st.Args[1] = st.Args[1], st.Args[0]

		st.Requirement = syntax.NeedFunctionBody
		st.AllowNewline = true
		return rest

	case st.Requirement == syntax.NeedFunctionBody:
		if getReservedWord(arg) == rwOpenCurly {
			c.openCurly(arg.Line)
			return nil
		}
		if arg.Kind != syntax.PartSubshell {
			c.failSyntax(arg.Line, "required function body or redirection")
		}
		st.Requirement = syntax.NeedCommandEnd
		rest := c.pushArgument(arg)
		st.AllowNewline = false
		return rest

	case st.Requirement == syntax.NeedVariableName:
		if arg.Kind != syntax.PartUnquoted || arg.Next != nil {
			c.failSyntax(arg.Line, "required variable name after 'for'")
		}
		c.validateIdentifier(arg, "variable name", "for")
		arg.Kind = syntax.PartVariable
		c.pushInterpretedArgument(arg)
		st.Requirement = syntax.NeedInOrDo
		st.AllowNewline = true
		return nil

	case st.Requirement == syntax.NeedDo:
		if getReservedWord(arg) != rwDo {
			c.strayReservedWord(arg)
		}
		c.doKeyword(arg.Line)
		return nil

	case st.Requirement == syntax.NeedInOrDo:
		switch getReservedWord(arg) {
		case rwDo:
			c.doKeyword(arg.Line)
		case rwIn:
			st.Requirement = syntax.NeedValue
			st.AllowNewline = false
		default:
			c.strayReservedWord(arg)
		}
		return nil

	default:
		if st.Requirement == syntax.NeedCommandEnd {
			c.failSyntax(arg.Line,
				"required ';', '&', '||', '&&', '|', '&|', '|&', '<>|', or redirection after control statement")
		}

		if st.Requirement != syntax.NeedValue {
			st.Requirement = syntax.NoRequirement
		}
		if (arg.Kind == syntax.PartSubshell || arg.Kind == syntax.PartArithmeticSubshell) &&
			len(st.Args) == 0 {
			st.Requirement = syntax.NeedCommandEnd
		}

		rest := c.pushArgument(arg)
		st.AllowNewline = false
		return rest
	}
}

// interpretReservedWord applies a reserved word's grammar transition.
func (c *Context) interpretReservedWord(arg *syntax.Part, rw reservedWord) {
	st := c.interp

	switch rw {
	case rwBang:
		if st.DisallowBang {
			c.strayReservedWord(arg)
		}
		st.DisallowBang = true
		st.HaveBang = true
		st.AllowNewline = false

	case rwOpenCurly:
		c.openCurly(arg.Line)

	case rwCloseCurly:
		if st.DealingWith != syntax.CurlyNesting {
			c.strayReservedWord(arg)
		}
		c.popState()
		c.interp.Requirement = syntax.NeedCommandEnd
		c.interp.AllowNewline = false

	case rwCase:
		c.failSyntax(arg.Line, "reserved word 'case' has not been implemented yet")

	case rwDo:
		if st.DealingWith != syntax.RepeatConditional {
			c.strayReservedWord(arg)
		}
		c.popState()
		c.doKeyword(arg.Line)

	case rwDone:
		if st.DealingWith != syntax.DoClause {
			c.strayReservedWord(arg)
		}
		c.popState()
		c.popState()
		c.interp.Requirement = syntax.NeedCommandEnd
		c.interp.AllowNewline = false

	case rwElif:
		if st.DealingWith != syntax.IfClause {
			c.strayReservedWord(arg)
		}
		c.popState()
		c.pushState(syntax.IfConditional, arg.Line)
		c.newCommandRequirement()

	case rwElse:
		if st.DealingWith != syntax.IfClause {
			c.strayReservedWord(arg)
		}
		c.popState()
		c.pushState(syntax.ElseClause, arg.Line)
		c.newCommandRequirement()

	case rwEsac, rwIn:
		c.strayReservedWord(arg)

	case rwFi:
		if st.DealingWith != syntax.IfClause && st.DealingWith != syntax.ElseClause {
			c.strayReservedWord(arg)
		}
		c.popState()
		c.popState()
		c.interp.Requirement = syntax.NeedCommandEnd
		c.interp.AllowNewline = false

	case rwFor:
		c.pushState(syntax.ForStatement, arg.Line)
		c.interp.Requirement = syntax.NeedVariableName
		c.interp.AllowNewline = true

	case rwIf:
		c.pushState(syntax.IfStatement, arg.Line)
		c.pushState(syntax.IfConditional, arg.Line)
		c.newCommandRequirement()

	case rwThen:
		if st.DealingWith != syntax.IfConditional {
			c.strayReservedWord(arg)
		}
		c.popState()
		c.pushState(syntax.IfClause, arg.Line)
		c.newCommandRequirement()

	case rwUntil:
		c.pushState(syntax.UntilStatement, arg.Line)
		c.pushState(syntax.RepeatConditional, arg.Line)
		c.newCommandRequirement()

	case rwWhile:
		c.pushState(syntax.WhileStatement, arg.Line)
		c.pushState(syntax.RepeatConditional, arg.Line)
		c.newCommandRequirement()
	}
}

// pushArgument splits the chain at the next redirection or function
// mark, translates its text parts and appends it to the active
// interpreter state. It returns the unconsumed remainder.
func (c *Context) pushArgument(arg *syntax.Part) *syntax.Part {
	if arg.Kind == syntax.PartRedirection || arg.Kind == syntax.PartFunctionMark {
		rest := arg.Next
		arg.Next = nil
		c.pushInterpretedArgument(arg)
		return rest
	}

	last := arg
	for last.Next != nil &&
		last.Next.Kind != syntax.PartRedirection &&
		last.Next.Kind != syntax.PartFunctionMark {
		last = last.Next
	}
	rest := last.Next
	last.Next = nil

	c.translateTextArgument(&arg)
	if c.interp.DealingWith == syntax.TextRoot {
		// Inside a quote or arithmetic body, what survives the $
		// split is literal.
		for p := arg; p != nil; p = p.Next {
			if p.Kind == syntax.PartUnquoted {
				p.Kind = syntax.PartQuoted
			}
		}
	}
	c.pushInterpretedArgument(arg)
	return rest
}

// bindRedirection consumes the pending redirection the placeholder
// part stands for and binds the following text parts as its
// right-hand side.
func (c *Context) bindRedirection(cmd *syntax.Command, arg *syntax.Part) *syntax.Part {
	redir := cmd.Redirs[cmd.RedirsOffset]
	cmd.Redirs[cmd.RedirsOffset] = nil
	cmd.RedirsOffset++

	redir.RightHandSide = arg.Next
	var last *syntax.Part
	for p := redir.RightHandSide; p != nil; p = p.Next {
		if !admissibleRightHandSide(p.Kind) {
			break
		}
		last = p
	}
	if last == nil {
		c.failSyntax(arg.Line, "missing right-hand side of '%s'", redir.Kind.Token())
	}

	rest := last.Next
	last.Next = nil

	if redir.LeftHandSide != nil {
		c.translateTextArgument(&redir.LeftHandSide)
	}
	c.translateTextArgument(&redir.RightHandSide)

	c.interp.Redirs = append(c.interp.Redirs, redir)
	return rest
}

// admissibleRightHandSide reports whether the part kind may appear in
// a redirection right-hand side.
func admissibleRightHandSide(kind syntax.PartKind) bool {
	switch kind {
	case syntax.PartQuoted, syntax.PartUnquoted,
		syntax.PartQuoteExpression, syntax.PartBackquoteExpression,
		syntax.PartArithmeticExpression, syntax.PartVariableSubstitution,
		syntax.PartSubshellSubstitution:
		return true
	default:
		return false
	}
}

// translateTextArgument walks an argument chain, splitting unquoted
// text around $ into variable references and interpreting nested
// expressions.
func (c *Context) translateTextArgument(argp **syntax.Part) {
	cur := argp
	for *cur != nil {
		part := *cur
		switch part.Kind {
		case syntax.PartQuoted:
			// Keep as is.

		case syntax.PartUnquoted:
			last := c.splitUnquotedText(cur)
			cur = &last.Next
			continue

		case syntax.PartQuoteExpression,
			syntax.PartArithmeticExpression,
			syntax.PartArithmeticSubshell:
			// Arithmetic bodies stay text until evaluation, since a
			// substitution can insert operators.
			c.interpretNestedCode(part, syntax.TextRoot, syntax.NoRequirement)

		case syntax.PartVariableSubstitution:
			c.interpretNestedCode(part, syntax.VariableSubstitutionBracket, syntax.NeedPrefixOrVariableName)
			switch part.Sub.Requirement {
			case syntax.NeedIndexOrOperatorOrEnd,
				syntax.NeedIndexOrSuffixOrEnd,
				syntax.NeedIndexOrEnd,
				syntax.NeedOperatorOrEnd,
				syntax.NeedEnd,
				syntax.NeedTextOrSlash,
				syntax.NeedTextOrColon,
				syntax.NoRequirement:
				// Valid resting states.
			default:
				c.failSyntax(part.Line, "invalid variable substitution")
			}

		case syntax.PartBackquoteExpression,
			syntax.PartSubshellSubstitution,
			syntax.PartProcessSubstitutionInput,
			syntax.PartProcessSubstitutionOutput,
			syntax.PartProcessSubstitutionInputOutput,
			syntax.PartSubshell:
			c.interpretNestedCode(part, syntax.CodeRoot, syntax.NeedCommand)

		default:
			c.failSyntax(part.Line, "internal error: %s part in text argument", part.Kind)
		}
		cur = &part.Next
	}
}

// splitUnquotedText rewrites one unquoted part into the sequence of
// unquoted and variable parts its $ references imply. It returns the
// final part of the rewritten sequence.
func (c *Context) splitUnquotedText(cur **syntax.Part) *syntax.Part {
	part := *cur
	parts := c.splitDollarText(part.Text, part.Line)
	if parts == nil {
		return part
	}

	for i := 0; i+1 < len(parts); i++ {
		parts[i].Next = parts[i+1]
	}
	tail := parts[len(parts)-1]
	tail.Next = part.Next
	*cur = parts[0]
	return tail
}

func isSpecialParameter(b byte) bool {
	switch b {
	case '@', '*', '?', '#', '$', '!':
		return true
	default:
		return false
	}
}

// splitDollarText splits text around its $ references. It returns nil
// when no variable reference is present and the part can stay as it
// is.
func (c *Context) splitDollarText(text []byte, line int) []*syntax.Part {
	var parts []*syntax.Part
	variable := false

	literal := func(b []byte) {
		if len(b) == 0 {
			return
		}
		if n := len(parts); n > 0 && parts[n-1].Kind == syntax.PartUnquoted {
			parts[n-1].Append(b)
			return
		}
		parts = append(parts, &syntax.Part{Kind: syntax.PartUnquoted, Text: bytes.Clone(b), Line: line})
	}
	ref := func(b []byte) {
		parts = append(parts, &syntax.Part{Kind: syntax.PartVariable, Text: bytes.Clone(b), Line: line})
		variable = true
	}

	start, i := 0, 0
	for i < len(text) {
		if text[i] != '$' || i+1 == len(text) {
			i++
			continue
		}

		b := text[i+1]
		switch {
		case isDigit(b):
			if i+2 < len(text) && isDigit(text[i+2]) {
				c.warnf("multiple digits found immediately after '$' at line %d, "+
					"only taking one for position argument", line)
			}
			literal(text[start:i])
			ref(text[i+1 : i+2])
			start, i = i+2, i+2

		case isSpecialParameter(b) || b == '-':
			literal(text[start:i])
			ref(text[i+1 : i+2])
			start, i = i+2, i+2

		case b == '~':
			if !c.checkExtension("$~", line) {
				i++
				continue
			}
			k := i + 2
			if k < len(text) && (isNameByte(text[k]) || text[k] == '-') {
				for k < len(text) && (isNameByte(text[k]) || text[k] == '-') {
					k++
				}
				if k < len(text) && text[k] == '$' {
					k++
				}
			}
			literal(text[start:i])
			ref(text[i+1 : k])
			start, i = k, k

		case isNameByte(b) && !isDigit(b):
			k := i + 2
			for k < len(text) && isNameByte(text[k]) {
				k++
			}
			literal(text[start:i])
			ref(text[i+1 : k])
			start, i = k, k

		default:
			i++
		}
	}

	if !variable {
		return nil
	}
	literal(text[start:])
	return parts
}
