package syntax

// PartKind discriminates the variants of an argument part.
type PartKind int

const (
	// PartQuoted is literal text not subject to any expansion:
	// backslash-escaped bytes, '…' bodies, decoded $'…' bodies,
	// here-document bodies and escaped bytes inside double quotes.
	PartQuoted PartKind = iota

	// PartUnquoted is plain text subject to variable expansion, glob
	// and tilde treatment downstream.
	PartUnquoted

	// PartQuoteExpression is a "…" body owning a nested state.
	PartQuoteExpression

	// PartBackquoteExpression is a `…` body owning a nested state.
	PartBackquoteExpression

	// PartArithmeticExpression is a $((…)) or $[…] body.
	PartArithmeticExpression

	// PartVariableSubstitution is a ${…} body.
	PartVariableSubstitution

	// PartSubshellSubstitution is a $(…) body.
	PartSubshellSubstitution

	// PartProcessSubstitutionInput is a >(…) body.
	PartProcessSubstitutionInput

	// PartProcessSubstitutionOutput is a <(…) body.
	PartProcessSubstitutionOutput

	// PartProcessSubstitutionInputOutput is a <>(…) body.
	PartProcessSubstitutionInputOutput

	// PartSubshell is a (…) body.
	PartSubshell

	// PartArithmeticSubshell is a ((…)) body.
	PartArithmeticSubshell

	// PartRedirection marks the boundary between an argument and the
	// right-hand side of the redirection that follows it. The grammar
	// interpreter consumes the marker when binding the right-hand side.
	PartRedirection

	// PartFunctionMark is a literal () following a command name.
	PartFunctionMark

	// PartVariable is a variable reference produced by the grammar
	// interpreter when splitting unquoted text around '$'. The
	// tokeniser never produces it.
	PartVariable

	// PartOperator is a substitution operator produced by the grammar
	// interpreter inside ${…}. The tokeniser never produces it.
	PartOperator

	// PartCommand replaces a child parser state with the fully
	// structured interpreter state for a compound statement.
	PartCommand
)

// String returns the string representation of PartKind.
func (k PartKind) String() string {
	switch k {
	case PartQuoted:
		return "quoted"
	case PartUnquoted:
		return "unquoted"
	case PartQuoteExpression:
		return "quote-expression"
	case PartBackquoteExpression:
		return "backquote-expression"
	case PartArithmeticExpression:
		return "arithmetic-expression"
	case PartVariableSubstitution:
		return "variable-substitution"
	case PartSubshellSubstitution:
		return "subshell-substitution"
	case PartProcessSubstitutionInput:
		return "process-substitution-input"
	case PartProcessSubstitutionOutput:
		return "process-substitution-output"
	case PartProcessSubstitutionInputOutput:
		return "process-substitution-input-output"
	case PartSubshell:
		return "subshell"
	case PartArithmeticSubshell:
		return "arithmetic-subshell"
	case PartRedirection:
		return "redirection"
	case PartFunctionMark:
		return "function-mark"
	case PartVariable:
		return "variable"
	case PartOperator:
		return "operator"
	case PartCommand:
		return "command"
	default:
		return "unknown"
	}
}

// IsText reports whether the kind carries literal bytes in Text.
func (k PartKind) IsText() bool {
	switch k {
	case PartQuoted, PartUnquoted, PartVariable, PartOperator:
		return true
	default:
		return false
	}
}

// IsExpression reports whether the kind owns a nested state.
func (k PartKind) IsExpression() bool {
	switch k {
	case PartQuoteExpression, PartBackquoteExpression,
		PartArithmeticExpression, PartVariableSubstitution,
		PartSubshellSubstitution, PartProcessSubstitutionInput,
		PartProcessSubstitutionOutput, PartProcessSubstitutionInputOutput,
		PartSubshell, PartArithmeticSubshell:
		return true
	default:
		return false
	}
}

// Part is one link of an argument chain.
type Part struct {
	// Kind discriminates which of the remaining fields are meaningful.
	Kind PartKind

	// Text holds the literal bytes of text kinds.
	Text []byte

	// Child is the nested parser state of expression kinds, owned
	// until the grammar interpreter replaces it with Sub.
	Child *ParserState

	// Sub is the nested interpreter state of expression kinds after
	// interpretation, and of PartCommand parts.
	Sub *InterpreterState

	// Line is the 1-based source line the part started on.
	Line int

	// Next links to the following part of the same argument.
	Next *Part
}

// Append extends the part's text with more bytes.
func (p *Part) Append(text []byte) {
	p.Text = append(p.Text, text...)
}

// LastPart returns the final part of the chain starting at p.
func (p *Part) LastPart() *Part {
	for p.Next != nil {
		p = p.Next
	}
	return p
}
