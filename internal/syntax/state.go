package syntax

// ParserState is one node of the parser tree. The root has no parent;
// every nested substitution or subshell owns a child state until the
// grammar interpreter consumes it.
type ParserState struct {
	// Parent is the enclosing state, used only for unwinding.
	Parent *ParserState

	// Commands are the completed, not yet interpreted commands.
	Commands []*Command

	// Args are the completed argument chains of the command in
	// progress.
	Args []*Part

	// Redirs are the redirections of the command in progress.
	Redirs []*Redirection

	// CurrentArg is the head of the argument chain under
	// construction, CurrentArgEnd its final part.
	CurrentArg    *Part
	CurrentArgEnd *Part

	// NeedRightHandSide is set between a redirection operator and the
	// argument that becomes its right-hand side; whitespace is then
	// skipped and a command terminator is a premature end of command.
	NeedRightHandSide bool
}

// Nesting names the compound construct an interpreter state is
// dealing with.
type Nesting int

const (
	// MainBody is the top level of the program.
	MainBody Nesting = iota

	// CodeRoot is the top level of a nested command expression.
	CodeRoot

	// TextRoot is the top level of a nested text expression, such as
	// a double-quote or arithmetic body.
	TextRoot

	// VariableSubstitutionBracket is the inside of ${…}.
	VariableSubstitutionBracket

	// CurlyNesting is the inside of { … }.
	CurlyNesting

	// IfStatement spans if … fi.
	IfStatement

	// IfConditional is the command list between if/elif and then.
	IfConditional

	// IfClause is the command list between then and elif/else/fi.
	IfClause

	// ElseClause is the command list between else and fi.
	ElseClause

	// UntilStatement spans until … done.
	UntilStatement

	// WhileStatement spans while … done.
	WhileStatement

	// RepeatConditional is the command list between while/until and do.
	RepeatConditional

	// DoClause is the command list between do and done.
	DoClause

	// ForStatement spans for … done.
	ForStatement
)

// String returns the string representation of Nesting.
func (n Nesting) String() string {
	switch n {
	case MainBody:
		return "main-body"
	case CodeRoot:
		return "code-root"
	case TextRoot:
		return "text-root"
	case VariableSubstitutionBracket:
		return "variable-substitution-bracket"
	case CurlyNesting:
		return "curly-nesting"
	case IfStatement:
		return "if-statement"
	case IfConditional:
		return "if-conditional"
	case IfClause:
		return "if-clause"
	case ElseClause:
		return "else-clause"
	case UntilStatement:
		return "until-statement"
	case WhileStatement:
		return "while-statement"
	case RepeatConditional:
		return "repeat-conditional"
	case DoClause:
		return "do-clause"
	case ForStatement:
		return "for-statement"
	default:
		return "unknown"
	}
}

// Requirement states what the grammar allows the next argument to be.
type Requirement int

const (
	// NoRequirement accepts any ordinary argument.
	NoRequirement Requirement = iota

	// NeedCommand requires a command-position word.
	NeedCommand

	// NeedCommandEnd requires a terminator or redirection; a control
	// statement just closed.
	NeedCommandEnd

	// NeedFunctionBody requires { … } or a subshell after name ().
	NeedFunctionBody

	// NeedVariableName requires the loop variable after for.
	NeedVariableName

	// NeedInOrDo requires in or do after the loop variable.
	NeedInOrDo

	// NeedDo requires do after a for value list.
	NeedDo

	// NeedValue accepts loop values or text-expression values.
	NeedValue

	// NeedPrefixOrVariableName starts the ${…} machine.
	NeedPrefixOrVariableName

	// NeedIndexOrOperatorOrEnd follows a variable name inside ${…}.
	NeedIndexOrOperatorOrEnd

	// NeedIndexOrSuffixOrEnd follows ${!var.
	NeedIndexOrSuffixOrEnd

	// NeedIndexOrEnd follows ${#var.
	NeedIndexOrEnd

	// NeedOperatorOrEnd follows an index inside ${…}.
	NeedOperatorOrEnd

	// NeedAtOperand requires the operand letter of ${var@…}.
	NeedAtOperand

	// NeedTextOrSlash is the pattern/replacement state of ${var/…}.
	NeedTextOrSlash

	// NeedTextOrColon is the offset/length state of ${var:…}.
	NeedTextOrColon

	// NeedEnd requires the closing bracket.
	NeedEnd
)

// String returns the string representation of Requirement.
func (r Requirement) String() string {
	switch r {
	case NoRequirement:
		return "no-requirement"
	case NeedCommand:
		return "need-command"
	case NeedCommandEnd:
		return "need-command-end"
	case NeedFunctionBody:
		return "need-function-body"
	case NeedVariableName:
		return "need-variable-name"
	case NeedInOrDo:
		return "need-in-or-do"
	case NeedDo:
		return "need-do"
	case NeedValue:
		return "need-value"
	case NeedPrefixOrVariableName:
		return "need-prefix-or-variable-name"
	case NeedIndexOrOperatorOrEnd:
		return "need-index-or-operator-or-end"
	case NeedIndexOrSuffixOrEnd:
		return "need-index-or-suffix-or-end"
	case NeedIndexOrEnd:
		return "need-index-or-end"
	case NeedOperatorOrEnd:
		return "need-operator-or-end"
	case NeedAtOperand:
		return "need-at-operand"
	case NeedTextOrSlash:
		return "need-text-or-slash"
	case NeedTextOrColon:
		return "need-text-or-colon"
	case NeedEnd:
		return "need-end"
	default:
		return "unknown"
	}
}

// InterpreterState mirrors a parser state during grammar
// interpretation. It accumulates the structured form of a command
// list and models the compound-statement stack through its parent
// link and Nesting tag.
type InterpreterState struct {
	// Parent is the enclosing state, used only for unwinding.
	Parent *InterpreterState

	// DealingWith is the construct this state models.
	DealingWith Nesting

	// Requirement is what the next argument must satisfy.
	Requirement Requirement

	// Commands are the structurally validated commands of this
	// nesting level.
	Commands []*Command

	// Args are the interpreted argument chains of the command in
	// progress.
	Args []*Part

	// Redirs are the bound redirections of the command in progress.
	Redirs []*Redirection

	// HaveBang records a leading ! for the command in progress.
	HaveBang bool

	// DisallowBang forbids a further ! until the next simple
	// terminator.
	DisallowBang bool

	// AllowNewline swallows the newline terminator directly after a
	// reserved word that expects a continuation.
	AllowNewline bool
}
