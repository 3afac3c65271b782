package format

import (
	"github.com/sdlcforge/parsh/internal/syntax"
)

// Part is the format-neutral projection of one argument part.
type Part struct {
	// Kind names the part variant.
	Kind string `json:"kind" yaml:"kind"`

	// Text holds the literal bytes of text parts.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`

	// Line is the 1-based source line the part started on.
	Line int `json:"line" yaml:"line"`

	// Body holds the nested state of expression and command parts.
	Body *State `json:"body,omitempty" yaml:"body,omitempty"`
}

// Argument is one argument: its chain of parts in order.
type Argument struct {
	Parts []Part `json:"parts" yaml:"parts"`
}

// Redirection is the projection of one bound redirection.
type Redirection struct {
	// Kind names the redirection variant.
	Kind string `json:"kind" yaml:"kind"`

	// Operator is the token that produced it.
	Operator string `json:"operator" yaml:"operator"`

	// LeftHandSide is the file-descriptor argument, if any.
	LeftHandSide []Part `json:"lhs,omitempty" yaml:"lhs,omitempty"`

	// RightHandSide is the bound target.
	RightHandSide []Part `json:"rhs,omitempty" yaml:"rhs,omitempty"`
}

// Command is the projection of one structured command.
type Command struct {
	// Terminator names the token that ended the command.
	Terminator string `json:"terminator" yaml:"terminator"`

	// Line is the terminator's source line.
	Line int `json:"line" yaml:"line"`

	// Bang marks a leading !.
	Bang bool `json:"bang,omitempty" yaml:"bang,omitempty"`

	Args   []Argument    `json:"args,omitempty" yaml:"args,omitempty"`
	Redirs []Redirection `json:"redirections,omitempty" yaml:"redirections,omitempty"`
}

// State is the projection of a nested interpreter state.
type State struct {
	// Nesting names the construct the state models.
	Nesting string `json:"nesting" yaml:"nesting"`

	// Args are the state's interpreted arguments, for text-like
	// nestings.
	Args []Argument `json:"args,omitempty" yaml:"args,omitempty"`

	// Commands are the state's structured commands, for code-like
	// nestings.
	Commands []Command `json:"commands,omitempty" yaml:"commands,omitempty"`
}

// DumpCommands projects retired top-level commands into the dump
// model.
func DumpCommands(cmds []*syntax.Command) []Command {
	out := make([]Command, 0, len(cmds))
	for _, cmd := range cmds {
		out = append(out, dumpCommand(cmd))
	}
	return out
}

func dumpCommand(cmd *syntax.Command) Command {
	out := Command{
		Terminator: cmd.Terminator.String(),
		Line:       cmd.TerminatorLine,
		Bang:       cmd.HaveBang,
	}
	for _, arg := range cmd.Args {
		out.Args = append(out.Args, Argument{Parts: dumpChain(arg)})
	}
	for _, redir := range cmd.Redirs {
		if redir == nil {
			continue
		}
		out.Redirs = append(out.Redirs, Redirection{
			Kind:          redir.Kind.String(),
			Operator:      redir.Kind.Token(),
			LeftHandSide:  dumpChain(redir.LeftHandSide),
			RightHandSide: dumpChain(redir.RightHandSide),
		})
	}
	return out
}

func dumpChain(arg *syntax.Part) []Part {
	var parts []Part
	for p := arg; p != nil; p = p.Next {
		part := Part{
			Kind: p.Kind.String(),
			Line: p.Line,
		}
		if p.Kind.IsText() {
			part.Text = string(p.Text)
		}
		if p.Sub != nil {
			part.Body = dumpState(p.Sub)
		}
		parts = append(parts, part)
	}
	return parts
}

func dumpState(state *syntax.InterpreterState) *State {
	out := &State{Nesting: state.DealingWith.String()}
	for _, arg := range state.Args {
		out.Args = append(out.Args, Argument{Parts: dumpChain(arg)})
	}
	for _, cmd := range state.Commands {
		if cmd == nil {
			continue
		}
		out.Commands = append(out.Commands, dumpCommand(cmd))
	}
	return out
}
