package parser

import (
	"github.com/sdlcforge/parsh/internal/syntax"
)

// pushTypedText appends a standalone text part of the given kind to
// the active interpreter state.
func (c *Context) pushTypedText(line int, text []byte, kind syntax.PartKind) {
	part := &syntax.Part{Kind: kind, Line: line}
	part.Append(text)
	c.pushInterpretedArgument(part)
}

func (c *Context) pushVariable(line int, text []byte) {
	c.pushTypedText(line, text, syntax.PartVariable)
}

func (c *Context) pushOperator(line int, text []byte) {
	c.pushTypedText(line, text, syntax.PartOperator)
}

// pushUnquotedSegment appends operand text inside ${…}, splitting it
// around any nested $ references.
func (c *Context) pushUnquotedSegment(line int, text []byte) {
	parts := c.splitDollarText(text, line)
	if parts == nil {
		c.pushTypedText(line, text, syntax.PartUnquoted)
		return
	}
	for _, part := range parts {
		part.Next = nil
		c.pushInterpretedArgument(part)
	}
}

func (c *Context) failSubstitutionByte(line int, b byte) {
	c.failSyntax(line, "stray '%c' in bracketed variable substitution", b)
}

// interpretSubstitutionArgument advances the ${…} requirement machine
// over one collected argument part. It returns the unconsumed
// remainder of the part's chain.
func (c *Context) interpretSubstitutionArgument(arg *syntax.Part) *syntax.Part {
	rest := arg.Next
	arg.Next = nil
	line := arg.Line
	st := c.interp

	if arg.Kind != syntax.PartUnquoted {
		if st.Requirement != syntax.NoRequirement &&
			st.Requirement != syntax.NeedTextOrSlash &&
			st.Requirement != syntax.NeedTextOrColon {
			c.failSyntax(line, "invalid variable substitution")
		}
		if arg.Kind == syntax.PartQuoted {
			c.pushInterpretedArgument(arg)
		} else {
			c.pushArgument(arg)
		}
		return rest
	}

	s := arg.Text
	for i := 0; i < len(s); {
		switch st.Requirement {
		case syntax.NeedPrefixOrVariableName:
			i = c.substitutionPrefixOrName(line, s, i)

		case syntax.NeedIndexOrOperatorOrEnd:
			if s[i] == '[' && c.checkExtension("[", line) {
				c.failSyntax(line, "variable indexing has not been implemented yet")
			}
			i = c.substitutionOperator(line, s, i)

		case syntax.NeedIndexOrSuffixOrEnd:
			st.Requirement = syntax.NeedEnd
			switch s[i] {
			case '[':
				c.failSyntax(line, "variable indexing has not been implemented yet")
			case '*', '@':
				c.pushOperator(line, s[i:i+1])
				i++
			default:
				c.failSubstitutionByte(line, s[i])
			}

		case syntax.NeedIndexOrEnd:
			if s[i] != '[' {
				c.failSubstitutionByte(line, s[i])
			}
			c.failSyntax(line, "variable indexing has not been implemented yet")

		case syntax.NeedOperatorOrEnd:
			if s[i] == '[' {
				c.failSubstitutionByte(line, s[i])
			}
			i = c.substitutionOperator(line, s, i)

		case syntax.NeedEnd:
			c.failSubstitutionByte(line, s[i])

		case syntax.NeedAtOperand:
			switch s[i] {
			case 'U', 'u', 'L', 'Q', 'E', 'P', 'A', 'K', 'a':
				st.Requirement = syntax.NeedEnd
				c.pushOperator(line, s[i:i+1])
				i++
			default:
				c.failSubstitutionByte(line, s[i])
			}

		case syntax.NeedTextOrSlash:
			i = c.substitutionOperand(line, s, i, '/')

		case syntax.NeedTextOrColon:
			i = c.substitutionOperand(line, s, i, ':')

		default:
			c.pushUnquotedSegment(line, s[i:])
			i = len(s)
		}
	}

	return rest
}

// substitutionPrefixOrName resolves the first token inside ${…}: a
// variable name, a special parameter, or a ! or # prefix operator
// followed by either.
func (c *Context) substitutionPrefixOrName(line int, s []byte, i int) int {
	st := c.interp
	b := s[i]

	nameRun := func(from int) int {
		tilde := s[from] == '~'
		k := from + 1
		for k < len(s) && (isNameByte(s[k]) || tilde && s[k] == '-') {
			k++
		}
		if tilde && k < len(s) && s[k] == '$' {
			k++
		}
		return k
	}

	prefix := func() {
		switch {
		case b == '!' && c.checkExtension("!", line):
			st.Requirement = syntax.NeedIndexOrSuffixOrEnd
		case b == '#':
			st.Requirement = syntax.NeedIndexOrEnd
		default:
			c.failSubstitutionByte(line, b)
		}
	}

	switch {
	case isNameByte(b) || b == '~' && c.checkExtension("~", line):
		st.Requirement = syntax.NeedIndexOrOperatorOrEnd
		k := nameRun(i)
		c.pushVariable(line, s[i:k])
		return k

	case i+1 < len(s) && isSpecialParameter(s[i+1]):
		prefix()
		c.pushOperator(line, s[i:i+1])
		c.pushVariable(line, s[i+1:i+2])
		return i + 2

	case i+1 < len(s) && (isNameByte(s[i+1]) || s[i+1] == '~' && c.checkExtension("~", line)):
		prefix()
		c.pushOperator(line, s[i:i+1])
		k := nameRun(i + 1)
		c.pushVariable(line, s[i+1:k])
		return k

	case isSpecialParameter(b):
		st.Requirement = syntax.NeedIndexOrOperatorOrEnd
		c.pushVariable(line, s[i:i+1])
		return i + 1

	default:
		c.failSubstitutionByte(line, b)
		return i
	}
}

// substitutionOperator resolves a substitution operator and the
// requirement its operand imposes.
func (c *Context) substitutionOperator(line int, s []byte, i int) int {
	st := c.interp
	st.Requirement = syntax.NoRequirement
	b := s[i]
	doubled := i+1 < len(s) && s[i+1] == b

	var length int
	switch {
	case b == ':' && i+1 < len(s) &&
		(s[i+1] == '-' || s[i+1] == '=' || s[i+1] == '?' || s[i+1] == '+'):
		length = 2

	case b == '-' || b == '=' || b == '?' || b == '+':
		length = 1

	case b == '%' || b == '#':
		length = 1
		if doubled {
			length = 2
		}

	case (b == ',' || b == '^') && c.checkExtension(doubledToken(b, doubled), line):
		length = 1
		if doubled {
			length = 2
		}

	case b == '/' && c.checkExtension("/", line):
		st.Requirement = syntax.NeedTextOrSlash
		length = 1

	case b == ':' && c.checkExtension(":", line):
		st.Requirement = syntax.NeedTextOrColon
		length = 1

	case b == '@' && c.checkExtension("@", line):
		st.Requirement = syntax.NeedAtOperand
		length = 1

	default:
		c.failSubstitutionByte(line, b)
	}

	c.pushOperator(line, s[i:i+length])
	return i + length
}

func doubledToken(b byte, doubled bool) string {
	if doubled {
		return string([]byte{b, b})
	}
	return string([]byte{b})
}

// substitutionOperand collects the operand text up to the next
// occurrence of the separator, which flips the machine back to an
// unconstrained tail.
func (c *Context) substitutionOperand(line int, s []byte, i int, sep byte) int {
	st := c.interp

	k := i
	for k < len(s) && s[k] != sep {
		k++
	}
	if k > i {
		c.pushUnquotedSegment(line, s[i:k])
	}
	if k < len(s) {
		st.Requirement = syntax.NoRequirement
		c.pushOperator(line, s[k:k+1])
		k++
	}
	return k
}
