package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdlcforge/parsh/internal/syntax"
)

// substitutionParts parses a lone ${…} argument and returns the
// interpreted parts of its bracket state as kind/text pairs.
func substitutionParts(t *testing.T, body string) []string {
	t.Helper()
	result := parse(t, fmt.Sprintf("echo ${%s}\n", body))
	require.Len(t, result.cmds, 1)
	require.Len(t, result.cmds[0].Args, 2)

	part := result.cmds[0].Args[1]
	require.Equal(t, syntax.PartVariableSubstitution, part.Kind)
	require.NotNil(t, part.Sub)
	require.Equal(t, syntax.VariableSubstitutionBracket, part.Sub.DealingWith)

	out := make([]string, 0, len(part.Sub.Args))
	for _, arg := range part.Sub.Args {
		out = append(out, fmt.Sprintf("%s:%s", arg.Kind, arg.Text))
	}
	return out
}

func TestSubstitutionForms(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{"plain variable", "var", []string{"variable:var"}},
		{"positional", "1", []string{"variable:1"}},
		{"special parameter", "#", []string{"variable:#"}},
		{"default value", "var:-fallback", []string{
			"variable:var", "operator::-", "unquoted:fallback"}},
		{"assign default", "var:=x", []string{
			"variable:var", "operator::=", "unquoted:x"}},
		{"error if unset", "var:?msg", []string{
			"variable:var", "operator::?", "unquoted:msg"}},
		{"alternative", "var:+alt", []string{
			"variable:var", "operator::+", "unquoted:alt"}},
		{"unset default", "var-d", []string{
			"variable:var", "operator:-", "unquoted:d"}},
		{"suffix strip", "var%%.c", []string{
			"variable:var", "operator:%%", "unquoted:.c"}},
		{"prefix strip", "var##a/", []string{
			"variable:var", "operator:##", "unquoted:a/"}},
		{"length", "#var", []string{"operator:#", "variable:var"}},
		{"indirection", "!var", []string{"operator:!", "variable:var"}},
		{"indirection names", "!var@", []string{
			"operator:!", "variable:var", "operator:@"}},
		{"pattern replace", "var/pat/rep", []string{
			"variable:var", "operator:/", "unquoted:pat", "operator:/", "unquoted:rep"}},
		{"offset and length", "var:3:5", []string{
			"variable:var", "operator::", "unquoted:3", "operator::", "unquoted:5"}},
		{"at operand", "var@Q", []string{
			"variable:var", "operator:@", "operator:Q"}},
		{"case upper", "var^^", []string{
			"variable:var", "operator:^^"}},
		{"nested reference in operand", "var:-$other", []string{
			"variable:var", "operator::-", "variable:other"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, substitutionParts(t, tt.body))
		})
	}
}

func TestSubstitutionErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"empty", "echo ${}\n", "invalid variable substitution"},
		{"bad first byte", "echo ${%x}\n", "stray '%' in bracketed variable substitution"},
		{"operand after at", "echo ${v@Z}\n", "stray 'Z' in bracketed variable substitution"},
		{"text after at operand", "echo ${v@Qx}\n", "stray 'x' in bracketed variable substitution"},
		{"indexing unimplemented", "echo ${v[0]}\n", "not been implemented"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := parseError(t, tt.src)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSubstitutionPosixRejectsExtensions(t *testing.T) {
	t.Parallel()
	result := parseWith(Options{PosixMode: true}, "echo ${v^^}\n")
	require.Error(t, result.err)
	assert.Contains(t, result.err.Error(), "stray '^'")
	require.NotEmpty(t, result.warnings)
	assert.Contains(t, result.warnings[0], "not portable")
}

func TestSubstitutionQuotedOperand(t *testing.T) {
	t.Parallel()
	result := parse(t, "echo ${v:-'lit'}\n")

	part := result.cmds[0].Args[1]
	require.Equal(t, syntax.PartVariableSubstitution, part.Kind)
	args := part.Sub.Args
	require.Len(t, args, 3)
	assert.Equal(t, syntax.PartVariable, args[0].Kind)
	assert.Equal(t, syntax.PartOperator, args[1].Kind)
	assert.Equal(t, syntax.PartQuoted, args[2].Kind)
	assert.Equal(t, "lit", string(args[2].Text))
}
