package console

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Classic(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantVerb string
		wantArgs []string
	}{
		{name: "verb only", line: "create", wantVerb: VerbCreate},
		{name: "class", line: "create User", wantVerb: VerbCreate, wantArgs: []string{"User"}},
		{name: "surrounding space", line: "  show User 42  ", wantVerb: VerbShow, wantArgs: []string{"User", "42"}},
		{name: "extra tokens", line: "update User 42 name Bob extra", wantVerb: VerbUpdate, wantArgs: []string{"User", "42", "name", "Bob", "extra"}},
		{name: "double space keeps empty token", line: "show User  42", wantVerb: VerbShow, wantArgs: []string{"User", "", "42"}},
		{name: "dot inside argument", line: "show User 1.2", wantVerb: VerbShow, wantArgs: []string{"User", "1.2"}},
		{name: "quit", line: "quit", wantVerb: VerbQuit},
		{name: "EOF", line: "EOF", wantVerb: VerbEOF},
		{name: "question mark is help", line: "?create", wantVerb: VerbHelp, wantArgs: []string{"create"}},
		{name: "count", line: "count City", wantVerb: VerbCount, wantArgs: []string{"City"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, err := Parse(tt.line)
			require.NoError(t, err)
			require.Len(t, cmds, 1)
			assert.Equal(t, tt.wantVerb, cmds[0].Verb)
			assert.Equal(t, tt.wantArgs, cmds[0].Args)
			assert.Equal(t, tt.line, cmds[0].Line)
		})
	}
}

func TestParse_Blank(t *testing.T) {
	for _, line := range []string{"", "   ", "\t"} {
		cmds, err := Parse(line)
		assert.NoError(t, err)
		assert.Empty(t, cmds)
	}
}

func TestParse_Dotted(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Command
	}{
		{
			name: "all",
			line: "User.all()",
			want: []Command{{Verb: VerbAll, Args: []string{"User"}}},
		},
		{
			name: "count",
			line: "City.count()",
			want: []Command{{Verb: VerbCount, Args: []string{"City"}}},
		},
		{
			name: "show strips quotes",
			line: `User.show("1234-abcd")`,
			want: []Command{{Verb: VerbShow, Args: []string{"User", "1234-abcd"}}},
		},
		{
			name: "show without id",
			line: "User.show()",
			want: []Command{{Verb: VerbShow, Args: []string{"User"}}},
		},
		{
			name: "destroy",
			line: `Place.destroy("p1")`,
			want: []Command{{Verb: VerbDestroy, Args: []string{"Place", "p1"}}},
		},
		{
			name: "update comma form",
			line: `User.update("123", "name", "Bob")`,
			want: []Command{{Verb: VerbUpdate, Args: []string{"User", "123", "name", "Bob"}}},
		},
		{
			name: "update comma form splits every comma",
			line: `User.update("123", "bio", "a, b")`,
			want: []Command{{Verb: VerbUpdate, Args: []string{"User", "123", "bio", "a", "b"}}},
		},
		{
			name: "update json form keeps key order",
			line: `User.update("123", {"name": "Bob", "age": "30", "rooms": 4})`,
			want: []Command{
				{Verb: VerbUpdate, Args: []string{"User", "123", "name", "Bob"}},
				{Verb: VerbUpdate, Args: []string{"User", "123", "age", "30"}},
				{Verb: VerbUpdate, Args: []string{"User", "123", "rooms", "4"}},
			},
		},
		{
			name: "update json form without id quotes",
			line: `State.update(s1, {"name": "Texas"})`,
			want: []Command{{Verb: VerbUpdate, Args: []string{"State", "s1", "name", "Texas"}}},
		},
		{
			name: "update with no arguments",
			line: "User.update()",
			want: []Command{{Verb: VerbUpdate, Args: []string{"User"}}},
		},
		{
			name: "unknown class is left to the dispatcher",
			line: "Frobnicator.all()",
			want: []Command{{Verb: VerbAll, Args: []string{"Frobnicator"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmds, err := Parse(tt.line)
			require.NoError(t, err)
			require.Len(t, cmds, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want.Verb, cmds[i].Verb)
				assert.Equal(t, want.Args, cmds[i].Args)
				assert.Equal(t, tt.line, cmds[i].Line)
			}
		})
	}
}

func TestParse_DottedEmptyJSON(t *testing.T) {
	cmds, err := Parse(`User.update("123", {})`)
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestParse_UnknownSyntax(t *testing.T) {
	lines := []string{
		"frobnicate User",
		"hello",
		"User.all(",
		"User.all",
		"User.fly()",
		`User.update("123", {"name": })`,
		`User.update("123", {"name": "Bob"} trailing)`,
		"123",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnknownSyntax))

			var syntaxErr *UnknownSyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, line, syntaxErr.Line)
			assert.Equal(t, "*** Unknown syntax: "+line, err.Error())
		})
	}
}

func TestParse_UnknownSyntaxReportsTrimmedLine(t *testing.T) {
	_, err := Parse("  foo\t")
	var syntaxErr *UnknownSyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "foo", syntaxErr.Line)
	assert.Equal(t, "*** Unknown syntax: foo", err.Error())
}
