// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// CommandResult holds the captured streams of one command execution.
type CommandResult struct {
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
	Err    error
}

// Output returns the captured stdout as a string.
func (r *CommandResult) Output() string {
	return r.Out.String()
}

// ErrorOutput returns the captured stderr as a string.
func (r *CommandResult) ErrorOutput() string {
	return r.ErrOut.String()
}

// Lines returns the non-empty stdout lines.
func (r *CommandResult) Lines() []string {
	var lines []string
	for _, line := range strings.Split(r.Out.String(), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// RunCommand executes cmd with args, feeding stdin to it and capturing
// stdout and stderr.
func RunCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) *CommandResult {
	t.Helper()

	res := &CommandResult{Out: &bytes.Buffer{}, ErrOut: &bytes.Buffer{}}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(res.Out)
	cmd.SetErr(res.ErrOut)
	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	res.Err = cmd.Execute()
	return res
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertContains checks that the string contains the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}

// AssertNotContains checks that the string does not contain the substring.
func AssertNotContains(t *testing.T, s, unexpected string) {
	t.Helper()
	if strings.Contains(s, unexpected) {
		t.Errorf("string %q unexpectedly contains %q", s, unexpected)
	}
}
