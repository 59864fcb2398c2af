// Package commands_test provides tests for CLI command creation.
package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/hbnb/internal/cli/config"
	"github.com/leapstack-labs/hbnb/internal/cli/testutil"
)

// useFileStorage points the env fallback config at a fresh json file.
func useFileStorage(t *testing.T) string {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	path := filepath.Join(t.TempDir(), "objects.json")
	t.Setenv("HBNB_BACKEND", "json")
	t.Setenv("HBNB_PATH", path)
	return path
}

func TestNewConsoleCommand(t *testing.T) {
	cmd := NewConsoleCommand()

	assert.Equal(t, "console", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
}

func TestNewExecCommand(t *testing.T) {
	cmd := NewExecCommand()

	assert.Equal(t, "exec <line>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.Error(t, cmd.Args(cmd, nil), "exec needs at least one line")
}

func TestNewListCommand(t *testing.T) {
	cmd := NewListCommand()

	assert.Equal(t, "list [class]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flag := cmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, FormatTable, flag.DefValue)
	assert.Equal(t, "f", flag.Shorthand)
}

func TestConsoleCommand_ScriptedInput(t *testing.T) {
	path := useFileStorage(t)

	res := testutil.RunCommand(t, NewConsoleCommand(), "create Review\nReview.all()\nEOF\n")
	require.NoError(t, res.Err)

	lines := res.Lines()
	require.Len(t, lines, 2)
	testutil.AssertContains(t, lines[1], `"[Review] (`+lines[0]+`)`)
	assert.FileExists(t, path)
}

func TestConsoleCommand_RejectsArgs(t *testing.T) {
	useFileStorage(t)

	res := testutil.RunCommand(t, NewConsoleCommand(), "", "extra")
	assert.Error(t, res.Err)
}

func TestExecCommand_ErrorsGoToStdout(t *testing.T) {
	useFileStorage(t)

	res := testutil.RunCommand(t, NewExecCommand(), "", "create", "create Foo", "show User", "Foo.all()")
	require.NoError(t, res.Err)
	assert.Equal(t, []string{
		"** class name missing **",
		"** class doesn't exist **",
		"** instance id missing **",
		"** class doesn't exist **",
	}, res.Lines())
	assert.Empty(t, res.ErrorOutput())
}

func TestListCommand_FiltersByClass(t *testing.T) {
	useFileStorage(t)

	created := testutil.RunCommand(t, NewExecCommand(), "", "create User", "create State", "create User")
	require.NoError(t, created.Err)
	ids := created.Lines()
	require.Len(t, ids, 3)

	res := testutil.RunCommand(t, NewListCommand(), "", "User", "--format", "csv")
	require.NoError(t, res.Err)

	lines := res.Lines()
	require.Len(t, lines, 3, "header plus two users")
	assert.Equal(t, "class_name,id,created_at,updated_at,attributes", lines[0])
	assert.Contains(t, lines[1], ids[0])
	assert.Contains(t, lines[2], ids[2])
	testutil.AssertNotContains(t, res.Output(), ids[1])
}

func TestListCommand_UnknownFormat(t *testing.T) {
	useFileStorage(t)

	res := testutil.RunCommand(t, NewListCommand(), "", "--format", "xml")
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), `unknown format "xml"`)
}
