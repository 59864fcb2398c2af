package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/hbnb/internal/console"
)

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <line>...",
		Short: "Run console commands without entering the console",
		Long: `Run each argument as one console line, in order, then exit.

Output is identical to typing the same lines in the console. A quit line
stops processing of the remaining arguments.`,
		Example: `  hbnb exec "create User"
  hbnb exec "User.count()" "all City"
  hbnb exec 'User.update("1234", {"first_name": "Betty"})'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			interp := console.New(console.Config{
				Store:  cmdCtx.Store,
				Out:    cmd.OutOrStdout(),
				ErrOut: cmd.ErrOrStderr(),
				Logger: cmdCtx.Logger,
			})
			for _, line := range args {
				if interp.Execute(cmd.Context(), line) {
					break
				}
			}
			return nil
		},
	}
}
