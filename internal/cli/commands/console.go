package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/hbnb/internal/console"
	"github.com/leapstack-labs/hbnb/internal/model"
)

// NewConsoleCommand creates the console command.
func NewConsoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start the interactive object console",
		Long: `Start the interactive hbnb console.

Objects are created, inspected, updated and destroyed with one command per
line. Every command also has a dotted form, e.g. User.show("<id>").

When stdin is not a terminal, lines are read without a prompt so the
console can be scripted.`,
		Example: `  # Interactive session
  hbnb console

  # Scripted session
  echo 'create User' | hbnb console

  # Use a SQLite database
  hbnb console --backend sqlite --path objects.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunConsole(cmd)
		},
	}
}

// RunConsole runs the console loop on the command's input and output
// until quit or end of input.
func RunConsole(cmd *cobra.Command) error {
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

	in := cmd.InOrStdin()
	if !isInteractive(in) {
		return interp.Run(cmd.Context(), console.NewScannerReader(in))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cmdCtx.Cfg.Prompt,
		HistoryFile:     cmdCtx.Cfg.HistoryFile,
		AutoComplete:    newConsoleCompleter(),
		InterruptPrompt: "^C",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize console: %w", err)
	}
	defer func() { _ = rl.Close() }()

	return interp.Run(cmd.Context(), readlineReader{rl: rl})
}

// readlineReader adapts a readline instance to console.LineReader.
// ^C abandons the current line instead of ending the session.
type readlineReader struct {
	rl *readline.Instance
}

func (r readlineReader) Readline() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", nil
	}
	return line, err
}

// isInteractive reports whether in is the process's terminal stdin.
func isInteractive(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok || f != os.Stdin {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// newConsoleCompleter completes verbs, class names and dotted calls.
func newConsoleCompleter() *readline.PrefixCompleter {
	classes := model.Classes()

	classItems := func() []readline.PrefixCompleterInterface {
		items := make([]readline.PrefixCompleterInterface, 0, len(classes))
		for _, c := range classes {
			items = append(items, readline.PcItem(c))
		}
		return items
	}

	var items []readline.PrefixCompleterInterface
	for _, verb := range []string{console.VerbCreate, console.VerbShow, console.VerbDestroy, console.VerbAll, console.VerbCount, console.VerbUpdate} {
		items = append(items, readline.PcItem(verb, classItems()...))
	}

	helpItems := make([]readline.PrefixCompleterInterface, 0, 9)
	for _, verb := range []string{console.VerbCreate, console.VerbShow, console.VerbDestroy, console.VerbAll, console.VerbCount, console.VerbUpdate, console.VerbQuit, console.VerbEOF} {
		helpItems = append(helpItems, readline.PcItem(verb))
	}
	items = append(items,
		readline.PcItem(console.VerbHelp, helpItems...),
		readline.PcItem(console.VerbQuit),
	)

	for _, c := range classes {
		items = append(items,
			readline.PcItem(c+".all()"),
			readline.PcItem(c+".count()"),
			readline.PcItem(c+".show("),
			readline.PcItem(c+".destroy("),
			readline.PcItem(c+".update("),
		)
	}

	return readline.NewPrefixCompleter(items...)
}
