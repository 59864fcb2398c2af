package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/hbnb/internal/model"
)

// List output formats.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

var listFormats = []string{FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatMarkdown}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var (
		format  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "list [class]",
		Short: "List stored objects",
		Long: `List stored objects in insertion order, optionally restricted to one class.

Formats:
  table     Aligned table with one row per object (default)
  json      Array of object records
  yaml      Sequence of object records
  csv       Comma-separated values
  markdown  Markdown table`,
		Example: `  # List everything
  hbnb list

  # List users as JSON
  hbnb list User --format json

  # List places from a SQLite database as YAML
  hbnb list Place --backend sqlite --path hbnb.db -f yaml`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return model.Classes(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			class := ""
			if len(args) == 1 {
				class = args[0]
			}
			return runList(cmd, class, format, renderOptions{NoColor: noColor})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatTable, "Output format: "+strings.Join(listFormats, ", "))
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored table output")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return listFormats, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runList(cmd *cobra.Command, class, format string, opts renderOptions) error {
	if class != "" && !model.IsClass(class) {
		return fmt.Errorf("unknown class %q (available: %s)", class, strings.Join(model.Classes(), ", "))
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var records []*model.Record
	for _, m := range cmdCtx.Store.All() {
		if class == "" || m.ClassName() == class {
			records = append(records, m.Record())
		}
	}

	return renderRecords(cmd.OutOrStdout(), records, format, opts)
}
