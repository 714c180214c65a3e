// Package cli implements the hierodb command-line surface: thin
// cobra commands over the hierodb library, for interactive inspection
// and scripting against a database file. This is presentation glue
// per spec.md §1 ("Out of scope: any surface-language 'object' or
// 'proxy' machinery") — one possible binding of the core operations,
// not part of the core contract.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds the flags shared by every subcommand.
type RootOptions struct {
	DBPath  string
	Table   string
	Format  string // "text" | "json"
	Verbose bool
}

// NewRootCommand builds the hierodb command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hierodb",
		Short: "hierodb - persistent hierarchical objects over SQLite",
		Long:  "Inspect and edit hierodb database files from the command line.",
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "path to the database file (required)")
	cmd.PersistentFlags().StringVar(&opts.Table, "table", "root", "table name")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose diagnostic logging")

	cmd.AddCommand(newGetCommand(opts))
	cmd.AddCommand(newSetCommand(opts))
	cmd.AddCommand(newDeleteCommand(opts))
	cmd.AddCommand(newLsCommand(opts))
	cmd.AddCommand(newLenCommand(opts))
	cmd.AddCommand(newTablesCommand(opts))
	cmd.AddCommand(newTableNewCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newSchemaCommand(opts))

	return cmd
}
