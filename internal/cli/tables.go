package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pathkv/hierodb"
)

func newTablesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tables",
		Short:         "List every table in the database file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(opts, cmd)
		},
	}
	return cmd
}

func runTables(opts *RootOptions, cmd *cobra.Command) error {
	if opts.DBPath == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}

	db, err := hierodb.Open(hierodb.Options{Path: opts.DBPath})
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer db.Close()

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: os.Stderr, Verbose: opts.Verbose}

	names, err := db.Tables()
	if err != nil {
		return WrapExitError(ExitCommandError, "list tables", err)
	}
	return f.Success(names)
}
