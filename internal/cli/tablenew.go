package cli

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pathkv/hierodb"
)

// newTableNewCommand adds a "table new" subcommand that creates a
// scratch table with a generated name, for demos and throwaway
// experiments where the caller doesn't want to pick a name up front.
// Mirrors the donor's UUIDv7Generator: time-sortable tokens make the
// resulting table names easy to tell apart by creation order.
func newTableNewCommand(opts *RootOptions) *cobra.Command {
	table := &cobra.Command{
		Use:   "table",
		Short: "Table management helpers",
	}
	table.AddCommand(newTableNewSubcommand(opts))
	return table
}

func newTableNewSubcommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "new",
		Short:         "Create a scratch table with a generated name and print it",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTableNew(opts, cmd)
		},
	}
	return cmd
}

func runTableNew(opts *RootOptions, cmd *cobra.Command) error {
	if opts.DBPath == "" {
		return NewExitError(ExitCommandError, "--db is required")
	}

	db, err := hierodb.Open(hierodb.Options{Path: opts.DBPath})
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer db.Close()

	name := "scratch-" + uuid.Must(uuid.NewV7()).String()
	if _, err := db.Table(name); err != nil {
		return WrapExitError(ExitCommandError, "create table", err)
	}

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: os.Stderr, Verbose: opts.Verbose}
	return f.Success(map[string]string{"table": name})
}
