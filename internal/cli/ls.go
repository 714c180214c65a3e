package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func newLsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ls [path]",
		Short:         "List direct children of a handle",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runLs(opts, path, cmd)
		},
	}
	return cmd
}

func runLs(opts *RootOptions, path string, cmd *cobra.Command) error {
	db, root, err := openRoot(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: os.Stderr, Verbose: opts.Verbose}

	h, err := resolveHandle(root, splitPath(path))
	if err != nil {
		return err
	}

	keys, err := h.Keys()
	if err != nil {
		return WrapExitError(ExitCommandError, "list keys", err)
	}
	return f.Success(keys)
}
