package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func newDeleteCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "delete <path>",
		Short:         "Remove a value and its subtree",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args[0], cmd)
		},
	}
	return cmd
}

func runDelete(opts *RootOptions, path string, cmd *cobra.Command) error {
	db, root, err := openRoot(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: os.Stderr, Verbose: opts.Verbose}

	segments := splitPath(path)
	if len(segments) == 0 {
		return NewExitError(ExitCommandError, "delete requires a non-empty path")
	}

	parent, key, err := resolveParent(root, segments)
	if err != nil {
		return err
	}

	removed, err := parent.Delete(key)
	if err != nil {
		return WrapExitError(ExitFailure, "delete "+path, err)
	}
	if !removed {
		return NewExitError(ExitFailure, "no value at "+path)
	}
	return f.Success(map[string]bool{"removed": removed})
}
