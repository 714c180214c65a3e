package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func newGetCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "get <path>",
		Short:         "Read a scalar or composite value",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], cmd)
		},
	}
	return cmd
}

func runGet(opts *RootOptions, path string, cmd *cobra.Command) error {
	db, root, err := openRoot(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: os.Stderr, Verbose: opts.Verbose}

	segments := splitPath(path)
	if len(segments) == 0 {
		data, err := readTree(root)
		if err != nil {
			return WrapExitError(ExitCommandError, "read tree", err)
		}
		return f.Success(data)
	}

	parent, key, err := resolveParent(root, segments)
	if err != nil {
		return err
	}

	res, err := parent.Get(key)
	if err != nil {
		return WrapExitError(ExitCommandError, "get "+path, err)
	}
	if res.Absent {
		return NewExitError(ExitFailure, "no value at "+path)
	}
	if res.Handle != nil {
		data, err := readTree(res.Handle)
		if err != nil {
			return WrapExitError(ExitCommandError, "read tree", err)
		}
		return f.Success(data)
	}

	data, err := scalarToPlain(res.Value)
	if err != nil {
		return WrapExitError(ExitCommandError, "render value", err)
	}
	return f.Success(data)
}
