package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pathkv/hierodb"
)

func newLenCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "len <path>",
		Short:         "Print the length of an array handle",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLen(opts, args[0], cmd)
		},
	}
	return cmd
}

func runLen(opts *RootOptions, path string, cmd *cobra.Command) error {
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
	if h.Kind() != hierodb.KindArray {
		return NewExitError(ExitCommandError, path+" is not an array")
	}

	length, err := h.Length()
	if err != nil {
		return WrapExitError(ExitCommandError, "length", err)
	}
	return f.Success(length)
}
