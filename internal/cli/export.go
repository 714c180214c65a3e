package cli

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExportCommand(opts *RootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:           "export [path]",
		Short:         "Dump a subtree to a YAML file",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runExport(opts, path, outPath)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	return cmd
}

func runExport(opts *RootOptions, path, outPath string) error {
	db, root, err := openRoot(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	h, err := resolveHandle(root, splitPath(path))
	if err != nil {
		return err
	}

	tree, err := readTree(h)
	if err != nil {
		return WrapExitError(ExitCommandError, "read tree", err)
	}

	encoded, err := yaml.Marshal(tree)
	if err != nil {
		return WrapExitError(ExitCommandError, "marshal YAML", err)
	}

	if outPath == "" {
		_, err = os.Stdout.Write(encoded)
		return err
	}
	return os.WriteFile(outPath, encoded, 0o644)
}
