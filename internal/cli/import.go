package cli

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newImportCommand(opts *RootOptions) *cobra.Command {
	var inPath string

	cmd := &cobra.Command{
		Use:           "import <path>",
		Short:         "Load a YAML file and write it at path",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], inPath)
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input file (required)")
	cmd.MarkFlagRequired("in")
	return cmd
}

func runImport(opts *RootOptions, path, inPath string) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "read input file", err)
	}

	var decoded any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return WrapExitError(ExitCommandError, "parse YAML", err)
	}

	value, err := importTree(decoded)
	if err != nil {
		return err
	}

	db, root, err := openRoot(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	segments := splitPath(path)
	if len(segments) == 0 {
		return NewExitError(ExitCommandError, "import requires a non-empty path")
	}

	parent, key, err := resolveParent(root, segments)
	if err != nil {
		return err
	}

	if err := parent.Set(key, value); err != nil {
		return WrapExitError(ExitFailure, "set "+path, err)
	}
	return nil
}
