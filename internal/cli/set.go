package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newSetCommand(opts *RootOptions) *cobra.Command {
	var schemaPath string

	cmd := &cobra.Command{
		Use:           "set <path> <json-value>",
		Short:         "Write a value (JSON scalar, object, or array)",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(opts, args[0], args[1], schemaPath)
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "optional .cue file to validate a record value against before writing")
	return cmd
}

func runSet(opts *RootOptions, path, rawValue, schemaPath string) error {
	db, root, err := openRoot(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	var decoded any
	if err := json.Unmarshal([]byte(rawValue), &decoded); err != nil {
		return WrapExitError(ExitCommandError, "parse JSON value", err)
	}

	if schemaPath != "" {
		obj, ok := decoded.(map[string]any)
		if !ok {
			return NewExitError(ExitCommandError, "--schema requires a JSON object value")
		}
		if err := validateAgainstSchema(schemaPath, obj); err != nil {
			return err
		}
	}

	value, err := importTree(decoded)
	if err != nil {
		return err
	}

	segments := splitPath(path)
	if len(segments) == 0 {
		return NewExitError(ExitCommandError, "set requires a non-empty path")
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
