package cli

import (
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/cobra"

	"github.com/pathkv/hierodb/internal/herr"
)

// SchemaOK is the success payload printed by `schema validate` once a
// subtree conforms to the given CUE constraint.
type SchemaOK struct {
	Valid bool   `json:"valid"`
	Path  string `json:"path"`
}

func newSchemaCommand(opts *RootOptions) *cobra.Command {
	schema := &cobra.Command{
		Use:   "schema",
		Short: "Schema validation helpers (additive, not part of the core write path)",
	}
	schema.AddCommand(newSchemaValidateCommand(opts))
	return schema
}

func newSchemaValidateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <path> <cue-file>",
		Short:         "Check a stored record subtree against a CUE constraint",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemaValidate(opts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runSchemaValidate(opts *RootOptions, path, schemaPath string, cmd *cobra.Command) error {
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

	tree, err := readTree(h)
	if err != nil {
		return WrapExitError(ExitCommandError, "read tree", err)
	}

	obj, ok := tree.(map[string]any)
	if !ok {
		return NewExitError(ExitCommandError, path+" is not a record")
	}

	if err := validateAgainstSchema(schemaPath, obj); err != nil {
		return err
	}
	return f.Success(SchemaOK{Valid: true, Path: path})
}

// validateAgainstSchema checks obj against the CUE constraint in
// schemaPath, returning ErrSchemaViolation (via IsSchemaViolation on
// the wrapped error) if it fails. This is additive: the hierodb.Set
// call this guards is only ever attempted after validation succeeds,
// so a rejected write never touches the table (spec_full.md §5.3).
func validateAgainstSchema(schemaPath string, obj map[string]any) error {
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "read schema file", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return WrapExitError(ExitCommandError, "compile schema", schema.Err())
	}

	data := ctx.Encode(obj)
	unified := schema.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return WrapExitError(ExitFailure, "schema validation failed",
			herr.Wrap(herr.KindSchemaViolation, err, "validate against %s", schemaPath))
	}
	return nil
}
