package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/reoring/formskema"
	"github.com/reoring/formskema/dataset"
)

func (a *app) validateCmd() *cobra.Command {
	var raw, dump bool
	cmd := &cobra.Command{
		Use:   "validate <schema> <data>",
		Short: "Validate a JSON or YAML document against a schema",
		Long: `Validate a JSON or YAML document against a schema and print the
failures per field.

Exit codes:
  0 - valid
  1 - the data is invalid
  2 - the schema, the data file or the configuration could not be used`,
		Example: `  formskema validate form.json submission.json
  formskema validate form.yaml submission.yaml --strategy expand -o json --raw`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.compileOptions()
			if err != nil {
				return err
			}
			c, err := formskema.Load(args[0], opts...)
			if err != nil {
				return errors.Wrapf(err, "compiling %s", args[0])
			}
			data, err := dataset.Load(args[1])
			if err != nil {
				return err
			}

			r := c.Validate(data)
			if dump {
				dumper.Fdump(cmd.ErrOrStderr(), r.Raw)
			}
			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				res := validateOutput{Valid: r.Valid(), Messages: r.Messages, Issues: r.Issues(), Result: r.Interpreted}
				if raw {
					res.Raw = r.Raw
				}
				err = writeJSON(out, res)
			} else {
				err = writeReport(out, r)
			}
			if err != nil {
				return err
			}
			if !r.Valid() {
				return errValidationFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "include the raw result tree in JSON output")
	cmd.Flags().BoolVar(&dump, "dump", false, "dump the raw result tree to stderr")
	cmd.Flags().String("strategy", "", "combinator strategy: direct, expand")
	cmd.Flags().Int("max-variants", 0, "variant limit for the expand strategy (0 = unbounded)")
	return cmd
}
