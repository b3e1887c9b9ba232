package commands

import (
	"github.com/spf13/cobra"

	"github.com/reoring/formskema"
	"github.com/reoring/formskema/jsonschema"
)

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <schema>",
		Short: "Print a schema as standard JSON Schema",
		Long: `Convert a form schema to JSON Schema draft 2020-12. Expression
fields become read-only numbers and form-only keywords are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := formskema.Load(args[0], formskema.WithLogger(a.logger))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), jsonschema.Export(c.Schema()))
		},
	}
}
