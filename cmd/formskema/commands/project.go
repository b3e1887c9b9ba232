package commands

import (
	"github.com/spf13/cobra"

	"github.com/reoring/formskema/definition"
)

func (a *app) projectCmd() *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "project <schema> --field <path> [--field <path>...]",
		Short: "Print a schema reduced to the given fields",
		Long: `Reduce a schema to the listed dotted field paths, for example to
validate one step of a multi-page form. Intermediate objects keep their own
keywords.`,
		Example: `  formskema project form.json --field name --field address.city`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := definition.Load(args[0])
			if err != nil {
				return err
			}
			out, err := definition.Project(def, fields)
			if err != nil {
				return err
			}
			a.logger.Debug("projected", "schema", args[0], "fields", fields)
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringSliceVarP(&fields, "field", "f", nil, "dotted field path to keep (repeatable)")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}
