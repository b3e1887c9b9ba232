package commands

import (
	"github.com/spf13/cobra"

	"github.com/reoring/formskema"
	"github.com/reoring/formskema/dataset"
)

func (a *app) defaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults <schema>",
		Short: "Print the default document of a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := formskema.Load(args[0], formskema.WithLogger(a.logger))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), c.DefaultValue())
		},
	}
}

func (a *app) deriveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "derive <schema> <data>",
		Short: "Print the computed values of the expression fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := formskema.Load(args[0], formskema.WithLogger(a.logger))
			if err != nil {
				return err
			}
			data, err := dataset.Load(args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), c.Derive(data))
		},
	}
}
