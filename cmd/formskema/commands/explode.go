package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/formskema/definition"
	"github.com/reoring/formskema/explode"
)

func (a *app) explodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explode <schema>",
		Short: "Print the combinator-free variants of a schema",
		Long: `Expand every anyOf and allOf of a schema into the list of schemas
without combinators that accept the same data. oneOf cannot be expanded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := definition.Load(args[0])
			if err != nil {
				return err
			}
			res, err := explode.Explode(def, explode.WithLimit(a.cfg.MaxVariants))
			if err != nil {
				return err
			}
			a.logger.Info("exploded", "schema", args[0], "variants", len(res.Variants), "exploded", res.Exploded)

			out := cmd.OutOrStdout()
			if a.jsonOutput() {
				return writeJSON(out, res.Variants)
			}
			for i, v := range res.Variants {
				b, err := v.MarshalJSON()
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintf(out, "# variant %d\n%s\n", i+1, b); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("max-variants", 0, "fail when more variants would be produced (0 = unbounded)")
	return cmd
}
