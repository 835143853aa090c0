package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewClassifyCommand creates the classify command
func NewClassifyCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "classify [recipe-id...]",
		Short: "Explain whether recipes can be hand-crafted",
		Long: `Run the manual-crafting eligibility rules against one or more recipes and
print the verdict, the rule that decided it and the reason code.

Examples:
  factoryctl classify iron-gear-wheel
  factoryctl classify --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(1)
			if err != nil {
				return err
			}

			ids := args
			if all {
				ids = s.catalog.RecipeIDs()
			}
			if len(ids) == 0 {
				return fmt.Errorf("specify at least one recipe id or --all")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-24s %-13s %-22s %s\n", "RECIPE", "CATEGORY", "RULE", "REASON")
			for _, id := range ids {
				recipe, ok := s.catalog.RecipeByID(id)
				if !ok {
					return fmt.Errorf("unknown recipe %q", id)
				}
				rule, verdict := s.classifier.Explain(recipe)
				if rule == "" {
					rule = "-"
				}
				fmt.Fprintf(out, "%-24s %-13s %-22s %s\n", id, verdict.Category, rule, verdict.Reason)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Classify every recipe in the catalog")

	return cmd
}
