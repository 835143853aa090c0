package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/crafting"
)

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	var (
		quantity int
		execute  bool
		step     float64
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "plan <item>",
		Short: "Resolve a hand-craft request into a dependency plan",
		Long: `Resolve a craft request against the starting inventory. The plan lists every
dependency with the stock it uses and the intermediates that must be crafted,
followed by the raw materials the whole chain consumes.

With --execute the plan is committed and the crafting queue is ticked until
every task finishes.

Examples:
  factoryctl plan wooden-chest --stock wood=4
  factoryctl plan electronic-circuit --qty 3 --stock iron-plate=3,copper-plate=5 --execute`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(1)
			if err != nil {
				return err
			}

			resp, err := s.mediator.Send(s.ctx, &simulation.RequestCraftCommand{ItemID: args[0], Quantity: quantity})
			if err != nil {
				return fmt.Errorf("failed to plan %s: %w", args[0], err)
			}
			analysis := resp.(*crafting.ChainAnalysis)

			out := cmd.OutOrStdout()
			fmt.Fprint(out, NewTreeFormatter(!plain, false).FormatPlan(analysis))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Raw materials:")
			for _, item := range sortedKeys(analysis.RawRequirements) {
				fmt.Fprintf(out, "  %-22s %s\n", item, formatCount(analysis.RawRequirements[item]))
			}
			fmt.Fprintf(out, "Tasks: %d, total time %.2fs\n", len(analysis.Tasks), analysis.TotalDuration)

			if !execute {
				return nil
			}

			ticks := int(math.Ceil(analysis.TotalDuration/step)) + 1
			if _, err := s.mediator.Send(s.ctx, &simulation.RunTicksCommand{Ticks: ticks, Elapsed: step}); err != nil {
				return fmt.Errorf("failed to run craft queue: %w", err)
			}
			fmt.Fprintf(out, "\n✓ Crafted after %d ticks: %s x%s in inventory\n",
				ticks, analysis.ItemID, formatCount(s.store.Quantity(analysis.ItemID)))
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "qty", "q", 1, "Quantity to craft")
	cmd.Flags().BoolVar(&execute, "execute", false, "Commit the plan and tick the queue to completion")
	cmd.Flags().Float64Var(&step, "dt", 0.5, "Seconds per tick when executing")
	cmd.Flags().BoolVar(&plain, "plain", false, "Disable ANSI colors")

	return cmd
}
