package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/power"
)

// NewPowerCommand creates the power command
func NewPowerCommand() *cobra.Command {
	var (
		places   []string
		daylight float64
	)

	cmd := &cobra.Command{
		Use:   "power",
		Short: "Compute the grid balance for a facility layout",
		Long: `Place the given facilities and print generation, demand, the satisfaction
ratio and demand per facility category.

Examples:
  factoryctl power --place solar-panel=10 --place assembling-machine=4
  factoryctl power --place steam-engine=2 --place electric-furnace=8 --daylight 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := parsePlacements(places)
			if err != nil {
				return err
			}
			s, err := newSession(daylight)
			if err != nil {
				return err
			}
			if _, err := s.place(specs); err != nil {
				return err
			}

			resp, err := s.mediator.Send(s.ctx, &simulation.GetPowerBalanceQuery{})
			if err != nil {
				return err
			}
			printBalance(cmd, resp.(*power.Balance))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&places, "place", nil, "Facility to place as type[:recipe][=count] (repeatable)")
	cmd.Flags().Float64Var(&daylight, "daylight", 1, "Solar multiplier in [0,1]")

	return cmd
}

func printBalance(cmd *cobra.Command, balance *power.Balance) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status:       %s\n", balance.Status)
	fmt.Fprintf(out, "Generation:   %s\n", formatPower(balance.Generation))
	fmt.Fprintf(out, "Demand:       %s\n", formatPower(balance.Demand))
	fmt.Fprintf(out, "Delivered:    %s\n", formatPower(balance.ActualGeneration))
	fmt.Fprintf(out, "Satisfaction: %.1f%%\n", balance.SatisfactionRatio*100)

	if len(balance.ByCategory) == 0 {
		return
	}
	categories := make([]string, 0, len(balance.ByCategory))
	for c := range balance.ByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	fmt.Fprintln(out, "Demand by category:")
	for _, c := range categories {
		fmt.Fprintf(out, "  %-14s %s\n", c, formatPower(balance.ByCategory[c]))
	}
}
