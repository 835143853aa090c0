package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/factorycore/internal/application/simulation"
	"github.com/andrescamacho/factorycore/internal/domain/facility"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		places   []string
		ticks    int
		step     float64
		every    int
		daylight float64
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the tick loop over a facility layout",
		Long: `Place the given facilities and run ticks against the starting inventory.
Burner facilities refuel automatically from inventory. A summary line is
printed every --every ticks, followed by the final inventory and the
facility status counts.

Examples:
  factoryctl simulate --place stone-furnace:iron-plate=2 --stock coal=20,iron-ore=100 --ticks 60
  factoryctl simulate --place solar-panel=20 --place assembling-machine:iron-gear-wheel=2 \
    --stock iron-plate=200 --ticks 120 --daylight 0.6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := parsePlacements(places)
			if err != nil {
				return err
			}
			if len(specs) == 0 {
				return fmt.Errorf("place at least one facility with --place")
			}
			s, err := newSession(daylight)
			if err != nil {
				return err
			}
			if _, err := s.place(specs); err != nil {
				return err
			}

			resp, err := s.mediator.Send(s.ctx, &simulation.RunTicksCommand{Ticks: ticks, Elapsed: step})
			result, _ := resp.(*simulation.RunTicksResponse)
			if result != nil {
				printReports(cmd, result.Reports, every)
			}
			if err != nil {
				return err
			}

			printSummary(cmd, s, result.Reports)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&places, "place", nil, "Facility to place as type[:recipe][=count] (repeatable)")
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 60, "Number of ticks to run")
	cmd.Flags().Float64Var(&step, "dt", 1, "Simulated seconds per tick")
	cmd.Flags().IntVar(&every, "every", 10, "Print a summary line every N ticks (0 disables)")
	cmd.Flags().Float64Var(&daylight, "daylight", 1, "Solar multiplier in [0,1]")

	return cmd
}

func printReports(cmd *cobra.Command, reports []*simulation.TickReport, every int) {
	if every <= 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%6s  %-9s %7s  %6s  %11s  %s\n", "TICK", "POWER", "SAT", "CYCLES", "FUEL", "FAULTS")
	for i, r := range reports {
		if (i+1)%every != 0 && i != len(reports)-1 {
			continue
		}
		cycles := 0
		for _, c := range r.Cycles {
			cycles += c.Multiplier
		}
		fmt.Fprintf(out, "%6d  %-9s %6.1f%%  %6d  %11s  %d\n",
			r.Tick, r.Power.Status, r.Power.SatisfactionRatio*100, cycles, formatEnergy(r.FuelConsumed), len(r.Faults))
	}
}

func printSummary(cmd *cobra.Command, s *session, reports []*simulation.TickReport) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "\nInventory:")
	items := s.store.Items()
	for _, item := range sortedKeys(items) {
		if items[item] == 0 {
			continue
		}
		fmt.Fprintf(out, "  %-22s %s\n", item, formatCount(items[item]))
	}

	if len(reports) == 0 {
		return
	}
	counts := reports[len(reports)-1].StatusCounts()
	fmt.Fprintln(out, "Facilities:")
	for _, status := range facility.AllStatuses {
		if counts[status] > 0 {
			fmt.Fprintf(out, "  %-12s %d\n", status, counts[status])
		}
	}
}
