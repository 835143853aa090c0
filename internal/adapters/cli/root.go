package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	stockFlags []string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "factoryctl",
		Short: "factoryctl - Plan and simulate factory production offline",
		Long: `factoryctl runs the factory simulation core in-process against the
standard catalog. Inventory starts from the configured seed plus any --stock
flags, so every command is reproducible without a running daemon.

Examples:
  factoryctl classify iron-gear-wheel wooden-chest
  factoryctl plan electronic-circuit --qty 5 --stock iron-plate=10,copper-plate=10
  factoryctl power --place solar-panel=10 --place assembling-machine=4 --daylight 0.5
  factoryctl simulate --place stone-furnace:iron-plate=2 --stock coal=20,iron-ore=100 --ticks 60
  factoryctl fuel burner-mining-drill --item coal --qty 5`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().StringSliceVar(&stockFlags, "stock", nil,
		"Starting inventory as item=qty pairs, added to the configured seed")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewClassifyCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewPowerCommand())
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewFuelCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
