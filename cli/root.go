// Package cli wires the hedger commands together with cobra.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hedger",
	Short: "An automated grid-hedging engine for a single instrument",
	Long: `Hedger runs inventories of gear-driven trading agents. Each agent maps
price to a desired exposure along a piecewise-linear curve; the engine
keeps the broker account in sync with what the inventory wants.

It provides tools for:
  - Running the live control loop against an OANDA account
  - Building inventories from agent spec files
  - Merging inventories and collapsing pairs of agents into one
  - Replaying agents over historical daily-bar archives
  - Inspecting the fill journal`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
