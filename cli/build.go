package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/hedger/agent"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a tradable inventory from an agent spec file",
	Long: `Build reads a file of named agent specs, constructs every agent and
writes the resulting inventory JSON to stdout, ready for 'hedger trade'.

A spec file names one constructor case per agent:

  {"agents": {"dip": {"CL": {"direction": 1, "price": 1.05,
                             "scale": 0.001, "size": 1000, "imax": 50}}}}

Example:
  hedger build -f specs.json > inventory.json`,
	RunE: runBuild,
}

var buildSpecPath string

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildSpecPath, "spec-file", "f", "", "agent spec file")
	buildCmd.MarkFlagRequired("spec-file")
}

func runBuild(cmd *cobra.Command, args []string) error {
	bf, err := agent.LoadBuilders(buildSpecPath)
	if err != nil {
		return err
	}

	inv, err := bf.Build()
	if err != nil {
		return err
	}
	return inv.Snapshot(os.Stdout)
}
