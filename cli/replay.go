package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/hedger/agent"
	"github.com/rustyeddy/hedger/market/data"
	"github.com/rustyeddy/hedger/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay an inventory over historical daily-bar archives",
	Long: `Replay runs an inventory through every day archive in a directory,
filling each exposure change at the bar close. The final inventory and
a result summary go to stdout.

Day archives are YYYYMMDD.zip or YYYYMMDD.csv.xz files of headerless
bar rows: <ms offset>,<open>,<high>,<low>,<close>[,<volume>].

Example:
  hedger replay -f inventory.json -d data/eurusd/`,
	RunE: runReplayCmd,
}

var (
	replayInventoryPath string
	replayDataDir       string
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayInventoryPath, "hedger-file", "f", "", "inventory JSON file to replay")
	replayCmd.Flags().StringVarP(&replayDataDir, "data-dir", "d", "", "directory of day archives")
	replayCmd.MarkFlagRequired("hedger-file")
	replayCmd.MarkFlagRequired("data-dir")
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	inv, err := agent.LoadInventory(replayInventoryPath)
	if err != nil {
		return err
	}

	days, err := data.List(replayDataDir)
	if err != nil {
		return err
	}

	res, err := replay.Run(days, inv)
	if err != nil {
		return err
	}

	if err := inv.Snapshot(os.Stdout); err != nil {
		return err
	}
	summary, err := json.Marshal(res)
	if err != nil {
		return err
	}
	fmt.Println(string(summary))
	return nil
}
