package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/hedger/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List the fills recorded in a SQLite journal",
	Long: `Journal prints the fills of one UTC day, oldest first, and the latest
inventory checkpoint if one exists.

Example:
  hedger journal --db hedger.db --day 2026-08-28`,
	RunE: runJournal,
}

var (
	journalDBPath string
	journalDay    string
)

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().StringVar(&journalDBPath, "db", "./hedger.db", "SQLite journal path")
	journalCmd.Flags().StringVar(&journalDay, "day", "", "UTC day to list, YYYY-MM-DD (default today)")
}

func runJournal(cmd *cobra.Command, args []string) error {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if journalDay != "" {
		var err error
		day, err = time.ParseInLocation("2006-01-02", journalDay, time.UTC)
		if err != nil {
			return fmt.Errorf("bad --day: %w", err)
		}
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	fills, err := j.ListFillsBetween(day, day.Add(24*time.Hour))
	if err != nil {
		return err
	}

	fmt.Printf("%d fills on %s\n", len(fills), day.Format("2006-01-02"))
	for _, f := range fills {
		fmt.Printf("%s  %s  %+7d @ %.5f  target %d account %d\n",
			f.Time.UTC().Format("15:04:05"), f.Instrument, f.Units, f.Price,
			f.TargetExposure, f.AccountExposure)
	}

	snap, err := j.LatestSnapshot()
	if err == nil {
		fmt.Printf("\nlatest checkpoint %s exposure %d\n%s\n",
			snap.Time.UTC().Format(time.RFC3339), snap.Exposure, snap.Inventory)
	}
	return nil
}
