package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/hedger/agent"
	"github.com/rustyeddy/hedger/broker/oanda"
	"github.com/rustyeddy/hedger/config"
	"github.com/rustyeddy/hedger/journal"
	"github.com/rustyeddy/hedger/trade"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Run the live control loop against the broker",
	Long: `Trade loads an agent inventory and reconciles the broker account with
it on every poll. Inventory snapshots stream to stdout as one JSON line
per fill; progress and errors go to stderr.

Broker credentials come from OANDA_URL, OANDA_ACCOUNT and OANDA_API_KEY.

Examples:
  hedger trade -f inventory.json
  hedger trade --config hedger.yaml
  hedger trade -f inventory.json --interval 30s --iterations 500`,
	RunE: runTrade,
}

var (
	tradeConfigPath    string
	tradeInventoryPath string
	tradeInstrument    string
	tradeInterval      time.Duration
	tradeIterations    int
	tradeJournalType   string
	tradeJournalPath   string
	tradeMetricsAddr   string
)

func init() {
	rootCmd.AddCommand(tradeCmd)

	tradeCmd.Flags().StringVar(&tradeConfigPath, "config", "", "path to config file (flags override it)")
	tradeCmd.Flags().StringVarP(&tradeInventoryPath, "hedger-file", "f", "", "inventory JSON file to trade")
	tradeCmd.Flags().StringVar(&tradeInstrument, "instrument", "EUR_USD", "instrument to trade")
	tradeCmd.Flags().DurationVar(&tradeInterval, "interval", trade.DefaultInterval, "poll interval")
	tradeCmd.Flags().IntVar(&tradeIterations, "iterations", trade.DefaultMaxIters, "cycles before the loop stops")
	tradeCmd.Flags().StringVar(&tradeJournalType, "journal", "none", "journal type: none, csv or sqlite")
	tradeCmd.Flags().StringVar(&tradeJournalPath, "journal-path", "", "journal file path")
	tradeCmd.Flags().StringVar(&tradeMetricsAddr, "metrics", "", "address to serve /metrics on (empty disables)")
}

func runTrade(cmd *cobra.Command, args []string) error {
	if tradeConfigPath != "" {
		cfg, err := config.LoadFromFile(tradeConfigPath)
		if err != nil {
			return err
		}
		applyTradeConfig(cmd, cfg)
	}

	if tradeInventoryPath == "" {
		return fmt.Errorf("an inventory file is required (-f or config trade.inventory_file)")
	}
	inv, err := agent.LoadInventory(tradeInventoryPath)
	if err != nil {
		return err
	}

	jnl, err := openJournal(tradeJournalType, tradeJournalPath)
	if err != nil {
		return err
	}
	defer jnl.Close()

	client, err := oanda.FromEnv()
	if err != nil {
		return err
	}

	if tradeMetricsAddr != "" {
		go func() {
			if err := trade.ServeMetrics(tradeMetricsAddr); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := &trade.Loop{
		Broker:     client,
		Inventory:  inv,
		Journal:    jnl,
		Instrument: tradeInstrument,
		Interval:   tradeInterval,
		MaxIters:   tradeIterations,
	}
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// applyTradeConfig fills in every flag the user did not set explicitly.
func applyTradeConfig(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("hedger-file") {
		tradeInventoryPath = cfg.Trade.InventoryFile
	}
	if !cmd.Flags().Changed("instrument") {
		tradeInstrument = cfg.Trade.Instrument
	}
	if !cmd.Flags().Changed("interval") {
		if d, err := cfg.Trade.ParsePollInterval(); err == nil {
			tradeInterval = d
		}
	}
	if !cmd.Flags().Changed("iterations") && cfg.Trade.MaxIterations > 0 {
		tradeIterations = cfg.Trade.MaxIterations
	}
	if !cmd.Flags().Changed("journal") && cfg.Journal.Type != "" {
		tradeJournalType = cfg.Journal.Type
	}
	if !cmd.Flags().Changed("journal-path") {
		tradeJournalPath = cfg.Journal.Path
	}
	if !cmd.Flags().Changed("metrics") {
		tradeMetricsAddr = cfg.Metrics.Addr
	}
}

func openJournal(kind, path string) (journal.Journal, error) {
	switch kind {
	case "", "none":
		return journal.Discard{}, nil
	case "csv":
		return journal.NewCSV(path)
	case "sqlite":
		return journal.NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown journal type %q", kind)
	}
}
