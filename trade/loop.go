// Package trade runs the control loop that keeps a broker account in
// sync with what the agent inventory wants to hold. Each cycle it pulls
// one quote, asks the inventory for its next exposure, and places the
// difference as a market order. The loop never gives up on a broker
// failure; it logs and tries again on the next cycle.
package trade

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"time"

	"github.com/rustyeddy/hedger/agent"
	"github.com/rustyeddy/hedger/broker"
	"github.com/rustyeddy/hedger/journal"
	"github.com/rustyeddy/hedger/market"
	"github.com/rustyeddy/hedger/pkg/id"
)

const (
	DefaultInterval = 15 * time.Second
	DefaultMaxIters = 10000
)

// Loop wires an inventory to a broker. Zero-value optional fields get
// defaults in Run: Journal discards, Out is stdout, Log is the standard
// logger.
type Loop struct {
	Broker    broker.Broker
	Inventory *agent.AgentInventory
	Journal   journal.Journal
	Out       io.Writer
	Log       *log.Logger

	Instrument string
	Interval   time.Duration
	MaxIters   int
}

func (l *Loop) defaults() {
	if l.Journal == nil {
		l.Journal = journal.Discard{}
	}
	if l.Out == nil {
		l.Out = os.Stdout
	}
	if l.Log == nil {
		l.Log = log.Default()
	}
	if l.Interval <= 0 {
		l.Interval = DefaultInterval
	}
	if l.MaxIters <= 0 {
		l.MaxIters = DefaultMaxIters
	}
}

// Run drives the loop until ctx is cancelled or MaxIters cycles have
// run. The first cycle starts immediately; every later cycle waits
// Interval first.
func (l *Loop) Run(ctx context.Context) error {
	l.defaults()

	// Opening checkpoint so the run is recoverable from line one.
	if err := l.Inventory.Snapshot(l.Out); err != nil {
		return err
	}

	for iter := 0; iter < l.MaxIters; iter++ {
		if iter > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(l.Interval):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		l.cycle(ctx)
	}
	return nil
}

// cycle is one pass: quote, reconcile, order, settle. Every failure is
// logged and abandoned; the next cycle starts from live state again.
func (l *Loop) cycle(ctx context.Context) {
	tick, err := l.Broker.GetPricing(ctx, l.Instrument)
	if err != nil {
		mtxErrors.WithLabelValues("pricing").Inc()
		l.Log.Printf("pricing %s: %v, will try again next cycle", l.Instrument, err)
		return
	}
	if !tick.Valid() {
		mtxErrors.WithLabelValues("pricing").Inc()
		l.Log.Printf("unusable quote %.5f/%.5f, will try again next cycle", tick.Bid, tick.Ask)
		return
	}
	mtxTicks.Inc()

	positions, err := l.Broker.GetOpenPositions(ctx)
	if err != nil {
		mtxErrors.WithLabelValues("positions").Inc()
		l.Log.Printf("open positions: %v, will try again next cycle", err)
		return
	}
	accountExposure := accountUnits(positions, l.Instrument)

	targetExposure := l.Inventory.NextExposure(tick)
	mtxExposure.Set(float64(l.Inventory.Exposure()))
	if targetExposure == accountExposure {
		return
	}

	units := targetExposure - accountExposure
	l.Log.Printf("trading %d to reach %d at %.5f/%.5f", units, targetExposure, tick.Bid, tick.Ask)
	mtxOrders.WithLabelValues(orderSide(units)).Inc()

	fill, err := l.Broker.CreateMarketOrder(ctx, broker.MarketOrderRequest{
		Instrument: l.Instrument,
		Units:      units,
	})
	if err != nil {
		mtxErrors.WithLabelValues("order").Inc()
		l.Log.Printf("market order: %v, will try again next cycle", err)
		return
	}
	if fill == nil {
		l.Log.Printf("order accepted without a fill, will try again next cycle")
		return
	}
	mtxFills.Inc()

	l.Inventory.UpdateOnFill(*fill)
	mtxExposure.Set(float64(l.Inventory.Exposure()))
	mtxPL.Set(l.Inventory.PL + cumProfit(l.Inventory))

	l.checkpoint(tick, *fill, targetExposure, accountExposure)
}

// checkpoint records the fill and the post-fill inventory. Journal
// failures never affect trading state.
func (l *Loop) checkpoint(tick market.Tick, fill agent.OrderFill, target, account int64) {
	now := time.Now().UTC()

	if err := l.Journal.RecordFill(journal.FillRecord{
		FillID:          id.New(),
		Time:            now,
		Instrument:      l.Instrument,
		Units:           fill.Units,
		Price:           fill.Price,
		TargetExposure:  target,
		AccountExposure: account,
	}); err != nil {
		mtxErrors.WithLabelValues("journal").Inc()
		l.Log.Printf("journal fill: %v", err)
	}

	if err := l.Inventory.Snapshot(l.Out); err != nil {
		l.Log.Printf("snapshot: %v", err)
	}

	state, err := json.Marshal(l.Inventory)
	if err != nil {
		l.Log.Printf("snapshot: %v", err)
		return
	}
	if err := l.Journal.RecordSnapshot(journal.SnapshotRecord{
		SnapshotID: id.New(),
		Time:       now,
		Inventory:  string(state),
		Exposure:   l.Inventory.Exposure(),
	}); err != nil {
		mtxErrors.WithLabelValues("journal").Inc()
		l.Log.Printf("journal snapshot: %v", err)
	}
}

// accountUnits nets the broker positions for the instrument.
func accountUnits(positions []broker.Position, instrument string) int64 {
	var units int64
	for _, p := range positions {
		if p.Instrument == instrument {
			units += p.Units
		}
	}
	return units
}

func cumProfit(inv *agent.AgentInventory) float64 {
	var total float64
	for _, a := range inv.Agents {
		total += a.PL.CumProfit
	}
	return total
}
