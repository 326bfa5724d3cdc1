package trade

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/hedger/agent"
	"github.com/rustyeddy/hedger/broker"
	"github.com/rustyeddy/hedger/journal"
	"github.com/rustyeddy/hedger/market"
)

// fakeBroker serves a scripted sequence of ticks and fills every order
// at the mid of the current tick. It reports its own past fills as the
// open position, like a real account would.
type fakeBroker struct {
	mu       sync.Mutex
	ticks    []market.Tick
	idx      int
	units    int64
	orders   []broker.MarketOrderRequest
	orderErr error
	noFill   bool
}

func (b *fakeBroker) GetPricing(ctx context.Context, instrument string) (market.Tick, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.idx >= len(b.ticks) {
		return market.Tick{}, errors.New("no more ticks")
	}
	t := b.ticks[b.idx]
	b.idx++
	return t, nil
}

func (b *fakeBroker) GetOpenPositions(ctx context.Context) ([]broker.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.units == 0 {
		return nil, nil
	}
	return []broker.Position{{Instrument: "EUR_USD", Units: b.units}}, nil
}

func (b *fakeBroker) CreateMarketOrder(ctx context.Context, req broker.MarketOrderRequest) (*agent.OrderFill, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = append(b.orders, req)
	if b.orderErr != nil {
		return nil, b.orderErr
	}
	if b.noFill {
		return nil, nil
	}
	b.units += req.Units
	price := b.ticks[b.idx-1].Mid()
	return &agent.OrderFill{Price: price, Units: req.Units}, nil
}

func testInventory() *agent.AgentInventory {
	inv := agent.NewInventory()
	inv.Agents["sym"] = agent.NewSymmetric(1.00, 2.00, 0.01, 0.01, 100000, 100)
	return inv
}

func quietLoop(b *fakeBroker, inv *agent.AgentInventory) (*Loop, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &Loop{
		Broker:     b,
		Inventory:  inv,
		Out:        out,
		Log:        log.New(&bytes.Buffer{}, "", 0),
		Instrument: "EUR_USD",
		Interval:   time.Millisecond,
	}, out
}

func TestLoopReconcilesToTarget(t *testing.T) {
	t.Parallel()

	b := &fakeBroker{ticks: []market.Tick{
		{Bid: 1.50, Ask: 1.50},
		{Bid: 1.40, Ask: 1.40},
		{Bid: 1.40, Ask: 1.40},
	}}
	inv := testInventory()
	l, out := quietLoop(b, inv)
	l.MaxIters = 3

	require.NoError(t, l.Run(context.Background()))

	// g(1.50) = 0 so the first tick trades nothing; the drop to 1.40
	// wants +20000 and the third tick has nothing left to do.
	require.Len(t, b.orders, 1)
	assert.Equal(t, int64(20000), b.orders[0].Units)
	assert.Equal(t, int64(20000), b.units)
	assert.Equal(t, int64(20000), inv.Exposure())

	// Opening checkpoint plus one per fill.
	lines := 0
	sc := bufio.NewScanner(out)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)
	for sc.Scan() {
		lines++
		var snap agent.AgentInventory
		require.NoError(t, json.Unmarshal(sc.Bytes(), &snap))
	}
	assert.Equal(t, 2, lines)
}

func TestLoopRetriesAfterOrderError(t *testing.T) {
	t.Parallel()

	b := &fakeBroker{
		ticks: []market.Tick{
			{Bid: 1.40, Ask: 1.40},
			{Bid: 1.40, Ask: 1.40},
		},
		orderErr: errors.New("rejected"),
	}
	inv := testInventory()
	l, _ := quietLoop(b, inv)
	l.MaxIters = 2

	require.NoError(t, l.Run(context.Background()))

	// The delta is re-placed each cycle since nothing ever fills.
	require.Len(t, b.orders, 2)
	assert.Equal(t, int64(20000), b.orders[0].Units)
	assert.Equal(t, int64(20000), b.orders[1].Units)
	assert.Equal(t, int64(0), inv.Exposure())
}

func TestLoopRetriesAfterNoFill(t *testing.T) {
	t.Parallel()

	b := &fakeBroker{
		ticks: []market.Tick{
			{Bid: 1.40, Ask: 1.40},
			{Bid: 1.40, Ask: 1.40},
		},
		noFill: true,
	}
	inv := testInventory()
	l, out := quietLoop(b, inv)
	l.MaxIters = 2

	require.NoError(t, l.Run(context.Background()))

	require.Len(t, b.orders, 2)
	assert.Equal(t, int64(0), inv.Exposure())

	// Only the opening checkpoint; no fill means no snapshot.
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("\n")))
}

func TestLoopSurvivesPricingError(t *testing.T) {
	t.Parallel()

	b := &fakeBroker{} // no ticks at all
	inv := testInventory()
	l, _ := quietLoop(b, inv)
	l.MaxIters = 3

	require.NoError(t, l.Run(context.Background()))
	assert.Empty(t, b.orders)
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	b := &fakeBroker{ticks: []market.Tick{{Bid: 1.50, Ask: 1.50}}}
	inv := testInventory()
	l, _ := quietLoop(b, inv)
	l.MaxIters = 100000
	l.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}

func TestLoopJournalsFills(t *testing.T) {
	t.Parallel()

	b := &fakeBroker{ticks: []market.Tick{
		{Bid: 1.40, Ask: 1.40},
	}}
	inv := testInventory()
	l, _ := quietLoop(b, inv)
	l.MaxIters = 1

	rec := &recordingJournal{}
	l.Journal = rec

	require.NoError(t, l.Run(context.Background()))
	require.Len(t, rec.fills, 1)
	assert.Equal(t, int64(20000), rec.fills[0].Units)
	assert.Equal(t, "EUR_USD", rec.fills[0].Instrument)
	require.Len(t, rec.snaps, 1)
	assert.Equal(t, int64(20000), rec.snaps[0].Exposure)
	assert.Contains(t, rec.snaps[0].Inventory, `"agents"`)
}

type recordingJournal struct {
	fills []journal.FillRecord
	snaps []journal.SnapshotRecord
}

func (r *recordingJournal) RecordFill(f journal.FillRecord) error {
	r.fills = append(r.fills, f)
	return nil
}

func (r *recordingJournal) RecordSnapshot(s journal.SnapshotRecord) error {
	r.snaps = append(r.snaps, s)
	return nil
}

func (r *recordingJournal) Close() error { return nil }
