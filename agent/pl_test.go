package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncreaseByWeightsAverage(t *testing.T) {
	t.Parallel()

	pl := PL{}
	pl.IncreaseBy(1.0, 100)
	assert.Equal(t, int64(100), pl.Exposure)
	assert.InDelta(t, 1.0, pl.PriceAverage, 1e-12)

	pl.IncreaseBy(1.2, 100)
	assert.Equal(t, int64(200), pl.Exposure)
	assert.InDelta(t, 1.1, pl.PriceAverage, 1e-12)
	assert.InDelta(t, 200*(1.2/1.1-1), pl.UnrealizedPL, 1e-9)
}

func TestDecreaseByRealizesAgainstAverage(t *testing.T) {
	t.Parallel()

	pl := PL{}
	pl.IncreaseBy(1.1, 200)
	pl.DecreaseBy(1.21, 100)

	assert.Equal(t, int64(100), pl.Exposure)
	// average survives for the residual
	assert.InDelta(t, 1.1, pl.PriceAverage, 1e-12)
	assert.InDelta(t, 100*(1.21/1.1-1), pl.CumProfit, 1e-9)
}

func TestBuySellDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		setup     func(*PL)
		exposure  int64
		cumProfit float64
		avg       float64
	}{
		{
			name: "flat_then_long",
			setup: func(p *PL) {
				p.Buy(1.0, 100)
			},
			exposure: 100, cumProfit: 0, avg: 1.0,
		},
		{
			name: "long_partial_close",
			setup: func(p *PL) {
				p.Buy(1.0, 100)
				p.Sell(1.1, 40)
			},
			exposure: 60, cumProfit: 40 * 0.1, avg: 1.0,
		},
		{
			name: "long_sign_flip",
			setup: func(p *PL) {
				p.Buy(1.0, 100)
				p.Sell(1.1, 150)
			},
			// old side fully realized at the fill price, new side opens there
			exposure: -50, cumProfit: 100 * 0.1, avg: 1.1,
		},
		{
			name: "short_partial_cover",
			setup: func(p *PL) {
				p.Sell(1.0, 100)
				p.Buy(0.9, 40)
			},
			exposure: -60, cumProfit: 40 * 0.1, avg: 1.0,
		},
		{
			name: "short_sign_flip",
			setup: func(p *PL) {
				p.Sell(1.0, 100)
				p.Buy(0.9, 150)
			},
			exposure: 50, cumProfit: 100 * 0.1, avg: 0.9,
		},
		{
			name: "round_trip_flat",
			setup: func(p *PL) {
				p.Buy(1.0, 100)
				p.Sell(1.25, 100)
			},
			exposure: 0, cumProfit: 25, avg: 1.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			pl := PL{}
			tt.setup(&pl)
			assert.Equal(t, tt.exposure, pl.Exposure)
			assert.InDelta(t, tt.cumProfit, pl.CumProfit, 1e-9)
			assert.InDelta(t, tt.avg, pl.PriceAverage, 1e-9)
		})
	}
}

func TestNetZeroSequenceIsFlat(t *testing.T) {
	t.Parallel()

	pl := PL{}
	pl.Buy(1.00, 300)
	pl.Sell(1.10, 100)
	pl.Sell(1.20, 100)
	pl.Buy(1.10, 200)
	pl.Sell(1.30, 300)

	assert.Equal(t, int64(0), pl.Exposure)
	// each closing unit realizes price/avg - 1 against the running average
	want := 100*(1.10/1.00-1) + 100*(1.20/1.00-1)
	avg2 := (1.00*100 + 1.10*200) / 300
	want += 300 * (1.30/avg2 - 1)
	assert.InDelta(t, want, pl.CumProfit, 1e-9)
}

func TestPLAtPrice(t *testing.T) {
	t.Parallel()

	pl := PL{}
	pl.Buy(1.0, 100)
	pl.Sell(1.1, 50)

	at := pl.PLAtPrice(1.2)
	assert.InDelta(t, 50*0.1+50*0.2, at, 1e-9)

	// TotalProfit refreshes the unrealized mark
	total := pl.TotalProfit(1.2)
	assert.InDelta(t, at, total, 1e-12)
	assert.InDelta(t, 50*0.2, pl.UnrealizedPL, 1e-9)
}
