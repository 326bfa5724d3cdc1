package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/hedger/market"
)

func TestBiCoastEpochTarget(t *testing.T) {
	t.Parallel()

	b := NewBiCoast(1.00, 0.10, 0.0010, 10000)
	// one traversal step of the band
	assert.InDelta(t, 100, b.EpochTarget, 1e-9)
	assert.InDelta(t, 100, b.Hedger.Target, 1e-9)
	assert.InDelta(t, 1.00, b.MidPrice(), 1e-12)
}

func TestBiCoastTradesLikeSymmetric(t *testing.T) {
	t.Parallel()

	b := NewBiCoast(1.00, 0.10, 0.0010, 10000)

	got := b.NextExposure(market.Tick{Bid: 0.9500, Ask: 0.9500})
	require.Equal(t, int64(5000), got)
	b.UpdateOnFill(OrderFill{Price: 0.9500, Units: 5000})
	assert.Equal(t, int64(5000), b.Exposure())
}

func TestBiCoastRecentersOnTarget(t *testing.T) {
	t.Parallel()

	b := NewBiCoast(1.00, 0.10, 0.0010, 10000)

	b.NextExposure(market.Tick{Bid: 0.9500, Ask: 0.9500})
	b.UpdateOnFill(OrderFill{Price: 0.9500, Units: 5000})
	require.Equal(t, int64(5000), b.Exposure())

	// 5000 * (0.98/0.95 - 1) ≈ 158 > 100: the epoch target is hit
	got := b.NextExposure(market.Tick{Bid: 0.9800, Ask: 0.9800})
	require.Equal(t, int64(0), got)
	b.UpdateOnFill(OrderFill{Price: 0.9800, Units: -5000})

	// position closed, band recentered, next epoch armed
	assert.Equal(t, int64(0), b.Exposure())
	assert.Greater(t, b.Hedger.PL.CumProfit, 100.0)
	assert.InDelta(t, 0.98, b.MidPrice(), 1e-9)
	assert.InDelta(t, 200, b.Hedger.Target, 1e-9)
	assert.True(t, b.IsActive())
	assert.False(t, b.ToBeClosed())
}
