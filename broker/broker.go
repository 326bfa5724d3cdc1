// Package broker defines the capability set the trading core consumes
// from a brokerage: one quote, the open positions, and market-order
// execution. Every failure is treated as transient by the callers; the
// control loop logs and retries on the next cycle.
package broker

import (
	"context"

	"github.com/rustyeddy/hedger/agent"
	"github.com/rustyeddy/hedger/market"
)

// Position is an open position as the broker reports it.
type Position struct {
	Instrument string
	Units      int64
}

// MarketOrderRequest asks for an immediate fill of Units (signed) of
// the instrument.
type MarketOrderRequest struct {
	Instrument string
	Units      int64
}

// Broker is the adapter contract. CreateMarketOrder returns a nil fill
// with a nil error when the order was accepted but no fill came back;
// the caller retries naturally on the next cycle.
type Broker interface {
	GetPricing(ctx context.Context, instrument string) (market.Tick, error)
	GetOpenPositions(ctx context.Context) ([]Position, error)
	CreateMarketOrder(ctx context.Context, req MarketOrderRequest) (*agent.OrderFill, error)
}
