// Package agent implements the composable trading agents of the hedging
// engine. An agent is a deterministic state machine: given a quote it
// declares the exposure it wants to hold, and once the resulting order
// fills it folds the execution back into its own accounting.
package agent

import "github.com/rustyeddy/hedger/market"

// OrderFill is an executed trade: positive units were bought, negative
// units were sold, all at Price.
type OrderFill struct {
	Price float64 `json:"price"`
	Units int64   `json:"units"`
}

// Agent is the capability set shared by single hedgers and by the
// inventory that aggregates them.
//
// NextExposure and UpdateOnFill are two phases of one trade, decoupled
// by broker I/O: NextExposure stages a tentative price and exposure,
// UpdateOnFill settles them against the actual fill.
type Agent interface {
	// NextExposure computes the exposure the agent wants at this tick,
	// staging the tentative trade. Includes the profit-take check.
	NextExposure(tick market.Tick) int64

	// TargetExposure is NextExposure without the profit-take check, for
	// callers that handle targets externally.
	TargetExposure(tick market.Tick) int64

	// TargetAction is the policy invoked when the PL target is reached.
	TargetAction() int64

	// Close stages a flat position at the closing side of the tick.
	Close(tick market.Tick) int64

	// UpdateOnFill folds an executed order into the agent state.
	UpdateOnFill(fill OrderFill)

	// NextExposureAndFill stages the fill itself as the tentative trade
	// and applies it. Used to prime merged agents with a position; note
	// that the fill units are added to the tentative exposure, not
	// assigned.
	NextExposureAndFill(fill OrderFill)

	// Exposure is the current signed position.
	Exposure() int64

	IsActive() bool
	Deactivate()

	// ToBeClosed reports whether the agent has met its PL target.
	ToBeClosed() bool
}
