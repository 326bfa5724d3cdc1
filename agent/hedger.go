package agent

import (
	"math"

	"github.com/rustyeddy/hedger/gear"
	"github.com/rustyeddy/hedger/market"
)

// NoTarget disables the profit-take check on an agent. It is a large
// finite value rather than +Inf so inventories remain JSON-encodable.
const NoTarget = math.MaxFloat64

// GearHedger buys and sells at price levels one grid step away from the
// previous trade, holding the exposure its gear curve prescribes for the
// current price, capped by MaxExposure.
//
// After every fill at p the trip-wires rearm to p+ScaleUp / p-ScaleDown,
// so the agent trades again only once the market has moved at least one
// step away from the last fill.
type GearHedger struct {
	MaxExposure float64   `json:"max_exposure"`
	GearF       gear.Gear `json:"gear_f"`

	ScaleUp   float64 `json:"scale_up"`
	ScaleDown float64 `json:"scale_down"`

	Active bool    `json:"active"`
	Target float64 `json:"target"`

	LastTradePrice float64 `json:"last_trade_price"`
	NextBuyPrice   float64 `json:"next_buy_price"`
	NextSellPrice  float64 `json:"next_sell_price"`

	PL PL `json:"pl"`

	// Staged trade intent between NextExposure and UpdateOnFill.
	TentativePrice    float64 `json:"tentative_price"`
	TentativeExposure int64   `json:"tentative_exposure"`
}

// newHedger seeds a hedger with all three trip-wires at anchor so the
// first tick can trade.
func newHedger(g gear.Gear, anchor, scaleUp, scaleDown, maxExposure, target float64) *GearHedger {
	return &GearHedger{
		MaxExposure:    maxExposure,
		GearF:          g,
		ScaleUp:        scaleUp,
		ScaleDown:      scaleDown,
		Active:         true,
		Target:         target,
		LastTradePrice: anchor,
		NextBuyPrice:   anchor,
		NextSellPrice:  anchor,
		TentativePrice: anchor,
	}
}

// NewBuyer accumulates long below price1, tapering to flat at price1.
func NewBuyer(price0, price1, scaleUp, scaleDown, maxExposure float64) *GearHedger {
	return newHedger(gear.Positive(price0, price1), price1, scaleUp, scaleDown, maxExposure, NoTarget)
}

// NewSeller accumulates short above price0, flat below.
func NewSeller(price0, price1, scaleUp, scaleDown, maxExposure float64) *GearHedger {
	return newHedger(gear.Negative(price0, price1), price0, scaleUp, scaleDown, maxExposure, NoTarget)
}

// NewConstant holds a fixed direction of size |exposure| at any price.
func NewConstant(exposure float64) *GearHedger {
	dir := int64(1)
	if exposure < 0 {
		dir = -1
	}
	return newHedger(gear.Constant(dir), 1, 1, 1, math.Abs(exposure), NoTarget)
}

// NewSymmetric is long below the mid of [price0, price1] and short
// above, anchored at the mid price.
func NewSymmetric(price0, price1, scaleUp, scaleDown, maxExposure, target float64) *GearHedger {
	mid := (price0 + price1) / 2
	return newHedger(gear.Symmetric(price0, price1), mid, scaleUp, scaleDown, maxExposure, target)
}

// NewJump holds gear g0 below price0 and g1 at or above it.
func NewJump(price0, g0, g1, scaleUp, scaleDown, maxExposure float64) *GearHedger {
	return newHedger(gear.Jump(price0, g0, g1), price0, scaleUp, scaleDown, maxExposure, NoTarget)
}

// NewCoastline trades size units per scale step around price0, capped at
// imax steps, taking profit at scale*size.
func NewCoastline(direction int64, price0, scale, size, imax float64) *GearHedger {
	return newHedger(gear.Coastline(direction, price0, scale, imax), price0, scale, scale, size*imax, scale*size)
}

// NewSegment interpolates exposure linearly from exposure0 at price0 to
// exposuren at pricen. The endpoint exposures are normalized into a gear
// by their maximum absolute value.
func NewSegment(price0, exposure0, pricen, exposuren, scale, target float64) *GearHedger {
	var g0, gn float64
	if math.Abs(exposure0) > math.Abs(exposuren) {
		g0 = math.Copysign(1, exposure0)
		gn = exposuren / math.Abs(exposure0)
	} else {
		g0 = exposure0 / math.Abs(exposuren)
		gn = math.Copysign(1, exposuren)
	}
	maxExposure := math.Max(math.Abs(exposure0), math.Abs(exposuren))
	return newHedger(gear.Segment(price0, g0, pricen, gn), price0, scale, scale, maxExposure, target)
}

func (h *GearHedger) Exposure() int64 { return h.PL.Exposure }

func (h *GearHedger) IsActive() bool { return h.Active }

func (h *GearHedger) Deactivate() { h.Active = false }

// ToBeClosed reports whether realized profit has exceeded the target.
func (h *GearHedger) ToBeClosed() bool {
	return h.PL.CumProfit > h.Target
}

// Close stages a flat position at the side a liquidation would hit:
// bid when long, ask otherwise. It does not deactivate the agent.
func (h *GearHedger) Close(tick market.Tick) int64 {
	h.TentativePrice = h.closePrice(tick)
	h.TentativeExposure = 0
	return 0
}

func (h *GearHedger) closePrice(tick market.Tick) float64 {
	if h.PL.Exposure > 0 {
		return tick.Bid
	}
	return tick.Ask
}

// TargetAction is the default policy when the PL target is hit: stage a
// flat position and deactivate.
func (h *GearHedger) TargetAction() int64 {
	h.TentativeExposure = 0
	h.Deactivate()
	return 0
}

// TargetExposure stages the gear exposure if either trip-wire fired.
// The bid is checked before the ask: a single tick never trades both
// sides. Inside the band the staged trade is left untouched and the
// current exposure is returned.
func (h *GearHedger) TargetExposure(tick market.Tick) int64 {
	switch {
	case tick.Bid >= h.NextSellPrice:
		h.TentativePrice = tick.Bid
		h.TentativeExposure = int64(h.GearF.G(tick.Bid) * h.MaxExposure)
	case tick.Ask <= h.NextBuyPrice:
		h.TentativePrice = tick.Ask
		h.TentativeExposure = int64(h.GearF.G(tick.Ask) * h.MaxExposure)
	default:
		return h.PL.Exposure
	}
	return h.TentativeExposure
}

// NextExposure computes the exposure the agent wants at this tick.
// When liquidating at the closing side would exceed the PL target, it
// stages a full close and runs the target action; otherwise it defers
// to TargetExposure.
func (h *GearHedger) NextExposure(tick market.Tick) int64 {
	closePrice := h.closePrice(tick)
	if h.PL.PLAtPrice(closePrice) > h.Target {
		h.TentativePrice = closePrice
		h.TentativeExposure = 0
		return h.TargetAction()
	}
	return h.TargetExposure(tick)
}

// UpdateOnFill settles the staged trade against an actual fill: the
// difference between tentative and held exposure is booked as a buy or
// sell at the fill price, and the trip-wires rearm one scale step either
// side of it. A fill that changes nothing leaves the state untouched.
func (h *GearHedger) UpdateOnFill(fill OrderFill) {
	traded := h.TentativeExposure - h.PL.Exposure
	if traded < 0 {
		h.PL.Sell(fill.Price, -traded)
		h.rearm(fill.Price)
	} else if traded > 0 {
		h.PL.Buy(fill.Price, traded)
		h.rearm(fill.Price)
	}
	if h.ToBeClosed() {
		h.Deactivate()
	}
}

func (h *GearHedger) rearm(price float64) {
	h.LastTradePrice = price
	h.NextSellPrice = price + h.ScaleUp
	h.NextBuyPrice = price - h.ScaleDown
}

// NextExposureAndFill stages the fill itself and applies it. The fill
// units are added to the tentative exposure rather than assigned, which
// is what the merge path relies on to replay two positions into one
// agent.
func (h *GearHedger) NextExposureAndFill(fill OrderFill) {
	h.TentativePrice = fill.Price
	h.TentativeExposure += fill.Units
	h.UpdateOnFill(fill)
}

// MergeFlat combines two agents into one covering the union of their
// price ranges. Endpoint exposures are summed and renormalized, scales
// are averaged, and the target absorbs both agents' realized PL. Both
// existing positions are replayed into the merged agent at their own
// average price, so the merge starts with zero unrealized PL.
func (h *GearHedger) MergeFlat(other *GearHedger) *GearHedger {
	p0 := math.Min(h.GearF.P0, other.GearF.P0)
	pn := math.Max(h.GearF.PN, other.GearF.PN)

	low := h.GearF.G0*h.MaxExposure + other.GearF.G0*other.MaxExposure
	high := h.GearF.GN*h.MaxExposure + other.GearF.GN*other.MaxExposure

	scaleUp := (h.ScaleUp + other.ScaleUp) / 2
	scaleDown := (h.ScaleDown + other.ScaleDown) / 2
	scale := (scaleUp + scaleDown) / 2

	target := h.Target + other.Target - h.PL.CumProfit - other.PL.CumProfit

	merged := NewSegment(p0, low, pn, high, scale, target)
	merged.NextExposureAndFill(OrderFill{Price: h.PL.PriceAverage, Units: h.PL.Exposure})
	merged.NextExposureAndFill(OrderFill{Price: other.PL.PriceAverage, Units: other.PL.Exposure})
	merged.Active = true

	return merged
}
