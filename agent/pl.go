package agent

import "math"

// PL tracks the running position of one agent: signed exposure, the
// volume-weighted average entry price of the units currently held, the
// profit realized so far and the unrealized PL at the last touch price.
//
// All PL is return-based: closing units at price x against an average
// entry a realizes units*(x/a - 1). Implementations of the agents rely
// on this exact formula.
type PL struct {
	Exposure     int64   `json:"exposure"`
	PriceAverage float64 `json:"price_average"`
	CumProfit    float64 `json:"cum_profit"`
	UnrealizedPL float64 `json:"unrealized_pl"`
}

// PLAtPrice is the hypothetical total PL if the position were liquidated
// at x. Meaningful only when Exposure != 0 or PriceAverage != 0.
func (p *PL) PLAtPrice(x float64) float64 {
	return p.CumProfit + float64(p.Exposure)*(x/p.PriceAverage-1.0)
}

// UPL is the unrealized PL of the open position marked at x.
func (p *PL) UPL(x float64) float64 {
	return float64(p.Exposure) * (x/p.PriceAverage - 1.0)
}

// TotalProfit refreshes UnrealizedPL at x and returns realized plus
// unrealized PL.
func (p *PL) TotalProfit(x float64) float64 {
	p.UnrealizedPL = p.UPL(x)
	return p.UnrealizedPL + p.CumProfit
}

// IncreaseBy grows the position in its current direction by units
// (positive on a long, negative on a short) at price x. PriceAverage
// becomes the absolute-units-weighted mean of the old and new legs.
// units must not bring the total to zero.
func (p *PL) IncreaseBy(x float64, units int64) {
	e := p.Exposure + units
	a := (p.PriceAverage*math.Abs(float64(p.Exposure)) + x*math.Abs(float64(units))) /
		math.Abs(float64(e))
	p.Exposure = e
	p.PriceAverage = a
	p.UnrealizedPL = p.UPL(x)
}

// DecreaseBy closes units of exposure (signed like the position) at
// price x against PriceAverage, accruing units*(x/PriceAverage - 1)
// into CumProfit. PriceAverage is preserved for the residual.
func (p *PL) DecreaseBy(x float64, units int64) {
	p.Exposure -= units
	p.CumProfit += float64(units) * (x/p.PriceAverage - 1.0)
	p.UnrealizedPL = p.UPL(x)
}

// Buy applies a purchase of units (> 0) at price x, dispatching on the
// current position sign: extend a long, reduce a short, or close the
// short fully and open the remainder long.
func (p *PL) Buy(x float64, units int64) {
	switch {
	case p.Exposure >= 0:
		p.IncreaseBy(x, units)
	case units > -p.Exposure:
		rest := units + p.Exposure
		p.DecreaseBy(x, p.Exposure)
		p.IncreaseBy(x, rest)
	default:
		p.DecreaseBy(x, -units)
	}
}

// Sell applies a sale of units (> 0) at price x, the mirror of Buy.
func (p *PL) Sell(x float64, units int64) {
	switch {
	case p.Exposure <= 0:
		p.IncreaseBy(x, -units)
	case units > p.Exposure:
		rest := units - p.Exposure
		p.DecreaseBy(x, p.Exposure)
		p.IncreaseBy(x, -rest)
	default:
		p.DecreaseBy(x, units)
	}
}
