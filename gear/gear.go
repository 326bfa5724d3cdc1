// Package gear implements the piecewise-linear exposure curves that drive
// the hedging agents: a Gear maps a price to a dimensionless multiplier,
// typically in [-1, 1], that scales an agent's maximum exposure.
package gear

import "math"

// Range is a half-open price interval [PStart, PEnd) with gear values at
// both ends. The gear is interpolated linearly in between.
type Range struct {
	PStart float64 `json:"p_start"`
	GStart float64 `json:"g_start"`
	PEnd   float64 `json:"p_end"`
	GEnd   float64 `json:"g_end"`
}

func (r Range) g(x float64) float64 {
	return r.GStart + (x-r.PStart)*(r.GEnd-r.GStart)/(r.PEnd-r.PStart)
}

// Gear is an ordered sequence of ranges covering [P0, PN) plus two clamp
// regions: below P0 the gear is fixed at G0, at or above PN it is fixed
// at GN. Ranges must be contiguous and non-overlapping.
type Gear struct {
	P0 float64 `json:"p_0"`
	G0 float64 `json:"g_0"`

	Ranges []Range `json:"g_i"`

	PN float64 `json:"p_n"`
	GN float64 `json:"g_n"`
}

// G evaluates the gear at price x: clamp outside [P0, PN), otherwise
// interpolate within the covering range. Interior boundary ties resolve
// to the upper range.
func (g *Gear) G(x float64) float64 {
	if x < g.P0 {
		return g.G0
	}
	if x >= g.PN {
		return g.GN
	}
	for _, r := range g.Ranges {
		if x >= r.PStart && x < r.PEnd {
			return r.g(x)
		}
	}
	return 0
}

// Positive is the one-sided buyer curve: gear 1 at or below price0,
// tapering linearly to 0 at price1, flat above.
func Positive(price0, price1 float64) Gear {
	return Segment(price0, 1, price1, 0)
}

// Negative is the one-sided seller curve: flat 0 below price0, falling
// linearly to -1 at price1.
func Negative(price0, price1 float64) Gear {
	return Segment(price0, 0, price1, -1)
}

// Symmetric is the canonical long-below / short-above curve: +1 at
// price0, -1 at price1.
func Symmetric(price0, price1 float64) Gear {
	return Segment(price0, 1, price1, -1)
}

// Constant is gear +1 or -1 everywhere, by the sign of dir.
func Constant(dir int64) Gear {
	g := 1.0
	if dir <= 0 {
		g = -1.0
	}
	return Gear{P0: 1, G0: g, PN: 1, GN: g}
}

// Segment is an arbitrary line from (p0, g0) to (pn, gn) with clamp
// regions outside.
func Segment(p0, g0, pn, gn float64) Gear {
	return Gear{
		P0: p0,
		G0: g0,
		Ranges: []Range{{
			PStart: p0,
			GStart: g0,
			PEnd:   pn,
			GEnd:   gn,
		}},
		PN: pn,
		GN: gn,
	}
}

// Jump is a step function: g0 strictly below price0, g1 at or above.
func Jump(price0, g0, g1 float64) Gear {
	return Gear{P0: price0, G0: g0, PN: price0, GN: g1}
}

// Coastline is the grid-trader curve: long below the center price,
// short above, one gear step per scale of price movement, clamped at
// imax steps either side. The endpoints are normalized by imax so the
// gear stays in [-1, 1].
func Coastline(direction int64, price0, scale, imax float64) Gear {
	d := 1.0
	if direction < 0 {
		d = -1.0
	}
	return Segment(price0-imax*scale, d, price0+imax*scale, -d)
}

// Span is the width of the interior price interval.
func (g *Gear) Span() float64 {
	return g.PN - g.P0
}

// Finite reports whether every defining value of the curve is a finite
// number. A gear that fails this check cannot be traded.
func (g *Gear) Finite() bool {
	vals := []float64{g.P0, g.G0, g.PN, g.GN}
	for _, r := range g.Ranges {
		vals = append(vals, r.PStart, r.GStart, r.PEnd, r.GEnd)
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
