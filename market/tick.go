// Package market holds the quote and bar types shared by the agents,
// the broker adapters and the historical data loaders.
package market

// Tick is a single quote: bid and ask at a point in time.
// Time is epoch seconds (UTC). Invariant: Bid <= Ask.
type Tick struct {
	Time int64   `json:"time"`
	Bid  float64 `json:"bid"`
	Ask  float64 `json:"ask"`
}

func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// Valid reports whether the quote is usable for trading.
func (t Tick) Valid() bool {
	return t.Bid > 0 && t.Ask > 0 && t.Bid <= t.Ask
}
