package market

// Bar is one OHLC bar. Time is epoch seconds (UTC) of the bar open.
type Bar struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Tick converts the bar close into a zero-spread quote, which is how
// historical bars are replayed through agents.
func (b Bar) Tick() Tick {
	return Tick{Time: b.Time, Bid: b.Close, Ask: b.Close}
}
