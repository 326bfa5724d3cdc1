// Package replay drives an agent inventory over historical daily bars.
// Each bar close becomes a zero-spread quote; whatever exposure change
// the inventory wants is filled immediately at that price. The same
// decision path runs here as in live trading, only the broker is
// replaced by perfect fills.
package replay

import (
	"io"

	"github.com/rustyeddy/hedger/agent"
	"github.com/rustyeddy/hedger/market"
	"github.com/rustyeddy/hedger/market/data"
)

// Result summarizes one replay run.
type Result struct {
	Days      int     `json:"days"`
	Bars      int     `json:"bars"`
	Fills     int     `json:"fills"`
	FinalPL   float64 `json:"final_pl"`
	Exposure  int64   `json:"exposure"`
	LastPrice float64 `json:"last_price"`
}

// Run replays every day the iterator yields through the inventory.
func Run(days *data.DayBars, inv *agent.AgentInventory) (Result, error) {
	var res Result

	for {
		_, bars, err := days.NextDay()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, err
		}
		res.Days++

		for _, bar := range bars {
			res.Bars++
			res.LastPrice = bar.Close
			if step(inv, bar.Tick()) {
				res.Fills++
			}
		}
	}

	res.Exposure = inv.Exposure()
	res.FinalPL = finalPL(inv, res.LastPrice)
	return res, nil
}

// step runs one quote through the inventory and settles the trade it
// wants, reporting whether anything was filled.
func step(inv *agent.AgentInventory, tick market.Tick) bool {
	target := inv.NextExposure(tick)
	delta := target - inv.Exposure()
	if delta == 0 {
		return false
	}
	inv.UpdateOnFill(agent.OrderFill{Price: tick.Bid, Units: delta})
	return true
}

// finalPL is the realized PL of every member plus the open position
// marked at the last replayed price.
func finalPL(inv *agent.AgentInventory, lastPrice float64) float64 {
	total := inv.PL
	for _, a := range inv.Agents {
		total += a.PL.CumProfit
		if a.PL.Exposure != 0 {
			total += a.PL.UPL(lastPrice)
		}
	}
	return total
}
