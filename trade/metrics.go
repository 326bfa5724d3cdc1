// Prometheus metrics the control loop updates each cycle:
//
//	hedger_ticks_total             – quotes processed
//	hedger_orders_total{side}      – reconciliation orders placed (buy|sell)
//	hedger_fills_total             – orders that came back filled
//	hedger_errors_total{stage}     – broker/journal failures by stage
//	hedger_exposure_units          – inventory exposure after the last cycle
//	hedger_inventory_pl            – aggregate realized PL of the inventory
//
// Registered in init() and served at /metrics when a metrics address is
// configured.
package trade

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mtxTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hedger_ticks_total",
			Help: "Quotes processed by the control loop",
		},
	)

	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hedger_orders_total",
			Help: "Reconciliation orders placed",
		},
		[]string{"side"}, // buy|sell
	)

	mtxFills = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hedger_fills_total",
			Help: "Orders that came back filled",
		},
	)

	mtxErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hedger_errors_total",
			Help: "Failures by loop stage",
		},
		[]string{"stage"}, // pricing|positions|order|journal
	)

	mtxExposure = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hedger_exposure_units",
			Help: "Inventory exposure in units after the last cycle",
		},
	)

	mtxPL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hedger_inventory_pl",
			Help: "Aggregate realized PL of the inventory",
		},
	)
)

func init() {
	prometheus.MustRegister(mtxTicks, mtxOrders, mtxFills, mtxErrors)
	prometheus.MustRegister(mtxExposure, mtxPL)
}

func orderSide(units int64) string {
	if units < 0 {
		return "sell"
	}
	return "buy"
}

// ServeMetrics exposes /metrics on addr. It blocks, so callers run it
// in a goroutine next to the loop.
func ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
