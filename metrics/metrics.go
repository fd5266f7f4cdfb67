package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zr_orders_submitted_total",
			Help: "Total number of orders submitted (by strategy).",
		},
		[]string{"strategy"},
	)

	CyclesStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zr_cycles_started_total",
			Help: "Recovery cycles opened (by strategy).",
		},
		[]string{"strategy"},
	)

	CyclesClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zr_cycles_closed_total",
			Help: "Recovery cycles liquidated, split by exit reason.",
		},
		[]string{"strategy", "reason"},
	)

	CycleSteps = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zr_cycle_steps",
			Help: "Steps in the active cycle (0 when idle).",
		},
		[]string{"strategy"},
	)

	CycleProfit = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "zr_cycle_profit",
			Help: "Floating money profit of the active cycle.",
		},
		[]string{"strategy"},
	)

	EquityGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "zr_equity",
			Help: "Current equity of the executor (paper or live).",
		},
	)
)

func init() {
	prometheus.MustRegister(OrdersSubmitted, CyclesStarted, CyclesClosed, CycleSteps, CycleProfit, EquityGauge)
}
