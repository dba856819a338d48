package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Trading metrics
	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tier_engine_trades_total",
			Help: "Total number of trade outcomes recorded",
		},
		[]string{"pair", "side", "result"},
	)

	rejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tier_engine_rejections_total",
			Help: "Total number of gate rejections by reason",
		},
		[]string{"reason"},
	)

	positionSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tier_engine_position_size",
			Help:    "Distribution of computed position sizes",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tier"},
	)

	// Account metrics
	currentCapital = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tier_engine_current_capital",
			Help: "Current capital in account units",
		},
	)

	activeTierRank = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tier_engine_active_tier_rank",
			Help: "Rank of the active risk tier (1..5)",
		},
	)

	tierTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tier_engine_tier_transitions_total",
			Help: "Total number of tier transitions",
		},
		[]string{"direction"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(rejectionsTotal)
	prometheus.MustRegister(positionSize)
	prometheus.MustRegister(currentCapital)
	prometheus.MustRegister(activeTierRank)
	prometheus.MustRegister(tierTransitionsTotal)
}

// MetricsHandler handles the Prometheus metrics endpoint.
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint.
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordTrade records a trade outcome metric.
func RecordTrade(pair, side string, win bool) {
	result := "loss"
	if win {
		result = "win"
	}
	tradesTotal.WithLabelValues(pair, side, result).Inc()
}

// RecordRejection records a gate rejection by reason code.
func RecordRejection(reason string) {
	rejectionsTotal.WithLabelValues(reason).Inc()
}

// ObservePositionSize records a computed position size.
func ObservePositionSize(tierLabel string, amount float64) {
	positionSize.WithLabelValues(tierLabel).Observe(amount)
}

// UpdateCapital updates the current capital gauge.
func UpdateCapital(capital float64) {
	currentCapital.Set(capital)
}

// UpdateActiveTier updates the active tier rank gauge.
func UpdateActiveTier(rank int) {
	activeTierRank.Set(float64(rank))
}

// RecordTierTransition records a promotion or demotion.
func RecordTierTransition(promoted bool) {
	direction := "demote"
	if promoted {
		direction = "promote"
	}
	tierTransitionsTotal.WithLabelValues(direction).Inc()
}
