package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/quantrun/riskgate/internal/domain"
)

// Registry holds all Prometheus metrics for RiskGate
type Registry struct {
	TradeDenials   *prometheus.CounterVec
	TradeApprovals prometheus.Counter
	EvalDuration   prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates the metrics registry and registers all collectors on
// a private Prometheus registry, so tests never collide on the global one.
func NewRegistry() *Registry {
	r := &Registry{
		TradeDenials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskgate_trade_denials_total",
				Help: "Total trade validations denied, tagged by failing check",
			},
			[]string{"check"},
		),
		TradeApprovals: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "riskgate_trade_approvals_total",
				Help: "Total trade validations approved",
			},
		),
		EvalDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "riskgate_validation_duration_seconds",
				Help:    "Duration of full pipeline evaluations in seconds",
				Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
			},
		),
		registry: prometheus.NewRegistry(),
	}

	r.registry.MustRegister(r.TradeDenials, r.TradeApprovals, r.EvalDuration)
	return r
}

// Gatherer exposes the underlying registry for promhttp handlers and tests
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// IncDenial implements the gatekeeper's metrics sink
func (r *Registry) IncDenial(code domain.ReasonCode) {
	r.TradeDenials.WithLabelValues(string(code)).Inc()
}

// IncApproval implements the gatekeeper's metrics sink
func (r *Registry) IncApproval() {
	r.TradeApprovals.Inc()
}

// ObserveValidation records one full pipeline evaluation duration
func (r *Registry) ObserveValidation(d time.Duration) {
	r.EvalDuration.Observe(d.Seconds())
}
