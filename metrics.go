package authcore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "authcore"

// Metrics holds the engine's Prometheus collectors. All methods are nil-safe
// so a disabled engine can call them unconditionally.
type Metrics struct {
	// Code validation outcomes by channel and result.
	ValidationsTotal *prometheus.CounterVec
	// Journey transitions by action and result.
	TransitionsTotal *prometheus.CounterVec
	// Blocks written, by scope.
	BlocksTotal *prometheus.CounterVec
	// Codes and links issued, by notification type.
	CodesIssuedTotal *prometheus.CounterVec
	// Hard store failures, by operation.
	StoreFailuresTotal *prometheus.CounterVec
	// Breaker state changes, by target state.
	BreakerTransitionsTotal *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg gets a private
// registry, which keeps repeated engines in one process from colliding.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		ValidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "code_validations_total",
				Help:      "Total number of submitted code validations",
			},
			[]string{"channel", "result"},
		),
		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "journey_transitions_total",
				Help:      "Total number of journey transition attempts",
			},
			[]string{"action", "result"},
		),
		BlocksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "blocks_total",
				Help:      "Total number of entry and request blocks written",
			},
			[]string{"scope"},
		),
		CodesIssuedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "codes_issued_total",
				Help:      "Total number of codes and reset links issued",
			},
			[]string{"notification_type"},
		),
		StoreFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "store",
				Name:      "failures_total",
				Help:      "Total number of failed code store operations",
			},
			[]string{"operation"},
		),
		BreakerTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "store",
				Name:      "breaker_transitions_total",
				Help:      "Total number of code store circuit breaker state changes",
			},
			[]string{"to"},
		),
	}
}

func (m *Metrics) validation(channel, result string) {
	if m == nil {
		return
	}
	m.ValidationsTotal.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) transition(action, result string) {
	if m == nil {
		return
	}
	m.TransitionsTotal.WithLabelValues(action, result).Inc()
}

func (m *Metrics) block(scope string) {
	if m == nil {
		return
	}
	m.BlocksTotal.WithLabelValues(scope).Inc()
}

func (m *Metrics) issued(notification string) {
	if m == nil {
		return
	}
	m.CodesIssuedTotal.WithLabelValues(notification).Inc()
}

func (m *Metrics) storeFailure(operation string) {
	if m == nil {
		return
	}
	m.StoreFailuresTotal.WithLabelValues(operation).Inc()
}

func (m *Metrics) breakerTransition(to string) {
	if m == nil {
		return
	}
	m.BreakerTransitionsTotal.WithLabelValues(to).Inc()
}
