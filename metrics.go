package callback

import "github.com/prometheus/client_golang/prometheus"

// Dispatch modes used as the "mode" label.
const (
	modeSync  = "sync"
	modeAsync = "async"
	modePop   = "pop"
)

// Invocation kinds used as the "kind" label.
const (
	kindHandler  = "handler"
	kindFallback = "fallback"
)

// Metrics holds Prometheus instrumentation shared by any number of queues.
// Queues are told apart by the "queue" label, taken from WithName.
type Metrics struct {
	Dispatches  *prometheus.CounterVec
	Invocations *prometheus.CounterVec
	Panics      *prometheus.CounterVec
	Pending     *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callback_dispatches_total",
				Help: "Total number of dispatch passes run",
			},
			[]string{"queue", "mode"},
		),
		Invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callback_invocations_total",
				Help: "Total number of handler and fallback invocations",
			},
			[]string{"queue", "kind"},
		),
		Panics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callback_panics_total",
				Help: "Total number of recovered handler panics",
			},
			[]string{"queue"},
		),
		Pending: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "callback_pending_dispatches",
				Help: "Deferred passes scheduled but not yet run",
			},
			[]string{"queue"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.Dispatches, m.Invocations, m.Panics, m.Pending)
	}
	return m
}

func (m *Metrics) dispatched(queue, mode string) {
	if m == nil {
		return
	}
	m.Dispatches.WithLabelValues(queue, mode).Inc()
}

func (m *Metrics) invoked(queue, kind string) {
	if m == nil {
		return
	}
	m.Invocations.WithLabelValues(queue, kind).Inc()
}

func (m *Metrics) panicked(queue string) {
	if m == nil {
		return
	}
	m.Panics.WithLabelValues(queue).Inc()
}

func (m *Metrics) pending(queue string, delta float64) {
	if m == nil {
		return
	}
	m.Pending.WithLabelValues(queue).Add(delta)
}
