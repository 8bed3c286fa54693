// Package metrics wraps the prometheus counters/histograms the dispatcher
// and workflow executor report through, per SPEC_FULL.md §11. Registration
// is optional: NewNoop returns a Metrics whose collectors are never
// registered, and every method is also safe to call on a nil *Metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the observability surface for a running engine instance.
type Metrics struct {
	actionsDispatched *prometheus.CounterVec
	autoRollbacks     prometheus.Counter
	hookDuration      *prometheus.HistogramVec
}

// New creates and registers the engine's metrics against reg. Passing the
// same reg to two instances will panic on duplicate registration, matching
// prometheus.Registerer's own contract.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actionsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "taskctl",
			Name:      "actions_dispatched_total",
			Help:      "Count of dispatched actions by action name and result.",
		}, []string{"action", "result"}),
		autoRollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "taskctl",
			Name:      "auto_rollbacks_total",
			Help:      "Count of auto-rollback invocations triggered by a failed action.",
		}),
		hookDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "taskctl",
			Name:      "hook_duration_seconds",
			Help:      "Duration of a single hook's Run call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"hook"}),
	}
	reg.MustRegister(m.actionsDispatched, m.autoRollbacks, m.hookDuration)
	return m
}

// NewNoop returns a Metrics that is safe to call into but registers
// nothing, for callers that don't want a metrics endpoint (e.g. tests).
func NewNoop() *Metrics {
	return &Metrics{
		actionsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "noop_actions_dispatched_total"}, []string{"action", "result"}),
		autoRollbacks:     prometheus.NewCounter(prometheus.CounterOpts{Name: "noop_auto_rollbacks_total"}),
		hookDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "noop_hook_duration_seconds"}, []string{"hook"}),
	}
}

// ObserveAction records the result ("success", "rolled_back",
// "rollback_failed", "failed") of dispatching action.
func (m *Metrics) ObserveAction(action, result string) {
	if m == nil {
		return
	}
	m.actionsDispatched.WithLabelValues(action, result).Inc()
}

// ObserveAutoRollback records one auto-rollback invocation.
func (m *Metrics) ObserveAutoRollback() {
	if m == nil {
		return
	}
	m.autoRollbacks.Inc()
}

// ObserveHookDuration records how long hook's Run call took, in seconds.
func (m *Metrics) ObserveHookDuration(hook string, seconds float64) {
	if m == nil {
		return
	}
	m.hookDuration.WithLabelValues(hook).Observe(seconds)
}
