package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/byte4ever/r6y"
)

// Metrics holds the counters fed by [Metrics.Hooks].
type Metrics struct {
	Raised    prometheus.Counter
	Unhandled prometheus.Counter
	Recovered *prometheus.CounterVec
	Missing   *prometheus.CounterVec
	Signals   *prometheus.CounterVec
	Restarts  prometheus.Counter
	Fallbacks prometheus.Counter
}

// New registers the counters with reg under the given namespace.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Raised: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conditions_raised_total",
			Help:      "Total number of conditions raised",
		}),
		Unhandled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conditions_unhandled_total",
			Help:      "Total number of conditions raised with no handler established",
		}),
		Recovered: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recoveries_invoked_total",
			Help:      "Total number of recoveries invoked",
		}, []string{"recovery"}),
		Missing: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recoveries_missing_total",
			Help:      "Total number of failed recovery lookups",
		}, []string{"kind"}),
		Signals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_total",
			Help:      "Total number of signals that did not raise",
		}, []string{"outcome"}),
		Restarts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_restarts_total",
			Help:      "Total number of tasks restarted by Retry",
		}),
		Fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Total number of fallback values served",
		}),
	}
}

// Hooks returns r6y hooks incrementing the counters.
func (m *Metrics) Hooks() r6y.Hooks {
	return r6y.Hooks{
		OnRaise:     func(*r6y.Condition) { m.Raised.Inc() },
		OnUnhandled: func(*r6y.Condition) { m.Unhandled.Inc() },
		OnRecover: func(r *r6y.Recovery, _ []any) {
			m.Recovered.WithLabelValues(r.Name()).Inc()
		},
		OnMissingRecovery: func(chosen *r6y.Kind, _ error) {
			m.Missing.WithLabelValues(chosen.String()).Inc()
		},
		OnSignalIgnored: func(error) { m.Signals.WithLabelValues("ignored").Inc() },
		OnSignalSkipped: func(error) { m.Signals.WithLabelValues("skipped").Inc() },
		OnRetry:         func(int, error) { m.Restarts.Inc() },
		OnFallbackUsed:  func(error) { m.Fallbacks.Inc() },
	}
}
