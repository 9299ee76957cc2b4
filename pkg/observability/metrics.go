package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/modelo/pkg/history"
	"github.com/aretw0/modelo/pkg/model"
)

// Metrics holds the Prometheus collectors for dispatches and history.
type Metrics struct {
	dispatches *prometheus.CounterVec
	failures   *prometheus.CounterVec
	commands   *prometheus.CounterVec
	steps      *prometheus.CounterVec
	flushed    prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		dispatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "modelo",
				Name:      "dispatches_total",
				Help:      "Total number of dispatched changes by outcome",
			},
			[]string{"name", "outcome"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "modelo",
				Name:      "dispatch_failures_total",
				Help:      "Total number of dispatches that returned an error",
			},
			[]string{"name"},
		),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "modelo",
				Name:      "history_commands_total",
				Help:      "Total number of commands run through a history",
			},
			[]string{"undoable"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "modelo",
				Name:      "history_steps_total",
				Help:      "Total number of undo and redo steps",
			},
			[]string{"direction"},
		),
		flushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "modelo",
			Name:      "history_flushed_commands_total",
			Help:      "Total number of commands discarded by history flushes",
		}),
	}
	for _, c := range []prometheus.Collector{m.dispatches, m.failures, m.commands, m.steps, m.flushed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// GraphHooks returns hooks to pass to model.WithHooks.
func (m *Metrics) GraphHooks() model.Hooks {
	return model.Hooks{
		OnDispatch: func(name string, accepted bool) {
			outcome := "applied"
			if !accepted {
				outcome = "rejected"
			}
			m.dispatches.WithLabelValues(name, outcome).Inc()
		},
		OnFailure: func(name string, _ error) {
			m.failures.WithLabelValues(name).Inc()
		},
	}
}

// HistoryHooks returns hooks to pass to history.WithHooks.
func (m *Metrics) HistoryHooks() history.Hooks {
	return history.Hooks{
		OnRun: func(_ string, undoable bool) {
			m.commands.WithLabelValues(strconv.FormatBool(undoable)).Inc()
		},
		OnFlush: func(discarded int) {
			m.flushed.Add(float64(discarded))
		},
		OnIndexChange: func(old, new int) {
			direction := "redo"
			if new < old {
				direction = "undo"
			}
			m.steps.WithLabelValues(direction).Inc()
		},
	}
}
