package system

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/milk9111/fadingmemory/component"
)

// Metrics counts simulation work. Labels are bounded: event types and boss
// names come from fixed catalogs.
type Metrics struct {
	Registry *prometheus.Registry

	frames       prometheus.Counter
	frameSeconds prometheus.Histogram
	events       *prometheus.CounterVec
	outcomes     *prometheus.CounterVec
}

// NewMetrics registers the simulation collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		frames: f.NewCounter(prometheus.CounterOpts{
			Name: "bossrush_frames_total",
			Help: "Simulation frames stepped",
		}),
		frameSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bossrush_frame_duration_seconds",
			Help:    "Time spent stepping one simulation frame",
			Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bossrush_combat_events_total",
			Help: "Combat events by type",
		}, []string{"type"}),
		outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bossrush_encounter_outcomes_total",
			Help: "Finished encounters by boss and outcome",
		}, []string{"boss", "outcome"}),
	}
}

func (m *Metrics) ObserveFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.frames.Inc()
	m.frameSeconds.Observe(d.Seconds())
}

func (m *Metrics) ObserveEvent(evt component.CombatEvent) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(string(evt.Type)).Inc()
}

func (m *Metrics) ObserveOutcome(boss string, o Outcome) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(boss, o.String()).Inc()
}
