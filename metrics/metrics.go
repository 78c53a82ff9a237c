package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "league"

// EngineMetrics - prometheus-реализация services.Metrics.
type EngineMetrics struct {
	registry *prometheus.Registry

	reportsSubmitted    prometheus.Counter
	reportsConfirmed    *prometheus.CounterVec
	reportsDisputed     prometheus.Counter
	roundsGenerated     *prometheus.CounterVec
	deadRubbersCanceled prometheus.Counter
	standingsDuration   prometheus.Histogram
	sweepDuration       prometheus.Histogram
	sweepConfirmed      prometheus.Counter
	sweepFailed         prometheus.Counter
}

func New(registry *prometheus.Registry) *EngineMetrics {
	m := &EngineMetrics{
		registry: registry,
		reportsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_submitted_total",
			Help:      "Match reports submitted by participants.",
		}),
		reportsConfirmed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_confirmed_total",
			Help:      "Match reports confirmed, by confirmation mode.",
		}, []string{"mode"}),
		reportsDisputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_disputed_total",
			Help:      "Match reports disputed by the opposing participant.",
		}),
		roundsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "playoff_rounds_generated_total",
			Help:      "Playoff rounds generated, by round number.",
		}, []string{"round"}),
		deadRubbersCanceled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dead_rubbers_canceled_total",
			Help:      "Unplayed series games canceled after the series was decided.",
		}),
		standingsDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "standings_recompute_seconds",
			Help:      "Time spent rebuilding a group stage table.",
			Buckets:   prometheus.DefBuckets,
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "auto_confirm_sweep_seconds",
			Help:      "Duration of auto-confirm sweeps.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		sweepConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_confirmed_reports_total",
			Help:      "Reports confirmed by the auto-confirm sweep.",
		}),
		sweepFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_confirm_failures_total",
			Help:      "Reports the auto-confirm sweep failed to confirm.",
		}),
	}
	registry.MustRegister(
		m.reportsSubmitted,
		m.reportsConfirmed,
		m.reportsDisputed,
		m.roundsGenerated,
		m.deadRubbersCanceled,
		m.standingsDuration,
		m.sweepDuration,
		m.sweepConfirmed,
		m.sweepFailed,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *EngineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *EngineMetrics) ReportSubmitted() { m.reportsSubmitted.Inc() }

func (m *EngineMetrics) ReportConfirmed(mode string) { m.reportsConfirmed.WithLabelValues(mode).Inc() }

func (m *EngineMetrics) ReportDisputed() { m.reportsDisputed.Inc() }

func (m *EngineMetrics) RoundGenerated(round int) {
	m.roundsGenerated.WithLabelValues(strconv.Itoa(round)).Inc()
}

func (m *EngineMetrics) DeadRubbersCanceled(n int) { m.deadRubbersCanceled.Add(float64(n)) }

func (m *EngineMetrics) StandingsRecomputed(d time.Duration) {
	m.standingsDuration.Observe(d.Seconds())
}

func (m *EngineMetrics) AutoConfirmSweep(d time.Duration, confirmed, failed int) {
	m.sweepDuration.Observe(d.Seconds())
	m.sweepConfirmed.Add(float64(confirmed))
	m.sweepFailed.Add(float64(failed))
}
