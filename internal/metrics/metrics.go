// Package metrics exposes run outcomes as Prometheus gauges and writes them
// in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/dyluth/z32/internal/montecarlo"
	"github.com/dyluth/z32/internal/solver"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "z32"

// Recorder owns a private registry so repeated runs in one process never
// collide with the default registry.
type Recorder struct {
	registry *prometheus.Registry

	candidates *prometheus.GaugeVec
	templates  *prometheus.GaugeVec
	rejection  prometheus.Gauge
	survivors  prometheus.Gauge
	duration   prometheus.Gauge
	lastRun    prometheus.Gauge
	info       *prometheus.GaugeVec

	mcTrials      prometheus.Gauge
	mcHits        prometheus.Gauge
	mcProbability prometheus.Gauge
}

// NewRecorder registers every z32 metric on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		candidates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidates",
			Help:      "Candidates that reached each stage of the last search.",
		}, []string{"stage"}),
		templates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "template_survivors",
			Help:      "Survivors of the last search per template.",
		}, []string{"template"}),
		rejection: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rejection_rate_percent",
			Help:      "Share of candidates rejected by the last search.",
		}),
		survivors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "survivors",
			Help:      "Survivors of the last search.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time of the last search.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Completion time of the last search.",
		}),
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_info",
			Help:      "Identity of the last search.",
		}, []string{"run_id", "version"}),
		mcTrials: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "montecarlo",
			Name:      "trials",
			Help:      "Trials drawn by the last Monte Carlo estimate.",
		}),
		mcHits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "montecarlo",
			Name:      "hits",
			Help:      "Trials within tolerance in the last Monte Carlo estimate.",
		}),
		mcProbability: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "montecarlo",
			Name:      "probability",
			Help:      "Estimated probability from the last Monte Carlo estimate.",
		}),
	}

	r.registry.MustRegister(
		r.candidates, r.templates, r.rejection, r.survivors,
		r.duration, r.lastRun, r.info,
		r.mcTrials, r.mcHits, r.mcProbability,
	)
	return r
}

// Registry returns the registry the metrics live on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveSearch records the outcome of a solver run.
func (r *Recorder) ObserveSearch(res *solver.Result) {
	c := res.Counts
	r.candidates.WithLabelValues("total").Set(float64(c.Total))
	r.candidates.WithLabelValues("length").Set(float64(c.PassedLength))
	r.candidates.WithLabelValues("locks").Set(float64(c.PassedLocks))
	r.candidates.WithLabelValues("bounds").Set(float64(c.PassedBounds))

	r.templates.Reset()
	for id, n := range res.TemplateSurvivors {
		r.templates.WithLabelValues(id).Set(float64(n))
	}

	r.rejection.Set(c.RejectionRatePct())
	r.survivors.Set(float64(len(res.Survivors)))
	r.duration.Set(res.Duration.Seconds())
	r.lastRun.Set(float64(res.Timestamp.UnixMilli()) / 1000)

	r.info.Reset()
	r.info.WithLabelValues(res.RunID, res.Version).Set(1)
}

// ObserveEstimate records the outcome of a Monte Carlo estimate.
func (r *Recorder) ObserveEstimate(res montecarlo.Result) {
	r.mcTrials.Set(float64(res.Trials))
	r.mcHits.Set(float64(res.Hits))
	r.mcProbability.Set(res.Probability)
}

// WriteTextfile atomically writes every metric to path for the
// node-exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
