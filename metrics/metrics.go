/*package metrics counts what happens to a population over a run: births
and deaths by species and cause, the size of the population and the cost
of each relaxation run. Counts are kept in a private Prometheus registry
and written out in the text exposition format.
*/
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shove"

// Recorder keeps population counters. It satisfies population.Recorder.
type Recorder struct {
	reg *prometheus.Registry

	births *prometheus.CounterVec
	deaths *prometheus.CounterVec
	population prometheus.Gauge
	relaxRuns prometheus.Counter
	relaxIters prometheus.Histogram
	relaxMoved prometheus.Gauge
}

// New returns a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		births: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "births_total",
			Help: "Agents added to the population.",
		}, []string{"species"}),
		deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "deaths_total",
			Help: "Agents removed from the population.",
		}, []string{"species", "cause"}),
		population: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "agents",
			Help: "Living agents after the last removal of the dead.",
		}),
		relaxRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "relaxation_runs_total",
			Help: "Shoving relaxation runs.",
		}),
		relaxIters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "relaxation_iterations",
			Help: "Passes needed by each relaxation run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		relaxMoved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "relaxation_moving_agents",
			Help: "Agents still moving at the end of the last relaxation run.",
		}),
	}
	r.reg.MustRegister(
		r.births, r.deaths, r.population,
		r.relaxRuns, r.relaxIters, r.relaxMoved,
	)
	return r
}

// Registry returns the registry the counters live in.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) Relaxation(iterations, moved int) {
	r.relaxRuns.Inc()
	r.relaxIters.Observe(float64(iterations))
	r.relaxMoved.Set(float64(moved))
}

func (r *Recorder) Birth(species string) {
	r.births.WithLabelValues(species).Inc()
}

func (r *Recorder) Death(species, cause string) {
	r.deaths.WithLabelValues(species, cause).Inc()
}

func (r *Recorder) Population(n int) { r.population.Set(float64(n)) }

// WriteFile writes every counter to path in the Prometheus text format.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
