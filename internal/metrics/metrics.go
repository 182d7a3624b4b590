// Package metrics records render and sampling statistics on a private
// Prometheus registry. There is no HTTP endpoint; the registry can be dumped
// to a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	mandel "github.com/marben/fractalbg"
)

const namespace = "fractalbg"

var _ mandel.Observer = (*Recorder)(nil)

// Recorder counts renders and boundary searches.
type Recorder struct {
	registry *prometheus.Registry

	renders         prometheus.Counter
	pixels          prometheus.Counter
	renderDuration  prometheus.Histogram
	sampleAttempts  prometheus.Histogram
	sampleFallbacks prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Number of completed renders.",
		}),
		pixels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pixels_rendered_total",
			Help:      "Number of pixels painted by completed renders.",
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Wall time of completed renders.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
		sampleAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sampler_attempts",
			Help:      "Candidates probed per boundary search.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		}),
		sampleFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sampler_fallbacks_total",
			Help:      "Boundary searches that exhausted their attempts and used a fallback point.",
		}),
	}
	r.registry.MustRegister(r.renders, r.pixels, r.renderDuration, r.sampleAttempts, r.sampleFallbacks)
	return r
}

func (r *Recorder) ObserveRender(pixels int, elapsed time.Duration) {
	r.renders.Inc()
	r.pixels.Add(float64(pixels))
	r.renderDuration.Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveSample(attempts int, fallback bool) {
	r.sampleAttempts.Observe(float64(attempts))
	if fallback {
		r.sampleFallbacks.Inc()
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes all metrics in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %q: %w", path, err)
	}
	return nil
}
