package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"hklgeo/pkg/domain"
)

// Prometheus implements domain.MetricsRecorder over
// github.com/prometheus/client_golang, registering a Counter or Histogram
// the first time each name is observed and reusing it afterward.
type Prometheus struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]prometheus.Counter
	histograms map[string]prometheus.Histogram
}

// NewPrometheus builds a recorder registered against registry. A nil
// registry is replaced by a fresh prometheus.NewRegistry(); the
// client_golang default registry is never used.
func NewPrometheus(registry *prometheus.Registry) *Prometheus {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	return &Prometheus{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		histograms: make(map[string]prometheus.Histogram),
	}
}

// Registry returns the underlying registry, for wiring into an HTTP
// /metrics handler via promhttp.HandlerFor.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// IncCounter increments the counter named name, registering it on first
// use.
func (p *Prometheus) IncCounter(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.counters[name]
	if !ok {
		c = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricName(name),
			Help: "hklgeo counter: " + name,
		})
		p.registry.MustRegister(c)
		p.counters[name] = c
	}
	c.Inc()
}

// ObserveHistogram records value against the histogram named name,
// registering it with the default bucket set on first use.
func (p *Prometheus) ObserveHistogram(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.histograms[name]
	if !ok {
		h = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricName(name),
			Help:    "hklgeo histogram: " + name,
			Buckets: prometheus.DefBuckets,
		})
		p.registry.MustRegister(h)
		p.histograms[name] = h
	}
	h.Observe(value)
}

func metricName(name string) string {
	return "hklgeo_" + name
}

var _ domain.MetricsRecorder = (*Prometheus)(nil)
