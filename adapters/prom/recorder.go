package prom

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-wxmp/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Labels every metric carries. Tags outside this set are dropped and missing
// ones are recorded as empty.
var Labels = []string{"operation", "status", "kind"}

// Recorder implements core.MetricsRecorder on Prometheus vectors. Vectors are
// created and registered on first use of a metric name.
type Recorder struct {
	registry   prometheus.Registerer
	buckets    []float64
	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	onError    func(name string, err error)
}

var _ core.MetricsRecorder = (*Recorder)(nil)

type Option func(*Recorder)

func WithBuckets(buckets []float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.buckets = append([]float64(nil), buckets...)
		}
	}
}

// WithErrorHandler receives registration failures, which are otherwise
// ignored.
func WithErrorHandler(fn func(name string, err error)) Option {
	return func(r *Recorder) {
		r.onError = fn
	}
}

func NewRecorder(registry prometheus.Registerer, opts ...Option) *Recorder {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		registry:   registry,
		buckets:    []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		counters:   map[string]*prometheus.CounterVec{},
		histograms: map[string]*prometheus.HistogramVec{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value < 0 {
		return
	}
	vec := r.counter(MetricName(name))
	if vec == nil {
		return
	}
	vec.With(labelValues(tags)).Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	vec := r.histogram(MetricName(name))
	if vec == nil {
		return
	}
	vec.With(labelValues(tags)).Observe(value)
}

func (r *Recorder) counter(name string) *prometheus.CounterVec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.counters[name]; ok {
		return vec
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: "wxmp counter " + name,
	}, Labels)
	if err := r.registry.Register(vec); err != nil {
		existing, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			r.fail(name, err)
			return nil
		}
		if vec, ok = existing.ExistingCollector.(*prometheus.CounterVec); !ok {
			r.fail(name, err)
			return nil
		}
	}
	r.counters[name] = vec
	return vec
}

func (r *Recorder) histogram(name string) *prometheus.HistogramVec {
	r.mu.Lock()
	defer r.mu.Unlock()
	if vec, ok := r.histograms[name]; ok {
		return vec
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    "wxmp histogram " + name,
		Buckets: r.buckets,
	}, Labels)
	if err := r.registry.Register(vec); err != nil {
		existing, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			r.fail(name, err)
			return nil
		}
		if vec, ok = existing.ExistingCollector.(*prometheus.HistogramVec); !ok {
			r.fail(name, err)
			return nil
		}
	}
	r.histograms[name] = vec
	return vec
}

func (r *Recorder) fail(name string, err error) {
	if r.onError != nil {
		r.onError(name, err)
	}
}

// MetricName maps dotted instrumentation names to Prometheus names, e.g.
// wxmp.oauth.exchange.duration_ms becomes wxmp_oauth_exchange_duration_ms.
func MetricName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func labelValues(tags map[string]string) prometheus.Labels {
	out := make(prometheus.Labels, len(Labels))
	for _, key := range Labels {
		out[key] = tags[key]
	}
	return out
}
