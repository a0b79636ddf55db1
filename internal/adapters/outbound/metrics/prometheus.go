package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catering_ops/internal/core/identity"
)

// CounterSource exposes monotonically increasing hit/miss counts.
type CounterSource interface {
	Hits() float64
	Misses() float64
}

// Metrics owns a dedicated registry so tests can build several instances.
type Metrics struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	messages    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catering",
			Name:      "os_resolutions_total",
			Help:      "Order identifier resolutions by outcome.",
		}, []string{"outcome"}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catering",
			Name:      "kafka_messages_total",
			Help:      "Consumed order messages by result.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.resolutions,
		m.messages,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveResolution(outcome identity.Outcome) {
	m.resolutions.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) ObserveMessage(result string) {
	m.messages.WithLabelValues(result).Inc()
}

// RegisterCache publishes a cache's counters as
// catering_<name>_{hits,misses}_total.
func (m *Metrics) RegisterCache(name string, src CounterSource) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "catering",
			Name:      name + "_hits_total",
			Help:      "Cache hits.",
		}, src.Hits),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: "catering",
			Name:      name + "_misses_total",
			Help:      "Cache misses.",
		}, src.Misses),
	)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
