// Package metrics exposes Prometheus instrumentation for order transitions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderstatus"

// Recorder owns a private registry so tests and multiple apps never collide.
type Recorder struct {
	registry    *prometheus.Registry
	transitions *prometheus.CounterVec
	created     prometheus.Counter
}

func New() *Recorder {
	registry := prometheus.NewRegistry()

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transitions_total",
		Help:      "State transition attempts partitioned by state type and outcome.",
	}, []string{"state_type", "outcome"})

	created := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Orders successfully created.",
	})

	registry.MustRegister(
		transitions,
		created,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Recorder{registry: registry, transitions: transitions, created: created}
}

// ObserveTransition counts one update attempt.
func (r *Recorder) ObserveTransition(stateType, outcome string) {
	r.transitions.WithLabelValues(stateType, outcome).Inc()
}

func (r *Recorder) ObserveCreated() {
	r.created.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
