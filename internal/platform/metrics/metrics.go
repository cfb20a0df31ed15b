package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fxconverter"

// Outcome labels for rate fetches and conversions.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeFallback  = "fallback"
	OutcomeDiscarded = "discarded"

	OutcomeComputed = "computed"
	OutcomeRefresh  = "refresh"
	OutcomeInvalid  = "invalid_input"
)

type Metrics struct {
	registry *prometheus.Registry

	RateFetches *prometheus.CounterVec
	FetchTime   prometheus.Histogram
	Conversions *prometheus.CounterVec
	Sessions    prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RateFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_fetches_total",
			Help:      "Rate refreshes by outcome.",
		}, []string{"outcome"}),
		FetchTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rate_fetch_duration_seconds",
			Help:      "Latency of rate provider requests.",
			Buckets:   prometheus.DefBuckets,
		}),
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversion requests by outcome.",
		}, []string{"outcome"}),
		Sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Conversion sessions created since start.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RateFetches,
		m.FetchTime,
		m.Conversions,
		m.Sessions,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
