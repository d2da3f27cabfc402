// Package metrics exposes Prometheus collectors for translation
// traffic and an in-process stats service backing the stats endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Prometheus holds the exported translation metrics.
type Prometheus struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	textsPerRequest *prometheus.HistogramVec
	predictLatency  *prometheus.HistogramVec
	loadedModels    prometheus.Gauge
}

// NewPrometheus creates the metric collectors on a dedicated registry.
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	p := &Prometheus{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "translation_requests_total",
			Help: "Total translation requests by language pair and status",
		}, []string{"translation_pair", "status"}),
		textsPerRequest: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "translation_texts_distribution",
			Help:    "Distribution of texts within a single request by translation pair",
			Buckets: []float64{1, 2, 5, 10, 20, 50},
		}, []string{"translation_pair"}),
		predictLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "predict_request_duration_seconds",
			Help:    "Distribution of request latencies for successful predict endpoint requests",
			Buckets: []float64{0.1, 0.2, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"translation_pair"}),
		loadedModels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "loaded_translation_models_total",
			Help: "Total number of translation models currently loaded in memory",
		}),
	}

	registry.MustRegister(p.requestsTotal, p.textsPerRequest, p.predictLatency, p.loadedModels)
	return p
}

// RecordRequest counts one predict request outcome.
func (p *Prometheus) RecordRequest(pair, status string) {
	p.requestsTotal.WithLabelValues(pair, status).Inc()
}

// ObserveTexts records the number of texts carried by one request.
func (p *Prometheus) ObserveTexts(pair string, count int) {
	p.textsPerRequest.WithLabelValues(pair).Observe(float64(count))
}

// ObserveLatency records a successful predict request duration.
func (p *Prometheus) ObserveLatency(pair string, seconds float64) {
	p.predictLatency.WithLabelValues(pair).Observe(seconds)
}

// SetLoadedModels tracks the loaded-model gauge.
func (p *Prometheus) SetLoadedModels(count int) {
	p.loadedModels.Set(float64(count))
}

// Handler returns the exposition endpoint handler.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
