// Package metrics exposes Prometheus metrics of the processing backend.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stage names used in the stage duration histogram.
const (
	StageDecode = "decode"
	StageASR    = "asr"
	StageIntent = "intent"
	StageAction = "action"
	StageTTS    = "tts"
)

// Metrics contains all Prometheus metrics for the Aura backend
type Metrics struct {
	registry *prometheus.Registry

	// Pipeline metrics
	Requests      *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	UploadSize    prometheus.Histogram
	Fallbacks     prometheus.Counter
	Intents       *prometheus.CounterVec

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the metrics on a private registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_process_requests_total",
			Help: "Total number of voice commands processed, by outcome",
		}, []string{"outcome"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aura_stage_duration_seconds",
			Help:    "Duration of each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		}, []string{"stage"}),
		UploadSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "aura_upload_size_bytes",
			Help:    "Size of uploaded recordings in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 14), // 1KB to ~16MB
		}),
		Fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "aura_fallback_responses_total",
			Help: "Total number of fallback apologies synthesized",
		}),
		Intents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_intents_total",
			Help: "Total number of intents, by name and source",
		}, []string{"intent", "source"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aura_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aura_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRequest counts a processed command. outcome is ok, no_speech, fallback or failed.
func (m *Metrics) RecordRequest(outcome string) {
	m.Requests.WithLabelValues(outcome).Inc()
}

// ObserveStage records how long a pipeline stage took
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	m.StageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordUpload records the size of an uploaded recording
func (m *Metrics) RecordUpload(size int64) {
	m.UploadSize.Observe(float64(size))
}

// RecordFallback increments the fallback counter
func (m *Metrics) RecordFallback() {
	m.Fallbacks.Inc()
}

// RecordIntent counts an intent. source is rules or llm.
func (m *Metrics) RecordIntent(name, source string) {
	m.Intents.WithLabelValues(name, source).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}
