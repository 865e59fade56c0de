package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the offline restore service.
type Metrics struct {
	registry               *prometheus.Registry
	requestsTotal          prometheus.Counter
	errorsTotal            prometheus.Counter
	manifestsImportedTotal prometheus.Counter
	restoresTotal          prometheus.Counter
	restoreFailuresTotal   prometheus.Counter
	variantsRestoredTotal  prometheus.Counter
	segmentsServedTotal    prometheus.Counter
	storedManifests        prometheus.Gauge
}

// New creates and registers Prometheus metrics for the service.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offline_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offline_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	manifestsImportedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offline_manifests_imported_total",
		Help: "Total number of manifest records successfully imported",
	})
	restoresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offline_restores_total",
		Help: "Total number of manifests successfully restored for playback",
	})
	restoreFailuresTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offline_restore_failures_total",
		Help: "Total number of restores rejected because stored records were malformed",
	})
	variantsRestoredTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offline_variants_restored_total",
		Help: "Total number of variants produced by successful restores",
	})
	segmentsServedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "offline_segments_served_total",
		Help: "Total number of stored segments served",
	})
	storedManifests := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "offline_stored_manifests",
		Help: "Number of manifests currently stored",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		manifestsImportedTotal,
		restoresTotal,
		restoreFailuresTotal,
		variantsRestoredTotal,
		segmentsServedTotal,
		storedManifests,
	)

	return &Metrics{
		registry:               registry,
		requestsTotal:          requestsTotal,
		errorsTotal:            errorsTotal,
		manifestsImportedTotal: manifestsImportedTotal,
		restoresTotal:          restoresTotal,
		restoreFailuresTotal:   restoreFailuresTotal,
		variantsRestoredTotal:  variantsRestoredTotal,
		segmentsServedTotal:    segmentsServedTotal,
		storedManifests:        storedManifests,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncManifestsImported increments the imported manifests counter.
func (m *Metrics) IncManifestsImported() {
	m.manifestsImportedTotal.Inc()
}

// ObserveRestore records a successful restore that produced variants variants.
func (m *Metrics) ObserveRestore(variants int) {
	m.restoresTotal.Inc()
	m.variantsRestoredTotal.Add(float64(variants))
}

// IncRestoreFailures increments the failed restores counter.
func (m *Metrics) IncRestoreFailures() {
	m.restoreFailuresTotal.Inc()
}

// IncSegmentsServed increments the served segments counter.
func (m *Metrics) IncSegmentsServed() {
	m.segmentsServedTotal.Inc()
}

// SetStoredManifests sets the stored manifests gauge.
func (m *Metrics) SetStoredManifests(n int) {
	m.storedManifests.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g. stored manifests).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
