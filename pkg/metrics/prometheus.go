package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	samplesLoaded prometheus.Gauge
	rowsDropped   prometheus.Counter
	cacheEvents   *prometheus.CounterVec
	storeReloads  prometheus.Counter
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		queriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitdash_queries_total",
				Help: "Total number of pipeline queries served",
			},
			[]string{"op"},
		),
		queryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "orbitdash_query_duration_seconds",
				Help:    "Duration of pipeline queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		samplesLoaded: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "orbitdash_samples_loaded",
				Help: "Valid orbit samples in the loaded base table",
			},
		),
		rowsDropped: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orbitdash_rows_dropped_total",
				Help: "Source rows dropped during validation",
			},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orbitdash_cache_events_total",
				Help: "Query cache hits and misses",
			},
			[]string{"result"},
		),
		storeReloads: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orbitdash_store_reloads_total",
				Help: "Base table loads from the sample store",
			},
		),
	}
}

// RecordQuery records one served query for the given operation.
func (r *Recorder) RecordQuery(op string) {
	r.queriesTotal.WithLabelValues(op).Inc()
}

// RecordQueryDuration records query latency in seconds.
func (r *Recorder) RecordQueryDuration(op string, seconds float64) {
	r.queryDuration.WithLabelValues(op).Observe(seconds)
}

// RecordLoad records a base-table load with its valid and dropped row counts.
func (r *Recorder) RecordLoad(valid, dropped int) {
	r.samplesLoaded.Set(float64(valid))
	r.rowsDropped.Add(float64(dropped))
	r.storeReloads.Inc()
}

// RecordCacheHit records a query cache hit.
func (r *Recorder) RecordCacheHit() {
	r.cacheEvents.WithLabelValues("hit").Inc()
}

// RecordCacheMiss records a query cache miss.
func (r *Recorder) RecordCacheMiss() {
	r.cacheEvents.WithLabelValues("miss").Inc()
}
