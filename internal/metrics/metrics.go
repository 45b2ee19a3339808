package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "taxmeter_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	ingestTotal   *prometheus.CounterVec
	ingestLatency *prometheus.HistogramVec

	normalizedRecords prometheus.Gauge
	seriesVersion     prometheus.Gauge

	computeTotal *prometheus.CounterVec
)

// Init registers the meter's metrics with the default registry. Until it is
// called every Observe/Set function is a no-op.
func Init() {
	registerOnce.Do(func() {
		ingestTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "ingest_total",
				Help: "Total ingestion attempts by source and result",
			},
			[]string{"source", "result"},
		)
		ingestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "ingest_latency_seconds",
				Help:    "Ingestion latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		)
		normalizedRecords = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "normalized_records",
				Help: "Records in the published canonical series",
			},
		)
		seriesVersion = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "series_version",
				Help: "Version of the published canonical series",
			},
		)
		computeTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "compute_total",
				Help: "Total snapshot computations by mode and result",
			},
			[]string{"mode", "result"},
		)

		prometheus.MustRegister(
			ingestTotal,
			ingestLatency,
			normalizedRecords,
			seriesVersion,
			computeTotal,
		)
	})
}

// ObserveIngest records one ingestion attempt.
func ObserveIngest(source, result string, duration time.Duration) {
	if source == "" {
		source = "unknown"
	}
	if result == "" {
		result = ResultSuccess
	}
	if ingestTotal != nil {
		ingestTotal.WithLabelValues(source, result).Inc()
	}
	if ingestLatency != nil {
		ingestLatency.WithLabelValues(source).Observe(duration.Seconds())
	}
}

// SetSeries records the version and size of the published series.
func SetSeries(version uint64, records int) {
	if seriesVersion != nil {
		seriesVersion.Set(float64(version))
	}
	if normalizedRecords != nil {
		normalizedRecords.Set(float64(records))
	}
}

// IncCompute counts one snapshot computation.
func IncCompute(mode, result string) {
	if computeTotal != nil {
		computeTotal.WithLabelValues(mode, result).Inc()
	}
}
