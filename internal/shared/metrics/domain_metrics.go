package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DomainMetrics are the dashboard's own series: dataset reloads, exclusions and inference.
type DomainMetrics struct {
	datasetRecords     prometheus.Gauge
	excludedReceipts   prometheus.Gauge
	reloads            *prometheus.CounterVec
	predictions        *prometheus.CounterVec
	predictionDuration *prometheus.HistogramVec
	featureDefaults    *prometheus.CounterVec
}

// NewDomainMetrics registers the domain collectors on reg under prefix (e.g. "supplyperf").
func NewDomainMetrics(reg prometheus.Registerer, prefix string) *DomainMetrics {
	factory := promauto.With(reg)
	return &DomainMetrics{
		datasetRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: prefix,
			Name:      "dataset_records",
			Help:      "Merged performance records in the current dataset",
		}),
		excludedReceipts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: prefix,
			Name:      "dataset_excluded_receipts",
			Help:      "Receipts dropped from the current dataset because of a negative lead time",
		}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "dataset_reloads_total",
			Help:      "Dataset reload attempts by result",
		}, []string{"result"}),
		predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "predictions_total",
			Help:      "Model invocations by model and outcome",
		}, []string{"model", "outcome"}),
		predictionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: prefix,
			Name:      "prediction_duration_seconds",
			Help:      "Feature assembly plus inference latency",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}, []string{"model"}),
		featureDefaults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Name:      "feature_defaults_total",
			Help:      "Model features that were absent and filled with zero",
		}, []string{"model", "feature"}),
	}
}

// RecordReload counts a reload attempt; result is "loaded", "unchanged" or "failed".
func (m *DomainMetrics) RecordReload(result string) {
	m.reloads.WithLabelValues(result).Inc()
}

// SetDatasetSize publishes the current record and exclusion counts.
func (m *DomainMetrics) SetDatasetSize(records, excluded int) {
	m.datasetRecords.Set(float64(records))
	m.excludedReceipts.Set(float64(excluded))
}

// RecordPrediction counts one model call; outcome is "ok" or "error".
func (m *DomainMetrics) RecordPrediction(model, outcome string, elapsed time.Duration) {
	m.predictions.WithLabelValues(model, outcome).Inc()
	m.predictionDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}

// RecordFeatureDefault counts a zero-filled feature.
func (m *DomainMetrics) RecordFeatureDefault(model, feature string) {
	m.featureDefaults.WithLabelValues(model, feature).Inc()
}
