// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrition_predictions_total",
			Help: "Total number of attrition predictions by risk bucket",
		},
		[]string{"source", "bucket"},
	)

	PredictionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attrition_prediction_errors_total",
			Help: "Total number of rejected or failed predictions",
		},
		[]string{"source", "error_code"},
	)

	PredictionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attrition_prediction_duration_seconds",
			Help:    "Duration of the encode, align, scale and predict pipeline",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"source"},
	)

	PredictionProbability = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attrition_prediction_probability",
			Help:    "Distribution of predicted attrition probabilities",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
		},
	)

	ArtifactInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "attrition_artifact_info",
			Help: "Loaded artifact pair; value is the number of model input columns",
		},
		[]string{"model_kind", "manifest_version"},
	)
)

// ObservePrediction records one successful prediction.
func ObservePrediction(source, bucket string, probability, seconds float64) {
	PredictionsTotal.WithLabelValues(source, bucket).Inc()
	PredictionProbability.Observe(probability)
	PredictionDuration.WithLabelValues(source).Observe(seconds)
}

// ObserveError records one rejected or failed prediction.
func ObserveError(source, errorCode string) {
	PredictionErrors.WithLabelValues(source, errorCode).Inc()
}
