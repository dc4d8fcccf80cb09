package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataview_dataset_loads_total",
			Help: "Dataset load attempts by source, format and outcome.",
		},
		[]string{"source", "format", "outcome"},
	)

	datasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dataview_dataset_load_duration_seconds",
			Help:    "Time spent reading and parsing a dataset.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dataview_sessions_active",
		Help: "Sessions currently held in memory.",
	})

	exampleFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataview_example_fetch_total",
			Help: "Example dataset lookups by dataset and where they were served from.",
		},
		[]string{"dataset", "cache"},
	)
)

// observeLoad records one finished load. source is "upload" or "example".
func observeLoad(source string, format Format, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if le, ok := AsLoadError(err); ok {
			outcome = loadOutcome(le.Kind)
		}
	}
	datasetLoads.WithLabelValues(source, format.String(), outcome).Inc()
	datasetLoadDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

func loadOutcome(k LoadErrorKind) string {
	switch k {
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindParse:
		return "parse_error"
	case KindExampleFetch:
		return "fetch_error"
	default:
		return "error"
	}
}
