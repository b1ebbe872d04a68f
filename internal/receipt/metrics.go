package receipt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts pipeline runs by the state they ended in
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_parser_requests_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"terminal"},
	)

	// stageDegradations counts stages that fell back to their default
	stageDegradations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_parser_stage_degradations_total",
			Help: "Total number of degraded pipeline stages",
		},
		[]string{"stage"},
	)

	pipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expense_parser_pipeline_duration_seconds",
			Help:    "Pipeline run latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
