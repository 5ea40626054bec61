package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	PipelineRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topicforge",
			Name:      "pipeline_runs_total",
			Help:      "Total number of cluster-and-rank runs",
		},
		[]string{"mode", "status"}, // mode: "vector" / "keyword"
	)

	PipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "topicforge",
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end cluster-and-rank duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	PipelineQueriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "topicforge",
			Name:      "pipeline_queries_total",
			Help:      "Total queries processed after deduplication",
		},
	)

	PipelineTopicsPerRun = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "topicforge",
			Name:      "pipeline_topics_per_run",
			Help:      "Number of topics emitted per run",
			Buckets:   []float64{1, 2, 3, 5, 8, 10, 15},
		},
	)

	TopicLabelsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topicforge",
			Name:      "topic_labels_total",
			Help:      "Topic labels by source",
		},
		[]string{"source"}, // "external" / "extractive" / "bucket"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineRunsTotal)
	prometheus.MustRegister(PipelineDuration)
	prometheus.MustRegister(PipelineQueriesTotal)
	prometheus.MustRegister(PipelineTopicsPerRun)
	prometheus.MustRegister(TopicLabelsTotal)
	pipelineMetricsRegistered = true
}
