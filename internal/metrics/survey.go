package metrics

import "github.com/prometheus/client_golang/prometheus"

// Survey Prometheus metrics.
var (
	JudgmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pairwise",
			Name:      "judgments_total",
			Help:      "Submitted judgments by outcome",
		},
		[]string{"metric", "result"}, // accepted / duplicate / invalid / error
	)

	RankingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pairwise",
			Name:      "rankings_total",
			Help:      "Ranking computations by outcome",
		},
		[]string{"result"}, // ok / incomplete / error
	)

	RankingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pairwise",
			Name:      "ranking_duration_seconds",
			Help:      "Ranking computation duration in seconds, storage included",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	PendingPairs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "pairwise",
			Name:      "pending_pairs",
			Help:      "Pairs still awaiting judgment per get_pairs request",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	SampleCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pairwise",
			Name:      "sample_cache_total",
			Help:      "Sample set cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var surveyMetricsRegistered bool

// RegisterSurveyMetrics registers Prometheus survey metrics. Must be called once from main.
func RegisterSurveyMetrics() {
	if surveyMetricsRegistered {
		return
	}
	prometheus.MustRegister(JudgmentsTotal)
	prometheus.MustRegister(RankingsTotal)
	prometheus.MustRegister(RankingDuration)
	prometheus.MustRegister(PendingPairs)
	prometheus.MustRegister(SampleCacheTotal)
	surveyMetricsRegistered = true
}
