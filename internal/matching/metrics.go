// internal/matching/metrics.go

package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	likesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_likes_total",
			Help: "Total number of likes recorded",
		},
	)

	dislikesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_dislikes_total",
			Help: "Total number of dislikes recorded",
		},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_matches_total",
			Help: "Total number of mutual matches created",
		},
	)

	unmatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_unmatches_total",
			Help: "Total number of matches deactivated by unmatch",
		},
	)

	candidateFeedsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_candidate_feeds_total",
			Help: "Total number of candidate feed requests served",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of computed compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

func observeCompatibilityScore(score int) {
	compatibilityScores.Observe(float64(score))
}
