// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecoeats"

var (
	// Recommendation metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_requests_total",
			Help:      "Recipe recommendation requests by mode",
		},
		[]string{"mode"}, // "suggest", "explain", "lookup", "offline"
	)

	RecommendationResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_results",
			Help:      "Number of recipes returned per recommendation",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_duration_seconds",
			Help:      "Time spent ranking recipes",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	// TheMealDB ingestion metrics
	MealDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mealdb_requests_total",
			Help:      "Requests sent to TheMealDB by outcome",
		},
		[]string{"outcome"}, // "ok", "error", "breaker_open"
	)

	MealDBRecipesImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mealdb_recipes_imported_total",
			Help:      "Recipes converted from TheMealDB meals",
		},
	)

	// Scheduler metrics
	ExpirationRefreshRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expiration_refresh_runs_total",
			Help:      "Days-until-expiration refresh runs by status",
		},
		[]string{"status"},
	)

	ExpirationRefreshRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expiration_refresh_rows_total",
			Help:      "Inventory rows whose days-until-expiration changed",
		},
	)
)

// RecordRecommendation records one ranking call.
func RecordRecommendation(mode string, results int, duration time.Duration) {
	RecommendationRequests.WithLabelValues(mode).Inc()
	RecommendationResults.Observe(float64(results))
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordMealDBRequest records one upstream call.
func RecordMealDBRequest(outcome string) {
	MealDBRequests.WithLabelValues(outcome).Inc()
}

// RecordExpirationRefresh records a scheduler run.
func RecordExpirationRefresh(rows int, err error) {
	if err != nil {
		ExpirationRefreshRuns.WithLabelValues("error").Inc()
		return
	}
	ExpirationRefreshRuns.WithLabelValues("ok").Inc()
	ExpirationRefreshRows.Add(float64(rows))
}
