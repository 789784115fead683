// internal/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Переходы состояний ребер дружбы
const (
	TransitionRequested  = "requested"
	TransitionConfirmed  = "confirmed"
	TransitionReasserted = "reasserted"
	TransitionRemoved    = "removed"
)

// Исходы построения рекомендаций
const (
	OutcomeNoLikes     = "no_likes"
	OutcomeNoNeighbor  = "no_neighbor"
	OutcomeRecommended = "recommended"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "film_service_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "film_service_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "film_service_rate_limited_total",
			Help: "Total number of HTTP requests rejected by the rate limiter",
		},
	)

	FriendshipTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "film_service_friendship_transitions_total",
			Help: "Friendship edge state transitions",
		},
		[]string{"transition"},
	)

	FriendshipConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "film_service_friendship_conflict_retries_total",
			Help: "Friendship requests retried after a concurrent write on the same pair",
		},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "film_service_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordHTTPRequest учитывает завершенный HTTP-запрос.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordFriendshipTransition(transition string) {
	FriendshipTransitions.WithLabelValues(transition).Inc()
}

func RecordRecommendation(outcome string) {
	Recommendations.WithLabelValues(outcome).Inc()
}
