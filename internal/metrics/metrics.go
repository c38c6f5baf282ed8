// Package metrics holds the prometheus collectors for the API and the domain
// events worth counting.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emojimap_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "emojimap_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	MarkersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emojimap_markers_created_total",
			Help: "Total number of markers created",
		},
	)

	TagsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emojimap_tags_created_total",
			Help: "Total number of tags created",
		},
		[]string{"source"}, // "explicit", "reconcile"
	)

	TagsSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emojimap_tags_swept_total",
			Help: "Total number of orphan tags removed after losing their last marker",
		},
	)

	CommentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emojimap_comments_created_total",
			Help: "Total number of comments created",
		},
	)

	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emojimap_auth_events_total",
			Help: "Authentication attempts by kind and outcome",
		},
		[]string{"kind", "outcome"}, // kind: "register", "login", "refresh"
	)

	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "emojimap_rate_limited_total",
			Help: "Requests rejected by the auth rate limiter",
		},
	)
)

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordAuth(kind string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	AuthEvents.WithLabelValues(kind, outcome).Inc()
}
