// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recipe_collection"

var (
	// SignupsTotal counts signup attempts.
	// Labels: result (created, invalid, duplicate, error)
	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Total number of signup attempts by result",
		},
		[]string{"result"},
	)

	// LoginsTotal counts login attempts.
	// Labels: result (success, failure, invalid)
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of login attempts by result",
		},
		[]string{"result"},
	)

	// ChatRequestsTotal counts chatbot requests.
	// Labels: result (success, unconfigured, unavailable, error)
	ChatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "chat_requests_total",
			Help:      "Total number of chatbot requests by result",
		},
		[]string{"result"},
	)

	// RecommendationRequestsTotal counts recommendation requests.
	// Labels: result (success, empty, error)
	RecommendationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "recommendation_requests_total",
			Help:      "Total number of recommendation requests by result",
		},
		[]string{"result"},
	)

	// ModelRequestDuration tracks remote model latency.
	ModelRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "model_request_duration_seconds",
			Help:      "Duration of chat-completion calls in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	// ActiveSessions is the number of live sessions.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "Number of live sessions",
		},
	)

	// SessionsSweptTotal counts sessions discarded for inactivity.
	SessionsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "swept_total",
			Help:      "Total number of sessions discarded after being idle",
		},
	)

	// WebsocketClients is the number of connected chat sockets.
	WebsocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "clients",
			Help:      "Number of connected chat sockets",
		},
	)
)
