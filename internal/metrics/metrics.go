package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReactionsCredited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "creditbot_reactions_credited_total",
		Help: "Reactions that resulted in a credit",
	})

	ReactionsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creditbot_reactions_skipped_total",
		Help: "Reactions that did not result in a credit, by reason",
	}, []string{"reason"})

	Redemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creditbot_redemptions_total",
		Help: "Redemption attempts by outcome",
	}, []string{"reward", "outcome"})

	PersistenceErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creditbot_persistence_errors_total",
		Help: "Failed record file operations",
	}, []string{"op"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "creditbot_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})
)
