// Package metrics holds the engine's Prometheus instruments, exposed on
// /metrics by the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsLoaded counts composed study sessions by mode.
	SessionsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signalcards_sessions_loaded_total",
		Help: "Study sessions composed, labelled by session mode.",
	}, []string{"mode"})

	// AnswersRecorded counts submitted answers by outcome. Guest answers are
	// counted but never persisted.
	AnswersRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signalcards_answers_total",
		Help: "Submitted answers, labelled correct/incorrect/guest.",
	}, []string{"outcome"})

	// XPAwarded sums XP granted to learners.
	XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signalcards_xp_awarded_total",
		Help: "Total XP awarded across all learners.",
	})

	// UpdateConflicts counts optimistic-concurrency retries on progress rows.
	UpdateConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signalcards_progress_update_conflicts_total",
		Help: "Progress writes that hit a version conflict and were retried.",
	})
)
