// Package spaced_repetition holds the pure scheduling math of the engine:
// box transitions, review intervals and XP amounts. Nothing in this package
// touches the store or the clock; callers pass "now" in.
package spaced_repetition

import (
	"fmt"
	"time"

	"github.com/example/signalcards/pkg/models"
)

// Kind names a scheduling strategy. The strategy is picked once by
// configuration and never mixed per call path.
type Kind string

const (
	// KindLeitner is the fixed box-interval table (the default).
	KindLeitner Kind = "leitner"
	// KindEaseFactor is the SM-2 style ease-factor strategy.
	KindEaseFactor Kind = "ease_factor"
)

// Strategy computes the next scheduling state (box, interval, next review
// date) from a recall score. Counters, streaks and timestamps other than
// NextReviewAt belong to the answer pipeline, not the strategy.
type Strategy interface {
	// Initial seeds state for a learner's first answer to a question.
	Initial(p *models.Progress, score int, now time.Time)
	// Advance updates state for every later answer.
	Advance(p *models.Progress, score int, now time.Time)
}

// ForKind returns the strategy named by kind.
func ForKind(kind Kind) (Strategy, error) {
	switch kind {
	case KindLeitner, "":
		return NewLeitner(), nil
	case KindEaseFactor:
		return NewSM2(), nil
	}
	return nil, fmt.Errorf("unknown scheduling strategy %q", kind)
}
