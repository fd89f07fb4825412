package spaced_repetition

import (
	"math"
	"time"

	"github.com/example/signalcards/pkg/models"
)

// boxIntervals maps a Leitner box to its review interval in days. This table
// is the single source of truth for due-date math; every caller goes through
// NextReviewDate.
var boxIntervals = map[int]int{
	1: 1,
	2: 3,
	3: 7,
	4: 14,
	5: 30,
}

// advanceThreshold is the lowest score that moves a card up a box. Scores of
// 2 and below reset the card to box 1 (a full reset, never a one-box
// demotion).
const advanceThreshold = 3

// NextBox returns the box a card lands in after a recall with the given
// score. Failures reset to box 1; successes advance one box, capped at 5.
func NextBox(currentBox, score int) int {
	if score < advanceThreshold {
		return models.MinBox
	}
	next := currentBox + 1
	if next < models.MinBox {
		next = models.MinBox
	}
	if next > models.MaxBox {
		next = models.MaxBox
	}
	return next
}

// FirstBox returns the box for a learner's very first answer to a question:
// 2 for a correct recall, 1 otherwise. This default is stored as-is; the
// NextBox transition only applies from the second answer on.
func FirstBox(score int) int {
	if score >= models.CorrectThreshold {
		return 2
	}
	return 1
}

// NextReviewDate returns the next review timestamp for a card in the given
// box. Unknown boxes fall back to a one-day interval.
func NextReviewDate(box int, now time.Time) time.Time {
	days, ok := boxIntervals[box]
	if !ok {
		days = 1
	}
	return now.AddDate(0, 0, days)
}

// xpBase is the XP awarded for a score of 3; higher scores earn a multiplier.
const xpBase = 10

// XPGain returns the XP awarded for a recall score. Multiplied values are
// rounded half-up so fractional XP never accumulates.
func XPGain(score int) int {
	switch score {
	case 0, 1:
		return 5
	case 2:
		return 8
	case 3:
		return xpBase
	case 4:
		return roundHalfUp(xpBase * 1.2)
	case 5:
		return roundHalfUp(xpBase * 1.5)
	}
	return 0
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Leitner is the box-table scheduling strategy, the engine's default.
type Leitner struct{}

// NewLeitner creates the box-table strategy.
func NewLeitner() *Leitner {
	return &Leitner{}
}

// Initial seeds scheduling state for a first answer.
func (l *Leitner) Initial(p *models.Progress, score int, now time.Time) {
	p.BoxNumber = FirstBox(score)
	p.NextReviewAt = NextReviewDate(p.BoxNumber, now)
}

// Advance updates scheduling state for every subsequent answer.
func (l *Leitner) Advance(p *models.Progress, score int, now time.Time) {
	p.BoxNumber = NextBox(p.BoxNumber, score)
	p.NextReviewAt = NextReviewDate(p.BoxNumber, now)
}
