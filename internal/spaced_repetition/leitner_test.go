package spaced_repetition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/signalcards/pkg/models"
)

func TestNextBoxAdvancesOnSuccess(t *testing.T) {
	for box := 1; box <= 5; box++ {
		for score := 3; score <= 5; score++ {
			next := NextBox(box, score)
			assert.GreaterOrEqual(t, next, box, "box %d score %d must not demote", box, score)
			assert.LessOrEqual(t, next, 5)
		}
	}
	assert.Equal(t, 5, NextBox(5, 5), "box 5 is capped")
	assert.Equal(t, 4, NextBox(3, 3))
}

func TestNextBoxResetsOnFailure(t *testing.T) {
	// Any failure is a full reset to box 1, never a one-box demotion.
	for box := 1; box <= 5; box++ {
		for score := 0; score <= 2; score++ {
			assert.Equal(t, 1, NextBox(box, score), "box %d score %d", box, score)
		}
	}
}

func TestFirstBoxDefaults(t *testing.T) {
	assert.Equal(t, 1, FirstBox(0))
	assert.Equal(t, 1, FirstBox(3))
	assert.Equal(t, 2, FirstBox(4))
	assert.Equal(t, 2, FirstBox(5))
}

func TestNextReviewDateTable(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		box  int
		days int
	}{
		{1, 1},
		{2, 3},
		{3, 7},
		{4, 14},
		{5, 30},
		{0, 1},  // unknown box falls back to one day
		{99, 1}, // unknown box falls back to one day
	}
	for _, tc := range cases {
		got := NextReviewDate(tc.box, now)
		assert.Equal(t, now.AddDate(0, 0, tc.days), got, "box %d", tc.box)
	}
}

func TestXPGain(t *testing.T) {
	cases := map[int]int{
		0: 5,
		1: 5,
		2: 8,
		3: 10,
		4: 12,
		5: 15,
	}
	for score, want := range cases {
		assert.Equal(t, want, XPGain(score), "score %d", score)
	}
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 12, roundHalfUp(11.5))
	assert.Equal(t, 11, roundHalfUp(11.4))
	assert.Equal(t, 12, roundHalfUp(12.0))
}

func TestLeitnerStrategy(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	strategy := NewLeitner()

	p := &models.Progress{}
	strategy.Initial(p, 5, now)
	require.Equal(t, 2, p.BoxNumber)
	require.Equal(t, now.AddDate(0, 0, 3), p.NextReviewAt)

	strategy.Advance(p, 5, now.AddDate(0, 0, 3))
	require.Equal(t, 3, p.BoxNumber)
	require.Equal(t, now.AddDate(0, 0, 3).AddDate(0, 0, 7), p.NextReviewAt)

	strategy.Advance(p, 1, now.AddDate(0, 0, 10))
	require.Equal(t, 1, p.BoxNumber)
	require.Equal(t, now.AddDate(0, 0, 10).AddDate(0, 0, 1), p.NextReviewAt)
}

func TestForKind(t *testing.T) {
	s, err := ForKind(KindLeitner)
	require.NoError(t, err)
	assert.IsType(t, &Leitner{}, s)

	s, err = ForKind("")
	require.NoError(t, err)
	assert.IsType(t, &Leitner{}, s, "empty kind defaults to the box table")

	s, err = ForKind(KindEaseFactor)
	require.NoError(t, err)
	assert.IsType(t, &SM2{}, s)

	_, err = ForKind("supermemo-18")
	assert.Error(t, err)
}
