package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecomputeScorePerfectBreakdown(t *testing.T) {
	c := &Candidate{ScoreBreakdown: map[string]int{
		"relevance": 10, "insight": 10, "hook": 10, "voice": 10, "brevity": 10,
	}}
	assert.Equal(t, 100, RecomputeScore(c))
}

func TestRecomputeScoreWeights(t *testing.T) {
	// relevance carries 3x weight, brevity 1x.
	relevanceOnly := &Candidate{ScoreBreakdown: map[string]int{"relevance": 10}}
	brevityOnly := &Candidate{ScoreBreakdown: map[string]int{"brevity": 10}}
	assert.Equal(t, 30, RecomputeScore(relevanceOnly))
	assert.Equal(t, 10, RecomputeScore(brevityOnly))
}

func TestRecomputeScoreClampsComponents(t *testing.T) {
	// Out-of-range model scores are clamped, not trusted.
	c := &Candidate{ScoreBreakdown: map[string]int{"relevance": 99, "insight": -5}}
	assert.Equal(t, 30, RecomputeScore(c))
}

func TestRecomputeScoreAppliesPenalties(t *testing.T) {
	c := &Candidate{
		ScoreBreakdown: map[string]int{
			"relevance": 10, "insight": 10, "hook": 10, "voice": 10, "brevity": 10,
		},
		Penalties: map[string]int{PenaltyPromo: 30, PenaltyCliche: 10},
	}
	assert.Equal(t, 60, RecomputeScore(c))
}

func TestRecomputeScorePenaltyCap(t *testing.T) {
	c := &Candidate{
		ScoreBreakdown: map[string]int{"relevance": 10, "insight": 10, "hook": 10, "voice": 10, "brevity": 10},
		Penalties:      map[string]int{PenaltyFinance: 500},
	}
	assert.Equal(t, 70, RecomputeScore(c))
}

func TestRecomputeScoreNeverNegative(t *testing.T) {
	c := &Candidate{
		ScoreBreakdown: map[string]int{"brevity": 1},
		Penalties:      map[string]int{PenaltyPromo: 30, PenaltyFinance: 30},
	}
	assert.Equal(t, 0, RecomputeScore(c))
}

func TestRecomputeScoreIgnoresUnknownComponents(t *testing.T) {
	c := &Candidate{ScoreBreakdown: map[string]int{"vibes": 10, "brevity": 5}}
	assert.Equal(t, 5, RecomputeScore(c))
}

func TestRecomputeScoreIgnoresModelTotal(t *testing.T) {
	c := &Candidate{
		ScoreBreakdown: map[string]int{"brevity": 5},
		ScoreTotal:     100, // model-reported, must be ignored
	}
	assert.Equal(t, 5, RecomputeScore(c))
}
