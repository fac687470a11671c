package reply

// Scoring rubric. The model scores each component 0-10; the total is always
// recomputed locally as the weighted component sum minus penalties, clamped
// to [0,100]. The model-reported total, if any, is ignored.

// Component weights. They sum to 10, so a perfect breakdown yields 100.
var componentWeights = map[string]float64{
	"relevance": 3.0,
	"insight":   2.5,
	"hook":      2.0,
	"voice":     1.5,
	"brevity":   1.0,
}

// Penalty kinds assigned by the validator, each capped at maxPenalty.
const (
	PenaltyPromo   = "promo"
	PenaltyFinance = "finance"
	PenaltyCliche  = "cliche"
	PenaltyDrift   = "drift"
)

const (
	maxComponentScore = 10
	maxPenalty        = 30
	maxTotal          = 100
)

// RecomputeScore derives the candidate total from its raw component scores
// and penalties. Unknown components are ignored; missing components score
// zero.
func RecomputeScore(c *Candidate) int {
	var sum float64
	for component, weight := range componentWeights {
		sum += weight * float64(clampInt(c.ScoreBreakdown[component], 0, maxComponentScore))
	}
	for _, p := range c.Penalties {
		sum -= float64(clampInt(p, 0, maxPenalty))
	}
	return clampInt(int(sum+0.5), 0, maxTotal)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
