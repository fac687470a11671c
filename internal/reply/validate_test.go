package reply

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeCandidates builds n distinct well-formed candidates.
func makeCandidates(n int) []Candidate {
	texts := []string{
		"rollups compress cost per user",
		"ask who controls the sequencer",
		"latency is the real moat here",
		"builders ship through bear markets",
		"zoom out: settlement layers consolidate",
		"this rhymes with the early internet",
		"state growth is the silent killer",
		"open source wins on trust alone",
	}
	angles := []string{"contrarian", "question-first", "data-point", "builder-take",
		"zoom-out", "analogy", "contrarian", "data-point"}
	structures := []string{"one-liner", "question", "hook-then-point", "one-liner",
		"mini-thread", "listicle", "question", "mini-thread"}

	out := make([]Candidate, n)
	for i := 0; i < n; i++ {
		out[i] = Candidate{
			ID:        i + 1,
			Angle:     angles[i],
			Structure: structures[i],
			Text:      texts[i],
			ScoreBreakdown: map[string]int{
				"relevance": 8, "insight": 7, "hook": 6, "voice": 7, "brevity": 8,
			},
			Rationale: fmt.Sprintf("rationale %d", i+1),
		}
	}
	return out
}

func TestValidateHappyPath(t *testing.T) {
	got, err := Validate(makeCandidates(6), false)
	require.NoError(t, err)
	assert.Len(t, got, 6)
	// IDs are reassigned in rank order.
	for i, c := range got {
		assert.Equal(t, i+1, c.ID)
	}
}

func TestValidateRejectsTooFew(t *testing.T) {
	_, err := Validate(makeCandidates(4), false)
	assert.ErrorIs(t, err, ErrValidationRejected)
}

func TestValidateTruncatesTooMany(t *testing.T) {
	in := makeCandidates(8)
	extra := makeCandidates(8)[0]
	extra.Angle = "zoom-out"
	extra.Structure = "question"
	extra.Text = "a ninth fully distinct candidate text"
	in = append(in, extra)

	got, err := Validate(in, false)
	require.NoError(t, err)
	assert.Len(t, got, MaxCandidates)
}

func TestValidateDropsEmptyText(t *testing.T) {
	in := makeCandidates(6)
	in[2].Text = "   "
	got, err := Validate(in, false)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestValidateRanksByScore(t *testing.T) {
	in := makeCandidates(5)
	in[3].ScoreBreakdown = map[string]int{
		"relevance": 10, "insight": 10, "hook": 10, "voice": 10, "brevity": 10,
	}
	got, err := Validate(in, false)
	require.NoError(t, err)
	assert.Equal(t, 100, got[0].ScoreTotal)
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i].ScoreTotal, got[i-1].ScoreTotal)
	}
}

func TestValidateUnsolicitedPromoForcedToBottom(t *testing.T) {
	in := makeCandidates(5)
	// Highest raw score, but mentions the project unprompted.
	in[0].Text = "pepetopia solves this better than anyone"
	in[0].ScoreBreakdown = map[string]int{
		"relevance": 10, "insight": 10, "hook": 10, "voice": 10, "brevity": 10,
	}

	got, err := Validate(in, false)
	require.NoError(t, err)

	last := got[len(got)-1]
	assert.True(t, last.HasFlag(FlagUnsolicitedPromo))
	assert.Contains(t, last.Penalties, PenaltyPromo)
	for _, c := range got[:len(got)-1] {
		assert.False(t, c.HasFlag(FlagUnsolicitedPromo))
	}
}

func TestValidatePromoAllowedWhenAsked(t *testing.T) {
	in := makeCandidates(5)
	in[0].Text = "pepetopia handles this with client-side proofs"

	got, err := Validate(in, true)
	require.NoError(t, err)

	var flagged *Candidate
	for i := range got {
		if got[i].HasFlag(FlagPromo) {
			flagged = &got[i]
		}
		assert.False(t, got[i].HasFlag(FlagUnsolicitedPromo))
	}
	require.NotNil(t, flagged, "expected a PROMO-flagged candidate")
	assert.NotContains(t, flagged.Penalties, PenaltyPromo)
}

func TestValidateFinanceLanguageFlagged(t *testing.T) {
	in := makeCandidates(5)
	in[1].Text = "definitely time to buy before the pump"

	got, err := Validate(in, false)
	require.NoError(t, err)

	found := false
	for _, c := range got {
		if c.HasFlag(FlagFinance) {
			found = true
			assert.Contains(t, c.Penalties, PenaltyFinance)
		}
	}
	assert.True(t, found, "expected a FINANCE-flagged candidate")
}

func TestAsksAboutProject(t *testing.T) {
	assert.True(t, AsksAboutProject("what is pepetopia really about"))
	assert.True(t, AsksAboutProject("is TOPI a real mascot"))
	// Word boundaries: substrings of other words do not count.
	assert.False(t, AsksAboutProject("a utopia of decentralized systems"))
	assert.False(t, AsksAboutProject("generic post about rollups"))
}

func TestDecodeResponsePlainJSON(t *testing.T) {
	resp, err := decodeResponse(`{"analysis":"ok","candidates":[{"id":1,"text":"hi"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Analysis)
	assert.Len(t, resp.Candidates, 1)
}

func TestDecodeResponseStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"analysis\":\"ok\",\"candidates\":[{\"id\":1,\"text\":\"hi\"}]}\n```"
	resp, err := decodeResponse(raw)
	require.NoError(t, err)
	assert.Len(t, resp.Candidates, 1)
}

func TestDecodeResponseRejectsGarbage(t *testing.T) {
	_, err := decodeResponse("Sure! Here are your candidates:")
	assert.Error(t, err)
}

func TestDecodeResponseRejectsNoCandidates(t *testing.T) {
	_, err := decodeResponse(`{"analysis":"ok","candidates":[]}`)
	assert.Error(t, err)
}
