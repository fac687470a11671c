// Package reply implements the reply-draft pipeline: normalize pasted
// input, request scored candidates from the model, validate and re-rank
// them locally, and hand the session to the presenter.
package reply

import (
	"errors"

	"github.com/pepetopia/topi/internal/persona"
)

// ErrMalformedResponse is returned when the model output fails the
// structural contract after one stricter re-request.
var ErrMalformedResponse = errors.New("malformed model response")

// ErrValidationRejected is returned when a structurally valid response
// violates the content rules and cannot be auto-corrected.
var ErrValidationRejected = errors.New("response rejected by validation")

// Candidate bounds. Responses outside this range are rejected (too few)
// or truncated to the top of the ranking (too many).
const (
	MinCandidates = 5
	MaxCandidates = 8
)

// Risk flags attached by the validator.
const (
	FlagFinance          = "FINANCE"
	FlagUnsolicitedPromo = "UNSOLICITED_PROMO"
	FlagPromo            = "PROMO"
)

// Candidate is one generated reply draft. Immutable once validation has
// recomputed its score.
type Candidate struct {
	ID             int            `json:"id"`
	Angle          string         `json:"angle"`
	Structure      string         `json:"structure"`
	Text           string         `json:"text"`
	ScoreBreakdown map[string]int `json:"score_breakdown"`
	Penalties      map[string]int `json:"penalties,omitempty"`
	ScoreTotal     int            `json:"score_total"`
	Rationale      string         `json:"rationale"`
	RiskFlags      []string       `json:"risk_flags,omitempty"`
}

// HasFlag reports whether the candidate carries the given risk flag.
func (c *Candidate) HasFlag(flag string) bool {
	for _, f := range c.RiskFlags {
		if f == flag {
			return true
		}
	}
	return false
}

// Session is one end-to-end operator request. It exists only for the
// duration of one reply exchange and is never persisted.
type Session struct {
	ID            string
	Input         string
	Persona       persona.Persona
	Analysis      string
	Candidates    []Candidate
	RecommendedID int
	Model         string
}

// modelResponse is the strict JSON shape the model must return.
type modelResponse struct {
	Analysis   string      `json:"analysis"`
	Candidates []Candidate `json:"candidates"`
}
