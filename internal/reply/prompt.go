package reply

import (
	"fmt"
	"strings"

	"github.com/pepetopia/topi/internal/persona"
)

// Reach-optimization rules baked into every draft request.
const reachRules = `--- REACH OPTIMIZATION RULES ---
Your drafts must maximize these engagement signals:
1. REPLY_WEIGHT: provoke debate or ask high-signal questions.
2. PROFILE_CLICK_WEIGHT: create curiosity gaps worth a profile visit.
3. DWELL_TIME: dense, high-value information that keeps readers >15s.
4. NO generic comments like "Great project!".
5. NO hashtags unless the topic genuinely requires one.`

// Candidate diversity menu the model draws from. No two candidates may
// share both an angle and a structure.
const diversityMenu = `--- ANGLES (rhetorical stance) ---
contrarian | question-first | data-point | builder-take | zoom-out | analogy

--- STRUCTURES (form) ---
one-liner | hook-then-point | question | mini-thread | listicle`

const outputContract = `--- OUTPUT FORMAT (STRICT JSON, NO PROSE) ---
Output a single valid JSON object and nothing else. No markdown fences.
Schema:
{
  "analysis": "one-line read of the input post",
  "candidates": [
    {
      "id": 1,
      "angle": "contrarian",
      "structure": "one-liner",
      "text": "the reply draft",
      "score_breakdown": {"relevance": 0-10, "insight": 0-10, "hook": 0-10, "voice": 0-10, "brevity": 0-10},
      "rationale": "one sentence on why this draft works",
      "risk_flags": []
    }
  ]
}
Produce between 5 and 8 candidates. Every candidate must use a distinct
(angle, structure) combination.`

// strictRetrySuffix is appended when the first response was malformed.
const strictRetrySuffix = `

CRITICAL: your previous response was not valid JSON. Respond with ONLY the
JSON object described above. No explanations, no code fences, no prose.`

// BuildSystemPrompt assembles the persona tone rules and the scoring rubric
// into the system instruction for a draft request.
func BuildSystemPrompt(p persona.Persona) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", p.Role)
	b.WriteString("Tone rules:\n")
	for i, rule := range p.ToneRules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}
	b.WriteString("\n")
	b.WriteString(reachRules)
	b.WriteString("\n\n")
	b.WriteString(diversityMenu)
	b.WriteString("\n\n")
	b.WriteString(outputContract)
	return b.String()
}

// BuildUserPrompt wraps the normalized input post for the model.
func BuildUserPrompt(input string, strict bool) string {
	var b strings.Builder
	b.WriteString("--- INPUT POST ---\n")
	fmt.Fprintf(&b, "%q\n\n", input)
	b.WriteString("TASK: draft the ranked reply candidates in the required JSON format.\n")
	b.WriteString("Stay strictly on the subject matter of the INPUT POST.")
	if strict {
		b.WriteString(strictRetrySuffix)
	}
	return b.String()
}
