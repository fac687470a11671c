package reply

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Content-rule keyword sets, matched on word boundaries.
var (
	financeKeywords = []string{
		"buy", "sell", "pump", "dump", "moon", "price", "prediction",
		"forecast", "financial advice",
	}
	promoPhrases = []string{
		"pepetopia", "check my bio", "link in bio", "subscribe",
	}
	projectMentionRe = regexp.MustCompile(`(?i)\bpepetopia\b|\btopi\b`)
)

// AsksAboutProject reports whether the input post explicitly brings up the
// project. Only then may candidates reference it without being flagged.
func AsksAboutProject(input string) bool {
	return projectMentionRe.MatchString(input)
}

// decodeResponse parses the model output into the strict response shape.
// Markdown code fences are tolerated and stripped; anything else around the
// JSON object is a contract violation.
func decodeResponse(raw string) (*modelResponse, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var resp modelResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("decode candidates: response has no candidates")
	}
	return &resp, nil
}

// Validate applies the full content contract to decoded candidates:
// recompute scores locally, drop empties and near-duplicates, apply the
// anti-promo and no-finance-advice rules, rank, and bound the count.
// askedAboutProject relaxes the promo rule to a plain flag.
func Validate(candidates []Candidate, askedAboutProject bool) ([]Candidate, error) {
	var usable []Candidate
	for _, cand := range candidates {
		if strings.TrimSpace(cand.Text) == "" {
			continue
		}
		if cand.Penalties == nil {
			cand.Penalties = make(map[string]int)
		}
		applyContentRules(&cand, askedAboutProject)
		cand.ScoreTotal = RecomputeScore(&cand)
		usable = append(usable, cand)
	}

	rankCandidates(usable)
	usable = dedupe(usable)

	if len(usable) > MaxCandidates {
		usable = usable[:MaxCandidates]
	}
	if len(usable) < MinCandidates {
		return nil, fmt.Errorf("%w: only %d usable candidates (need %d-%d)",
			ErrValidationRejected, len(usable), MinCandidates, MaxCandidates)
	}

	// IDs are reassigned in rank order so the recommendation is stable.
	for i := range usable {
		usable[i].ID = i + 1
	}
	return usable, nil
}

// applyContentRules flags and penalizes finance language and project
// promotion. Unsolicited promotion is pushed to the bottom of the ranking
// via rankCandidates.
func applyContentRules(cand *Candidate, askedAboutProject bool) {
	text := " " + strings.ToLower(cand.Text) + " "

	for _, kw := range financeKeywords {
		if containsWord(text, kw) {
			cand.Penalties[PenaltyFinance] = maxPenalty
			if !cand.HasFlag(FlagFinance) {
				cand.RiskFlags = append(cand.RiskFlags, FlagFinance)
			}
			break
		}
	}

	for _, phrase := range promoPhrases {
		if !containsWord(text, phrase) {
			continue
		}
		if askedAboutProject {
			if !cand.HasFlag(FlagPromo) {
				cand.RiskFlags = append(cand.RiskFlags, FlagPromo)
			}
		} else {
			cand.Penalties[PenaltyPromo] = maxPenalty
			if !cand.HasFlag(FlagUnsolicitedPromo) {
				cand.RiskFlags = append(cand.RiskFlags, FlagUnsolicitedPromo)
			}
		}
		break
	}
}

func containsWord(paddedLower, phrase string) bool {
	return strings.Contains(paddedLower, " "+phrase+" ") ||
		strings.Contains(paddedLower, " "+phrase+".") ||
		strings.Contains(paddedLower, " "+phrase+",") ||
		strings.Contains(paddedLower, " "+phrase+"!") ||
		strings.Contains(paddedLower, " "+phrase+"?")
}

// rankCandidates sorts by score descending, with unsolicited-promo
// candidates forced to the bottom regardless of score.
func rankCandidates(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		pi := candidates[i].HasFlag(FlagUnsolicitedPromo)
		pj := candidates[j].HasFlag(FlagUnsolicitedPromo)
		if pi != pj {
			return !pi
		}
		return candidates[i].ScoreTotal > candidates[j].ScoreTotal
	})
}
