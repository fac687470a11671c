package reply

import (
	"regexp"
	"strings"
)

// nearDuplicateThreshold is the Jaccard word-set similarity above which two
// candidate texts count as near-duplicates.
const nearDuplicateThreshold = 0.5

var wordRe = regexp.MustCompile(`\w+`)

// JaccardSimilarity computes word-set overlap between two texts.
// Returns 0.0 (no overlap) to 1.0 (identical sets).
func JaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range wordRe.FindAllString(strings.ToLower(s), -1) {
		set[tok] = true
	}
	return set
}

// dedupe drops candidates that near-duplicate an earlier (higher ranked)
// candidate, either by sharing both angle and structure or by text
// similarity above the threshold.
func dedupe(candidates []Candidate) []Candidate {
	var kept []Candidate
	seen := make(map[string]bool)

	for _, cand := range candidates {
		pair := strings.ToLower(strings.TrimSpace(cand.Angle)) + "|" +
			strings.ToLower(strings.TrimSpace(cand.Structure))
		if seen[pair] {
			continue
		}

		similar := false
		for i := range kept {
			if JaccardSimilarity(cand.Text, kept[i].Text) > nearDuplicateThreshold {
				similar = true
				break
			}
		}
		if similar {
			continue
		}

		seen[pair] = true
		kept = append(kept, cand)
	}
	return kept
}
