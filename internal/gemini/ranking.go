package gemini

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ModelInfo is one entry from the provider's model-listing endpoint.
type ModelInfo struct {
	Name    string
	Actions []string
}

var versionRe = regexp.MustCompile(`(?i)gemini-(\d+(?:\.\d+)?)`)

// tierRank orders capability tiers. Higher is more capable.
func tierRank(name string) int {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "ultra"):
		return 4
	case strings.Contains(lower, "pro"):
		return 3
	case strings.Contains(lower, "flash"):
		return 2
	case strings.Contains(lower, "nano"):
		return 1
	default:
		return 0
	}
}

// version extracts the numeric version token from a model name.
// Models with no version sort to the bottom.
func version(name string) float64 {
	m := versionRe.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// FilterGenerative keeps Gemini models that support generateContent and
// strips the "models/" prefix some listings carry.
func FilterGenerative(models []ModelInfo) []string {
	var out []string
	for _, m := range models {
		if !strings.Contains(strings.ToLower(m.Name), "gemini") {
			continue
		}
		supported := false
		for _, a := range m.Actions {
			if a == "generateContent" {
				supported = true
				break
			}
		}
		if !supported {
			continue
		}
		out = append(out, strings.TrimPrefix(m.Name, "models/"))
	}
	return out
}

// Rank orders model names most-capable first: version descending, then tier
// (Ultra > Pro > Flash > Nano), then name descending so the order is total.
func Rank(names []string) []string {
	ranked := make([]string, len(names))
	copy(ranked, names)
	sort.SliceStable(ranked, func(i, j int) bool {
		vi, vj := version(ranked[i]), version(ranked[j])
		if vi != vj {
			return vi > vj
		}
		ti, tj := tierRank(ranked[i]), tierRank(ranked[j])
		if ti != tj {
			return ti > tj
		}
		return ranked[i] > ranked[j]
	})
	return ranked
}
