package report

import (
	"sort"

	"github.com/hbollon/go-edlib"
)

// SuggestModulePath finds the closest declared module path to a typo'd
// one, the same Jaro-Winkler similarity metric the teacher's fuzzy
// matcher uses for near-miss symbol lookups. Returns "" if candidates
// is empty or nothing scores above the threshold.
func SuggestModulePath(typed string, candidates []string) string {
	const threshold = 0.75

	best := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		score, err := edlib.StringsSimilarity(typed, candidate, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) > bestScore {
			bestScore = float64(score)
			best = candidate
		}
	}
	if bestScore < threshold {
		return ""
	}
	return best
}

// SuggestModulePaths returns up to n candidates ranked by similarity to
// typed, most similar first, for callers that want a short list instead
// of a single best guess.
func SuggestModulePaths(typed string, candidates []string, n int) []string {
	type scored struct {
		path  string
		score float64
	}
	var ranked []scored
	for _, candidate := range candidates {
		score, err := edlib.StringsSimilarity(typed, candidate, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		ranked = append(ranked, scored{path: candidate, score: float64(score)})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.path
	}
	return out
}
