package species

import "github.com/agnivade/levenshtein"

// Suggest returns the candidate closest to name within an edit budget that
// grows with the candidate length, or "" when nothing is close enough.
func Suggest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(name, cand)
		if dist > levenshteinLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = cand, dist
		}
	}
	return best
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
