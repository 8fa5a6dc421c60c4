package evaluator

import "github.com/agnivade/levenshtein"

// suggestName finds the closest candidate to want among have, for the
// "did you mean" hints attached to UnboundName/UnknownField errors
// (spec §7). Returns "" if have is empty or nothing is close enough
// to be worth suggesting.
func suggestName(want string, have []string) string {
	best := ""
	bestDist := -1
	for _, cand := range have {
		d := levenshtein.ComputeDistance(want, cand)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = cand
		}
	}
	// A suggestion further than half the candidate's length away is noise,
	// not help — e.g. "x" should never "suggest" an unrelated ten-letter name.
	if best == "" || bestDist > (len(best)+1)/2 {
		return ""
	}
	return best
}
