package t2m

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to name within maxDist edits, or "".
// Comparison is case-insensitive; ties keep candidate order.
func Suggest(name string, candidates []string, maxDist int) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	best, bestDist := "", maxDist+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}

	return best
}
