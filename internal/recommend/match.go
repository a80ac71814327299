package recommend

import "strings"

// MatchScore is the all-or-nothing availability gate: 1.0 when every required
// ingredient has a normalized match among the available names, 0.0 otherwise.
// An empty requirement list never qualifies.
func MatchScore(required, available []string) float64 {
	return matchNormalized(normalizeAll(required), normalizeAll(available))
}

func matchNormalized(required, available []string) float64 {
	if len(required) == 0 {
		return 0.0
	}
	for _, req := range required {
		found := false
		for _, avail := range available {
			if Equivalent(req, avail) {
				found = true
				break
			}
		}
		if !found {
			return 0.0
		}
	}
	return 1.0
}

// Equivalent compares two normalized names using plain equality plus the
// fixed synonym table. The table is exhaustive: egg/eggs, flour/plain flour,
// and any two names that both contain "oil".
func Equivalent(a, b string) bool {
	switch {
	case a == b:
		return true
	case a == "egg" && b == "eggs", a == "eggs" && b == "egg":
		return true
	case a == "flour" && b == "plain flour", a == "plain flour" && b == "flour":
		return true
	case strings.Contains(a, "oil") && strings.Contains(b, "oil"):
		return true
	}
	return false
}
