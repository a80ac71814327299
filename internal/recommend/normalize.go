package recommend

import (
	"regexp"
	"strings"
)

// Word edges are spelled out because \b only knows ASCII letters, and
// "orégano" must not lose its "or".
var (
	quantityUnitRe = regexp.MustCompile(`\d+(?:[./]\d+)?\s*(?:cups?|tbsp|tsp|oz|lbs?|grams?|kg|ml|l)([^\p{L}\p{N}_]|$)`)
	stopWordRe     = regexp.MustCompile(`(^|[^\p{L}\p{N}_])(?:a|an|the|of|in|with|and|or)([^\p{L}\p{N}_]|$)`)
)

// Normalize turns free-text ingredient text into a comparison key: lower-cased,
// without "<number> <unit>" tokens and stop-words, single-spaced.
//
// The passes repeat until the key stops changing, so removing a stop-word can
// never expose a new quantity token on a second call. Each pass only shrinks
// the string, which bounds the loop.
func Normalize(ingredient string) string {
	s := strings.ToLower(strings.TrimSpace(ingredient))
	for {
		next := quantityUnitRe.ReplaceAllString(s, "$1")
		next = stopWordRe.ReplaceAllString(next, "$1$2")
		next = strings.Join(strings.Fields(next), " ")
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Normalize(n)
	}
	return out
}
