package recommend

import "ecoeats-backend/internal/models"

// MaxComplexityScore is reached by a recipe with at most five ingredients,
// at most fifteen minutes of prep and at most five steps.
const MaxComplexityScore = 1.8

// ComplexityScore rewards simpler recipes. The ingredient count is taken from
// the display ingredient list, not the required-ingredient names.
func ComplexityScore(r models.Recipe) float64 {
	score := 1.0

	switch n := len(r.Ingredients); {
	case n <= 5:
		score += 0.3
	case n <= 8:
		score += 0.1
	}

	switch {
	case r.PrepTime <= 15:
		score += 0.3
	case r.PrepTime <= 30:
		score += 0.1
	}

	if len(r.Instructions) <= 5 {
		score += 0.2
	}
	return score
}
