// Package recommend ranks recipes against a pantry snapshot.
//
// Only recipes whose every required ingredient is in stock survive the
// availability gate. Survivors are ordered by how much soon-expiring stock
// they use, then by how simple they are to cook. The package holds no state
// and does no I/O: callers load inventory and recipes and pass them in.
package recommend

import (
	"sort"

	"ecoeats-backend/internal/models"
)

// DefaultLimit is used when a caller passes a non-positive limit.
const DefaultLimit = 10

const (
	urgencyWeight    = 10.0
	complexityWeight = 1.0
)

// Scored is a recipe that passed the availability gate, with its scores.
type Scored struct {
	Recipe     models.Recipe `json:"recipe"`
	Urgency    float64       `json:"urgency_score"`
	Complexity float64       `json:"complexity_score"`
	Total      float64       `json:"total_score"`
}

// Engine carries the caller's default result size.
type Engine struct {
	defaultLimit int
}

// Option configures an Engine.
type Option func(*Engine)

// WithDefaultLimit overrides DefaultLimit for calls that pass limit <= 0.
func WithDefaultLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultLimit = n
		}
	}
}

// New builds an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{defaultLimit: DefaultLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultLimit reports the limit used when callers pass none.
func (e *Engine) DefaultLimit() int {
	return e.defaultLimit
}

// Recommend returns at most limit recipes, best first. A limit of zero or
// less means the engine's default limit, not an empty result.
func (e *Engine) Recommend(inventory []models.InventoryItem, recipes []models.Recipe, limit int) []models.Recipe {
	ranked := e.Rank(inventory, recipes, limit)
	out := make([]models.Recipe, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].Recipe
	}
	return out
}

// Rank is Recommend with the scores kept.
//
// Ordering is urgency descending, then total descending. Total already
// carries urgency*10, so within one urgency level the tie is decided by
// complexity. Equal keys keep the input order.
func (e *Engine) Rank(inventory []models.InventoryItem, recipes []models.Recipe, limit int) []Scored {
	if limit <= 0 {
		limit = e.defaultLimit
	}
	if len(inventory) == 0 {
		return []Scored{}
	}

	itemNames := make([]string, len(inventory))
	for i := range inventory {
		itemNames[i] = Normalize(inventory[i].Name)
	}

	ranked := make([]Scored, 0)
	for _, r := range recipes {
		required := normalizeAll(r.UsesIngredients)
		if matchNormalized(required, itemNames) < 1.0 {
			continue
		}
		urgency := urgencyNormalized(inventory, itemNames, required)
		complexity := ComplexityScore(r)
		ranked = append(ranked, Scored{
			Recipe:     r,
			Urgency:    urgency,
			Complexity: complexity,
			Total:      urgency*urgencyWeight + complexity*complexityWeight,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Urgency != ranked[j].Urgency {
			return ranked[i].Urgency > ranked[j].Urgency
		}
		return ranked[i].Total > ranked[j].Total
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Recommend runs a default Engine; limit <= 0 means DefaultLimit.
func Recommend(inventory []models.InventoryItem, recipes []models.Recipe, limit int) []models.Recipe {
	return New().Recommend(inventory, recipes, limit)
}
