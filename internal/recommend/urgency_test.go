package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecoeats-backend/internal/models"
)

func item(name string, days int) models.InventoryItem {
	return models.InventoryItem{Name: name, DaysUntilExpiration: days}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		days   int
		tier   Tier
		weight float64
	}{
		{days: -3, tier: TierCritical, weight: 3.0},
		{days: 0, tier: TierCritical, weight: 3.0},
		{days: 2, tier: TierCritical, weight: 3.0},
		{days: 3, tier: TierHigh, weight: 2.0},
		{days: 5, tier: TierHigh, weight: 2.0},
		{days: 6, tier: TierMedium, weight: 1.0},
		{days: 10, tier: TierMedium, weight: 1.0},
		{days: 11, tier: TierLow, weight: 0.5},
		{days: 365, tier: TierLow, weight: 0.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, TierFor(tt.days), "days=%d", tt.days)
		assert.Equal(t, tt.weight, TierFor(tt.days).Weight(), "days=%d", tt.days)
	}
}

func TestTierWeightMonotonic(t *testing.T) {
	for d := -5; d < 400; d++ {
		assert.GreaterOrEqual(t, TierFor(d).Weight(), TierFor(d+1).Weight(), "days=%d", d)
	}
}

func TestUrgencyScore(t *testing.T) {
	tests := []struct {
		name      string
		inventory []models.InventoryItem
		required  []string
		expected  float64
	}{
		{
			name:      "no inventory",
			inventory: nil,
			required:  []string{"milk"},
			expected:  0.0,
		},
		{
			name:      "nothing matches",
			inventory: []models.InventoryItem{item("Rice", 1)},
			required:  []string{"milk"},
			expected:  0.0,
		},
		{
			name:      "single critical item",
			inventory: []models.InventoryItem{item("Milk", 1)},
			required:  []string{"milk"},
			expected:  3.0,
		},
		{
			name:      "mean over matched items only",
			inventory: []models.InventoryItem{item("Tomato", 1), item("Basil", 8), item("Rice", 0)},
			required:  []string{"tomatoes", "basil"},
			expected:  2.0,
		},
		{
			name:      "bidirectional substring",
			inventory: []models.InventoryItem{item("Chicken Breast", 4)},
			required:  []string{"chicken"},
			expected:  2.0,
		},
		{
			name:      "item counted once across ingredients",
			inventory: []models.InventoryItem{item("Oil", 1), item("Salmon", 20)},
			required:  []string{"olive oil", "oil", "salmon"},
			expected:  (3.0 + 0.5) / 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, UrgencyScore(tt.inventory, tt.required), 1e-9)
		})
	}
}
