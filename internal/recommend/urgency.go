package recommend

import (
	"strings"

	"ecoeats-backend/internal/models"
)

// Tier classifies an inventory item by how soon it expires.
type Tier string

const (
	TierCritical Tier = "critical"
	TierHigh     Tier = "high"
	TierMedium   Tier = "medium"
	TierLow      Tier = "low"
)

// TierFor maps days-until-expiration onto an urgency tier.
func TierFor(daysUntilExpiration int) Tier {
	switch {
	case daysUntilExpiration <= 2:
		return TierCritical
	case daysUntilExpiration <= 5:
		return TierHigh
	case daysUntilExpiration <= 10:
		return TierMedium
	default:
		return TierLow
	}
}

// Weight is the tier's contribution to the urgency mean.
func (t Tier) Weight() float64 {
	switch t {
	case TierCritical:
		return 3.0
	case TierHigh:
		return 2.0
	case TierMedium:
		return 1.0
	default:
		return 0.5
	}
}

// UrgencyScore is the mean tier weight of the inventory items that
// contribute to the recipe, 0.0 when none do. An item contributes when its
// normalized name contains, or is contained in, any required ingredient's
// normalized name; it is counted once however many ingredients it matches.
func UrgencyScore(inventory []models.InventoryItem, required []string) float64 {
	names := make([]string, len(inventory))
	for i := range inventory {
		names[i] = Normalize(inventory[i].Name)
	}
	return urgencyNormalized(inventory, names, normalizeAll(required))
}

func urgencyNormalized(inventory []models.InventoryItem, itemNames, required []string) float64 {
	var (
		sum     float64
		matched int
	)
	for i := range inventory {
		for _, req := range required {
			if strings.Contains(req, itemNames[i]) || strings.Contains(itemNames[i], req) {
				sum += TierFor(inventory[i].DaysUntilExpiration).Weight()
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return 0.0
	}
	return sum / float64(matched)
}
