package models

import "time"

type ConsumptionStatus string

const (
	ConsumptionUsed      ConsumptionStatus = "used"
	ConsumptionDiscarded ConsumptionStatus = "discarded"
)

// ConsumptionEntry: written when an inventory item leaves the pantry.
// The item row itself is deleted, this is the only trace left.
type ConsumptionEntry struct {
	ID                  uint              `gorm:"primaryKey" json:"id"`
	UserID              uint              `gorm:"index;not null" json:"-"`
	ItemID              string            `gorm:"size:36;index" json:"item_id"`
	ItemName            string            `gorm:"size:100;not null" json:"item_name"`
	Category            string            `gorm:"size:100" json:"category"`
	Quantity            float64           `json:"quantity"`
	Unit                string            `gorm:"size:20" json:"unit,omitempty"`
	Status              ConsumptionStatus `gorm:"size:20;index;not null" json:"status"`
	ExpirationDate      time.Time         `json:"expiration_date"`
	DaysUntilExpiration int               `json:"days_until_expiration"`
	CreatedAt           time.Time         `json:"created_at"`
}
