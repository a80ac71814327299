package models

import "time"

// InventoryItem: a perishable grocery item owned by a user.
type InventoryItem struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	UserID              uint      `gorm:"index;not null" json:"-"`
	Name                string    `gorm:"size:100;not null" json:"name"`
	Category            string    `gorm:"size:100;not null" json:"category"`
	Quantity            float64   `gorm:"not null" json:"quantity"`
	Unit                string    `gorm:"size:20" json:"unit,omitempty"` // g, ml, pcs; display only
	PurchaseDate        time.Time `gorm:"not null" json:"purchase_date"`
	ExpirationDate      time.Time `gorm:"index;not null" json:"expiration_date"`
	DaysUntilExpiration int       `gorm:"not null" json:"days_until_expiration"` // negative once expired
	TotalShelfLife      int       `gorm:"not null" json:"total_shelf_life"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DaysUntil returns the number of calendar days from now until t.
func DaysUntil(t, now time.Time) int {
	return calendarDays(now, t)
}

// RefreshExpiration recomputes the derived day counters from the stored dates.
// TotalShelfLife is only derived when the caller did not supply it.
func (i *InventoryItem) RefreshExpiration(now time.Time) {
	i.DaysUntilExpiration = DaysUntil(i.ExpirationDate, now)
	if i.TotalShelfLife <= 0 && !i.PurchaseDate.IsZero() {
		i.TotalShelfLife = calendarDays(i.PurchaseDate, i.ExpirationDate)
	}
}

func calendarDays(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
