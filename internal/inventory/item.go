package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ecoeats-backend/internal/models"
)

const dateLayout = "2006-01-02"

var timeNow = time.Now

// ItemInput is the writable part of an inventory item, shared by the JSON
// API, file imports and seed data.
type ItemInput struct {
	Name           string  `json:"name" yaml:"name" validate:"required,max=100"`
	Category       string  `json:"category" yaml:"category" validate:"required,max=100"`
	Quantity       float64 `json:"quantity" yaml:"quantity" validate:"gte=0"`
	Unit           string  `json:"unit" yaml:"unit" validate:"max=20"`
	PurchaseDate   string  `json:"purchase_date" yaml:"purchase_date"`
	ExpirationDate string  `json:"expiration_date" yaml:"expiration_date"`
	// Used when ExpirationDate is empty: expires this many days from today.
	DaysUntilExpiration *int `json:"days_until_expiration" yaml:"days_until_expiration"`
	TotalShelfLife      int  `json:"total_shelf_life" yaml:"total_shelf_life" validate:"gte=0"`
}

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NewItem builds an item owned by userID.
//
// Without a purchase date the item was bought today, unless a shelf life is
// given, in which case it was bought shelf-life days before it expires.
func NewItem(in ItemInput, userID uint, now time.Time) (models.InventoryItem, error) {
	today := startOfDay(now)

	var exp time.Time
	switch {
	case strings.TrimSpace(in.ExpirationDate) != "":
		t, err := ParseDate(in.ExpirationDate)
		if err != nil {
			return models.InventoryItem{}, fmt.Errorf("expiration_date: %w", err)
		}
		exp = t
	case in.DaysUntilExpiration != nil:
		exp = today.AddDate(0, 0, *in.DaysUntilExpiration)
	default:
		return models.InventoryItem{}, errors.New("expiration_date or days_until_expiration is required")
	}

	var purchase time.Time
	switch {
	case strings.TrimSpace(in.PurchaseDate) != "":
		t, err := ParseDate(in.PurchaseDate)
		if err != nil {
			return models.InventoryItem{}, fmt.Errorf("purchase_date: %w", err)
		}
		purchase = t
	case in.TotalShelfLife > 0:
		purchase = exp.AddDate(0, 0, -in.TotalShelfLife)
	default:
		purchase = today
	}
	if exp.Before(startOfDay(purchase)) {
		return models.InventoryItem{}, errors.New("expiration_date must not be before purchase_date")
	}

	item := models.InventoryItem{
		UserID:         userID,
		Name:           strings.TrimSpace(in.Name),
		Category:       strings.TrimSpace(in.Category),
		Quantity:       in.Quantity,
		Unit:           strings.TrimSpace(in.Unit),
		PurchaseDate:   purchase,
		ExpirationDate: exp,
		TotalShelfLife: in.TotalShelfLife,
	}
	item.RefreshExpiration(now)
	return item, nil
}

// UpdateItemRequest is a partial update; nil fields are left alone.
type UpdateItemRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Category       *string  `json:"category" validate:"omitempty,min=1,max=100"`
	Quantity       *float64 `json:"quantity" validate:"omitempty,gte=0"`
	Unit           *string  `json:"unit" validate:"omitempty,max=20"`
	PurchaseDate   *string  `json:"purchase_date"`
	ExpirationDate *string  `json:"expiration_date"`
	TotalShelfLife *int     `json:"total_shelf_life" validate:"omitempty,gte=0"`
}

// Apply mutates item and re-derives the day counters.
func (r UpdateItemRequest) Apply(item *models.InventoryItem, now time.Time) error {
	datesChanged := false
	if r.Name != nil {
		item.Name = strings.TrimSpace(*r.Name)
	}
	if r.Category != nil {
		item.Category = strings.TrimSpace(*r.Category)
	}
	if r.Quantity != nil {
		item.Quantity = *r.Quantity
	}
	if r.Unit != nil {
		item.Unit = strings.TrimSpace(*r.Unit)
	}
	if r.PurchaseDate != nil {
		t, err := ParseDate(*r.PurchaseDate)
		if err != nil {
			return fmt.Errorf("purchase_date: %w", err)
		}
		item.PurchaseDate = t
		datesChanged = true
	}
	if r.ExpirationDate != nil {
		t, err := ParseDate(*r.ExpirationDate)
		if err != nil {
			return fmt.Errorf("expiration_date: %w", err)
		}
		item.ExpirationDate = t
		datesChanged = true
	}
	if item.ExpirationDate.Before(startOfDay(item.PurchaseDate)) {
		return errors.New("expiration_date must not be before purchase_date")
	}

	switch {
	case r.TotalShelfLife != nil:
		item.TotalShelfLife = *r.TotalShelfLife
	case datesChanged:
		item.TotalShelfLife = 0
	}
	item.RefreshExpiration(now)
	return nil
}

// WithFreshDays returns copies with DaysUntilExpiration computed for now,
// so reads between scheduler runs are never stale.
func WithFreshDays(items []models.InventoryItem, now time.Time) []models.InventoryItem {
	out := make([]models.InventoryItem, len(items))
	for i := range items {
		out[i] = items[i]
		out[i].DaysUntilExpiration = models.DaysUntil(out[i].ExpirationDate, now)
	}
	return out
}
