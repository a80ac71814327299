// Package store defines the persistence contracts the handlers depend on,
// with a GORM implementation for Postgres and an in-memory one.
package store

import (
	"context"
	"errors"
	"time"

	"ecoeats-backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type InventoryStore interface {
	ListInventory(ctx context.Context, userID uint) ([]models.InventoryItem, error)
	GetInventoryItem(ctx context.Context, userID uint, id string) (*models.InventoryItem, error)
	CreateInventoryItems(ctx context.Context, items []models.InventoryItem) error
	SaveInventoryItem(ctx context.Context, item *models.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, userID uint, id string) error
	// ConsumeInventoryItem deletes the item and records why, atomically.
	ConsumeInventoryItem(ctx context.Context, item *models.InventoryItem, status models.ConsumptionStatus) (*models.ConsumptionEntry, error)
	ListConsumption(ctx context.Context, userID uint, status models.ConsumptionStatus) ([]models.ConsumptionEntry, error)
	// RefreshExpiration recomputes days-until-expiration for every item and
	// returns how many rows changed.
	RefreshExpiration(ctx context.Context, now time.Time) (int, error)
}

type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, r *models.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	// ReplaceRecipes drops the whole catalog and inserts recipes.
	ReplaceRecipes(ctx context.Context, recipes []models.Recipe) (int, error)
}

type UserStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuditStore interface {
	WriteAudit(ctx context.Context, entry *models.AuditLog) error
	ListAudit(ctx context.Context, entityType string, limit int) ([]models.AuditLog, error)
}

// Store is everything the application persists.
type Store interface {
	InventoryStore
	RecipeStore
	UserStore
	AuditStore
}
