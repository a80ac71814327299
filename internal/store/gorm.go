package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ecoeats-backend/internal/models"
)

// Gorm implements Store on top of a *gorm.DB.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (g *Gorm) ListInventory(ctx context.Context, userID uint) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := g.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("expiration_date asc, name asc").
		Find(&items).Error
	return items, err
}

func (g *Gorm) GetInventoryItem(ctx context.Context, userID uint, id string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := g.db.WithContext(ctx).First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (g *Gorm) CreateInventoryItems(ctx context.Context, items []models.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
	}
	return g.db.WithContext(ctx).Create(&items).Error
}

func (g *Gorm) SaveInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	return g.db.WithContext(ctx).Save(item).Error
}

func (g *Gorm) DeleteInventoryItem(ctx context.Context, userID uint, id string) error {
	res := g.db.WithContext(ctx).Delete(&models.InventoryItem{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) ConsumeInventoryItem(ctx context.Context, item *models.InventoryItem, status models.ConsumptionStatus) (*models.ConsumptionEntry, error) {
	entry := newConsumptionEntry(item, status)
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.InventoryItem{}, "id = ? AND user_id = ?", item.ID, item.UserID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (g *Gorm) ListConsumption(ctx context.Context, userID uint, status models.ConsumptionStatus) ([]models.ConsumptionEntry, error) {
	q := g.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var entries []models.ConsumptionEntry
	err := q.Order("created_at desc").Find(&entries).Error
	return entries, err
}

func (g *Gorm) RefreshExpiration(ctx context.Context, now time.Time) (int, error) {
	var (
		batch   []models.InventoryItem
		updated int
	)
	db := g.db.WithContext(ctx)
	res := db.Model(&models.InventoryItem{}).FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
		for i := range batch {
			days := models.DaysUntil(batch[i].ExpirationDate, now)
			if days == batch[i].DaysUntilExpiration {
				continue
			}
			if err := db.Model(&models.InventoryItem{}).
				Where("id = ?", batch[i].ID).
				Update("days_until_expiration", days).Error; err != nil {
				return fmt.Errorf("update %s: %w", batch[i].ID, err)
			}
			updated++
		}
		return nil
	})
	return updated, res.Error
}

func (g *Gorm) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := g.db.WithContext(ctx).Order("name asc").Find(&recipes).Error
	return recipes, err
}

func (g *Gorm) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	var r models.Recipe
	if err := g.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func (g *Gorm) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", r.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	return g.db.WithContext(ctx).Create(r).Error
}

func (g *Gorm) DeleteRecipe(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) ReplaceRecipes(ctx context.Context, recipes []models.Recipe) (int, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Recipe{}).Error; err != nil {
			return fmt.Errorf("clear recipes: %w", err)
		}
		if len(recipes) == 0 {
			return nil
		}
		return tx.CreateInBatches(&recipes, 100).Error
	})
	if err != nil {
		return 0, err
	}
	return len(recipes), nil
}

func (g *Gorm) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func (g *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	if _, err := g.FindUserByEmail(ctx, u.Email); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return g.db.WithContext(ctx).Create(u).Error
}

func (g *Gorm) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (g *Gorm) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (g *Gorm) WriteAudit(ctx context.Context, entry *models.AuditLog) error {
	return g.db.WithContext(ctx).Create(entry).Error
}

func (g *Gorm) ListAudit(ctx context.Context, entityType string, limit int) ([]models.AuditLog, error) {
	q := g.db.WithContext(ctx).Model(&models.AuditLog{})
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	var logs []models.AuditLog
	err := q.Order("created_at desc").Limit(limit).Find(&logs).Error
	return logs, err
}

func newConsumptionEntry(item *models.InventoryItem, status models.ConsumptionStatus) *models.ConsumptionEntry {
	return &models.ConsumptionEntry{
		UserID:              item.UserID,
		ItemID:              item.ID,
		ItemName:            item.Name,
		Category:            item.Category,
		Quantity:            item.Quantity,
		Unit:                item.Unit,
		Status:              status,
		ExpirationDate:      item.ExpirationDate,
		DaysUntilExpiration: item.DaysUntilExpiration,
	}
}
