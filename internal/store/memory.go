package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ecoeats-backend/internal/models"
)

// Memory is a process-local Store for development (DATABASE_DRIVER=memory)
// and tests. Values are copied in and out so callers never share state.
type Memory struct {
	mu          sync.RWMutex
	items       map[string]models.InventoryItem
	recipes     map[string]models.Recipe
	users       map[uint]models.User
	consumption []models.ConsumptionEntry
	audit       []models.AuditLog
	nextUserID  uint
	nextEntryID uint
	nextAuditID uint
}

func NewMemory() *Memory {
	return &Memory{
		items:   make(map[string]models.InventoryItem),
		recipes: make(map[string]models.Recipe),
		users:   make(map[uint]models.User),
	}
}

func (m *Memory) ListInventory(_ context.Context, userID uint) ([]models.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.InventoryItem, 0)
	for _, it := range m.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpirationDate.Equal(out[j].ExpirationDate) {
			return out[i].ExpirationDate.Before(out[j].ExpirationDate)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *Memory) GetInventoryItem(_ context.Context, userID uint, id string) (*models.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[id]
	if !ok || it.UserID != userID {
		return nil, ErrNotFound
	}
	return &it, nil
}

func (m *Memory) CreateInventoryItems(_ context.Context, items []models.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if _, ok := m.items[items[i].ID]; ok {
			return ErrDuplicate
		}
	}
	for i := range items {
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
		m.items[items[i].ID] = items[i]
	}
	return nil
}

func (m *Memory) SaveInventoryItem(_ context.Context, item *models.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.UpdatedAt = time.Now()
	m.items[item.ID] = *item
	return nil
}

func (m *Memory) DeleteInventoryItem(_ context.Context, userID uint, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok || it.UserID != userID {
		return ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *Memory) ConsumeInventoryItem(_ context.Context, item *models.InventoryItem, status models.ConsumptionStatus) (*models.ConsumptionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[item.ID]
	if !ok || it.UserID != item.UserID {
		return nil, ErrNotFound
	}
	delete(m.items, item.ID)

	m.nextEntryID++
	entry := newConsumptionEntry(item, status)
	entry.ID = m.nextEntryID
	entry.CreatedAt = time.Now()
	m.consumption = append(m.consumption, *entry)
	return entry, nil
}

func (m *Memory) ListConsumption(_ context.Context, userID uint, status models.ConsumptionStatus) ([]models.ConsumptionEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ConsumptionEntry, 0)
	for i := len(m.consumption) - 1; i >= 0; i-- {
		e := m.consumption[i]
		if e.UserID == userID && (status == "" || e.Status == status) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *Memory) RefreshExpiration(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	updated := 0
	for id, it := range m.items {
		days := models.DaysUntil(it.ExpirationDate, now)
		if days == it.DaysUntilExpiration {
			continue
		}
		it.DaysUntilExpiration = days
		m.items[id] = it
		updated++
	}
	return updated, nil
}

func (m *Memory) ListRecipes(_ context.Context) ([]models.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Recipe, 0, len(m.recipes))
	for _, r := range m.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) GetRecipe(_ context.Context, id string) (*models.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *Memory) CreateRecipe(_ context.Context, r *models.Recipe) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if _, ok := m.recipes[r.ID]; ok {
		return ErrDuplicate
	}
	r.CreatedAt = time.Now()
	m.recipes[r.ID] = *r
	return nil
}

func (m *Memory) DeleteRecipe(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recipes[id]; !ok {
		return ErrNotFound
	}
	delete(m.recipes, id)
	return nil
}

func (m *Memory) ReplaceRecipes(_ context.Context, recipes []models.Recipe) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipes = make(map[string]models.Recipe, len(recipes))
	now := time.Now()
	for _, r := range recipes {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		r.CreatedAt = now
		m.recipes[r.ID] = r
	}
	return len(m.recipes), nil
}

func (m *Memory) CountUsers(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *Memory) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrDuplicate
		}
	}
	m.nextUserID++
	u.ID = m.nextUserID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id uint) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) WriteAudit(_ context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAuditID++
	entry.ID = m.nextAuditID
	entry.CreatedAt = time.Now()
	m.audit = append(m.audit, *entry)
	return nil
}

func (m *Memory) ListAudit(_ context.Context, entityType string, limit int) ([]models.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.AuditLog, 0)
	for i := len(m.audit) - 1; i >= 0 && len(out) < limit; i-- {
		if entityType == "" || m.audit[i].EntityType == entityType {
			out = append(out, m.audit[i])
		}
	}
	return out, nil
}
