package audit

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/store"
)

const (
	EntityInventoryItem = "inventory_item"
	EntityRecipe        = "recipe"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// jsonb columns reject "", so absent snapshots are stored as JSON null.
func snapshot(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func WriteLog(ctx context.Context, s store.AuditStore, opts LogOptions) error {
	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  snapshot(opts.Before),
		AfterData:   snapshot(opts.After),
	}
	if err := s.WriteAudit(ctx, &entry); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// Record is WriteLog for callers that must not fail the request on an
// audit error; the error is logged instead.
func Record(ctx context.Context, s store.AuditStore, opts LogOptions) {
	if err := WriteLog(ctx, s, opts); err != nil {
		logging.Err(err).
			Str("entity_type", opts.EntityType).
			Str("entity_id", opts.EntityID).
			Str("action", string(opts.Action)).
			Msg("audit log dropped")
	}
}
