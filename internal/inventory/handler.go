package inventory

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"ecoeats-backend/internal/audit"
	"ecoeats-backend/internal/auth"
	"ecoeats-backend/internal/logging"
	"ecoeats-backend/internal/models"
	"ecoeats-backend/internal/store"
	"ecoeats-backend/internal/validation"
)

// actor returns the caller's id and display name for audit entries.
func actor(c *fiber.Ctx, users store.UserStore) (uint, string, error) {
	userID, err := auth.UserID(c)
	if err != nil {
		return 0, "", err
	}
	name := ""
	if u, err := users.GetUser(c.UserContext(), userID); err == nil {
		name = u.Name
	}
	return userID, name, nil
}

func loadItem(c *fiber.Ctx, s store.InventoryStore, userID uint) (*models.InventoryItem, error) {
	item, err := s.GetInventoryItem(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "inventory item not found")
		}
		return nil, err
	}
	return item, nil
}

// GET /api/inventory/
func ListItemsHandler(s store.InventoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		items, err := s.ListInventory(c.UserContext(), userID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list inventory")
		}
		return c.JSON(WithFreshDays(items, timeNow()))
	}
}

// GET /api/inventory/:id/
func GetItemHandler(s store.InventoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		item, err := loadItem(c, s, userID)
		if err != nil {
			return err
		}
		item.DaysUntilExpiration = models.DaysUntil(item.ExpirationDate, timeNow())
		return c.JSON(item)
	}
}

// POST /api/inventory/
func CreateItemHandler(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ItemInput
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		userID, userName, err := actor(c, s)
		if err != nil {
			return err
		}

		item, err := NewItem(body, userID, timeNow())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		items := []models.InventoryItem{item}
		if err := s.CreateInventoryItems(c.UserContext(), items); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create inventory item")
		}
		item = items[0]

		audit.Record(c.UserContext(), s, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  audit.EntityInventoryItem,
			EntityID:    item.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("added %s (%g %s), expires %s", item.Name, item.Quantity, item.Unit, item.ExpirationDate.Format(dateLayout)),
			After:       item,
		})

		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// PUT /api/inventory/:id/
func UpdateItemHandler(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validation.Struct(&body); err != nil {
			return err
		}

		userID, userName, err := actor(c, s)
		if err != nil {
			return err
		}
		item, err := loadItem(c, s, userID)
		if err != nil {
			return err
		}
		before := *item

		if err := body.Apply(item, timeNow()); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := s.SaveInventoryItem(c.UserContext(), item); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update inventory item")
		}

		audit.Record(c.UserContext(), s, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  audit.EntityInventoryItem,
			EntityID:    item.ID,
			Action:      models.AuditActionUpdate,
			Description: "updated " + item.Name,
			Before:      before,
			After:       item,
		})

		return c.JSON(item)
	}
}

// DELETE /api/inventory/:id/
func DeleteItemHandler(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, userName, err := actor(c, s)
		if err != nil {
			return err
		}
		item, err := loadItem(c, s, userID)
		if err != nil {
			return err
		}
		if err := s.DeleteInventoryItem(c.UserContext(), userID, item.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "inventory item not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete inventory item")
		}

		audit.Record(c.UserContext(), s, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  audit.EntityInventoryItem,
			EntityID:    item.ID,
			Action:      models.AuditActionDelete,
			Description: "deleted " + item.Name,
			Before:      item,
		})

		return c.JSON(fiber.Map{"message": "Item deleted successfully"})
	}
}

// POST /api/inventory/:id/mark-used/
func MarkUsedHandler(s store.Store) fiber.Handler {
	return consumeHandler(s, models.ConsumptionUsed)
}

// POST /api/inventory/:id/mark-discarded/
func MarkDiscardedHandler(s store.Store) fiber.Handler {
	return consumeHandler(s, models.ConsumptionDiscarded)
}

func consumeHandler(s store.Store, status models.ConsumptionStatus) fiber.Handler {
	action := models.AuditActionUse
	if status == models.ConsumptionDiscarded {
		action = models.AuditActionDiscard
	}

	return func(c *fiber.Ctx) error {
		userID, userName, err := actor(c, s)
		if err != nil {
			return err
		}
		item, err := loadItem(c, s, userID)
		if err != nil {
			return err
		}
		item.DaysUntilExpiration = models.DaysUntil(item.ExpirationDate, timeNow())

		entry, err := s.ConsumeInventoryItem(c.UserContext(), item, status)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "inventory item not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "could not update inventory item")
		}

		audit.Record(c.UserContext(), s, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  audit.EntityInventoryItem,
			EntityID:    item.ID,
			Action:      action,
			Description: fmt.Sprintf("%s marked as %s", item.Name, status),
			Before:      item,
			After:       entry,
		})
		logging.Debug().Str("item_id", item.ID).Str("status", string(status)).Msg("inventory item consumed")

		return c.JSON(fiber.Map{
			"message": "Item marked as " + string(status),
			"entry":   entry,
		})
	}
}

// GET /api/inventory/history?status=used|discarded
func HistoryHandler(s store.InventoryStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		status := models.ConsumptionStatus(c.Query("status"))
		switch status {
		case "", models.ConsumptionUsed, models.ConsumptionDiscarded:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "status must be used or discarded")
		}

		entries, err := s.ListConsumption(c.UserContext(), userID, status)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list history")
		}
		if entries == nil {
			entries = []models.ConsumptionEntry{}
		}
		return c.JSON(entries)
	}
}

// POST /api/inventory/import (multipart, field "file", .csv or .xlsx)
func ImportHandler(s store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file upload failed: "+err.Error())
		}

		userID, userName, err := actor(c, s)
		if err != nil {
			return err
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not open file: "+err.Error())
		}
		defer file.Close()

		rows, err := Parse(fileHeader.Filename, file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		items, err := BuildItems(rows, userID, timeNow())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := s.CreateInventoryItems(c.UserContext(), items); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not import inventory")
		}

		audit.Record(c.UserContext(), s, audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  audit.EntityInventoryItem,
			Action:      models.AuditActionImport,
			Description: fmt.Sprintf("imported %d items from %s", len(items), fileHeader.Filename),
		})
		logging.Info().Uint("user_id", userID).Int("items", len(items)).Str("file", fileHeader.Filename).Msg("inventory imported")

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"imported": len(items),
			"items":    items,
		})
	}
}
