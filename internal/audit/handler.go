package audit

import (
	"fmt"

	"chargen-backend/internal/database"
	"chargen-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=charge&entity_id=12&limit=50
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.AuditLog{}).Order("created_at DESC")

		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}
		if eidStr := c.Query("entity_id"); eidStr != "" {
			var eid uint
			if _, err := fmt.Sscan(eidStr, &eid); err != nil || eid == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "entity_id ungültig")
			}
			q = q.Where("entity_id = ?", eid)
		}

		limit := 100
		if lStr := c.Query("limit"); lStr != "" {
			if _, err := fmt.Sscan(lStr, &limit); err != nil || limit <= 0 || limit > 1000 {
				return fiber.NewError(fiber.StatusBadRequest, "limit ungültig")
			}
		}

		var logs []models.AuditLog
		if err := q.Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Audit-Logs konnten nicht geladen werden")
		}

		return c.JSON(logs)
	}
}
