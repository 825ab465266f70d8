package audit

import (
	"time"

	"hundi-backend/internal/database"
	"hundi-backend/internal/models"
	"hundi-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	UserID      uint               `json:"userId"`
	UserName    string             `json:"userName"`
	EntityType  string             `json:"entityType"`
	EntityID    uint               `json:"entityId"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
	CreatedAt   string             `json:"createdAt"`
}

// GET /api/audit-logs?entityType=donor&entityId=1&limit=50
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.AuditLog{})

		if entityType := c.Query("entityType"); entityType != "" {
			q = q.Where("entity_type = ?", entityType)
		}
		if entityID := c.QueryInt("entityId", 0); entityID > 0 {
			q = q.Where("entity_id = ?", entityID)
		}

		limit := c.QueryInt("limit", 50)
		if limit < 1 || limit > 200 {
			limit = 50
		}

		var logs []models.AuditLog
		if err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		resp := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			resp = append(resp, AuditLogResponse{
				ID:          l.ID,
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
				CreatedAt:   l.CreatedAt.Format(time.RFC3339),
			})
		}

		return respond.OK(c, fiber.Map{"logs": resp})
	}
}
