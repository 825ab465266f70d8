package audit

import (
	"log"

	"hundi-backend/internal/auth"
	"hundi-backend/internal/database"
	"hundi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Write records a mutation on the paper trail. Best-effort: a failed
// audit write never fails the request that caused it.
func Write(c *fiber.Ctx, entityType string, entityID uint, action models.AuditAction, description string) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return
	}

	var user models.User
	userName := ""
	if err := database.DB.First(&user, userID).Error; err == nil {
		userName = user.Name
	}

	entry := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
	}

	if err := database.DB.Create(&entry).Error; err != nil {
		log.Println("audit log write failed:", err)
	}
}
