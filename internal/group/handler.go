package group

import (
	"fmt"
	"strings"
	"time"

	"hundi-backend/internal/audit"
	"hundi-backend/internal/auth"
	"hundi-backend/internal/database"
	"hundi-backend/internal/donor"
	"hundi-backend/internal/models"
	"hundi-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
)

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type AssignDonorsRequest struct {
	DonorIDs []uint `json:"donorIds"`
}

type GroupResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedBy   donor.CreatedByResponse `json:"createdBy"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func NewGroupResponse(g *models.Group) GroupResponse {
	return GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy: donor.CreatedByResponse{
			ID:    g.CreatedBy.ID,
			Name:  g.CreatedBy.Name,
			Email: g.CreatedBy.Email,
		},
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
		UpdatedAt: g.UpdatedAt.Format(time.RFC3339),
	}
}

// POST /api/groups
func CreateGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateGroupRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return respond.ValidationFailed(c, []respond.FieldError{
				{Msg: "Name is required", Param: "name", Location: "body"},
			})
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		group := models.Group{
			Name:        body.Name,
			Description: strings.TrimSpace(body.Description),
			CreatedByID: userID,
		}

		if err := database.DB.Create(&group).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create group")
		}
		database.DB.Preload("CreatedBy").First(&group, group.ID)

		audit.Write(c, "group", group.ID, models.AuditActionCreate, "Group "+group.Name+" created")

		return respond.Created(c, fiber.Map{"group": NewGroupResponse(&group)})
	}
}

// GET /api/groups
func ListGroupsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var groups []models.Group
		if err := database.DB.Preload("CreatedBy").Order("name ASC").Find(&groups).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list groups")
		}

		resp := make([]GroupResponse, 0, len(groups))
		for i := range groups {
			resp = append(resp, NewGroupResponse(&groups[i]))
		}

		return respond.OK(c, fiber.Map{"groups": resp})
	}
}

// GET /api/groups/:id
// Returns the group together with its current members.
func GetGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var group models.Group
		if err := database.DB.Preload("CreatedBy").First(&group, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Group not found")
		}

		var members []models.Donor
		if err := database.DB.Preload("CreatedBy").
			Where("group_id = ?", group.ID).
			Order("created_at ASC").
			Find(&members).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load group donors")
		}

		donors := make([]donor.DonorResponse, 0, len(members))
		for i := range members {
			donors = append(donors, donor.NewDonorResponse(&members[i]))
		}

		return respond.OK(c, fiber.Map{
			"group":  NewGroupResponse(&group),
			"donors": donors,
		})
	}
}

// PUT /api/groups/:id
func UpdateGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var group models.Group
		if err := database.DB.First(&group, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Group not found")
		}

		var body UpdateGroupRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return respond.ValidationFailed(c, []respond.FieldError{
					{Msg: "Name cannot be empty", Param: "name", Location: "body"},
				})
			}
			group.Name = name
		}
		if body.Description != nil {
			group.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(&group).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update group")
		}
		database.DB.Preload("CreatedBy").First(&group, group.ID)

		audit.Write(c, "group", group.ID, models.AuditActionUpdate, "Group "+group.Name+" updated")

		return respond.OK(c, fiber.Map{"group": NewGroupResponse(&group)})
	}
}

// DELETE /api/groups/:id
// Members are detached, not deleted.
func DeleteGroupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var group models.Group
		if err := database.DB.First(&group, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Group not found")
		}

		tx := database.DB.Begin()
		if err := tx.Model(&models.Donor{}).
			Where("group_id = ?", group.ID).
			Update("group_id", nil).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete group")
		}
		if err := tx.Delete(&group).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete group")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete group")
		}

		audit.Write(c, "group", group.ID, models.AuditActionDelete, "Group "+group.Name+" deleted")

		return respond.Message(c, "Group deleted")
	}
}

// POST /api/groups/:id/assign
// Moves the listed donors into the group. Donors already in another
// group are moved; donors not listed keep their membership.
func AssignDonorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var group models.Group
		if err := database.DB.First(&group, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Group not found")
		}

		var body AssignDonorsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if len(body.DonorIDs) == 0 {
			return respond.ValidationFailed(c, []respond.FieldError{
				{Msg: "At least one donor id is required", Param: "donorIds", Location: "body"},
			})
		}

		var count int64
		database.DB.Model(&models.Donor{}).Where("id IN ?", body.DonorIDs).Count(&count)
		if count != int64(len(body.DonorIDs)) {
			return fiber.NewError(fiber.StatusNotFound, "One or more donors not found")
		}

		if err := database.DB.Model(&models.Donor{}).
			Where("id IN ?", body.DonorIDs).
			Update("group_id", group.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not assign donors")
		}

		audit.Write(c, "group", group.ID, models.AuditActionUpdate,
			fmt.Sprintf("%d donors assigned to group %s", len(body.DonorIDs), group.Name))

		return respond.OK(c, fiber.Map{"assigned": len(body.DonorIDs)})
	}
}
