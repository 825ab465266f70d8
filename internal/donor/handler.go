package donor

import (
	"math"
	"strings"
	"time"

	"hundi-backend/internal/audit"
	"hundi-backend/internal/auth"
	"hundi-backend/internal/database"
	"hundi-backend/internal/models"
	"hundi-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type LocationPayload struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

type CreateDonorRequest struct {
	HundiNo       string           `json:"hundiNo"`
	Name          string           `json:"name"`
	MobileNumber  string           `json:"mobileNumber"`
	Address       string           `json:"address"`
	GoogleMapLink string           `json:"googleMapLink"`
	Date          string           `json:"date"` // "2006-01-02"
	Location      *LocationPayload `json:"location"`
}

type UpdateDonorRequest struct {
	HundiNo       *string          `json:"hundiNo"`
	Name          *string          `json:"name"`
	MobileNumber  *string          `json:"mobileNumber"`
	Address       *string          `json:"address"`
	GoogleMapLink *string          `json:"googleMapLink"`
	Date          *string          `json:"date"`
	Location      *LocationPayload `json:"location"`
}

type CreatedByResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type DonorResponse struct {
	ID            uint              `json:"id"`
	HundiNo       string            `json:"hundiNo"`
	Name          string            `json:"name"`
	MobileNumber  string            `json:"mobileNumber"`
	Address       string            `json:"address"`
	GoogleMapLink string            `json:"googleMapLink,omitempty"`
	Location      LocationPayload   `json:"location"`
	Date          string            `json:"date"`
	GroupID       *uint             `json:"groupId,omitempty"`
	CreatedBy     CreatedByResponse `json:"createdBy"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

type PaginationResponse struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

func NewDonorResponse(d *models.Donor) DonorResponse {
	return DonorResponse{
		ID:            d.ID,
		HundiNo:       d.HundiNo,
		Name:          d.Name,
		MobileNumber:  d.MobileNumber,
		Address:       d.Address,
		GoogleMapLink: d.GoogleMapLink,
		Location: LocationPayload{
			Type:        "Point",
			Coordinates: []float64{d.Longitude, d.Latitude},
		},
		Date:    d.Date.Format(dateLayout),
		GroupID: d.GroupID,
		CreatedBy: CreatedByResponse{
			ID:    d.CreatedBy.ID,
			Name:  d.CreatedBy.Name,
			Email: d.CreatedBy.Email,
		},
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}

func validateLocation(loc *LocationPayload, errs []respond.FieldError) []respond.FieldError {
	if loc == nil {
		return append(errs, respond.FieldError{Msg: "Location is required", Param: "location", Location: "body"})
	}
	if len(loc.Coordinates) != 2 {
		return append(errs, respond.FieldError{Msg: "Location coordinates must be [longitude, latitude]", Param: "location", Location: "body"})
	}
	lon, lat := loc.Coordinates[0], loc.Coordinates[1]
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return append(errs, respond.FieldError{Msg: "Location coordinates out of range", Param: "location", Location: "body"})
	}
	return errs
}

// POST /api/donors
func CreateDonorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDonorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.HundiNo = strings.TrimSpace(body.HundiNo)
		body.Name = strings.TrimSpace(body.Name)

		var errs []respond.FieldError
		if body.HundiNo == "" {
			errs = append(errs, respond.FieldError{Msg: "Hundi number is required", Param: "hundiNo", Location: "body"})
		}
		if body.Name == "" {
			errs = append(errs, respond.FieldError{Msg: "Name is required", Param: "name", Location: "body"})
		}
		if strings.TrimSpace(body.MobileNumber) == "" {
			errs = append(errs, respond.FieldError{Msg: "Mobile number is required", Param: "mobileNumber", Location: "body"})
		}
		if strings.TrimSpace(body.Address) == "" {
			errs = append(errs, respond.FieldError{Msg: "Address is required", Param: "address", Location: "body"})
		}
		var date time.Time
		if body.Date == "" {
			errs = append(errs, respond.FieldError{Msg: "Collection date is required", Param: "date", Location: "body"})
		} else {
			var err error
			date, err = time.Parse(dateLayout, body.Date)
			if err != nil {
				errs = append(errs, respond.FieldError{Msg: "Date must be formatted YYYY-MM-DD", Param: "date", Location: "body"})
			}
		}
		errs = validateLocation(body.Location, errs)
		if len(errs) > 0 {
			return respond.ValidationFailed(c, errs)
		}

		var count int64
		database.DB.Model(&models.Donor{}).Where("hundi_no = ?", body.HundiNo).Count(&count)
		if count > 0 {
			return respond.ValidationFailed(c, []respond.FieldError{
				{Msg: "Hundi number is already in use", Param: "hundiNo", Location: "body"},
			})
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		donor := models.Donor{
			HundiNo:       body.HundiNo,
			Name:          body.Name,
			MobileNumber:  strings.TrimSpace(body.MobileNumber),
			Address:       strings.TrimSpace(body.Address),
			GoogleMapLink: body.GoogleMapLink,
			Longitude:     body.Location.Coordinates[0],
			Latitude:      body.Location.Coordinates[1],
			Date:          date,
			CreatedByID:   userID,
		}

		if err := database.DB.Create(&donor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create donor")
		}
		database.DB.Preload("CreatedBy").First(&donor, donor.ID)

		audit.Write(c, "donor", donor.ID, models.AuditActionCreate, "Donor "+donor.HundiNo+" registered")

		return respond.Created(c, fiber.Map{"donor": NewDonorResponse(&donor)})
	}
}

// GET /api/donors
func ListDonorsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 20)
		if limit < 1 || limit > 100 {
			limit = 20
		}

		q := database.DB.Model(&models.Donor{})

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + search + "%"
			q = q.Where("name ILIKE ? OR hundi_no ILIKE ? OR mobile_number ILIKE ?", like, like, like)
		}
		if startDate := c.Query("startDate"); startDate != "" {
			t, err := time.Parse(dateLayout, startDate)
			if err != nil {
				return respond.ValidationFailed(c, []respond.FieldError{
					{Msg: "startDate must be formatted YYYY-MM-DD", Param: "startDate", Location: "query"},
				})
			}
			q = q.Where("date >= ?", t)
		}
		if endDate := c.Query("endDate"); endDate != "" {
			t, err := time.Parse(dateLayout, endDate)
			if err != nil {
				return respond.ValidationFailed(c, []respond.FieldError{
					{Msg: "endDate must be formatted YYYY-MM-DD", Param: "endDate", Location: "query"},
				})
			}
			q = q.Where("date <= ?", t)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list donors")
		}

		var donors []models.Donor
		if err := q.Preload("CreatedBy").
			Order("created_at ASC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&donors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list donors")
		}

		resp := make([]DonorResponse, 0, len(donors))
		for i := range donors {
			resp = append(resp, NewDonorResponse(&donors[i]))
		}

		pages := int(math.Ceil(float64(total) / float64(limit)))
		if pages < 1 {
			pages = 1
		}

		return respond.OK(c, fiber.Map{
			"donors":     resp,
			"pagination": PaginationResponse{Total: total, Page: page, Pages: pages},
		})
	}
}

// GET /api/donors/location
func DonorsByLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var errs []respond.FieldError
		lon := c.QueryFloat("longitude", math.NaN())
		lat := c.QueryFloat("latitude", math.NaN())
		if math.IsNaN(lon) || lon < -180 || lon > 180 {
			errs = append(errs, respond.FieldError{Msg: "longitude is required and must be within -180..180", Param: "longitude", Location: "query"})
		}
		if math.IsNaN(lat) || lat < -90 || lat > 90 {
			errs = append(errs, respond.FieldError{Msg: "latitude is required and must be within -90..90", Param: "latitude", Location: "query"})
		}
		radius := c.QueryFloat("radius", 10000)
		if radius <= 0 {
			errs = append(errs, respond.FieldError{Msg: "radius must be positive", Param: "radius", Location: "query"})
		}
		if len(errs) > 0 {
			return respond.ValidationFailed(c, errs)
		}

		var donors []models.Donor
		if err := database.DB.Preload("CreatedBy").Order("created_at ASC").Find(&donors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list donors")
		}

		resp := make([]DonorResponse, 0)
		for i := range donors {
			if WithinRadius(lon, lat, donors[i].Longitude, donors[i].Latitude, radius) {
				resp = append(resp, NewDonorResponse(&donors[i]))
			}
		}

		return respond.OK(c, fiber.Map{"donors": resp})
	}
}

// GET /api/donors/:id
func GetDonorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var donor models.Donor
		if err := database.DB.Preload("CreatedBy").First(&donor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Donor not found")
		}

		return respond.OK(c, fiber.Map{"donor": NewDonorResponse(&donor)})
	}
}

// PUT /api/donors/:id
func UpdateDonorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var donor models.Donor
		if err := database.DB.First(&donor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Donor not found")
		}

		var body UpdateDonorRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var errs []respond.FieldError
		if body.HundiNo != nil {
			hundiNo := strings.TrimSpace(*body.HundiNo)
			if hundiNo == "" {
				errs = append(errs, respond.FieldError{Msg: "Hundi number cannot be empty", Param: "hundiNo", Location: "body"})
			} else if hundiNo != donor.HundiNo {
				var count int64
				database.DB.Model(&models.Donor{}).Where("hundi_no = ? AND id <> ?", hundiNo, donor.ID).Count(&count)
				if count > 0 {
					errs = append(errs, respond.FieldError{Msg: "Hundi number is already in use", Param: "hundiNo", Location: "body"})
				} else {
					donor.HundiNo = hundiNo
				}
			}
		}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				errs = append(errs, respond.FieldError{Msg: "Name cannot be empty", Param: "name", Location: "body"})
			} else {
				donor.Name = name
			}
		}
		if body.MobileNumber != nil {
			donor.MobileNumber = strings.TrimSpace(*body.MobileNumber)
		}
		if body.Address != nil {
			donor.Address = strings.TrimSpace(*body.Address)
		}
		if body.GoogleMapLink != nil {
			donor.GoogleMapLink = *body.GoogleMapLink
		}
		if body.Date != nil {
			t, err := time.Parse(dateLayout, *body.Date)
			if err != nil {
				errs = append(errs, respond.FieldError{Msg: "Date must be formatted YYYY-MM-DD", Param: "date", Location: "body"})
			} else {
				donor.Date = t
			}
		}
		if body.Location != nil {
			errs = validateLocation(body.Location, errs)
			if len(body.Location.Coordinates) == 2 {
				donor.Longitude = body.Location.Coordinates[0]
				donor.Latitude = body.Location.Coordinates[1]
			}
		}
		if len(errs) > 0 {
			return respond.ValidationFailed(c, errs)
		}

		if err := database.DB.Save(&donor).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update donor")
		}
		database.DB.Preload("CreatedBy").First(&donor, donor.ID)

		audit.Write(c, "donor", donor.ID, models.AuditActionUpdate, "Donor "+donor.HundiNo+" updated")

		return respond.OK(c, fiber.Map{"donor": NewDonorResponse(&donor)})
	}
}

// DELETE /api/donors/:id
func DeleteDonorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var donor models.Donor
		if err := database.DB.First(&donor, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Donor not found")
		}

		tx := database.DB.Begin()
		if err := tx.Where("donor_id = ?", donor.ID).Delete(&models.Donation{}).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete donor")
		}
		if err := tx.Delete(&donor).Error; err != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete donor")
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete donor")
		}

		audit.Write(c, "donor", donor.ID, models.AuditActionDelete, "Donor "+donor.HundiNo+" deleted")

		return respond.Message(c, "Donor deleted")
	}
}
