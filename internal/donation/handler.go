package donation

import (
	"fmt"
	"math"
	"time"

	"hundi-backend/internal/audit"
	"hundi-backend/internal/auth"
	"hundi-backend/internal/database"
	"hundi-backend/internal/models"
	"hundi-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

type CreateDonationRequest struct {
	DonorID        uint                  `json:"donorId"`
	Amount         float64               `json:"amount"`
	CollectionDate string                `json:"collectionDate"` // "2006-01-02"
	Status         models.DonationStatus `json:"status"`
	Notes          string                `json:"notes"`
}

type UpdateDonationRequest struct {
	Amount *float64               `json:"amount"`
	Status *models.DonationStatus `json:"status"`
	Notes  *string                `json:"notes"`
}

type InitializeMonthRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type DonationDonorResponse struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	HundiNo string `json:"hundiNo"`
}

type CollectedByResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type DonationResponse struct {
	ID              uint                  `json:"id"`
	Donor           DonationDonorResponse `json:"donor"`
	Amount          float64               `json:"amount"`
	CollectionDate  string                `json:"collectionDate"`
	CollectionMonth string                `json:"collectionMonth"`
	Status          models.DonationStatus `json:"status"`
	CollectedBy     CollectedByResponse   `json:"collectedBy"`
	Notes           string                `json:"notes,omitempty"`
	CreatedAt       string                `json:"createdAt"`
	UpdatedAt       string                `json:"updatedAt"`
}

type StatusEntryResponse struct {
	Donor    DonorRef          `json:"donor"`
	Status   models.DonationStatus `json:"status"`
	Donation *DonationResponse `json:"donation"`
}

type MonthlyStatusResponse struct {
	Year        int                   `json:"year"`
	Month       int                   `json:"month"`
	TotalDonors int                   `json:"totalDonors"`
	Collected   int                   `json:"collected"`
	Pending     int                   `json:"pending"`
	Skipped     int                   `json:"skipped"`
	TotalAmount float64               `json:"totalAmount"`
	Report      []StatusEntryResponse `json:"statusReport"`
}

type PaginationResponse struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

func NewDonationResponse(d *models.Donation) DonationResponse {
	return DonationResponse{
		ID: d.ID,
		Donor: DonationDonorResponse{
			ID:      d.Donor.ID,
			Name:    d.Donor.Name,
			HundiNo: d.Donor.HundiNo,
		},
		Amount:          d.Amount,
		CollectionDate:  d.CollectionDate.Format(dateLayout),
		CollectionMonth: d.CollectionMonth,
		Status:          d.Status,
		CollectedBy: CollectedByResponse{
			ID:    d.CollectedBy.ID,
			Name:  d.CollectedBy.Name,
			Email: d.CollectedBy.Email,
		},
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}

// POST /api/donations
func CreateDonationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDonationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var errs []respond.FieldError
		if body.DonorID == 0 {
			errs = append(errs, respond.FieldError{Msg: "Donor id is required", Param: "donorId", Location: "body"})
		}
		if !body.Status.Valid() {
			errs = append(errs, respond.FieldError{Msg: "Status must be pending, collected or skipped", Param: "status", Location: "body"})
		}
		if body.Status == models.DonationCollected && body.Amount <= 0 {
			errs = append(errs, respond.FieldError{Msg: "Amount must be positive for a collected donation", Param: "amount", Location: "body"})
		}
		if body.Amount < 0 {
			errs = append(errs, respond.FieldError{Msg: "Amount cannot be negative", Param: "amount", Location: "body"})
		}
		var collectionDate time.Time
		if body.CollectionDate == "" {
			errs = append(errs, respond.FieldError{Msg: "Collection date is required", Param: "collectionDate", Location: "body"})
		} else {
			var err error
			collectionDate, err = time.Parse(dateLayout, body.CollectionDate)
			if err != nil {
				errs = append(errs, respond.FieldError{Msg: "Collection date must be formatted YYYY-MM-DD", Param: "collectionDate", Location: "body"})
			}
		}
		if len(errs) > 0 {
			return respond.ValidationFailed(c, errs)
		}

		var donor models.Donor
		if err := database.DB.First(&donor, body.DonorID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Donor not found")
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		// amount carries meaning only once the hundi is actually collected
		amount := body.Amount
		if body.Status != models.DonationCollected {
			amount = 0
		}

		donation := models.Donation{
			DonorID:         donor.ID,
			Amount:          amount,
			CollectionDate:  collectionDate,
			CollectionMonth: collectionDate.Format("2006-01"),
			Status:          body.Status,
			CollectedByID:   userID,
			Notes:           body.Notes,
		}

		if err := database.DB.Create(&donation).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create donation")
		}
		database.DB.Preload("Donor").Preload("CollectedBy").First(&donation, donation.ID)

		audit.Write(c, "donation", donation.ID,
			models.AuditActionCreate,
			fmt.Sprintf("Donation for hundi %s recorded as %s", donor.HundiNo, donation.Status))

		return respond.Created(c, fiber.Map{"donation": NewDonationResponse(&donation)})
	}
}

// GET /api/donations
func ListDonationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		limit := c.QueryInt("limit", 20)
		if limit < 1 || limit > 100 {
			limit = 20
		}

		q := database.DB.Model(&models.Donation{})

		if donorID := c.QueryInt("donorId", 0); donorID > 0 {
			q = q.Where("donor_id = ?", donorID)
		}

		year := c.QueryInt("year", 0)
		month := c.QueryInt("month", 0)
		if month != 0 {
			if year == 0 {
				year = time.Now().Year()
			}
			if !ValidPeriod(year, month) {
				return respond.ValidationFailed(c, []respond.FieldError{
					{Msg: "Month must be between 1 and 12", Param: "month", Location: "query"},
				})
			}
			q = q.Where("collection_month = ?", PeriodKey(year, month))
		} else if year > 0 {
			q = q.Where("collection_month LIKE ?", fmt.Sprintf("%d-%%", year))
		}

		if status := c.Query("status"); status != "" {
			if !models.DonationStatus(status).Valid() {
				return respond.ValidationFailed(c, []respond.FieldError{
					{Msg: "Status must be pending, collected or skipped", Param: "status", Location: "query"},
				})
			}
			q = q.Where("status = ?", status)
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list donations")
		}

		var donations []models.Donation
		if err := q.Preload("Donor").Preload("CollectedBy").
			Order("collection_date DESC, id DESC").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&donations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list donations")
		}

		resp := make([]DonationResponse, 0, len(donations))
		for i := range donations {
			resp = append(resp, NewDonationResponse(&donations[i]))
		}

		pages := int(math.Ceil(float64(total) / float64(limit)))
		if pages < 1 {
			pages = 1
		}

		return respond.OK(c, fiber.Map{
			"donations":  resp,
			"pagination": PaginationResponse{Total: total, Page: page, Pages: pages},
		})
	}
}

// PUT /api/donations/:id
func UpdateDonationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var donation models.Donation
		if err := database.DB.First(&donation, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Donation not found")
		}

		var body UpdateDonationRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var errs []respond.FieldError
		if body.Status != nil && !body.Status.Valid() {
			errs = append(errs, respond.FieldError{Msg: "Status must be pending, collected or skipped", Param: "status", Location: "body"})
		}
		if body.Amount != nil && *body.Amount < 0 {
			errs = append(errs, respond.FieldError{Msg: "Amount cannot be negative", Param: "amount", Location: "body"})
		}
		if len(errs) > 0 {
			return respond.ValidationFailed(c, errs)
		}

		if body.Status != nil {
			donation.Status = *body.Status
		}
		if body.Amount != nil {
			donation.Amount = *body.Amount
		}
		if body.Notes != nil {
			donation.Notes = *body.Notes
		}
		if donation.Status != models.DonationCollected {
			donation.Amount = 0
		}
		if donation.Status == models.DonationCollected && donation.Amount <= 0 {
			return respond.ValidationFailed(c, []respond.FieldError{
				{Msg: "Amount must be positive for a collected donation", Param: "amount", Location: "body"},
			})
		}

		if err := database.DB.Save(&donation).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update donation")
		}
		database.DB.Preload("Donor").Preload("CollectedBy").First(&donation, donation.ID)

		audit.Write(c, "donation", donation.ID,
			models.AuditActionUpdate,
			fmt.Sprintf("Donation for hundi %s updated to %s", donation.Donor.HundiNo, donation.Status))

		return respond.OK(c, fiber.Map{"donation": NewDonationResponse(&donation)})
	}
}

// DELETE /api/donations/:id
func DeleteDonationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var donation models.Donation
		if err := database.DB.First(&donation, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Donation not found")
		}

		if err := database.DB.Delete(&donation).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete donation")
		}

		audit.Write(c, "donation", donation.ID, models.AuditActionDelete, "Donation deleted")

		return respond.Message(c, "Donation deleted")
	}
}

// GET /api/donations/monthly-status?year=2024&month=6
func MonthlyStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year", 0)
		month := c.QueryInt("month", 0)

		var errs []respond.FieldError
		if year <= 0 {
			errs = append(errs, respond.FieldError{Msg: "Year is required", Param: "year", Location: "query"})
		}
		if month < 1 || month > 12 {
			errs = append(errs, respond.FieldError{Msg: "Month must be between 1 and 12", Param: "month", Location: "query"})
		}
		if len(errs) > 0 {
			return respond.ValidationFailed(c, errs)
		}

		// roster order is registration order; clients re-sort for display
		var donors []models.Donor
		if err := database.DB.Order("created_at ASC").Find(&donors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load donor roster")
		}

		var donations []models.Donation
		if err := database.DB.Preload("Donor").Preload("CollectedBy").
			Where("collection_month = ?", PeriodKey(year, month)).
			Find(&donations).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load donations")
		}

		status := BuildMonthlyStatus(year, month, donors, donations)

		resp := MonthlyStatusResponse{
			Year:        status.Year,
			Month:       status.Month,
			TotalDonors: status.TotalDonors,
			Collected:   status.Collected,
			Pending:     status.Pending,
			Skipped:     status.Skipped,
			TotalAmount: status.TotalAmount,
			Report:      make([]StatusEntryResponse, 0, len(status.Report)),
		}
		for _, entry := range status.Report {
			e := StatusEntryResponse{Donor: entry.Donor, Status: entry.Status}
			if entry.Donation != nil {
				d := NewDonationResponse(entry.Donation)
				e.Donation = &d
			}
			resp.Report = append(resp.Report, e)
		}

		return respond.OK(c, resp)
	}
}

// POST /api/donations/initialize
// Creates a pending placeholder for every donor that has no donation in
// the target period. Safe to call repeatedly.
func InitializeMonthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body InitializeMonthRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
			}
		}

		now := time.Now()
		if body.Year == 0 {
			body.Year = now.Year()
		}
		if body.Month == 0 {
			body.Month = int(now.Month())
		}
		if !ValidPeriod(body.Year, body.Month) {
			return respond.ValidationFailed(c, []respond.FieldError{
				{Msg: "Month must be between 1 and 12", Param: "month", Location: "body"},
			})
		}

		userID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var donors []models.Donor
		if err := database.DB.Order("created_at ASC").Find(&donors).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load donor roster")
		}

		var existing []models.Donation
		if err := database.DB.Select("donor_id", "collection_month").
			Where("collection_month = ?", PeriodKey(body.Year, body.Month)).
			Find(&existing).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not load donations")
		}

		placeholders := PendingPlaceholders(body.Year, body.Month, donors, existing, userID)

		tx := database.DB.Begin()
		for i := range placeholders {
			if err := tx.Create(&placeholders[i]).Error; err != nil {
				tx.Rollback()
				return fiber.NewError(fiber.StatusInternalServerError, "Could not initialize month")
			}
		}
		if err := tx.Commit().Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not initialize month")
		}

		return respond.OK(c, fiber.Map{
			"year":    body.Year,
			"month":   body.Month,
			"created": len(placeholders),
			"skipped": len(donors) - len(placeholders),
		})
	}
}
