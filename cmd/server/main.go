package main

import (
	"log"
	"strings"

	"hundi-backend/internal/audit"
	"hundi-backend/internal/auth"
	"hundi-backend/internal/config"
	"hundi-backend/internal/database"
	"hundi-backend/internal/donation"
	"hundi-backend/internal/donor"
	"hundi-backend/internal/group"
	"hundi-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"success": false,
					"message": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Something went wrong, please try again",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register", auth.RegisterHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/profile", auth.ProfileHandler())

	// Donors
	protected.Post("/donors", donor.CreateDonorHandler())
	protected.Get("/donors", donor.ListDonorsHandler())
	protected.Get("/donors/location", donor.DonorsByLocationHandler())
	protected.Get("/donors/:id", donor.GetDonorHandler())
	protected.Put("/donors/:id", donor.UpdateDonorHandler())
	protected.Delete("/donors/:id", auth.RequireRole(models.RoleAdmin), donor.DeleteDonorHandler())

	// Donations
	protected.Post("/donations", donation.CreateDonationHandler())
	protected.Get("/donations", donation.ListDonationsHandler())
	protected.Get("/donations/monthly-status", donation.MonthlyStatusHandler())
	protected.Post("/donations/initialize", donation.InitializeMonthHandler())
	protected.Put("/donations/:id", donation.UpdateDonationHandler())
	protected.Delete("/donations/:id", auth.RequireRole(models.RoleAdmin), donation.DeleteDonationHandler())

	// Groups
	protected.Post("/groups", group.CreateGroupHandler())
	protected.Get("/groups", group.ListGroupsHandler())
	protected.Get("/groups/:id", group.GetGroupHandler())
	protected.Put("/groups/:id", group.UpdateGroupHandler())
	protected.Delete("/groups/:id", auth.RequireRole(models.RoleAdmin), group.DeleteGroupHandler())
	protected.Post("/groups/:id/assign", group.AssignDonorsHandler())

	// Audit trail
	protected.Get("/audit-logs", auth.RequireRole(models.RoleAdmin), audit.ListAuditLogsHandler())

	log.Println("Server listening on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
