package donor

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Validation-only paths, no database behind them.

func validationTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/donors", CreateDonorHandler())
	app.Get("/donors/location", DonorsByLocationHandler())
	return app
}

func TestCreateDonorHandlerValidation(t *testing.T) {
	app := validationTestApp()

	tests := []struct {
		name      string
		body      string
		wantParam string
	}{
		{"empty body", `{}`, "hundiNo"},
		{"missing name", `{"hundiNo":"H-1","mobileNumber":"9","address":"x","date":"2024-01-05","location":{"type":"Point","coordinates":[72.8,18.9]}}`, "name"},
		{"bad date", `{"hundiNo":"H-1","name":"A","mobileNumber":"9","address":"x","date":"05-01-2024","location":{"type":"Point","coordinates":[72.8,18.9]}}`, "date"},
		{"missing location", `{"hundiNo":"H-1","name":"A","mobileNumber":"9","address":"x","date":"2024-01-05"}`, "location"},
		{"short coordinates", `{"hundiNo":"H-1","name":"A","mobileNumber":"9","address":"x","date":"2024-01-05","location":{"type":"Point","coordinates":[72.8]}}`, "location"},
		{"out of range coordinates", `{"hundiNo":"H-1","name":"A","mobileNumber":"9","address":"x","date":"2024-01-05","location":{"type":"Point","coordinates":[472.8,18.9]}}`, "location"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/donors", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var envelope map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
			errs, ok := envelope["errors"].([]interface{})
			require.True(t, ok)

			found := false
			for _, e := range errs {
				fieldErr := e.(map[string]interface{})
				if fieldErr["param"] == tt.wantParam {
					found = true
				}
			}
			assert.True(t, found, "expected a validation error on %q", tt.wantParam)
		})
	}
}

func TestDonorsByLocationHandlerValidation(t *testing.T) {
	app := validationTestApp()

	tests := []struct {
		name  string
		query string
	}{
		{"missing coordinates", ""},
		{"longitude out of range", "longitude=200&latitude=18.9"},
		{"latitude out of range", "longitude=72.8&latitude=95"},
		{"negative radius", "longitude=72.8&latitude=18.9&radius=-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/donors/location?"+tt.query, nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}
