package controllers

import (
	"log/slog"
	"net/http"

	h "eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"

	"github.com/swaggo/swag"
)

// SeedResponse is the response body for GET /seed
type SeedResponse struct {
	Message string       `json:"message"`
	Admin   *domain.User `json:"admin,omitempty"`
}

// SeedSuccessResponse is the success response envelope for GET /seed (200).
type SeedSuccessResponse struct {
	Data  SeedResponse `json:"data"`
	Error *h.APIError  `json:"error"`
}

// SystemController serves the admin bootstrap and the API document.
type SystemController struct {
	Logger  *slog.Logger
	Service domain.AccountService
	// ReadDoc returns the registered OpenAPI document.
	ReadDoc func() (string, error)
}

func NewSystemController(logger *slog.Logger, svc domain.AccountService) *SystemController {
	return &SystemController{
		Logger:  logger,
		Service: svc,
		ReadDoc: func() (string, error) { return swag.ReadDoc() },
	}
}

// Seed godoc
// @Summary Seed the admin account
// @Description Creates a verified ADMIN from the configured credentials when no ADMIN exists. Safe to call repeatedly.
// @Tags system
// @Produce json
// @Success 200 {object} controllers.SeedSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /seed [get]
func (c *SystemController) Seed(w http.ResponseWriter, r *http.Request) {
	admin, created, err := c.Service.Seed(r.Context())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if !created {
		h.WriteJSONSuccess(w, http.StatusOK, SeedResponse{Message: "Admin user already exists"})
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, SeedResponse{Message: "Database seeded successfully", Admin: admin})
}

// Docs godoc
// @Summary API document
// @Description Returns the OpenAPI document listing every endpoint.
// @Tags system
// @Produce json
// @Success 200 {object} object
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /docs [get]
func (c *SystemController) Docs(w http.ResponseWriter, r *http.Request) {
	doc, err := c.ReadDoc()
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
