package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"
)

// AddParticipantRequest is the request body for POST /events/{id}/participants
type AddParticipantRequest struct {
	UserID string                   `json:"userId"`
	Status domain.ParticipantStatus `json:"status"`
}

// Validate implements Validator.
func (a AddParticipantRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.UserID) == "" {
		errs = append(errs, "userId is required")
	}
	if a.Status != "" && !a.Status.Valid() {
		errs = append(errs, "status must be one of PENDING, CONFIRMED, DECLINED")
	}
	return errs
}

// UpdateParticipantRequest is the request body for PUT /events/{id}/participants/{userId}
type UpdateParticipantRequest struct {
	Status domain.ParticipantStatus `json:"status"`
}

// Validate implements Validator.
func (u UpdateParticipantRequest) Validate() []string {
	if !u.Status.Valid() {
		return []string{"status must be one of PENDING, CONFIRMED, DECLINED"}
	}
	return nil
}

// ParticipantSuccessResponse is the success response envelope for participant endpoints.
type ParticipantSuccessResponse struct {
	Data  *domain.Participant `json:"data"`
	Error *h.APIError         `json:"error"`
}

// ParticipantController manages the participants of an event.
type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.ParticipantService
}

func NewParticipantController(logger *slog.Logger, svc domain.ParticipantService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// Add godoc
// @Summary Add a participant
// @Description Adds an existing user to an existing event. Status defaults to PENDING. Requires ADMIN or ORGANIZER.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body AddParticipantRequest true "Participant"
// @Success 201 {object} controllers.ParticipantSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/participants [post]
func (c *ParticipantController) Add(w http.ResponseWriter, r *http.Request) {
	var req AddParticipantRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Service.Add(r.Context(), r.PathValue("id"), strings.TrimSpace(req.UserID), req.Status)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, p)
}

// UpdateStatus godoc
// @Summary Update a participant's status
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param userId path string true "User ID"
// @Param body body UpdateParticipantRequest true "New status"
// @Success 200 {object} controllers.ParticipantSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/participants/{userId} [put]
func (c *ParticipantController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateParticipantRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Service.UpdateStatus(r.Context(), r.PathValue("id"), r.PathValue("userId"), req.Status)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, p)
}

// Remove godoc
// @Summary Remove a participant
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param userId path string true "User ID"
// @Success 200 {object} controllers.MessageSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/participants/{userId} [delete]
func (c *ParticipantController) Remove(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Remove(r.Context(), r.PathValue("id"), r.PathValue("userId")); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "Participant removed successfully"})
}
