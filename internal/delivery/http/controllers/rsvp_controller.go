package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "guestlist/internal/delivery/http/helpers"
	"guestlist/internal/domain"
)

// RSVPController serves the unauthenticated guest-facing endpoints:
// resolving an invitation by token, submitting a response, public
// self-service sign-up, and event stats.
type RSVPController struct {
	Logger       *slog.Logger
	Reservations domain.ReservationService
	Intake       domain.PublicIntakeService
}

func NewRSVPController(logger *slog.Logger, reservations domain.ReservationService, intake domain.PublicIntakeService) *RSVPController {
	return &RSVPController{
		Logger:       logger,
		Reservations: reservations,
		Intake:       intake,
	}
}

// Resolve godoc
// @Summary Resolve an invitation by token
// @Description Loads the invitation behind an RSVP link and marks it visited.
// @Tags rsvp
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} helpers.APIResponse "data contains the invitation"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/{token} [get]
func (c *RSVPController) Resolve(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing token")
		return
	}
	inv, err := c.Reservations.ResolveByToken(r.Context(), token)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, inv)
}

// SubmitRSVPRequest is the request body for POST /rsvp/{token}.
type SubmitRSVPRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// Validate implements helpers.Validator.
func (s SubmitRSVPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	status := domain.Status(strings.TrimSpace(strings.ToLower(s.Status)))
	if status != domain.StatusConfirmed && status != domain.StatusDeclining {
		errs = append(errs, `status must be "confirmed" or "declining"`)
	}
	return errs
}

// Submit godoc
// @Summary Submit an RSVP
// @Description Records the guest's response. A confirmation against a full event results in a waitlisted invitation; the response carries the resulting status.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param token path string true "Invitation token"
// @Param body body SubmitRSVPRequest true "RSVP data"
// @Success 200 {object} helpers.APIResponse "data contains the updated invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: temporarily_unavailable"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/{token} [post]
func (c *RSVPController) Submit(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing token")
		return
	}
	var req SubmitRSVPRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	requested := domain.Status(strings.TrimSpace(strings.ToLower(req.Status)))
	inv, err := c.Reservations.SubmitRSVP(r.Context(), token, req.Name, req.Email, requested)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, inv)
}

// PublicIntakeRequest is the request body for POST /events/{eventID}/rsvps.
type PublicIntakeRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate implements helpers.Validator.
func (p PublicIntakeRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(strings.ToLower(p.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// PublicIntake godoc
// @Summary Self-service RSVP sign-up
// @Description Creates a new invitation for a guest without a pre-issued link. Rejects duplicates when the email already holds an active RSVP for the event.
// @Tags rsvp
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param body body PublicIntakeRequest true "Guest data"
// @Success 201 {object} helpers.APIResponse "data contains the created invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate active RSVP)"
// @Failure 503 {object} helpers.APIResponse "error.code: temporarily_unavailable"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [post]
func (c *RSVPController) PublicIntake(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req PublicIntakeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Intake.SubmitPublicIntake(r.Context(), eventID, req.Name, req.Email)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, inv)
}

// Stats godoc
// @Summary Event RSVP stats
// @Description Returns confirmed, pending, declining, and waitlisted counts plus seat availability.
// @Tags rsvp
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event stats"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/stats [get]
func (c *RSVPController) Stats(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return
	}
	stats, err := c.Reservations.GetEventStats(r.Context(), eventID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, stats)
}
