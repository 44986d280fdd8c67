package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "guestlist/internal/delivery/http/helpers"
	"guestlist/internal/delivery/http/middleware"
	"guestlist/internal/domain"
)

// HostController serves the authenticated host endpoints: event CRUD,
// guest-list management, and waitlist disposition.
type HostController struct {
	Logger   *slog.Logger
	Events   domain.EventService
	Waitlist domain.WaitlistService
}

func NewHostController(logger *slog.Logger, events domain.EventService, waitlist domain.WaitlistService) *HostController {
	return &HostController{
		Logger:   logger,
		Events:   events,
		Waitlist: waitlist,
	}
}

// CreateEventRequest is the request body for POST /host/events.
type CreateEventRequest struct {
	Name        string              `json:"name"`
	SeatLimit   int                 `json:"seat_limit"`
	Date        *time.Time          `json:"date,omitempty"`
	Description *string             `json:"description,omitempty"`
	Guests      []domain.GuestInput `json:"guests,omitempty"`
}

// Validate implements helpers.Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	for _, g := range c.Guests {
		email := strings.TrimSpace(strings.ToLower(g.Email))
		if email == "" || !emailRegexp.MatchString(email) {
			errs = append(errs, "guest email "+g.Email+" is invalid")
		}
	}
	return errs
}

// CreateEventResponse bundles the created event with its issued invitations.
type CreateEventResponse struct {
	Event       *domain.Event        `json:"event"`
	Invitations []*domain.Invitation `json:"invitations"`
}

// CreateEvent godoc
// @Summary Create an event with a guest list
// @Description Creates the event and issues a pending invitation (with an RSVP email) for each guest. seat_limit <= 0 means unlimited capacity.
// @Tags host
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the event and invitations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /host/events [post]
func (c *HostController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event := domain.NewEvent(hostID, req.Name, req.SeatLimit, time.Now(), time.Now())
	event.Date = req.Date
	event.Description = req.Description

	created, invs, err := c.Events.CreateEvent(r.Context(), event, req.Guests)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, CreateEventResponse{Event: created, Invitations: invs})
}

// ListEvents godoc
// @Summary List the host's events
// @Tags host
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the host's events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /host/events [get]
func (c *HostController) ListEvents(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Events.ListEventsByHost(r.Context(), hostID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get one of the host's events
// @Tags host
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /host/events/{eventID} [get]
func (c *HostController) GetEvent(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Events.GetEvent(r.Context(), r.PathValue("eventID"), hostID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateEventRequest is the request body for PATCH /host/events/{eventID}.
// Only the fields present are changed. Lowering seat_limit below the current
// confirmed count is allowed; already-confirmed guests keep their seats.
type UpdateEventRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Description *string    `json:"description,omitempty"`
	SeatLimit   *int       `json:"seat_limit,omitempty"`
}

// Validate implements helpers.Validator.
func (u UpdateEventRequest) Validate() []string {
	if u.Date == nil && u.Description == nil && u.SeatLimit == nil {
		return []string{"at least one field must be provided"}
	}
	return nil
}

// UpdateEvent godoc
// @Summary Update an event
// @Tags host
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /host/events/{eventID} [patch]
func (c *HostController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Events.UpdateEvent(r.Context(), r.PathValue("eventID"), hostID, req.Date, req.Description, req.SeatLimit)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Removes the event along with its invitations and email log.
// @Tags host
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /host/events/{eventID} [delete]
func (c *HostController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Events.DeleteEvent(r.Context(), r.PathValue("eventID"), hostID); err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddGuestsRequest is the request body for POST /host/events/{eventID}/invitations.
type AddGuestsRequest struct {
	Guests []domain.GuestInput `json:"guests"`
}

// Validate implements helpers.Validator.
func (a AddGuestsRequest) Validate() []string {
	if len(a.Guests) == 0 {
		return []string{"guests is required"}
	}
	var errs []string
	for _, g := range a.Guests {
		email := strings.TrimSpace(strings.ToLower(g.Email))
		if email == "" || !emailRegexp.MatchString(email) {
			errs = append(errs, "guest email "+g.Email+" is invalid")
		}
	}
	return errs
}

// AddGuestsResponse reports the created invitations and any skipped emails.
type AddGuestsResponse struct {
	Invitations []*domain.Invitation `json:"invitations"`
	Failed      []string             `json:"failed,omitempty"`
}

// AddGuests godoc
// @Summary Invite additional guests to an event
// @Tags host
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body AddGuestsRequest true "Guests to invite"
// @Success 201 {object} helpers.APIResponse "data contains the created invitations"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /host/events/{eventID}/invitations [post]
func (c *HostController) AddGuests(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req AddGuestsRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	invs, failed, err := c.Events.AddGuests(r.Context(), r.PathValue("eventID"), hostID, req.Guests)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, AddGuestsResponse{Invitations: invs, Failed: failed})
}

// InvitationListResponse is the paginated invitation list payload.
type InvitationListResponse struct {
	Invitations []*domain.Invitation `json:"invitations"`
	Pagination  h.PaginationMeta     `json:"pagination"`
}

// ListInvitations godoc
// @Summary List an event's invitations
// @Description Paginated; supports a search filter over guest name and email.
// @Tags host
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param search query string false "Filter by guest name or email"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains invitations and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /host/events/{eventID}/invitations [get]
func (c *HostController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := h.ParsePagination(r)
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	invs, total, err := c.Events.ListInvitations(r.Context(), r.PathValue("eventID"), hostID, search, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, InvitationListResponse{
		Invitations: invs,
		Pagination:  h.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// PromoteRequest is the request body for POST /host/invitations/{invitationID}/promote.
type PromoteRequest struct {
	EventID string `json:"event_id"`
}

// Validate implements helpers.Validator.
func (p PromoteRequest) Validate() []string {
	if strings.TrimSpace(p.EventID) == "" {
		return []string{"event_id is required"}
	}
	return nil
}

// Promote godoc
// @Summary Promote a waitlisted invitation
// @Description Confirms a waitlisted guest if a seat is available. A full event is a 409, not a silent re-waitlist.
// @Tags host
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Param body body PromoteRequest true "Event reference"
// @Success 200 {object} helpers.APIResponse "data contains the promoted invitation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not waitlisted, or event full)"
// @Failure 503 {object} helpers.APIResponse "error.code: temporarily_unavailable"
// @Router /host/invitations/{invitationID}/promote [post]
func (c *HostController) Promote(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req PromoteRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	inv, err := c.Waitlist.Promote(r.Context(), r.PathValue("invitationID"), req.EventID, hostID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, inv)
}

// DeclineWaitlisted godoc
// @Summary Decline a waitlisted invitation
// @Description Moves a waitlisted guest to declining. Never touches the confirmed counter.
// @Tags host
// @Produce json
// @Security BearerAuth
// @Param invitationID path string true "Invitation ID"
// @Success 200 {object} helpers.APIResponse "data contains the declined invitation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not waitlisted)"
// @Router /host/invitations/{invitationID}/decline [post]
func (c *HostController) DeclineWaitlisted(w http.ResponseWriter, r *http.Request) {
	hostID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	inv, err := c.Waitlist.Decline(r.Context(), r.PathValue("invitationID"), hostID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, inv)
}
