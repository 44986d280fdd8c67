package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"guestlist/internal/delivery/http/controllers"
	"guestlist/internal/delivery/http/middleware"
	"guestlist/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Guest-facing routes are public; /host routes require a Bearer token.
func NewRouter(
	authController *controllers.AuthController,
	rsvpController *controllers.RSVPController,
	hostController *controllers.HostController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Guest-facing RSVP routes (no auth, token in the URL)
	mux.HandleFunc("GET /rsvp/{token}", rsvpController.Resolve)
	mux.HandleFunc("POST /rsvp/{token}", rsvpController.Submit)
	mux.HandleFunc("POST /events/{eventID}/rsvps", rsvpController.PublicIntake)
	mux.HandleFunc("GET /events/{eventID}/stats", rsvpController.Stats)

	// Host routes
	mux.HandleFunc("POST /host/events", requireAuth(hostController.CreateEvent))
	mux.HandleFunc("GET /host/events", requireAuth(hostController.ListEvents))
	mux.HandleFunc("GET /host/events/{eventID}", requireAuth(hostController.GetEvent))
	mux.HandleFunc("PATCH /host/events/{eventID}", requireAuth(hostController.UpdateEvent))
	mux.HandleFunc("DELETE /host/events/{eventID}", requireAuth(hostController.DeleteEvent))
	mux.HandleFunc("POST /host/events/{eventID}/invitations", requireAuth(hostController.AddGuests))
	mux.HandleFunc("GET /host/events/{eventID}/invitations", requireAuth(hostController.ListInvitations))
	mux.HandleFunc("POST /host/invitations/{invitationID}/promote", requireAuth(hostController.Promote))
	mux.HandleFunc("POST /host/invitations/{invitationID}/decline", requireAuth(hostController.DeclineWaitlisted))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
