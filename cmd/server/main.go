package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"guestlist/config"
	"guestlist/internal/adapters/auth"
	"guestlist/internal/adapters/email"
	httpdelivery "guestlist/internal/delivery/http"
	"guestlist/internal/delivery/http/controllers"
	"guestlist/internal/delivery/http/middleware"
	"guestlist/internal/repository/postgres"
	"guestlist/internal/services"
)

// @title Guestlist API
// @version 1.0
// @description Event invitations, RSVP, and waitlist management.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)
	emailLogRepo := postgres.NewEmailLogRepository(db)
	reservationStore := postgres.NewReservationStore(db)

	// Adapters
	hasher := auth.NewBcryptHasher(0)
	tokenIssuer := auth.NewJWTIssuer(cfg.JWTSecret)
	tokenVerifier := auth.NewJWTVerifier(cfg.JWTSecret)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	// Services
	dispatcher := services.NewDispatcher(mailer, renderer, emailLogRepo, logger, cfg.RSVPBaseURL, cfg.Email.SendTimeout)
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.JWTExpiry)
	eventService := services.NewEventService(eventRepo, invitationRepo, dispatcher, cfg.ContextTimeout)
	reservationService := services.NewReservationService(reservationStore, invitationRepo, eventRepo, dispatcher, cfg.ContextTimeout)
	intakeService := services.NewIntakeService(reservationStore, dispatcher, cfg.ContextTimeout)
	waitlistService := services.NewWaitlistService(reservationStore, dispatcher, cfg.ContextTimeout)

	// Controllers
	authController := controllers.NewAuthController(logger, authService)
	rsvpController := controllers.NewRSVPController(logger, reservationService, intakeService)
	hostController := controllers.NewHostController(logger, eventService, waitlistService)

	mux := httpdelivery.NewRouter(authController, rsvpController, hostController, tokenVerifier, logger)

	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.AllowedOrigins, handler)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}

	// Let in-flight notification emails finish before exiting.
	dispatcher.Wait()
	logger.Info("server stopped")
}
