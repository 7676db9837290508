package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventreg/internal/delivery/http/controllers"
	"eventreg/internal/delivery/http/middleware"
	"eventreg/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier, logger)
	admin := middleware.RequireAdmin()

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("POST /events", auth(eventController.CreateEvent))
	mux.HandleFunc("GET /events/{id}", eventController.GetEvent)
	mux.HandleFunc("PATCH /events/{id}", auth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /events/{id}", auth(eventController.DeleteEvent))

	// Registrations
	mux.HandleFunc("POST /events/{id}/register", auth(registrationController.Register))
	mux.HandleFunc("DELETE /events/{id}/register", auth(registrationController.Unregister))
	mux.HandleFunc("GET /events/{id}/registrations", registrationController.ListAttendees)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Users
	mux.HandleFunc("GET /users", auth(admin(userController.ListUsers)))
	mux.HandleFunc("GET /users/me", auth(userController.Me))
	mux.HandleFunc("GET /users/{id}", auth(admin(userController.GetUser)))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
