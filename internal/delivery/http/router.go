package http

import (
	"log/slog"
	"net/http"

	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth        *controllers.AuthController
	Users       *controllers.UserController
	Events      *controllers.EventController
	Participant *controllers.ParticipantController
	System      *controllers.SystemController
}

// NewRouter initializes the HTTP router with all application routes.
// Protected routes are gated by the role policy for their action.
func NewRouter(logger *slog.Logger, verifier domain.TokenVerifier, c Controllers) *http.ServeMux {
	mux := http.NewServeMux()
	require := func(action domain.Action, next http.HandlerFunc) http.HandlerFunc {
		return middleware.RequireAction(verifier, logger, action)(next)
	}

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/verify", c.Auth.Verify)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Users
	mux.HandleFunc("GET /users", require(domain.ActionListUsers, c.Users.List))
	mux.HandleFunc("GET /users/{id}", require(domain.ActionViewUser, c.Users.Get))
	mux.HandleFunc("PUT /users/{id}", require(domain.ActionUpdateUser, c.Users.Update))
	mux.HandleFunc("DELETE /users/{id}", require(domain.ActionDeleteUser, c.Users.Delete))

	// Events
	mux.HandleFunc("GET /events", require(domain.ActionListEvents, c.Events.List))
	mux.HandleFunc("POST /events", require(domain.ActionCreateEvent, c.Events.Create))
	mux.HandleFunc("GET /events/{id}", require(domain.ActionViewEvent, c.Events.Get))
	mux.HandleFunc("PUT /events/{id}", require(domain.ActionUpdateEvent, c.Events.Update))
	mux.HandleFunc("DELETE /events/{id}", require(domain.ActionDeleteEvent, c.Events.Delete))

	// Participants
	mux.HandleFunc("POST /events/{id}/participants", require(domain.ActionManageParticipants, c.Participant.Add))
	mux.HandleFunc("PUT /events/{id}/participants/{userId}", require(domain.ActionManageParticipants, c.Participant.UpdateStatus))
	mux.HandleFunc("DELETE /events/{id}/participants/{userId}", require(domain.ActionManageParticipants, c.Participant.Remove))

	// System
	mux.HandleFunc("GET /seed", c.System.Seed)
	mux.HandleFunc("GET /docs", c.System.Docs)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewHandler wraps the router with the cross-cutting middleware, outermost first:
// correlation ID, access logging, CORS.
func NewHandler(logger *slog.Logger, allowedOrigins []string, router http.Handler) http.Handler {
	return middleware.CorrelationID(middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, router)))
}
