package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"sharedliving/internal/delivery/http/controllers"
	"sharedliving/internal/delivery/http/middleware"
	"sharedliving/internal/domain"
)

// RouterConfig carries the controllers and collaborators the router wires together.
type RouterConfig struct {
	Auth           *controllers.AuthController
	Invitations    *controllers.InvitationController
	Members        *controllers.MembershipController
	Verifier       domain.TokenVerifier
	Logger         *slog.Logger
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes and the
// recover, logging and CORS middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)

	// Auth
	mux.HandleFunc("POST /auth/login", cfg.Auth.Login)

	// Invitations
	mux.HandleFunc("POST /households/{householdID}/invitations", auth(cfg.Invitations.CreateInvitation))
	mux.HandleFunc("GET /households/{householdID}/invitations", auth(cfg.Invitations.ListInvitations))
	mux.HandleFunc("GET /invitations/{token}", cfg.Invitations.GetInvitation)
	mux.HandleFunc("POST /invitations/{token}/respond", auth(cfg.Invitations.RespondToInvitation))

	// Members
	mux.HandleFunc("GET /households/{householdID}/members", auth(cfg.Members.ListMembers))
	mux.HandleFunc("POST /households/{householdID}/members", auth(cfg.Members.AddMember))
	mux.HandleFunc("PATCH /households/{householdID}/members/{userID}", auth(cfg.Members.UpdateRole))
	mux.HandleFunc("DELETE /households/{householdID}/members/{userID}", auth(cfg.Members.RemoveMember))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	return middleware.Recover(cfg.Logger, handler)
}
