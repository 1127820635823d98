// Package http serves the dashboard web interface: signup and login pages,
// the stock list with subscription toggles, and the polled price endpoint.
package http

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/stockwatch/internal/logging"
	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/dmitrijs2005/stockwatch/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Accounts is the account lifecycle the handlers depend on.
type Accounts interface {
	Register(ctx context.Context, email, password, confirmPassword string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*services.LoginResult, error)
	ResolveSession(ctx context.Context, token string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
}

// Dashboard is the per-user stock view the handlers depend on.
type Dashboard interface {
	Dashboard(ctx context.Context, userID string) (*services.DashboardView, error)
	Toggle(ctx context.Context, userID, ticker string) (models.ToggleOutcome, error)
	PriceSnapshot(ctx context.Context, userID string) (map[string]decimal.Decimal, error)
}

// Handler holds the dependencies shared by all routes.
type Handler struct {
	accounts      Accounts
	dashboard     Dashboard
	logger        logging.Logger
	pages         map[string]*template.Template
	secureCookies bool
}

// NewHandler parses the embedded page templates and binds the services.
func NewHandler(accounts Accounts, dashboard Dashboard, logger logging.Logger, secureCookies bool) (*Handler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{
		accounts:      accounts,
		dashboard:     dashboard,
		logger:        logger.With("module", "http"),
		pages:         pages,
		secureCookies: secureCookies,
	}, nil
}

// NewRouter registers routes and the middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.recoverMiddleware)
	r.Use(h.loggingMiddleware)

	r.Get("/healthz", h.healthz)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.redirectAuthenticated)
		r.Get("/signup", h.signupForm)
		r.Post("/signup", h.signup)
		r.Get("/login", h.loginForm)
		r.Post("/login", h.login)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Get("/logout", h.logout)
		r.Post("/logout", h.logout)
		r.Get("/dashboard", h.showDashboard)
		r.Get("/toggle/{ticker}", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		})
		r.Post("/toggle/{ticker}", h.toggle)
		r.Get("/api/prices", h.apiPrices)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, r, http.StatusNotFound, "Page not found.")
	})

	return r
}
