package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/stockwatch/internal/common"
	"github.com/dmitrijs2005/stockwatch/internal/server/services"
)

const (
	msgAccountCreated     = "Account created successfully. Please log in."
	msgInvalidCredentials = "Invalid email or password."
)

func (h *Handler) signupForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "signup.html", &pageData{Title: "Sign up"})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))

	_, err := h.accounts.Register(r.Context(), email, r.PostForm.Get("password"), r.PostForm.Get("confirm_password"))
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			h.render(w, r, http.StatusUnprocessableEntity, "signup.html", &pageData{
				Title:  "Sign up",
				Email:  email,
				Errors: verr.Fields,
			})
			return
		}
		h.logger.Error(r.Context(), "signup failed", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}

	h.logger.Info(r.Context(), "user registered", "email", email)
	h.setNotice(w, levelSuccess, msgAccountCreated)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", &pageData{
		Title: "Log in",
		Next:  safeNext(r.URL.Query().Get("next")),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	next := safeNext(r.PostForm.Get("next"))

	res, err := h.accounts.Authenticate(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			h.render(w, r, http.StatusUnauthorized, "login.html", &pageData{
				Title: "Log in",
				Email: email,
				Next:  next,
				Error: msgInvalidCredentials,
			})
			return
		}
		h.logger.Error(r.Context(), "login failed", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}

	h.setSessionCookie(w, res.Token, res.Session.Expires)
	if next == "" {
		next = "/dashboard"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(common.SessionCookieName); err == nil {
		if err := h.accounts.Logout(r.Context(), c.Value); err != nil {
			h.logger.Warn(r.Context(), "logout failed", "error", err)
		}
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// safeNext keeps only same-site absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
