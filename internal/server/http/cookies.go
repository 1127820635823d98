package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/stockwatch/internal/common"
)

// Notice levels, used as CSS classes on the page.
const (
	levelSuccess = "success"
	levelInfo    = "info"
	levelError   = "error"
)

type notice struct {
	Level   string
	Message string
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// setNotice stores a one-shot message for the next rendered page.
func (h *Handler) setNotice(w http.ResponseWriter, level, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.NoticeCookieName,
		Value:    url.QueryEscape(level + ":" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// popNotice reads the pending notice, if any, and expires the cookie.
func (h *Handler) popNotice(w http.ResponseWriter, r *http.Request) *notice {
	c, err := r.Cookie(common.NoticeCookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: common.NoticeCookieName, Value: "", Path: "/", MaxAge: -1})

	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	level, message, ok := strings.Cut(raw, ":")
	if !ok || message == "" {
		return nil
	}
	switch level {
	case levelSuccess, levelInfo, levelError:
	default:
		return nil
	}
	return &notice{Level: level, Message: message}
}
