package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/stockwatch/internal/common"
	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/dmitrijs2005/stockwatch/internal/server/prices"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) showDashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())

	view, err := h.dashboard.Dashboard(r.Context(), session.UserID)
	if err != nil {
		h.logger.Error(r.Context(), "dashboard failed", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}

	rows := make([]stockRow, len(view.Stocks))
	for i, s := range view.Stocks {
		rows[i] = stockRow{
			Ticker:     s.Ticker,
			Name:       s.Name,
			BasePrice:  decimal.NewFromFloat(prices.BasePrice(s.Ticker)),
			Subscribed: view.IsSubscribed(s.Ticker),
		}
	}

	h.render(w, r, http.StatusOK, "dashboard.html", &pageData{Title: "Dashboard", Rows: rows})
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())
	ticker := chi.URLParam(r, "ticker")

	outcome, err := h.dashboard.Toggle(r.Context(), session.UserID, ticker)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.renderError(w, r, http.StatusNotFound, fmt.Sprintf("Unknown ticker %q.", ticker))
			return
		}
		h.logger.Error(r.Context(), "toggle failed", "ticker", ticker, "error", err)
		h.renderError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}

	switch outcome {
	case models.Subscribed:
		h.setNotice(w, levelSuccess, fmt.Sprintf("Subscribed to %s.", ticker))
	case models.Unsubscribed:
		h.setNotice(w, levelInfo, fmt.Sprintf("Unsubscribed from %s.", ticker))
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// apiPrices returns {ticker: price} for the caller's subscriptions. Prices
// are encoded as JSON numbers with two decimals.
func (h *Handler) apiPrices(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())

	snap, err := h.dashboard.PriceSnapshot(r.Context(), session.UserID)
	if err != nil {
		h.logger.Error(r.Context(), "price snapshot failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	out := make(map[string]json.Number, len(snap))
	for ticker, p := range snap {
		out[ticker] = json.Number(p.StringFixed(2))
	}
	writeJSON(w, http.StatusOK, out)
}
