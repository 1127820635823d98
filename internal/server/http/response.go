package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/dmitrijs2005/stockwatch/internal/server/prices"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"signup.html", "login.html", "dashboard.html", "error.html"}

const msgInternal = "Something went wrong. Please try again."

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return prices.FormatMoney(d) },
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}
	return pages, nil
}

type pageData struct {
	Title         string
	Notice        *notice
	Authenticated bool
	Email         string
	Next          string
	Errors        map[string]string
	Error         string
	Rows          []stockRow
}

type stockRow struct {
	Ticker     string
	Name       string
	BasePrice  decimal.Decimal
	Subscribed bool
}

// render writes a full page. Output is buffered so a template error still
// yields a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	data.Notice = h.popNotice(w, r)
	if _, ok := sessionFromContext(r.Context()); ok {
		data.Authenticated = true
	}

	t, ok := h.pages[page]
	if !ok {
		h.logger.Error(r.Context(), "unknown page", "page", page)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		h.logger.Error(r.Context(), "render failed", "page", page, "error", err)
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "error.html", &pageData{Title: http.StatusText(status), Error: message})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
