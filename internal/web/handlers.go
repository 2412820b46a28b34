package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pable/scrimstats/internal/dashboard"
	"github.com/pable/scrimstats/internal/filter"
	"github.com/pable/scrimstats/internal/model"
)

// noDataMessage is shown in place of a table when the filters leave nothing.
const noDataMessage = "선택한 조건에 해당하는 데이터가 없습니다."

type pageData struct {
	Title   string
	Scrim   bool
	Menu    []dashboard.MenuItem
	Options filter.Options
	Filter  filter.Filter
	Page    *dashboard.Page
	Query   template.URL // current query string, carried over by the menu links
	Message string
}

type errorData struct {
	Status  int
	Message string
}

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Index redirects to the first view of the loaded variant.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess, err := h.source.Open(filter.Filter{})
	if err != nil {
		h.logger.Errorw("Failed to load data", "error", err)
		h.errorPage(w, http.StatusInternalServerError, err.Error())
		return
	}
	target := "/views/" + string(dashboard.DefaultView(sess.Data.Variant))
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// View renders one dashboard view. The data file is reloaded on every request.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	view, ok := dashboard.ParseView(chi.URLParam(r, "view"))
	if !ok {
		h.errorPage(w, http.StatusNotFound, "알 수 없는 보기입니다: "+chi.URLParam(r, "view"))
		return
	}

	q := r.URL.Query()
	sess, err := h.source.Open(parseFilter(q))
	if err != nil {
		h.logger.Errorw("Failed to load data", "error", err, "view", view)
		h.errorPage(w, http.StatusInternalServerError, err.Error())
		return
	}

	match, _ := strconv.Atoi(q.Get("match"))
	page, err := sess.Render(dashboard.Request{
		View:   view,
		Player: q.Get("player"),
		Map:    q.Get("map"),
		Match:  match,
	})
	data := pageData{
		Title:   view.Title(),
		Scrim:   sess.Data.Variant == model.VariantScrim,
		Menu:    dashboard.Menu(sess.Data.Variant),
		Options: sess.Options,
		Filter:  sess.Filter,
		Page:    page,
		Query:   template.URL(r.URL.RawQuery),
	}
	switch {
	case errors.Is(err, dashboard.ErrNoData):
		data.Message = noDataMessage
	case errors.Is(err, dashboard.ErrUnknownView):
		h.errorPage(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		h.logger.Errorw("Failed to render view", "error", err, "view", view)
		h.errorPage(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.render(w, http.StatusOK, "page", data)
}

// parseFilter reads the sidebar selections. Without the "f" marker the form
// was never submitted and every selection keeps its default.
func parseFilter(q url.Values) filter.Filter {
	if !q.Has("f") {
		return filter.Filter{}
	}
	get := func(key string) []string {
		if v := q[key]; v != nil {
			return v
		}
		return []string{}
	}
	return filter.Filter{
		Tiers: get("tier"),
		Roles: get("role"),
		Maps:  get("map_filter"),
		Teams: get("team"),
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Errorw("Failed to execute template", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *Handler) errorPage(w http.ResponseWriter, status int, message string) {
	h.render(w, status, "error", errorData{Status: status, Message: message})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
