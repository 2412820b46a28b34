// Package web serves the dashboard views as HTML pages.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pable/scrimstats/internal/dashboard"
	"github.com/pable/scrimstats/internal/model"
	"github.com/pable/scrimstats/internal/report"
	"github.com/pable/scrimstats/internal/teams"
)

//go:embed templates/*.html
var templateFS embed.FS

type Config struct {
	Source         dashboard.Source
	AllowedOrigins []string
	Logger         *zap.Logger
}

type Handler struct {
	source  dashboard.Source
	origins []string
	logger  *zap.SugaredLogger
	tmpl    *template.Template
}

func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	src := cfg.Source
	if src.Logger == nil {
		src.Logger = logger.Sugar()
	}
	return &Handler{
		source:  src,
		origins: cfg.AllowedOrigins,
		logger:  logger.Sugar(),
		tmpl:    template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

var funcs = template.FuncMap{
	"percent":     report.Percent,
	"keyHeader":   report.KeyHeader,
	"statColumns": report.StatColumns,
	"rowColumns":  report.RowColumns,
	"statCells": func(s model.StatLine, scrim bool) []string {
		return report.StatCells(&s, scrim)
	},
	"rowCells": func(r model.Record, scrim bool) []string {
		return report.RowCells(&r, scrim)
	},
	"rowTable": func(rows []model.Record, scrim bool) rowTable {
		return rowTable{Rows: rows, Scrim: scrim}
	},
	"outcomeClass": outcomeClass,
	"cell": func(m teams.Matrix, row, col string) string {
		return m.Cell(row, col)
	},
	"selected": func(items []string, s string) bool {
		for _, it := range items {
			if it == s {
				return true
			}
		}
		return false
	},
}

// outcomeClass picks the row colour: wins are green, every other row
// (losses and unrecorded results alike) is red.
func outcomeClass(o model.Outcome) string {
	if o == model.OutcomeWin {
		return "win"
	}
	return "loss"
}

type rowTable struct {
	Rows  []model.Record
	Scrim bool
}

// Routes builds the router with the middleware stack.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
		MaxAge:         300,
	}))
	r.Use(h.instrument)

	r.Get("/", h.Index)
	r.Get("/views/{view}", h.View)
	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return gzhttp.GzipHandler(r)
}
