// Package httpapp exposes the menu service as a JSON API.
package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cesargomez89/menusync/internal/app"
	"github.com/cesargomez89/menusync/internal/http/dto"
	"github.com/cesargomez89/menusync/internal/logger"
	"github.com/cesargomez89/menusync/internal/store"
)

type Handler struct {
	Menus           *app.MenuService
	Store           store.Store
	DefaultLocation string
	ImagesDir       string
	ImagesURLPrefix string
	Gatherer        prometheus.Gatherer
	Logger          *logger.Logger
}

type Options struct {
	DefaultLocation string
	ImagesDir       string
	ImagesURLPrefix string
	Gatherer        prometheus.Gatherer
}

func NewHandler(menus *app.MenuService, st store.Store, opts Options, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	if opts.ImagesURLPrefix == "" {
		opts.ImagesURLPrefix = "/menu-images/"
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		Menus:           menus,
		Store:           st,
		DefaultLocation: opts.DefaultLocation,
		ImagesDir:       opts.ImagesDir,
		ImagesURLPrefix: opts.ImagesURLPrefix,
		Gatherer:        opts.Gatherer,
		Logger:          log.WithComponent("http"),
	}
}

// NewRouter builds the chi router with the standard middleware stack.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.RegisterRoutes(r)
	return r
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/locations", h.ListLocations)
		r.Get("/menu", h.GetDefaultMenu)
		r.Get("/menu/{location}", h.GetMenu)
		r.Post("/menu/{location}/refresh", h.RefreshMenu)

		r.Post("/admin/locations/{location}/reset", h.ResetLocation)
		r.Post("/admin/cache/clear", h.ClearCache)
	})

	if h.ImagesDir != "" {
		files := http.StripPrefix(h.ImagesURLPrefix, http.FileServer(http.Dir(h.ImagesDir)))
		r.Handle(h.ImagesURLPrefix+"*", files)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeValidation(w http.ResponseWriter, errs []dto.ValidationError) {
	h.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Error:  dto.ToResponse(errs),
		Fields: dto.ToMap(errs),
	})
}

// writeError maps service errors onto status codes.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, app.ErrUnknownLocation) {
		status = http.StatusNotFound
	} else {
		h.Logger.Error("Request failed", "path", r.URL.Path, "error", err)
	}
	h.writeJSON(w, status, dto.ErrorResponse{Error: err.Error()})
}
