package httpapp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cesargomez89/menusync/internal/http/dto"
)

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if d, ok := h.Store.(interface{ Degraded() bool }); ok && d.Degraded() {
		status = "degraded"
	}
	h.writeJSON(w, http.StatusOK, dto.HealthResponse{Status: status})
}

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, dto.NewLocationResponses(h.Menus.Locations(), h.DefaultLocation))
}

func (h *Handler) GetDefaultMenu(w http.ResponseWriter, r *http.Request) {
	h.serveMenu(w, r, h.DefaultLocation)
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	h.serveMenu(w, r, dto.NormalizeLocation(chi.URLParam(r, "location")))
}

func (h *Handler) serveMenu(w http.ResponseWriter, r *http.Request, location string) {
	req := dto.MenuRequest{Location: location}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	data, err := h.Menus.GetMenuData(r.Context(), req.Location)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewMenuResponse(req.Location, data))
}

func (h *Handler) RefreshMenu(w http.ResponseWriter, r *http.Request) {
	req, errs := dto.NewRefreshRequest(chi.URLParam(r, "location"), r.URL.Query().Get("force"))
	if len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	started, err := h.Menus.TriggerUpdate(r.Context(), req.Location, req.Force)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if started {
		status = http.StatusAccepted
	}
	h.writeJSON(w, status, dto.RefreshResponse{Location: req.Location, Started: started, Force: req.Force})
}

func (h *Handler) ResetLocation(w http.ResponseWriter, r *http.Request) {
	req := dto.MenuRequest{Location: dto.NormalizeLocation(chi.URLParam(r, "location"))}
	if errs := req.Validate(); len(errs) > 0 {
		h.writeValidation(w, errs)
		return
	}

	st, err := h.Menus.ResetLocation(r.Context(), req.Location)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dto.NewResetResponse(req.Location, st))
}

func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.Menus.ClearCache(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
