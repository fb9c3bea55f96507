package dto

import (
	"github.com/cesargomez89/menusync/internal/config"
	"github.com/cesargomez89/menusync/internal/domain"
)

// MenuResponse is the polling view of one location.
type MenuResponse struct {
	Location string `json:"location"`
	domain.MenuData
}

func NewMenuResponse(location string, data domain.MenuData) MenuResponse {
	if data.Sections == nil {
		data.Sections = []domain.MenuSection{}
	}
	return MenuResponse{Location: location, MenuData: data}
}

type RefreshResponse struct {
	Location string `json:"location"`
	Started  bool   `json:"started"`
	Force    bool   `json:"force"`
}

type ResetResponse struct {
	Location string `json:"location"`
	Status   string `json:"status"`
}

func NewResetResponse(location string, st domain.LocationState) ResetResponse {
	return ResetResponse{Location: location, Status: string(st.Status)}
}

type LocationResponse struct {
	Name      string `json:"name"`
	SourceURL string `json:"sourceUrl"`
	Default   bool   `json:"default"`
}

func NewLocationResponses(locations []config.Location, defaultLocation string) []LocationResponse {
	out := make([]LocationResponse, 0, len(locations))
	for _, l := range locations {
		out = append(out, LocationResponse{
			Name:      l.Name,
			SourceURL: l.SourceURL,
			Default:   l.Name == defaultLocation,
		})
	}
	return out
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
