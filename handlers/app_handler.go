package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/focus-tools/services"
)

type AppHandler struct {
	appService services.AppService
}

func NewAppHandler(as services.AppService) *AppHandler {
	return &AppHandler{appService: as}
}

// ListHandler handles GET /api/apps?category=...&available=true.
func (h *AppHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := services.AppListFilter{Category: query.Get("category")}

	if availableStr := query.Get("available"); availableStr != "" {
		available, err := strconv.ParseBool(availableStr)
		if err != nil {
			failedValidationResponse(w, r, map[string]string{"available": "must be a boolean"})
			return
		}
		filter.AvailableOnly = available
	}

	apps := h.appService.ListApps(r.Context(), filter)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"apps": apps}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AppHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	app, err := h.appService.GetApp(r.Context(), chi.URLParam(r, "appID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"app": app}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// HealthHandler handles GET /healthz.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
