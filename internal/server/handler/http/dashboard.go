package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/cardmaster/internal/middleware"
	"github.com/atinyakov/cardmaster/internal/models"
	"github.com/atinyakov/cardmaster/internal/report"
	"github.com/atinyakov/cardmaster/internal/service"
)

// DashboardService defines the operations required by DashboardHandler.
type DashboardService interface {
	Transactions() []models.Transaction
	SiteSettings() service.SiteSettings
	UpdateSiteSettings(ctx context.Context, actor models.User, in service.SiteSettings) (service.SiteSettings, error)
}

// DashboardHandler serves the dashboard and the site branding.
type DashboardHandler struct {
	Service DashboardService
}

// Dashboard handles GET /api/dashboard?month=.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, report.BuildDashboard(h.Service.Transactions(), actor, r.URL.Query().Get("month")))
}

// Settings handles GET /api/settings.
func (h *DashboardHandler) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.SiteSettings())
}

// UpdateSettings handles PUT /api/settings.
func (h *DashboardHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req service.SiteSettings
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.Service.UpdateSiteSettings(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
