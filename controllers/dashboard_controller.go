package controllers

import (
	"net/http"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/services"
	"github.com/districtnet/wifi-dashboard/userctx"
)

// DashboardController handles the home page, the activity page and the
// aggregate metrics endpoint
type DashboardController struct {
	services *services.Services
}

// NewDashboardController creates a new dashboard controller
func NewDashboardController(services *services.Services) *DashboardController {
	return &DashboardController{services: services}
}

// Index handles GET /
func (c *DashboardController) Index(w http.ResponseWriter, r *http.Request) {
	snap, err := c.services.Districts.Snapshot(r.Context())
	if err != nil {
		http.Error(w, "Failed to load dashboard data: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Username    string
		Role        string
		Snapshot    *models.LiveSnapshot
	}{
		Title:       "District Wi-Fi Dashboard",
		CurrentPage: "dashboard",
		Username:    userctx.GetUsername(r.Context()),
		Role:        userctx.GetRole(r.Context()),
		Snapshot:    snap,
	}

	renderTemplate(w, "dashboard", "templates/dashboard.html", templateData)
}

// Activity handles GET /activity (admin page)
func (c *DashboardController) Activity(w http.ResponseWriter, r *http.Request) {
	entries, err := c.services.Activity.List(r.Context(), 200)
	if err != nil {
		http.Error(w, "Failed to load activity log: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Username    string
		Role        string
		Entries     []models.ActivityLogEntry
	}{
		Title:       "Activity Log",
		CurrentPage: "activity",
		Username:    userctx.GetUsername(r.Context()),
		Role:        userctx.GetRole(r.Context()),
		Entries:     entries,
	}

	renderTemplate(w, "activity", "templates/activity.html", templateData)
}

// MetricsSummary handles GET /api/metrics/summary
func (c *DashboardController) MetricsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := c.services.Districts.Summary(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.SuccessResponse("metrics summary", summary))
}

// ActivityList handles GET /api/activity (admin)
func (c *DashboardController) ActivityList(w http.ResponseWriter, r *http.Request) {
	entries, err := c.services.Activity.List(r.Context(), 200)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.SuccessResponse("activity log", entries))
}
