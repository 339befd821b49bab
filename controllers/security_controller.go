package controllers

import (
	"net/http"
	"strconv"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/services"
	"github.com/districtnet/wifi-dashboard/userctx"
)

// SecurityController handles security event pages and API requests
type SecurityController struct {
	services *services.Services
}

// NewSecurityController creates a new security controller
func NewSecurityController(services *services.Services) *SecurityController {
	return &SecurityController{services: services}
}

// Index handles GET /security
func (c *SecurityController) Index(w http.ResponseWriter, r *http.Request) {
	events, err := c.services.Security.List(r.Context(), models.SecurityEventFilter{Limit: 100})
	if err != nil {
		http.Error(w, "Failed to load security events: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Username    string
		Role        string
		Events      []models.SecurityEvent
	}{
		Title:       "Security Events",
		CurrentPage: "security",
		Username:    userctx.GetUsername(r.Context()),
		Role:        userctx.GetRole(r.Context()),
		Events:      events,
	}

	renderTemplate(w, "security", "templates/security.html", templateData)
}

// List handles GET /api/security-events with optional resolved= and
// severity= query filters
func (c *SecurityController) List(w http.ResponseWriter, r *http.Request) {
	filter := models.SecurityEventFilter{
		Severity: r.URL.Query().Get("severity"),
	}

	if v := r.URL.Query().Get("resolved"); v != "" {
		resolved, err := strconv.ParseBool(v)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, models.ErrorResponse("resolved must be true or false", nil))
			return
		}
		filter.Resolved = &resolved
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	events, err := c.services.Security.List(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("security events", events))
}

// Resolve handles POST /api/security-events/{id}/resolve (admin)
func (c *SecurityController) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	event, err := c.services.Security.Resolve(r.Context(), id, userctx.GetUsername(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("event resolved", event))
}
