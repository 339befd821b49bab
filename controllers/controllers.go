package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/repositories"
	"github.com/districtnet/wifi-dashboard/services"
)

// renderTemplate creates a template set and renders it with the provided data
func renderTemplate(w http.ResponseWriter, templateName string, pageTemplate string, data interface{}) error {
	return renderTemplateWithStatus(w, http.StatusOK, templateName, pageTemplate, data)
}

// renderTemplateWithStatus renders layout + page with an explicit status code
func renderTemplateWithStatus(w http.ResponseWriter, statusCode int, templateName string, pageTemplate string, data interface{}) error {
	tmpl := template.New(templateName)
	tmpl.Funcs(template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	})

	_, err := tmpl.ParseFiles("templates/layout.html", pageTemplate)
	if err != nil {
		http.Error(w, "Failed to parse template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}

	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		http.Error(w, "Failed to render template: "+err.Error(), http.StatusInternalServerError)
		return err
	}

	return nil
}

// respondJSON writes an API envelope with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, resp models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// respondServiceError maps service-layer errors onto HTTP statuses:
// validation 400, bad credentials 401, missing rows 404, conflicts 409,
// everything else 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		respondJSON(w, http.StatusBadRequest, models.ErrorResponse("validation failed", err))
	case errors.Is(err, services.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, models.ErrorResponse("authentication failed", err))
	case errors.Is(err, repositories.ErrNotFound):
		respondJSON(w, http.StatusNotFound, models.ErrorResponse("not found", err))
	case errors.Is(err, services.ErrConflict):
		respondJSON(w, http.StatusConflict, models.ErrorResponse("conflict", err))
	default:
		respondJSON(w, http.StatusInternalServerError, models.ErrorResponse("internal error", err))
	}
}

// decodeJSON parses a JSON request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body", services.ErrValidation)
	}
	return nil
}

// Controllers holds all controller instances
type Controllers struct {
	Auth      *AuthController
	Dashboard *DashboardController
	Districts *DistrictController
	Devices   *DeviceController
	Security  *SecurityController
	Users     *UserController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services) *Controllers {
	return &Controllers{
		Auth:      NewAuthController(services),
		Dashboard: NewDashboardController(services),
		Districts: NewDistrictController(services),
		Devices:   NewDeviceController(services),
		Security:  NewSecurityController(services),
		Users:     NewUserController(services),
	}
}
