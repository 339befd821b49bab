package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/services"
	"github.com/districtnet/wifi-dashboard/userctx"
)

// DistrictController handles district pages and API requests
type DistrictController struct {
	services *services.Services
}

// NewDistrictController creates a new district controller
func NewDistrictController(services *services.Services) *DistrictController {
	return &DistrictController{services: services}
}

// idParam parses the {id} URL parameter
func idParam(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid ID", services.ErrValidation)
	}
	return id, nil
}

// Index handles GET /districts
func (c *DistrictController) Index(w http.ResponseWriter, r *http.Request) {
	districts, err := c.services.Districts.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load districts: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Username    string
		Role        string
		Districts   []models.District
	}{
		Title:       "Districts",
		CurrentPage: "districts",
		Username:    userctx.GetUsername(r.Context()),
		Role:        userctx.GetRole(r.Context()),
		Districts:   districts,
	}

	renderTemplate(w, "districts", "templates/districts.html", templateData)
}

// List handles GET /api/districts
func (c *DistrictController) List(w http.ResponseWriter, r *http.Request) {
	districts, err := c.services.Districts.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("districts", districts))
}

// Get handles GET /api/districts/{id}
func (c *DistrictController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	district, err := c.services.Districts.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("district", district))
}

// Create handles POST /api/districts
func (c *DistrictController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.DistrictForm
	if err := decodeJSON(r, &form); err != nil {
		respondServiceError(w, err)
		return
	}

	district, err := c.services.Districts.Create(r.Context(), &form)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, models.SuccessResponse("district created", district))
}

// Update handles PUT /api/districts/{id}
func (c *DistrictController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var form models.DistrictForm
	if err := decodeJSON(r, &form); err != nil {
		respondServiceError(w, err)
		return
	}

	district, err := c.services.Districts.Update(r.Context(), id, &form)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("district updated", district))
}

// Delete handles DELETE /api/districts/{id}
func (c *DistrictController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := c.services.Districts.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("district deleted", nil))
}
