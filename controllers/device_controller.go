package controllers

import (
	"net/http"
	"strconv"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/services"
	"github.com/districtnet/wifi-dashboard/userctx"
)

// DeviceController handles device pages and API requests
type DeviceController struct {
	services *services.Services
}

// NewDeviceController creates a new device controller
func NewDeviceController(services *services.Services) *DeviceController {
	return &DeviceController{services: services}
}

// Index handles GET /devices
func (c *DeviceController) Index(w http.ResponseWriter, r *http.Request) {
	devices, err := c.services.Devices.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load devices: "+err.Error(), http.StatusInternalServerError)
		return
	}

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
		Devices     []models.Device
		Districts   []models.District
	}{
		Title:       "Devices",
		CurrentPage: "devices",
		Username:    userctx.GetUsername(r.Context()),
		Role:        userctx.GetRole(r.Context()),
		Devices:     devices,
		Districts:   districts,
	}

	renderTemplate(w, "devices", "templates/devices.html", templateData)
}

// List handles GET /api/devices
func (c *DeviceController) List(w http.ResponseWriter, r *http.Request) {
	devices, err := c.services.Devices.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("devices", devices))
}

// Get handles GET /api/devices/{id}
func (c *DeviceController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	device, err := c.services.Devices.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("device", device))
}

// Connections handles GET /api/devices/{id}/connections
func (c *DeviceController) Connections(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := c.services.Devices.GetConnections(r.Context(), id, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("connection log", entries))
}

// Create handles POST /api/devices
func (c *DeviceController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.DeviceForm
	if err := decodeJSON(r, &form); err != nil {
		respondServiceError(w, err)
		return
	}

	device, err := c.services.Devices.Create(r.Context(), &form)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, models.SuccessResponse("device created", device))
}

// Update handles PUT /api/devices/{id}
func (c *DeviceController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var form models.DeviceForm
	if err := decodeJSON(r, &form); err != nil {
		respondServiceError(w, err)
		return
	}

	device, err := c.services.Devices.Update(r.Context(), id, &form)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("device updated", device))
}

// Delete handles DELETE /api/devices/{id}
func (c *DeviceController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := c.services.Devices.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("device deleted", nil))
}
