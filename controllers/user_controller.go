package controllers

import (
	"net/http"

	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/services"
	"github.com/districtnet/wifi-dashboard/userctx"
)

// UserController handles account management pages and API requests.
// All routes are admin-only.
type UserController struct {
	services *services.Services
}

// NewUserController creates a new user controller
func NewUserController(services *services.Services) *UserController {
	return &UserController{services: services}
}

// Index handles GET /users
func (c *UserController) Index(w http.ResponseWriter, r *http.Request) {
	users, err := c.services.Users.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Failed to load users: "+err.Error(), http.StatusInternalServerError)
		return
	}

	templateData := struct {
		Title       string
		CurrentPage string
		Username    string
		Role        string
		Users       []models.User
	}{
		Title:       "User Accounts",
		CurrentPage: "users",
		Username:    userctx.GetUsername(r.Context()),
		Role:        userctx.GetRole(r.Context()),
		Users:       users,
	}

	renderTemplate(w, "users", "templates/users.html", templateData)
}

// List handles GET /api/users
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.services.Users.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("users", users))
}

// Get handles GET /api/users/{id}
func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	user, err := c.services.Users.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("user", user))
}

// Create handles POST /api/users
func (c *UserController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.UserForm
	if err := decodeJSON(r, &form); err != nil {
		respondServiceError(w, err)
		return
	}

	user, err := c.services.Users.Create(r.Context(), &form)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, models.SuccessResponse("user created", user))
}

// Update handles PUT /api/users/{id}
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var form models.UserForm
	if err := decodeJSON(r, &form); err != nil {
		respondServiceError(w, err)
		return
	}

	user, err := c.services.Users.Update(r.Context(), id, &form)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("user updated", user))
}

// Deactivate handles POST /api/users/{id}/deactivate
func (c *UserController) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := c.services.Users.Deactivate(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("user deactivated", nil))
}

// Delete handles DELETE /api/users/{id}
func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := c.services.Users.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SuccessResponse("user deleted", nil))
}
