package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/districtnet/wifi-dashboard/authenticator"
	"github.com/districtnet/wifi-dashboard/middleware"
	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/services"
)

// AuthController handles login, logout and API token issuance
type AuthController struct {
	services *services.Services
}

// NewAuthController creates a new auth controller
func NewAuthController(services *services.Services) *AuthController {
	return &AuthController{services: services}
}

type loginPageData struct {
	Title       string
	CurrentPage string
	Username    string
	Role        string
	Error       string
	SSOEnabled  bool
}

// LoginPage handles GET /login
func (ac *AuthController) LoginPage(ssoEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderTemplate(w, "login", "templates/login.html", loginPageData{
			Title:      "Sign In",
			SSOEnabled: ssoEnabled,
		})
	}
}

// Login handles POST /login (local username/password form)
func (ac *AuthController) Login(ssoEnabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}

		user, err := ac.services.Auth.Authenticate(r.Context(), r.FormValue("username"), r.FormValue("password"))
		if err != nil {
			renderTemplateWithStatus(w, http.StatusUnauthorized, "login", "templates/login.html", loginPageData{
				Title:      "Sign In",
				Error:      "Invalid username or password",
				SSOEnabled: ssoEnabled,
			})
			return
		}

		ac.establishSession(w, r, user)
	}
}

// Logout handles GET /logout
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	sess.Delete(middleware.SessionUserIDKey)
	sess.Delete(middleware.SessionUsernameKey)
	sess.Delete(middleware.SessionRoleKey)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// SSOLogin handles GET /login/sso: redirects to the district identity
// provider.
func (ac *AuthController) SSOLogin(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := generateRandomState()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		sess := session.GetSession(r)
		sess.Set("state", state)

		http.Redirect(w, r, auth.GetAuthURL(state), http.StatusTemporaryRedirect)
	}
}

// SSOCallback handles GET /callback from the identity provider. The
// verified email claim must match an active local account.
func (ac *AuthController) SSOCallback(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		storedState, _ := sess.Get("state").(string)
		if storedState == "" || r.URL.Query().Get("state") != storedState {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		token, err := auth.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			http.Error(w, "Failed to exchange authorization code: "+err.Error(), http.StatusUnauthorized)
			return
		}

		claims, err := auth.GetClaims(r.Context(), token)
		if err != nil {
			http.Error(w, "Failed to verify ID token: "+err.Error(), http.StatusInternalServerError)
			return
		}

		user, err := ac.services.Auth.AuthenticateSSO(r.Context(), claims.Email())
		if err != nil {
			http.Error(w, "No active account for this identity", http.StatusUnauthorized)
			return
		}

		sess.Delete("state")
		ac.establishSession(w, r, user)
	}
}

type apiLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type apiLoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"`
	User      *models.User `json:"user"`
}

// APILogin handles POST /api/auth/login and issues a bearer token
func (ac *AuthController) APILogin(w http.ResponseWriter, r *http.Request) {
	var req apiLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	user, err := ac.services.Auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, expiresAt, err := authenticator.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.SuccessResponse("authenticated", apiLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}))
}

// establishSession stores the user in the session and redirects to the
// page they originally asked for.
func (ac *AuthController) establishSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	sess := session.GetSession(r)
	sess.Set(middleware.SessionUserIDKey, user.ID)
	sess.Set(middleware.SessionUsernameKey, user.Username)
	sess.Set(middleware.SessionRoleKey, user.Role)

	redirect := "/"
	if stored, ok := sess.Get("redirect_after_login").(string); ok && stored != "" {
		redirect = stored
		sess.Delete("redirect_after_login")
	}

	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
