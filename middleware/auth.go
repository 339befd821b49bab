package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/districtnet/wifi-dashboard/authenticator"
	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/userctx"
)

// Session keys set by the auth controller on login.
const (
	SessionUserIDKey   = "user_id"
	SessionUsernameKey = "username"
	SessionRoleKey     = "role"
)

// RequireAuth ensures the user is authenticated via session.
// Unauthenticated page requests are redirected to /login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)
		username, _ := sess.Get(SessionUsernameKey).(string)

		if username == "" {
			sess.Set("redirect_after_login", r.URL.Path)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		role, _ := sess.Get(SessionRoleKey).(string)
		ctx := userctx.SetUsername(r.Context(), username)
		ctx = userctx.SetRole(ctx, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a page route by minimum role. Must run after
// RequireAuth.
func RequireRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !models.RoleAtLeast(userctx.GetRole(r.Context()), minimum) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAPIAuth authenticates /api requests. Accepts either the
// browser session or an Authorization: Bearer <token> issued by
// /api/auth/login. API callers get JSON errors, never redirects.
func RequireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			claims, err := authenticator.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				writeAPIError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := userctx.SetUsername(r.Context(), claims.Username)
			ctx = userctx.SetRole(ctx, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		sess := session.GetSession(r)
		username, _ := sess.Get(SessionUsernameKey).(string)
		if username == "" {
			writeAPIError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		role, _ := sess.Get(SessionRoleKey).(string)
		ctx := userctx.SetUsername(r.Context(), username)
		ctx = userctx.SetRole(ctx, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAPIRole gates an API route by minimum role with a JSON 403.
// Must run after RequireAPIAuth.
func RequireAPIRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !models.RoleAtLeast(userctx.GetRole(r.Context()), minimum) {
				writeAPIError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse(message, nil))
}
