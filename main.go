package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/districtnet/wifi-dashboard/authenticator"
	"github.com/districtnet/wifi-dashboard/controllers"
	"github.com/districtnet/wifi-dashboard/database"
	"github.com/districtnet/wifi-dashboard/metrics"
	authmiddleware "github.com/districtnet/wifi-dashboard/middleware"
	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/realtime"
	"github.com/districtnet/wifi-dashboard/repositories"
	"github.com/districtnet/wifi-dashboard/services"
	"github.com/districtnet/wifi-dashboard/simulator"
)

func main() {
	// Load environment variables from .env file, if present
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	dbPath := envOr("DB_PATH", "wifi_dashboard.db")
	if err := database.InitializeDatabase(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	db := database.GetDB()
	repos := repositories.NewRepositories(db)
	srvs := services.NewServices(repos)
	ctrl := controllers.NewControllers(srvs)
	m := metrics.New()

	// Bootstrap admin account (bcrypt hashing happens here, not in SQL)
	err := srvs.Auth.EnsureDefaultAdmin(
		context.Background(),
		envOr("ADMIN_USERNAME", "admin"),
		envOr("ADMIN_EMAIL", "admin@district.local"),
		envOr("ADMIN_PASSWORD", "changeme123"),
	)
	if err != nil {
		log.Fatalf("Failed to ensure default admin: %v", err)
	}

	// Optional district SSO
	var ssoProvider authenticator.Provider
	if cfg, ok := authenticator.OpenIDConfigFromEnv(); ok {
		ssoProvider, err = authenticator.NewOpenIDProvider(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize SSO provider: %v", err)
		}
		log.Printf("SSO enabled via %s", cfg.IssuerURL)
	}

	// Live feed + simulator
	hub := realtime.NewHub(func(r *http.Request) (*models.LiveSnapshot, error) {
		return srvs.Districts.Snapshot(r.Context())
	}, m)

	sim := simulator.New(repos, simulator.Config{
		Interval:    simInterval(),
		Broadcaster: hub,
		Metrics:     m,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sim.Run(ctx)

	r, err := setupRouter(ctrl, repos, hub, m, ssoProvider)
	if err != nil {
		log.Fatalf("Failed to setup router: %v", err)
	}

	port := envOr("PORT", "8080")
	fmt.Printf("District Wi-Fi dashboard starting on port %s\n", port)
	fmt.Printf("Visit: http://localhost:%s\n", port)
	fmt.Printf("Database: %s\n", dbPath)

	log.Fatal(http.ListenAndServe(":"+port, r))
}

// setupRouter configures all routes
func setupRouter(
	ctrl *controllers.Controllers,
	repos *repositories.Repositories,
	hub *realtime.Hub,
	m *metrics.Metrics,
	ssoProvider authenticator.Provider,
) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))
	r.Use(authmiddleware.Instrument(m))

	useSecureCookies := os.Getenv("USE_HTTPS") == "true"

	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "wifidash_session",
		Secure:         useSecureCookies,
		Gclifetime:     3600,
		Maxlifetime:    3600,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static/"))))

	ssoEnabled := ssoProvider != nil

	// PUBLIC ROUTES (no authentication required)
	r.Get("/login", ctrl.Auth.LoginPage(ssoEnabled))
	r.Post("/login", ctrl.Auth.Login(ssoEnabled))
	r.Get("/logout", ctrl.Auth.Logout)
	r.Post("/api/auth/login", ctrl.Auth.APILogin)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "wifi-dashboard"}`)
	})

	if ssoEnabled {
		r.Get("/login/sso", ctrl.Auth.SSOLogin(ssoProvider))
		r.Get("/callback", ctrl.Auth.SSOCallback(ssoProvider))
	}

	// PROTECTED PAGES (session required)
	r.Group(func(r chi.Router) {
		r.Use(authmiddleware.RequireAuth)
		r.Use(authmiddleware.ActivityLogger(repos.Activity))

		r.Get("/", ctrl.Dashboard.Index)
		r.Get("/districts", ctrl.Districts.Index)
		r.Get("/devices", ctrl.Devices.Index)
		r.Get("/security", ctrl.Security.Index)
		r.Get("/ws", hub.ServeWS)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireRole(models.RoleAdmin))
			r.Get("/users", ctrl.Users.Index)
			r.Get("/activity", ctrl.Dashboard.Activity)
		})
	})

	// API ROUTES (session or bearer token)
	r.Route("/api", func(r chi.Router) {
		r.Use(authmiddleware.RequireAPIAuth)
		r.Use(authmiddleware.ActivityLogger(repos.Activity))

		// Read access for every role
		r.Get("/districts", ctrl.Districts.List)
		r.Get("/districts/{id}", ctrl.Districts.Get)
		r.Get("/devices", ctrl.Devices.List)
		r.Get("/devices/{id}", ctrl.Devices.Get)
		r.Get("/devices/{id}/connections", ctrl.Devices.Connections)
		r.Get("/security-events", ctrl.Security.List)
		r.Get("/metrics/summary", ctrl.Dashboard.MetricsSummary)

		// Mutations need at least the user role
		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAPIRole(models.RoleUser))

			r.Post("/districts", ctrl.Districts.Create)
			r.Put("/districts/{id}", ctrl.Districts.Update)
			r.Post("/devices", ctrl.Devices.Create)
			r.Put("/devices/{id}", ctrl.Devices.Update)
			r.Delete("/devices/{id}", ctrl.Devices.Delete)
		})

		// Admin-only surface
		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAPIRole(models.RoleAdmin))

			r.Delete("/districts/{id}", ctrl.Districts.Delete)
			r.Post("/security-events/{id}/resolve", ctrl.Security.Resolve)
			r.Get("/activity", ctrl.Dashboard.ActivityList)

			r.Get("/users", ctrl.Users.List)
			r.Post("/users", ctrl.Users.Create)
			r.Get("/users/{id}", ctrl.Users.Get)
			r.Put("/users/{id}", ctrl.Users.Update)
			r.Post("/users/{id}/deactivate", ctrl.Users.Deactivate)
			r.Delete("/users/{id}", ctrl.Users.Delete)
		})
	})

	return r, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func simInterval() time.Duration {
	if v := os.Getenv("SIM_INTERVAL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 5 * time.Second
}
