package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tasteboard/recipebox/internal/config"
	"github.com/tasteboard/recipebox/internal/handlers"
	"github.com/tasteboard/recipebox/internal/middleware"
	"github.com/tasteboard/recipebox/internal/repo"
)

// newRouter builds the full API router over db. Split out from main so
// integration tests can stand up the exact production handler chain.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	userRepo := repo.NewUserRepo(db)
	recipeRepo := repo.NewRecipeRepo(db)
	sessionRepo := repo.NewSessionRepo(db, time.Duration(cfg.SessionTTLHours)*time.Hour)

	authHandler := &handlers.AuthHandler{
		Users:         userRepo,
		Sessions:      sessionRepo,
		SecureCookies: cfg.SecureCookies,
	}
	recipeHandler := &handlers.RecipeHandler{Repo: recipeRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.ResolveSession(sessionRepo))

	// Operational endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := db.PingContext(req.Context()); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public, rate limited against credential stuffing
	authLimiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})

	// Session required
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/check_session", authHandler.CheckSession)
		r.Delete("/logout", authHandler.Logout)
		r.Get("/recipes", recipeHandler.ListRecipes)
		r.Post("/recipes", recipeHandler.CreateRecipe)
	})

	return r
}
