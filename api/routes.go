package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garnizeh/devconnect/internal/auth"
	"github.com/garnizeh/devconnect/internal/config"
	"github.com/garnizeh/devconnect/pkg/repository"
)

// Store is everything the routes need from the persistence layer.
type Store interface {
	repository.AccountRepo
	repository.ProfileRepo
	Ping(ctx context.Context) error
}

// SetupRoutes builds the router. limiter may be nil to disable rate limiting on the
// credential endpoints.
func SetupRoutes(cfg *config.Config, version, buildTime string, store Store, limiter RateLimiter) *mux.Router {
	r := mux.NewRouter()
	metrics := NewMetrics(prometheus.DefaultRegisterer)

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(MetricsMiddleware(metrics))

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenDuration)
	protect := TokenAuthMiddleware(tokens)
	limit := RateLimitMiddleware(limiter, metrics)

	// Create handlers
	systemHandler := NewSystemHandler(store)
	authHandler := NewAuthHandler(store, tokens)
	profileHandler := NewProfileHandler(store, store)

	// Open endpoints
	r.HandleFunc("/", systemHandler.RootHandler).Methods(http.MethodGet)
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods(http.MethodGet)
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Accounts and sessions
	r.Handle("/api/users", limit(http.HandlerFunc(authHandler.Register))).Methods(http.MethodPost)
	r.Handle("/api/auth", limit(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost)
	r.Handle("/api/auth", protect(http.HandlerFunc(authHandler.CurrentAccount))).Methods(http.MethodGet)

	// Profiles
	r.HandleFunc("/api/profile", profileHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/api/profile/user/{user_id}", profileHandler.ByUser).Methods(http.MethodGet)
	r.Handle("/api/profile/me", protect(http.HandlerFunc(profileHandler.Me))).Methods(http.MethodGet)
	r.Handle("/api/profile", protect(http.HandlerFunc(profileHandler.Upsert))).Methods(http.MethodPost)
	r.Handle("/api/profile", protect(http.HandlerFunc(profileHandler.Delete))).Methods(http.MethodDelete)
	r.Handle("/api/profile/experience", protect(http.HandlerFunc(profileHandler.AddExperience))).Methods(http.MethodPut)
	r.Handle("/api/profile/experience/{exp_id}", protect(http.HandlerFunc(profileHandler.RemoveExperience))).Methods(http.MethodDelete)
	r.Handle("/api/profile/education", protect(http.HandlerFunc(profileHandler.AddEducation))).Methods(http.MethodPut)
	r.Handle("/api/profile/education/{edu_id}", protect(http.HandlerFunc(profileHandler.RemoveEducation))).Methods(http.MethodDelete)

	// Preflight requests reach a known path with a method it does not register, so the
	// method-not-allowed handler answers them through CORSMiddleware.
	r.MethodNotAllowedHandler = CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMsg(w, "Method not allowed", http.StatusMethodNotAllowed)
	}))

	return r
}
