package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeHapkidoIn/martial-arts-project/internal/domain"
	"github.com/MikeHapkidoIn/martial-arts-project/internal/service"
	"github.com/MikeHapkidoIn/martial-arts-project/pkg/health"
	"github.com/MikeHapkidoIn/martial-arts-project/pkg/middleware"
)

// RouterConfig holds the dependencies and settings for the HTTP router.
type RouterConfig struct {
	AuthService       *service.AuthService
	AdminService      *service.AdminService
	MartialArtService *service.MartialArtService
	HealthHandler     *health.Handler
	Logger            *slog.Logger
	CORS              middleware.CORSConfig
	CookieSecure      bool

	// Rate limiting applied to the credential endpoints (login and
	// forgot-password) to slow down guessing and enumeration.
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("martialarts"))

	// Health check and metrics endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(cfg.AuthService, cfg.CookieSecure, cfg.Logger)
	userHandler := NewUserHandler(cfg.AuthService, cfg.Logger)
	adminHandler := NewAdminHandler(cfg.AdminService, cfg.Logger)
	artHandler := NewMartialArtHandler(cfg.MartialArtService, cfg.Logger)

	credentialRateLimit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger)
	requireAuth := middleware.Auth(cfg.AuthService.ValidateAccessToken)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public endpoints. Login and forgot-password are rate limited per
		// client IP.
		r.Post("/register", authHandler.Register)
		r.With(credentialRateLimit).Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(credentialRateLimit).Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.Post("/verify-email", authHandler.VerifyEmail)

		// Authenticated session endpoints.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/logout", authHandler.Logout)
			r.Post("/logout-all", authHandler.LogoutAll)
			r.Post("/change-password", authHandler.ChangePassword)
			r.Post("/resend-verification", authHandler.ResendVerification)
		})
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(requireAuth)

		r.Get("/me", userHandler.Me)
		r.Put("/me", userHandler.UpdateProfile)
	})

	r.Route("/api/v1/admin/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(requireAuth)
		r.Use(middleware.RequirePermission(domain.PermissionUsersManage, domain.Can))

		r.Get("/", adminHandler.ListUsers)
		r.Get("/stats", adminHandler.Stats)
		r.Put("/{id}/role", adminHandler.UpdateRole)
		r.Put("/{id}/active", adminHandler.SetActive)
	})

	r.Route("/api/v1/artes-marciales", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Catalog reads are public, comparison included.
		r.Get("/", artHandler.List)
		r.Get("/{id}", artHandler.Get)
		r.Get("/slug/{slug}", artHandler.GetBySlug)
		r.Post("/compare", artHandler.Compare)

		// Catalog writes need moderator rights; deletes need admin rights.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.With(middleware.RequirePermission(domain.PermissionCatalogWrite, domain.Can)).
				Post("/", artHandler.Create)
			r.With(middleware.RequirePermission(domain.PermissionCatalogWrite, domain.Can)).
				Put("/{id}", artHandler.Update)
			r.With(middleware.RequirePermission(domain.PermissionCatalogDelete, domain.Can)).
				Delete("/{id}", artHandler.Delete)
		})
	})

	return r
}
