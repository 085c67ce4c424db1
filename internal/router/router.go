package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-blog-api/internal/config"
	"go-blog-api/internal/handler"
	"go-blog-api/internal/metrics"
	"go-blog-api/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	Health *handler.HealthHandler
}

// New builds the HTTP surface. m may be nil, in which case no request
// metrics are recorded and /metrics is not mounted.
func New(
	cfg *config.Config,
	log *slog.Logger,
	authMiddleware *middleware.AuthMiddleware,
	handlers Handlers,
	m *metrics.Metrics,
) http.Handler {
	r := chi.NewRouter()

	// TRUSTED_PROXIES is validated by config.Load.
	trusted, _ := cfg.TrustedProxyPrefixes()
	clientIP := middleware.NewClientIPResolver(trusted)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM,
		middleware.WithClientIPResolver(clientIP))

	r.Use(middleware.Logging(log, clientIP))
	r.Use(middleware.Recovery)
	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", handlers.Health.Health)
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	r.Group(func(api chi.Router) {
		api.Use(rateLimitMiddleware.Handler)
		api.Use(middleware.Timeout(cfg.RequestTimeout.Std()))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", handlers.Auth.Register)
			auth.Post("/login", handlers.Auth.Login)
			auth.Post("/refresh", handlers.Auth.Refresh)
			auth.With(authMiddleware.RequireAuth).Post("/logout", handlers.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", handlers.Auth.Me)
		})
	})

	return r
}
