package routers

import (
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/services/core/access"
	"radgate-service/internal/app/services/core/audit"
	"radgate-service/internal/app/services/core/auth"
	"radgate-service/internal/app/services/core/catalog"
	"radgate-service/internal/app/services/core/notifications"
	"radgate-service/internal/app/services/core/users"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	loginLimiter *middlewares.LoginRateLimiter,
	authController *auth.AuthController,
	accessController *access.AccessController,
	userController *users.UserController,
	auditController *audit.AuditController,
	catalogController *catalog.CatalogController,
	notificationController *notifications.NotificationController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)

	// Internal callers announce themselves with an API key header and get a
	// larger per-second budget than browser clients.
	normalLimiter, apiKeyLimiter := middlewares.CreateRateLimiters()
	router.Use(middlewares.ConditionalRateLimit(normalLimiter, apiKeyLimiter))

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			attachAuthRoutes(r, middlewares, loginLimiter, authController)
		})

		r.Route("/access", func(r chi.Router) {
			attachAccessRoutes(r, middlewares, accessController)
		})

		r.Route("/users", func(r chi.Router) {
			attachUserRoutes(r, middlewares, userController)
		})

		r.Route("/admin", func(r chi.Router) {
			attachAuditRoutes(r, middlewares, auditController)
			attachNotificationRoutes(r, middlewares, notificationController)
		})

		r.Route("/catalog", func(r chi.Router) {
			attachCatalogRoutes(r, middlewares, catalogController)
		})
	})
}
