package routers

import (
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/services/core/auth"

	"github.com/go-chi/chi/v5"
)

func attachAuthRoutes(router chi.Router, middlewares *middlewares.Middlewares, loginLimiter *middlewares.LoginRateLimiter, authController *auth.AuthController) {
	router.With(loginLimiter.Limit).Post("/login", authController.Login)
	router.With(middlewares.Authenticate).Post("/logout", authController.Logout)
	router.With(middlewares.OptionalAuthenticate).Get("/status", authController.Status)
	router.With(middlewares.Authenticate).Get("/sso/viewer", authController.SSOViewer)

	// The viewer backend exchanges the relay token here. The API key keeps the
	// endpoint off-limits to browsers; the relay middleware ties the token back
	// to a live session.
	router.With(middlewares.RequireAPIKey, middlewares.AuthenticateRelay).Get("/verify", authController.VerifyToken)
}
