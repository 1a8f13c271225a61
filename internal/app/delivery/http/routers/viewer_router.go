package routers

import (
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/services/viewer"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// SetupViewerRoutes wires the viewer binary. It mounts at the root, not under
// the API prefix: the landing URL is what the authorization service redirects
// browsers to.
func SetupViewerRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	viewerController *viewer.ViewerController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)

	// Only browsers call the viewer; a flat per-IP budget is enough here.
	router.Use(httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second))

	router.Get("/", viewerController.Home)

	router.Route("/api", func(r chi.Router) {
		r.Post("/relay-token", viewerController.ExchangeToken)
		r.With(middlewares.OptionalAuthenticateViewer).Get("/session", viewerController.GetSession)
		r.With(middlewares.AuthenticateViewer).Get("/patients", viewerController.ListPatients)
		r.With(middlewares.AuthenticateViewer).Get("/patients/{patientID}/studies", viewerController.ListStudies)
		r.With(middlewares.AuthenticateViewer).Post("/logout", viewerController.Logout)
	})
}
