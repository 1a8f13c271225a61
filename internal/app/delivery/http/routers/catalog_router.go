package routers

import (
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/services/core/catalog"

	"github.com/go-chi/chi/v5"
)

func attachCatalogRoutes(router chi.Router, middlewares *middlewares.Middlewares, catalogController *catalog.CatalogController) {
	// The role policy only opens the door. Patient-level authorization happens
	// inside the usecase, per request, with an audit entry.
	router.With(middlewares.Authenticate, middlewares.Authorize).Get("/patients", catalogController.SearchPatients)
	router.With(middlewares.Authenticate, middlewares.Authorize).Get("/patients/{patientID}", catalogController.GetPatient)
	router.With(middlewares.Authenticate, middlewares.Authorize).Get("/patients/{patientID}/studies", catalogController.ListStudies)
}
