package routers

import (
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/services/core/access"

	"github.com/go-chi/chi/v5"
)

func attachAccessRoutes(router chi.Router, middlewares *middlewares.Middlewares, accessController *access.AccessController) {
	// Decision endpoints serve two callers: the viewer backend with an API key
	// and the admin console with a session. One registration, the middleware
	// picks the path.
	router.With(middlewares.InternalOrAuthenticated).Get("/check", accessController.CheckAccess)
	router.With(middlewares.InternalOrAuthenticated).Get("/users/{userID}/patients", accessController.ListAccessiblePatients)

	router.With(middlewares.Authenticate, middlewares.Authorize).Post("/grants", accessController.GrantPatientAccess)
	router.With(middlewares.Authenticate, middlewares.Authorize).Post("/assignments", accessController.AssignDoctor)
	router.With(middlewares.Authenticate, middlewares.Authorize).Post("/family", accessController.GrantFamilyAccess)
	router.With(middlewares.Authenticate, middlewares.Authorize).Post("/family/{recordID}/verify", accessController.VerifyFamilyAccess)
	router.With(middlewares.Authenticate, middlewares.Authorize).Delete("/{relationKind}/{recordID}", accessController.RevokeAccess)
}
