package routers

import (
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/services/core/users"

	"github.com/go-chi/chi/v5"
)

func attachUserRoutes(router chi.Router, middlewares *middlewares.Middlewares, userController *users.UserController) {
	router.With(middlewares.Authenticate, middlewares.Authorize).Post("/", userController.CreateUser)
	router.With(middlewares.Authenticate, middlewares.Authorize).Patch("/{userID}/role", userController.UpdateUserRole)
	router.With(middlewares.Authenticate, middlewares.Authorize).Post("/{userID}/deactivate", userController.DeactivateUser)
}
