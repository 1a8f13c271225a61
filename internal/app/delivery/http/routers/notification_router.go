package routers

import (
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/services/core/notifications"

	"github.com/go-chi/chi/v5"
)

func attachNotificationRoutes(router chi.Router, middlewares *middlewares.Middlewares, notificationController *notifications.NotificationController) {
	router.With(middlewares.Authenticate, middlewares.Authorize).Get("/notifications", notificationController.ListNotifications)
}
