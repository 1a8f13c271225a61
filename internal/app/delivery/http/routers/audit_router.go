package routers

import (
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/services/core/audit"

	"github.com/go-chi/chi/v5"
)

func attachAuditRoutes(router chi.Router, middlewares *middlewares.Middlewares, auditController *audit.AuditController) {
	router.With(middlewares.Authenticate, middlewares.Authorize).Get("/audit", auditController.ListEntries)
	router.With(middlewares.Authenticate, middlewares.Authorize).Post("/audit/export", auditController.ExportEntries)
}
