package middlewares

import (
	"net/http"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Authorize enforces the role policy for the authenticated session. The
// policy matches on role, method and path; patient-level decisions stay in
// the access engine, this gate only shapes the management surface.
func (m *Middlewares) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionData, err := utils.GetSessionData(r.Context())
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		allowed, err := m.Enforcer.Enforce(sessionData.Role, r.Method, r.URL.Path)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrPermissionDenied(err))
			return
		}
		if !allowed {
			utils.LogSecurityEvent(m.Log, "role policy rejected request", utils.GetRequestID(r.Context()),
				zap.String(constvars.LoggingUserIDKey, sessionData.UserID),
				zap.String(constvars.LoggingRoleKey, sessionData.Role),
				zap.String(constvars.LoggingMethodKey, r.Method),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrPermissionDenied(nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}
