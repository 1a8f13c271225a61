package middlewares

import (
	"context"
	"net/http"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"

	"go.uber.org/zap"
)

const (
	HeaderAPIKey      = "x-api-key"
	ContextAPIKeyAuth = "api_key_auth"
)

// RequireAPIKey guards the service-to-service surface. These routes never
// carry a browser session; the shared key is the whole handshake. An unset
// key disables the internal surface rather than opening it.
func (m *Middlewares) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		configuredKey := m.InternalConfig.App.InternalServiceAPIKey
		apiKey := r.Header.Get(HeaderAPIKey)

		if configuredKey == "" || apiKey == "" || apiKey != configuredKey {
			utils.LogSecurityEvent(m.Log, "internal API key rejected", utils.GetRequestID(r.Context()),
				zap.String("ip", r.RemoteAddr),
				zap.String("endpoint", r.URL.Path),
				zap.String("method", r.Method),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		ctx := context.WithValue(r.Context(), ContextAPIKeyAuth, true)

		m.Log.Info("internal API key authentication successful",
			zap.String("ip", r.RemoteAddr),
			zap.String("endpoint", r.URL.Path),
			zap.String("method", r.Method),
			zap.String("user_agent", r.UserAgent()))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// InternalOrAuthenticated admits service callers with the shared key or
// logged-in humans subject to the role policy. The check and listing
// endpoints serve both audiences: the viewer backend and the admin console.
func (m *Middlewares) InternalOrAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(HeaderAPIKey) != "" {
			m.RequireAPIKey(next).ServeHTTP(w, r)
			return
		}
		m.Authenticate(m.Authorize(next)).ServeHTTP(w, r)
	})
}
