package middlewares

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

// ConditionalRateLimit picks the limiter by caller kind. It runs before
// authentication, so header presence is the signal; a forged key still meets
// RequireAPIKey behind this and only burns the larger budget on 401s.
func (m *Middlewares) ConditionalRateLimit(normalLimiter, apiKeyLimiter func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get(HeaderAPIKey) != "" {
				apiKeyLimiter(next).ServeHTTP(w, r)
			} else {
				normalLimiter(next).ServeHTTP(w, r)
			}
		})
	}
}

func (m *Middlewares) CreateRateLimiters() (normalLimiter, apiKeyLimiter func(next http.Handler) http.Handler) {
	normalLimiter = httprate.LimitByIP(m.InternalConfig.App.MaxRequests, time.Second)
	apiKeyLimiter = httprate.LimitByIP(m.InternalConfig.App.InternalAPIKeyRateLimit, time.Second)
	return normalLimiter, apiKeyLimiter
}
