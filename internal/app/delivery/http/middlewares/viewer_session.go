package middlewares

import (
	"context"
	"net/http"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"time"
)

// AuthenticateViewer resolves the viewer session cookie to a live Redis
// record. Viewer sessions share the store with the authorization service, so
// deactivating an account over there revokes the viewer cookie too.
func (m *Middlewares) AuthenticateViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(constvars.ViewerSessionCookieName)
		if err != nil || cookie.Value == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrSessionInvalid(nil))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		sessionData, err := m.SessionService.GetSessionData(ctx, cookie.Value)
		if err != nil {
			if err == context.DeadlineExceeded {
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerDeadlineExceeded(err))
				return
			}
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx = context.WithValue(r.Context(), constvars.CONTEXT_SESSION_DATA_KEY, sessionData)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticateViewer attaches session data when the cookie resolves
// and passes through anonymously otherwise.
func (m *Middlewares) OptionalAuthenticateViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(constvars.ViewerSessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		sessionData, err := m.SessionService.GetSessionData(ctx, cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx = context.WithValue(r.Context(), constvars.CONTEXT_SESSION_DATA_KEY, sessionData)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
