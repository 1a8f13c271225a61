package contracts

import (
	"context"
	"radgate-service/internal/app/models"
	"time"
)

// SessionService owns the Redis session records. Both the authorization
// service and the viewer resolve bearer tokens through it, so deleting a
// session revokes every surface at once.
type SessionService interface {
	CreateSession(ctx context.Context, user *models.User, ttl time.Duration) (*models.Session, error)
	GetSessionData(ctx context.Context, sessionID string) (*models.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteUserSessions(ctx context.Context, userID string) error
}
