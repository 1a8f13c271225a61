package auth

import (
	"context"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
)

type AuthUsecase interface {
	LoginUser(ctx context.Context, request *requests.LoginUser) (*responses.LoginUser, error)
	LogoutUser(ctx context.Context, sessionID string) error
	// MintRelayToken issues the short-lived token relayed to the viewer. It
	// binds the caller's live session, so revoking the session kills the
	// relayed token too.
	MintRelayToken(ctx context.Context, session *models.Session) (string, error)
}
