package session

import (
	"context"
	"radgate-service/internal/app/contracts"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
)

const (
	sessionKeyPrefix      = "session:"
	userSessionsKeyPrefix = "user_sessions:"
)

type sessionService struct {
	RedisRepository contracts.RedisRepository
}

func NewSessionService(redisRepository contracts.RedisRepository) contracts.SessionService {
	return &sessionService{
		RedisRepository: redisRepository,
	}
}

func (svc *sessionService) CreateSession(ctx context.Context, user *models.User, ttl time.Duration) (*models.Session, error) {
	now := time.Now().UTC()
	session := &models.Session{
		ID:        utils.GenerateSessionID(),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		PatientID: user.PatientID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	err := svc.RedisRepository.Set(ctx, sessionKeyPrefix+session.ID, session, ttl)
	if err != nil {
		return nil, err
	}

	// The per-user index lets deactivation kill every live session at once.
	err = svc.RedisRepository.AddToSet(ctx, userSessionsKeyPrefix+user.ID, session.ID)
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (svc *sessionService) GetSessionData(ctx context.Context, sessionID string) (*models.Session, error) {
	sessionData, err := svc.RedisRepository.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	if sessionData == "" {
		return nil, exceptions.ErrSessionInvalid(nil)
	}

	session := new(models.Session)
	err = json.Unmarshal([]byte(sessionData), session)
	if err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return session, nil
}

func (svc *sessionService) DeleteSession(ctx context.Context, sessionID string) error {
	sessionData, err := svc.RedisRepository.Get(ctx, sessionKeyPrefix+sessionID)
	if err != nil {
		return err
	}
	// Deleting an already-expired session is a no-op success.
	if sessionData == "" {
		return nil
	}

	session := new(models.Session)
	if err := json.Unmarshal([]byte(sessionData), session); err != nil {
		return svc.RedisRepository.Delete(ctx, sessionKeyPrefix+sessionID)
	}

	if err := svc.RedisRepository.Delete(ctx, sessionKeyPrefix+sessionID); err != nil {
		return err
	}
	return svc.RedisRepository.RemoveFromSet(ctx, userSessionsKeyPrefix+session.UserID, sessionID)
}

func (svc *sessionService) DeleteUserSessions(ctx context.Context, userID string) error {
	sessionIDs, err := svc.RedisRepository.GetSetMembers(ctx, userSessionsKeyPrefix+userID)
	if err != nil {
		return err
	}

	for _, sessionID := range sessionIDs {
		if err := svc.RedisRepository.Delete(ctx, sessionKeyPrefix+sessionID); err != nil {
			return err
		}
	}
	return svc.RedisRepository.Delete(ctx, userSessionsKeyPrefix+userID)
}
