package auth

import (
	"context"
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/contracts"
	"radgate-service/internal/app/models"
	"radgate-service/internal/app/services/core/users"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type authUsecase struct {
	UserRepository users.UserRepository
	SessionService contracts.SessionService
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

func NewAuthUsecase(
	userMongoRepository users.UserRepository,
	sessionService contracts.SessionService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) AuthUsecase {
	return &authUsecase{
		UserRepository: userMongoRepository,
		SessionService: sessionService,
		InternalConfig: internalConfig,
		Log:            logger,
	}
}

func (uc *authUsecase) LoginUser(ctx context.Context, request *requests.LoginUser) (*responses.LoginUser, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AuthUsecase.LoginUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	// Get user by email
	user, err := uc.UserRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, exceptions.ErrInvalidEmailOrPassword(nil)
	}

	// Check password
	if !utils.CheckPasswordHash(request.Password, user.Password) {
		utils.LogSecurityEvent(uc.Log, "login_failed", requestID,
			zap.String(constvars.LoggingUserIDKey, user.ID),
		)
		return nil, exceptions.ErrInvalidEmailOrPassword(nil)
	}

	// Deactivated accounts keep their credentials but cannot start sessions.
	if !user.Active {
		utils.LogSecurityEvent(uc.Log, "login_deactivated_account", requestID,
			zap.String(constvars.LoggingUserIDKey, user.ID),
		)
		return nil, exceptions.ErrUserDeactivated(nil)
	}

	// Store session data in Redis
	sessionTTL := time.Duration(uc.InternalConfig.App.LoginSessionExpiredTimeInHours) * time.Hour
	session, err := uc.SessionService.CreateSession(ctx, user, sessionTTL)
	if err != nil {
		return nil, err
	}

	// Create a JWT token bound to the session
	tokenString, err := utils.GenerateSessionJWT(session.ID, uc.InternalConfig.JWT.Secret, uc.InternalConfig.JWT.ExpTimeInHour)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("AuthUsecase.LoginUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, user.ID),
		zap.String(constvars.LoggingRoleKey, user.Role),
	)

	response := &responses.LoginUser{
		Token: tokenString,
		User: responses.UserInfo{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	}
	return response, nil
}

func (uc *authUsecase) LogoutUser(ctx context.Context, sessionID string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AuthUsecase.LogoutUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	err := uc.SessionService.DeleteSession(ctx, sessionID)
	if err != nil {
		return err
	}

	return nil
}

func (uc *authUsecase) MintRelayToken(ctx context.Context, session *models.Session) (string, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AuthUsecase.MintRelayToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	claims := &utils.RelayClaims{
		SessionID: session.ID,
		UserID:    session.UserID,
		Role:      session.Role,
		Email:     session.Email,
		Name:      session.Name,
	}

	relayTTL := time.Duration(uc.InternalConfig.JWT.RelayExpTimeInSeconds) * time.Second
	tokenString, err := utils.GenerateRelayJWT(claims, uc.InternalConfig.JWT.Secret, relayTTL)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
