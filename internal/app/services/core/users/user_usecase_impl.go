package users

import (
	"context"
	"radgate-service/internal/app/contracts"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type userUsecase struct {
	UserRepository UserRepository
	SessionService contracts.SessionService
	Log            *zap.Logger
}

func NewUserUsecase(
	userMongoRepository UserRepository,
	sessionService contracts.SessionService,
	logger *zap.Logger,
) UserUsecase {
	return &userUsecase{
		UserRepository: userMongoRepository,
		SessionService: sessionService,
		Log:            logger,
	}
}

func (uc *userUsecase) CreateUser(ctx context.Context, request *requests.CreateUser) (*responses.CreateUser, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("UserUsecase.CreateUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingRoleKey, request.Role),
	)

	// Check if email already exists
	existingUser, err := uc.UserRepository.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, exceptions.ErrEmailAlreadyExist(nil)
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	userModel := &models.User{
		Email:    request.Email,
		Name:     request.Name,
		Password: hashedPassword,
		Role:     request.Role,
		Active:   true,
	}
	// The patient link only means something for Patient accounts.
	if request.Role == constvars.RadgateRolePatient {
		userModel.PatientID = request.PatientID
	}
	userModel.SetCreatedAtUpdatedAt()

	userID, err := uc.UserRepository.CreateUser(ctx, userModel)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("UserUsecase.CreateUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)
	return &responses.CreateUser{UserID: userID}, nil
}

func (uc *userUsecase) UpdateUserRole(ctx context.Context, userID string, request *requests.UpdateUserRole) (*responses.UserProfile, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("UserUsecase.UpdateUserRole called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
		zap.String(constvars.LoggingRoleKey, request.Role),
	)

	existingUser, err := uc.UserRepository.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existingUser == nil {
		return nil, exceptions.ErrUserNotExist(nil)
	}

	existingUser.Role = request.Role
	existingUser.SetUpdatedAt()

	err = uc.UserRepository.UpdateUser(ctx, existingUser)
	if err != nil {
		return nil, err
	}

	// Role changes take effect on the next check through live sessions, so the
	// cached role view must not outlive this request.
	err = uc.SessionService.DeleteUserSessions(ctx, existingUser.ID)
	if err != nil {
		return nil, err
	}

	return buildUserProfileResponse(existingUser), nil
}

func (uc *userUsecase) DeactivateUser(ctx context.Context, userID string) error {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("UserUsecase.DeactivateUser called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)

	existingUser, err := uc.UserRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if existingUser == nil {
		return exceptions.ErrUserNotExist(nil)
	}

	existingUser.Active = false
	existingUser.SetUpdatedAt()

	err = uc.UserRepository.UpdateUser(ctx, existingUser)
	if err != nil {
		return err
	}

	// Killing the sessions makes every outstanding token fail verification
	// immediately, including relayed ones held by the viewer.
	err = uc.SessionService.DeleteUserSessions(ctx, existingUser.ID)
	if err != nil {
		return err
	}

	uc.Log.Info("UserUsecase.DeactivateUser succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, userID),
	)
	return nil
}

func buildUserProfileResponse(user *models.User) *responses.UserProfile {
	return &responses.UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		PatientID: user.PatientID,
		Active:    user.Active,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
	}
}
