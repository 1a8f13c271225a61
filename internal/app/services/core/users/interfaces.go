package users

import (
	"context"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
)

type UserUsecase interface {
	CreateUser(ctx context.Context, request *requests.CreateUser) (*responses.CreateUser, error)
	UpdateUserRole(ctx context.Context, userID string, request *requests.UpdateUserRole) (*responses.UserProfile, error)
	DeactivateUser(ctx context.Context, userID string) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, userModel *models.User) (userID string, err error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, userModel *models.User) error
}
