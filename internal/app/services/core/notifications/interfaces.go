package notifications

import (
	"context"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
)

type NotificationUsecase interface {
	ListNotifications(ctx context.Context, request *requests.Pagination) ([]responses.AdminNotification, int, error)
}

type AdminNotificationRepository interface {
	InsertNotification(ctx context.Context, notification *models.AdminNotification) (notificationID string, err error)
	FindNotifications(ctx context.Context, page, pageSize int) ([]models.AdminNotification, int64, error)
}
