package notifications

import (
	"context"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type notificationUsecase struct {
	AdminNotificationRepository AdminNotificationRepository
	Log                         *zap.Logger
}

func NewNotificationUsecase(
	adminNotificationMongoRepository AdminNotificationRepository,
	logger *zap.Logger,
) NotificationUsecase {
	return &notificationUsecase{
		AdminNotificationRepository: adminNotificationMongoRepository,
		Log:                         logger,
	}
}

func (uc *notificationUsecase) ListNotifications(ctx context.Context, request *requests.Pagination) ([]responses.AdminNotification, int, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("NotificationUsecase.ListNotifications called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	notifications, total, err := uc.AdminNotificationRepository.FindNotifications(ctx, request.Page, request.PageSize)
	if err != nil {
		return nil, 0, err
	}

	results := make([]responses.AdminNotification, 0, len(notifications))
	for i := range notifications {
		results = append(results, buildNotificationResponse(&notifications[i]))
	}

	uc.Log.Info("NotificationUsecase.ListNotifications succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("notification_count", len(results)),
	)
	return results, int(total), nil
}

func buildNotificationResponse(notification *models.AdminNotification) responses.AdminNotification {
	return responses.AdminNotification{
		ID:        notification.ID,
		Type:      notification.Type,
		UserID:    notification.UserID,
		PatientID: notification.PatientID,
		RecordID:  notification.RecordID,
		Message:   notification.Message,
		CreatedAt: notification.CreatedAt.UTC().Format(time.RFC3339),
	}
}
