package contracts

import (
	"context"
	"radgate-service/internal/app/models"
)

type AccessEventPublisher interface {
	PublishAccessEvent(ctx context.Context, event *models.AccessEvent) error
}
