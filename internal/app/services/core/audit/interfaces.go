package audit

import (
	"context"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"time"
)

type AuditUsecase interface {
	ListEntries(ctx context.Context, request *requests.AuditQuery) ([]responses.AuditEntry, int, error)
	ExportEntries(ctx context.Context, request *requests.AuditExport) (*responses.AuditExport, error)
}

// AuditFilter narrows audit queries. Zero values mean no constraint.
type AuditFilter struct {
	UserID     string
	PatientID  string
	Outcome    string
	AccessType string
	From       *time.Time
	To         *time.Time
}

type AuditLogRepository interface {
	InsertEntry(ctx context.Context, entry *models.AccessAuditEntry) (entryID string, err error)
	FindEntries(ctx context.Context, filter *AuditFilter, page, pageSize int) ([]models.AccessAuditEntry, int64, error)
	FindAllEntries(ctx context.Context, filter *AuditFilter) ([]models.AccessAuditEntry, error)
}
