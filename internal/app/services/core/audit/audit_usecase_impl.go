package audit

import (
	"bytes"
	"context"
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/contracts"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type auditUsecase struct {
	AuditLogRepository AuditLogRepository
	MinioStorage       contracts.Storage
	InternalConfig     *config.InternalConfig
	DriverConfig       *config.DriverConfig
	Log                *zap.Logger
}

func NewAuditUsecase(
	auditLogMongoRepository AuditLogRepository,
	minioStorage contracts.Storage,
	internalConfig *config.InternalConfig,
	driverConfig *config.DriverConfig,
	logger *zap.Logger,
) AuditUsecase {
	return &auditUsecase{
		AuditLogRepository: auditLogMongoRepository,
		MinioStorage:       minioStorage,
		InternalConfig:     internalConfig,
		DriverConfig:       driverConfig,
		Log:                logger,
	}
}

func (uc *auditUsecase) ListEntries(ctx context.Context, request *requests.AuditQuery) ([]responses.AuditEntry, int, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AuditUsecase.ListEntries called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	filter, err := buildAuditFilterFromQuery(request)
	if err != nil {
		return nil, 0, err
	}

	entries, total, err := uc.AuditLogRepository.FindEntries(ctx, filter, request.Page, request.PageSize)
	if err != nil {
		return nil, 0, err
	}

	result := make([]responses.AuditEntry, 0, len(entries))
	for i := range entries {
		result = append(result, buildAuditEntryResponse(&entries[i]))
	}
	return result, int(total), nil
}

func (uc *auditUsecase) ExportEntries(ctx context.Context, request *requests.AuditExport) (*responses.AuditExport, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("AuditUsecase.ExportEntries called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	from, to, err := parseTimeRange(request.From, request.To)
	if err != nil {
		return nil, err
	}

	entries, err := uc.AuditLogRepository.FindAllEntries(ctx, &AuditFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}

	// One JSON document per line, in the caller-facing field names.
	var buffer bytes.Buffer
	for i := range entries {
		line, err := json.Marshal(buildAuditEntryResponse(&entries[i]))
		if err != nil {
			return nil, exceptions.ErrCannotMarshalJSON(err)
		}
		buffer.Write(line)
		buffer.WriteByte('\n')
	}

	bucketName := uc.DriverConfig.Minio.BucketName
	objectName := utils.GenerateExportObjectName(uc.InternalConfig.Audit.ExportObjectPrefix)

	err = uc.MinioStorage.UploadObject(ctx, bucketName, objectName, bytes.NewReader(buffer.Bytes()), int64(buffer.Len()), constvars.MIMEApplicationNDJSON)
	if err != nil {
		return nil, err
	}

	urlExpiry := time.Duration(uc.InternalConfig.Audit.ExportPresignedURLExpiryTimeInHours) * time.Hour
	downloadURL, err := uc.MinioStorage.GetObjectUrlWithExpiryTime(ctx, bucketName, objectName, urlExpiry)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("AuditUsecase.ExportEntries succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("object_name", objectName),
		zap.Int("entry_count", len(entries)),
	)

	response := &responses.AuditExport{
		ObjectName:  objectName,
		DownloadURL: downloadURL,
		URLExpires:  time.Now().UTC().Add(urlExpiry).Format(time.RFC3339),
		EntryCount:  len(entries),
	}
	return response, nil
}

func buildAuditFilterFromQuery(request *requests.AuditQuery) (*AuditFilter, error) {
	from, to, err := parseTimeRange(request.From, request.To)
	if err != nil {
		return nil, err
	}

	return &AuditFilter{
		UserID:     request.UserID,
		PatientID:  request.PatientID,
		Outcome:    request.Outcome,
		AccessType: request.AccessType,
		From:       from,
		To:         to,
	}, nil
}

func parseTimeRange(fromStr, toStr string) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return nil, nil, exceptions.ErrCannotParseTime(err)
		}
		from = &parsed
	}
	if toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return nil, nil, exceptions.ErrCannotParseTime(err)
		}
		to = &parsed
	}
	return from, to, nil
}

func buildAuditEntryResponse(entry *models.AccessAuditEntry) responses.AuditEntry {
	return responses.AuditEntry{
		ID:         entry.ID,
		UserID:     entry.UserID,
		PatientID:  entry.PatientID,
		AccessType: entry.AccessType,
		Granted:    entry.Granted,
		Reason:     entry.Reason,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		CreatedAt:  entry.CreatedAt.UTC().Format(time.RFC3339),
	}
}
