package viewer

import (
	"context"
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/contracts"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	accessSummaryKeyPrefix = "viewer_access:"
	patientListLimit       = 100
)

type viewerUsecase struct {
	AccessClient    contracts.AccessServiceClient
	CatalogClient   contracts.ImagingCatalogClient
	SessionService  contracts.SessionService
	RedisRepository contracts.RedisRepository
	InternalConfig  *config.InternalConfig
	Log             *zap.Logger
}

func NewViewerUsecase(
	accessClient contracts.AccessServiceClient,
	catalogClient contracts.ImagingCatalogClient,
	sessionService contracts.SessionService,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) ViewerUsecase {
	return &viewerUsecase{
		AccessClient:    accessClient,
		CatalogClient:   catalogClient,
		SessionService:  sessionService,
		RedisRepository: redisRepository,
		InternalConfig:  internalConfig,
		Log:             logger,
	}
}

func (uc *viewerUsecase) ExchangeRelayToken(ctx context.Context, relayToken string) (*models.Session, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("viewerUsecase.ExchangeRelayToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	// Local parse rejects garbage and expired tokens cheaply; the remote
	// verify is still the authority on whether the session behind it lives.
	if _, err := utils.ParseRelayJWT(relayToken, uc.InternalConfig.JWT.Secret); err != nil {
		uc.Log.Warn("viewerUsecase.ExchangeRelayToken token parse failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	userInfo, err := uc.AccessClient.VerifyRelayToken(ctx, relayToken)
	if err != nil {
		return nil, err
	}

	viewerTTL := time.Duration(uc.InternalConfig.Viewer.SessionExpiredTimeInMinutes) * time.Minute
	user := &models.User{
		ID:    userInfo.ID,
		Email: userInfo.Email,
		Name:  userInfo.Name,
		Role:  userInfo.Role,
	}
	session, err := uc.SessionService.CreateSession(ctx, user, viewerTTL)
	if err != nil {
		return nil, err
	}

	// The summary is fetched eagerly so the first worklist render does not
	// block on the authorization service. A failure here fails the exchange;
	// a viewer session must never start blind.
	summary, err := uc.AccessClient.ListAccessiblePatients(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if err := uc.RedisRepository.Set(ctx, accessSummaryKeyPrefix+session.ID, summary, viewerTTL); err != nil {
		return nil, err
	}

	uc.Log.Info("viewerUsecase.ExchangeRelayToken succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
		zap.String(constvars.LoggingRoleKey, session.Role),
	)
	return session, nil
}

func (uc *viewerUsecase) GetSession(ctx context.Context, session *models.Session) (*responses.ViewerSession, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("viewerUsecase.GetSession called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	summary, err := uc.accessSummary(ctx, session)
	if err != nil {
		return nil, err
	}

	return &responses.ViewerSession{
		Authenticated: true,
		User: &responses.UserInfo{
			ID:    session.UserID,
			Email: session.Email,
			Name:  session.Name,
			Role:  session.Role,
		},
		HasFullAccess: summary.HasFullAccess,
		PatientCount:  summary.PatientCount,
	}, nil
}

func (uc *viewerUsecase) ListPatients(ctx context.Context, session *models.Session) ([]responses.CatalogPatient, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("viewerUsecase.ListPatients called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
	)

	summary, err := uc.accessSummary(ctx, session)
	if err != nil {
		return nil, err
	}

	if summary.HasFullAccess {
		return uc.CatalogClient.SearchPatients(ctx, "", patientListLimit)
	}

	patients := []responses.CatalogPatient{}
	for _, patientID := range summary.AccessiblePatients {
		patient, err := uc.CatalogClient.GetPatient(ctx, patientID)
		if err != nil {
			return nil, err
		}
		// Granted but not yet indexed by the catalog; nothing to show.
		if patient == nil {
			continue
		}
		patients = append(patients, *patient)
	}

	uc.Log.Info("viewerUsecase.ListPatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("patient_count", len(patients)),
	)
	return patients, nil
}

func (uc *viewerUsecase) ListStudies(ctx context.Context, session *models.Session, patientID string) ([]responses.CatalogStudy, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("viewerUsecase.ListStudies called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingUserIDKey, session.UserID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
	)

	if patientID == "" {
		return nil, exceptions.ErrPatientIDEmpty(nil)
	}

	// Every study fetch re-asks the authorization service. The cached summary
	// is presentation state only and never stands in for a decision.
	decision, err := uc.AccessClient.CheckAccess(ctx, session.UserID, patientID, constvars.AccessTypeView)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		uc.Log.Warn("viewerUsecase.ListStudies access denied",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingUserIDKey, session.UserID),
			zap.String(constvars.LoggingPatientIDKey, patientID),
		)
		return nil, exceptions.ErrAccessDenied(nil)
	}

	studies, err := uc.CatalogClient.ListStudies(ctx, patientID)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("viewerUsecase.ListStudies succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.Int("study_count", len(studies)),
	)
	return studies, nil
}

func (uc *viewerUsecase) Logout(ctx context.Context, sessionID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("viewerUsecase.Logout called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	if err := uc.SessionService.DeleteSession(ctx, sessionID); err != nil {
		return err
	}
	return uc.RedisRepository.Delete(ctx, accessSummaryKeyPrefix+sessionID)
}

// accessSummary reads the cached accessible-patient summary, refetching from
// the authorization service when the cache entry has gone. The refresh TTL is
// clamped to the session's remaining life so the cache never outlives it.
func (uc *viewerUsecase) accessSummary(ctx context.Context, session *models.Session) (*responses.AccessiblePatients, error) {
	cached, err := uc.RedisRepository.Get(ctx, accessSummaryKeyPrefix+session.ID)
	if err != nil {
		return nil, err
	}
	if cached != "" {
		summary := new(responses.AccessiblePatients)
		if err := json.Unmarshal([]byte(cached), summary); err == nil {
			return summary, nil
		}
	}

	summary, err := uc.AccessClient.ListAccessiblePatients(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	remaining := time.Until(session.ExpiresAt)
	if remaining > 0 {
		if err := uc.RedisRepository.Set(ctx, accessSummaryKeyPrefix+session.ID, summary, remaining); err != nil {
			return nil, err
		}
	}
	return summary, nil
}
