package catalog

import (
	"context"
	"radgate-service/internal/app/contracts"
	"radgate-service/internal/app/services/core/access"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type catalogUsecase struct {
	AccessUsecase access.AccessUsecase
	CatalogClient contracts.ImagingCatalogClient
	Log           *zap.Logger
}

func NewCatalogUsecase(
	accessUsecase access.AccessUsecase,
	catalogClient contracts.ImagingCatalogClient,
	logger *zap.Logger,
) CatalogUsecase {
	return &catalogUsecase{
		AccessUsecase: accessUsecase,
		CatalogClient: catalogClient,
		Log:           logger,
	}
}

// GetPatient runs the access check before touching the catalog, so a caller
// without a relationship learns nothing about the identifier, not even
// whether it exists.
func (u *catalogUsecase) GetPatient(ctx context.Context, request *requests.CatalogPatientDetail) (*responses.CatalogPatient, error) {
	u.Log.Info("CatalogUsecase.GetPatient called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingUserIDKey, request.CallerUserID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	if err := u.checkView(ctx, request); err != nil {
		return nil, err
	}

	patient, err := u.CatalogClient.GetPatient(ctx, request.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.ErrCatalogPatientNotFound(nil)
	}

	u.Log.Info("CatalogUsecase.GetPatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)
	return patient, nil
}

func (u *catalogUsecase) ListStudies(ctx context.Context, request *requests.CatalogPatientDetail) ([]responses.CatalogStudy, error) {
	u.Log.Info("CatalogUsecase.ListStudies called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingUserIDKey, request.CallerUserID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	if err := u.checkView(ctx, request); err != nil {
		return nil, err
	}

	studies, err := u.CatalogClient.ListStudies(ctx, request.PatientID)
	if err != nil {
		return nil, err
	}

	u.Log.Info("CatalogUsecase.ListStudies succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.Int("study_count", len(studies)),
	)
	return studies, nil
}

// SearchPatients narrows results to the caller's accessible set instead of
// checking each hit, which would flood the audit trail with one entry per
// result. Full-access roles see the unfiltered catalog answer.
func (u *catalogUsecase) SearchPatients(ctx context.Context, request *requests.CatalogSearch) ([]responses.CatalogPatient, error) {
	u.Log.Info("CatalogUsecase.SearchPatients called",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.String(constvars.LoggingUserIDKey, request.CallerUserID),
		zap.String(constvars.LoggingQueryKey, request.NameQuery),
	)

	accessible, err := u.AccessUsecase.ListAccessiblePatients(ctx, request.CallerUserID)
	if err != nil {
		return nil, err
	}

	patients, err := u.CatalogClient.SearchPatients(ctx, request.NameQuery, request.Limit)
	if err != nil {
		return nil, err
	}

	if !accessible.HasFullAccess {
		allowed := make(map[string]bool, len(accessible.AccessiblePatients))
		for _, patientID := range accessible.AccessiblePatients {
			allowed[patientID] = true
		}
		filtered := []responses.CatalogPatient{}
		for _, patient := range patients {
			if allowed[patient.PatientID] {
				filtered = append(filtered, patient)
			}
		}
		patients = filtered
	}

	u.Log.Info("CatalogUsecase.SearchPatients succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.Int("patient_count", len(patients)),
	)
	return patients, nil
}

func (u *catalogUsecase) checkView(ctx context.Context, request *requests.CatalogPatientDetail) error {
	decision, err := u.AccessUsecase.CheckAccess(ctx, &requests.CheckAccess{
		UserID:     request.CallerUserID,
		PatientID:  request.PatientID,
		AccessType: constvars.AccessTypeView,
		IPAddress:  request.IPAddress,
		UserAgent:  request.UserAgent,
	})
	if err != nil {
		return err
	}
	if !decision.Allowed {
		return exceptions.ErrAccessDenied(nil)
	}
	return nil
}
