package catalog

import (
	"context"
	"net/http"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultSearchLimit = 25

type CatalogController struct {
	Log            *zap.Logger
	CatalogUsecase CatalogUsecase
}

func NewCatalogController(logger *zap.Logger, catalogUsecase CatalogUsecase) *CatalogController {
	return &CatalogController{
		Log:            logger,
		CatalogUsecase: catalogUsecase,
	}
}

func (ctrl *CatalogController) GetPatient(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrPatientIDEmpty(nil))
		return
	}

	request := &requests.CatalogPatientDetail{
		CallerUserID: session.UserID,
		PatientID:    patientID,
		IPAddress:    utils.ClientIP(r),
		UserAgent:    r.UserAgent(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.CatalogUsecase.GetPatient(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PatientGetSuccess, result)
}

func (ctrl *CatalogController) ListStudies(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrPatientIDEmpty(nil))
		return
	}

	request := &requests.CatalogPatientDetail{
		CallerUserID: session.UserID,
		PatientID:    patientID,
		IPAddress:    utils.ClientIP(r),
		UserAgent:    r.UserAgent(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.CatalogUsecase.ListStudies(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.StudiesListSuccess, result)
}

func (ctrl *CatalogController) SearchPatients(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	limit := defaultSearchLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err == nil {
			limit = parsed
		}
	}

	request := &requests.CatalogSearch{
		CallerUserID: session.UserID,
		NameQuery:    r.URL.Query().Get("q"),
		Limit:        limit,
	}

	utils.SanitizeCatalogSearchRequest(request)

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.CatalogUsecase.SearchPatients(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PatientSearchSuccess, result)
}
