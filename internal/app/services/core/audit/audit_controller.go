package audit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type AuditController struct {
	Log          *zap.Logger
	AuditUsecase AuditUsecase
}

func NewAuditController(logger *zap.Logger, auditUsecase AuditUsecase) *AuditController {
	return &AuditController{
		Log:          logger,
		AuditUsecase: auditUsecase,
	}
}

func (ctrl *AuditController) ListEntries(w http.ResponseWriter, r *http.Request) {
	request := utils.BuildAuditQueryRequest(r)

	err := utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, total, err := ctrl.AuditUsecase.ListEntries(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(total, request.Page, request.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.AuditEntriesSuccess, pagination, result)
}

func (ctrl *AuditController) ExportEntries(w http.ResponseWriter, r *http.Request) {
	// An empty body means an unfiltered export.
	request := new(requests.AuditExport)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil && err != io.EOF {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	// Export walks the full matching range, so it gets the long budget.
	ctx, cancel := context.WithTimeout(r.Context(), 40*time.Second)
	defer cancel()

	result, err := ctrl.AuditUsecase.ExportEntries(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.AuditExportSuccess, result)
}
