package viewer

import (
	"context"
	"encoding/json"
	"net/http"
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const viewerShellHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Radgate Viewer</title>
</head>
<body>
  <h1>Radgate Viewer</h1>
  <p>No viewing session. Open a study from the Radgate console to start one.</p>
</body>
</html>
`

type ViewerController struct {
	Log            *zap.Logger
	ViewerUsecase  ViewerUsecase
	InternalConfig *config.InternalConfig
}

func NewViewerController(logger *zap.Logger, viewerUsecase ViewerUsecase, internalConfig *config.InternalConfig) *ViewerController {
	return &ViewerController{
		Log:            logger,
		ViewerUsecase:  viewerUsecase,
		InternalConfig: internalConfig,
	}
}

// Home is the SSO landing. A relay token in the query is exchanged for a
// cookie session, then the browser is redirected to the clean root so the
// token never survives in the address bar or in history.
func (ctrl *ViewerController) Home(w http.ResponseWriter, r *http.Request) {
	relayToken := r.URL.Query().Get(constvars.ViewerRelayQueryParam)
	if relayToken == "" {
		w.Header().Set(constvars.HeaderContentType, constvars.MIMETextHTML)
		w.WriteHeader(constvars.StatusOK)
		w.Write([]byte(viewerShellHTML))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	session, err := ctrl.ViewerUsecase.ExchangeRelayToken(ctx, relayToken)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.setSessionCookie(w, session)
	http.Redirect(w, r, "/", constvars.StatusFound)
}

// ExchangeToken is the programmatic variant of the landing exchange for
// clients that hold the relay token in hand instead of in a redirect URL.
func (ctrl *ViewerController) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	request := new(requests.RelayTokenExchange)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	utils.SanitizeRelayTokenExchangeRequest(request)

	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	session, err := ctrl.ViewerUsecase.ExchangeRelayToken(ctx, request.Token)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	result, err := ctrl.ViewerUsecase.GetSession(ctx, session)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.setSessionCookie(w, session)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ViewerTokenExchanged, result)
}

// GetSession reports the viewer session state. Anonymous callers get a plain
// unauthenticated payload, not an error, so the frontend can branch without
// special-casing status codes.
func (ctrl *ViewerController) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, &responses.ViewerSession{Authenticated: false})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.ViewerUsecase.GetSession(ctx, session)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ViewerSessionSuccess, result)
}

func (ctrl *ViewerController) ListPatients(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.ViewerUsecase.ListPatients(ctx, session)
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

func (ctrl *ViewerController) ListStudies(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	patientID := chi.URLParam(r, "patientID")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.ViewerUsecase.ListStudies(ctx, session, patientID)
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

func (ctrl *ViewerController) Logout(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = ctrl.ViewerUsecase.Logout(ctx, session.ID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctrl.clearSessionCookie(w)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ViewerSessionEndedNotice, nil)
}

func (ctrl *ViewerController) setSessionCookie(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     constvars.ViewerSessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (ctrl *ViewerController) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     constvars.ViewerSessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
