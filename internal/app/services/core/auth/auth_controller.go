package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"radgate-service/internal/app/config"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

type AuthController struct {
	Log            *zap.Logger
	AuthUsecase    AuthUsecase
	InternalConfig *config.InternalConfig
}

func NewAuthController(logger *zap.Logger, authUsecase AuthUsecase, internalConfig *config.InternalConfig) *AuthController {
	return &AuthController{
		Log:            logger,
		AuthUsecase:    authUsecase,
		InternalConfig: internalConfig,
	}
}

func (ctrl *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	// Bind body to request
	request := new(requests.LoginUser)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	// Sanitize the request data to remove any unwanted characters or spaces
	utils.SanitizeLoginRequest(request)

	// Validate the sanitized request data to ensure it meets all requirements
	err = utils.ValidateStruct(request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := ctrl.AuthUsecase.LoginUser(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LoginSuccess, result)
}

func (ctrl *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err = ctrl.AuthUsecase.LogoutUser(ctx, session.ID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LogoutSuccess, nil)
}

// Status reports whether the caller holds a live session. Anonymous callers
// get a plain unauthenticated payload, not an error.
func (ctrl *AuthController) Status(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, &responses.AuthStatus{Authenticated: false})
		return
	}

	response := &responses.AuthStatus{
		Authenticated: true,
		User: &responses.UserInfo{
			ID:    session.UserID,
			Email: session.Email,
			Name:  session.Name,
			Role:  session.Role,
		},
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, response)
}

// VerifyToken is the identity check behind the relay hop. The authentication
// middleware has already validated signature, expiry and session liveness by
// the time this handler runs.
func (ctrl *AuthController) VerifyToken(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	response := &responses.VerifyToken{
		User: responses.UserInfo{
			ID:    session.UserID,
			Email: session.Email,
			Name:  session.Name,
			Role:  session.Role,
		},
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.TokenVerifiedSuccess, response)
}

// SSOViewer mints a relay token and hands the browser to the viewer. The
// token rides the redirect URL exactly once; the viewer strips it on capture.
func (ctrl *AuthController) SSOViewer(w http.ResponseWriter, r *http.Request) {
	session, err := utils.GetSessionData(r.Context())
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	relayToken, err := ctrl.AuthUsecase.MintRelayToken(ctx, session)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	viewerBase := strings.TrimSuffix(ctrl.InternalConfig.Viewer.PublicBaseUrl, "/")
	redirectURL := fmt.Sprintf("%s/?%s=%s", viewerBase, constvars.ViewerRelayQueryParam, url.QueryEscape(relayToken))
	http.Redirect(w, r, redirectURL, constvars.StatusFound)
}
