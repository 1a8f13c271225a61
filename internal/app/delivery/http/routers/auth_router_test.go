package routers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/models"
	"radgate-service/internal/app/services/core/auth"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"radgate-service/internal/pkg/utils"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) LoginUser(ctx context.Context, request *requests.LoginUser) (*responses.LoginUser, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.LoginUser), args.Error(1)
}

func (m *MockAuthUsecase) LogoutUser(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockAuthUsecase) MintRelayToken(ctx context.Context, session *models.Session) (string, error) {
	args := m.Called(ctx, session)
	return args.String(0), args.Error(1)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) CreateSession(ctx context.Context, user *models.User, ttl time.Duration) (*models.Session, error) {
	args := m.Called(ctx, user, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionService) GetSessionData(ctx context.Context, sessionID string) (*models.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionService) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionService) DeleteUserSessions(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

const routerTestJWTSecret = "router-test-secret"

func buildAuthTestConfig(apiKey string) *config.InternalConfig {
	return &config.InternalConfig{
		App: config.App{
			InternalServiceAPIKey: apiKey,
		},
		JWT: config.AppJWT{
			Secret: routerTestJWTSecret,
		},
		Viewer: config.AppViewer{
			PublicBaseUrl: "http://viewer.example.com",
		},
	}
}

func TestAuthRouter_Login(t *testing.T) {
	logger := zap.NewNop()

	internalConfig := buildAuthTestConfig("test-internal-api-key-12345")

	mockAuthUsecase := new(MockAuthUsecase)
	mockSessionService := new(MockSessionService)

	authController := auth.NewAuthController(logger, mockAuthUsecase, internalConfig)

	middlewareInstance := &middlewares.Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		SessionService: mockSessionService,
	}
	loginLimiter := middlewares.NewLoginRateLimiter(logger, 100)

	router := chi.NewRouter()
	attachAuthRoutes(router, middlewareInstance, loginLimiter, authController)

	t.Run("Login With Invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/login", bytes.NewBufferString("invalid json"))
		req.Header.Set("Content-Type", "application/json")

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "should return 400 Bad Request for invalid JSON")

		mockAuthUsecase.AssertNotCalled(t, "LoginUser")
	})

	t.Run("Login With Missing Password", func(t *testing.T) {
		requestBody := map[string]interface{}{"email": "admin@example.com"}
		jsonBody, _ := json.Marshal(requestBody)

		req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "should return 400 Bad Request for missing password")

		mockAuthUsecase.AssertNotCalled(t, "LoginUser")
	})

	t.Run("Login With Valid Credentials", func(t *testing.T) {
		mockAuthUsecase.On("LoginUser", mock.Anything, mock.AnythingOfType("*requests.LoginUser")).Return(&responses.LoginUser{
			Token: "signed-session-token",
			User: responses.UserInfo{
				ID:    "user-1",
				Email: "admin@example.com",
				Name:  "Admin",
				Role:  "Admin",
			},
		}, nil)

		requestBody := requests.LoginUser{
			Email:    "admin@example.com",
			Password: "password123",
		}
		jsonBody, _ := json.Marshal(requestBody)

		req := httptest.NewRequest("POST", "/login", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK for valid credentials")
		mockAuthUsecase.AssertExpectations(t)
	})
}

func TestAuthRouter_SessionRoutes(t *testing.T) {
	logger := zap.NewNop()

	internalConfig := buildAuthTestConfig("test-internal-api-key-12345")

	mockAuthUsecase := new(MockAuthUsecase)
	mockSessionService := new(MockSessionService)

	authController := auth.NewAuthController(logger, mockAuthUsecase, internalConfig)

	middlewareInstance := &middlewares.Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		SessionService: mockSessionService,
	}
	loginLimiter := middlewares.NewLoginRateLimiter(logger, 100)

	router := chi.NewRouter()
	attachAuthRoutes(router, middlewareInstance, loginLimiter, authController)

	sessionToken, err := utils.GenerateSessionJWT("session-123", routerTestJWTSecret, 1)
	assert.NoError(t, err, "test session token should be generated")

	liveSession := &models.Session{
		ID:     "session-123",
		UserID: "user-1",
		Email:  "admin@example.com",
		Name:   "Admin",
		Role:   "Admin",
	}

	t.Run("Logout Without Token", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/logout", nil)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized without a bearer token")

		mockAuthUsecase.AssertNotCalled(t, "LogoutUser")
	})

	t.Run("Logout With Live Session", func(t *testing.T) {
		mockSessionService.On("GetSessionData", mock.Anything, "session-123").Return(liveSession, nil)
		mockAuthUsecase.On("LogoutUser", mock.Anything, "session-123").Return(nil)

		req := httptest.NewRequest("POST", "/logout", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK for authenticated logout")
		mockAuthUsecase.AssertExpectations(t)
	})

	t.Run("Status Without Token Reports Anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/status", nil)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "status should answer anonymous callers with 200")
	})

	t.Run("SSO Redirect Carries Relay Token", func(t *testing.T) {
		mockAuthUsecase.On("MintRelayToken", mock.Anything, liveSession).Return("relay-abc", nil)

		req := httptest.NewRequest("GET", "/sso/viewer", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code, "should redirect the browser to the viewer")
		assert.Equal(t, "http://viewer.example.com/?relay_token=relay-abc", rr.Header().Get("Location"),
			"redirect should carry the relay token as a query parameter")
	})
}

func TestAuthRouter_RelayVerify(t *testing.T) {
	logger := zap.NewNop()

	testAPIKey := "test-internal-api-key-12345"
	internalConfig := buildAuthTestConfig(testAPIKey)

	mockAuthUsecase := new(MockAuthUsecase)
	mockSessionService := new(MockSessionService)

	authController := auth.NewAuthController(logger, mockAuthUsecase, internalConfig)

	middlewareInstance := &middlewares.Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		SessionService: mockSessionService,
	}
	loginLimiter := middlewares.NewLoginRateLimiter(logger, 100)

	router := chi.NewRouter()
	attachAuthRoutes(router, middlewareInstance, loginLimiter, authController)

	liveRelayToken, err := utils.GenerateRelayJWT(&utils.RelayClaims{
		SessionID: "session-live",
		UserID:    "user-1",
		Role:      "Radiologist",
		Email:     "doctor@example.com",
		Name:      "Doctor",
	}, routerTestJWTSecret, time.Minute)
	assert.NoError(t, err, "test relay token should be generated")

	deadRelayToken, err := utils.GenerateRelayJWT(&utils.RelayClaims{
		SessionID: "session-dead",
		UserID:    "user-2",
		Role:      "Radiologist",
		Email:     "gone@example.com",
		Name:      "Gone",
	}, routerTestJWTSecret, time.Minute)
	assert.NoError(t, err, "test relay token should be generated")

	t.Run("Verify Without API Key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/verify", nil)
		req.Header.Set("Authorization", "Bearer "+liveRelayToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "verify is internal only, browsers must not reach it")

		mockSessionService.AssertNotCalled(t, "GetSessionData")
	})

	t.Run("Verify With Revoked Session", func(t *testing.T) {
		mockSessionService.On("GetSessionData", mock.Anything, "session-dead").Return(nil, exceptions.ErrSessionInvalid(nil))

		req := httptest.NewRequest("GET", "/verify", nil)
		req.Header.Set("x-api-key", testAPIKey)
		req.Header.Set("Authorization", "Bearer "+deadRelayToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "a relay token for a revoked session must not verify")
	})

	t.Run("Verify With Live Session", func(t *testing.T) {
		mockSessionService.On("GetSessionData", mock.Anything, "session-live").Return(&models.Session{
			ID:     "session-live",
			UserID: "user-1",
			Email:  "doctor@example.com",
			Name:   "Doctor",
			Role:   "Radiologist",
		}, nil)

		req := httptest.NewRequest("GET", "/verify", nil)
		req.Header.Set("x-api-key", testAPIKey)
		req.Header.Set("Authorization", "Bearer "+liveRelayToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK for a live relayed session")
		mockSessionService.AssertExpectations(t)
	})
}
