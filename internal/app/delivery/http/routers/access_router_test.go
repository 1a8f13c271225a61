package routers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/models"
	"radgate-service/internal/app/services/core/access"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/utils"
	"testing"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockAccessUsecase struct {
	mock.Mock
}

func (m *MockAccessUsecase) CheckAccess(ctx context.Context, request *requests.CheckAccess) (*responses.AccessDecision, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.AccessDecision), args.Error(1)
}

func (m *MockAccessUsecase) GrantPatientAccess(ctx context.Context, actorUserID string, request *requests.GrantPatientAccess) (*responses.RelationshipRecord, error) {
	args := m.Called(ctx, actorUserID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.RelationshipRecord), args.Error(1)
}

func (m *MockAccessUsecase) AssignDoctor(ctx context.Context, actorUserID string, request *requests.AssignDoctor) (*responses.RelationshipRecord, error) {
	args := m.Called(ctx, actorUserID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.RelationshipRecord), args.Error(1)
}

func (m *MockAccessUsecase) GrantFamilyAccess(ctx context.Context, actorUserID string, request *requests.GrantFamilyAccess) (*responses.RelationshipRecord, error) {
	args := m.Called(ctx, actorUserID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.RelationshipRecord), args.Error(1)
}

func (m *MockAccessUsecase) VerifyFamilyAccess(ctx context.Context, actorUserID, recordID string) (*responses.RelationshipRecord, error) {
	args := m.Called(ctx, actorUserID, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.RelationshipRecord), args.Error(1)
}

func (m *MockAccessUsecase) RevokeAccess(ctx context.Context, actorUserID, relationKind, recordID string) error {
	args := m.Called(ctx, actorUserID, relationKind, recordID)
	return args.Error(0)
}

func (m *MockAccessUsecase) ListAccessiblePatients(ctx context.Context, userID string) (*responses.AccessiblePatients, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.AccessiblePatients), args.Error(1)
}

// The test router mounts the access routes at the root, so policy paths here
// are the bare route patterns.
func buildAccessTestEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()

	m, err := casbinmodel.NewModelFromString(`
[request_definition]
r = sub, act, obj

[policy_definition]
p = sub, act, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.act == p.act && (pathMatch(r.obj, p.obj) || keyMatch2(r.obj, p.obj))
`)
	assert.NoError(t, err)

	enforcer, err := casbin.NewEnforcer(m)
	assert.NoError(t, err)
	enforcer.AddFunction("pathMatch", utils.PathMatchFunc)

	enforcer.AddPolicy(constvars.RadgateRoleAdmin, "GET", "/check")
	enforcer.AddPolicy(constvars.RadgateRoleAdmin, "GET", "/users/:userID/patients")
	enforcer.AddPolicy(constvars.RadgateRolePatient, "GET", "/check")
	enforcer.AddPolicy(constvars.RadgateRolePatient, "GET", "/users/:userID/patients")

	return enforcer
}

func TestAccessRouter_InternalOrAuthenticated(t *testing.T) {
	logger := zap.NewNop()

	testAPIKey := "test-internal-api-key-12345"
	internalConfig := buildAuthTestConfig(testAPIKey)

	mockAccessUsecase := new(MockAccessUsecase)
	mockSessionService := new(MockSessionService)

	accessController := access.NewAccessController(logger, mockAccessUsecase)

	middlewareInstance := &middlewares.Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		SessionService: mockSessionService,
		Enforcer:       buildAccessTestEnforcer(t),
	}

	router := chi.NewRouter()
	attachAccessRoutes(router, middlewareInstance, accessController)

	sessionToken, err := utils.GenerateSessionJWT("session-admin", routerTestJWTSecret, 1)
	assert.NoError(t, err, "test session token should be generated")

	t.Run("Check Without Credentials", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/check?user_id=user-1&patient_id=pat-001&access_type=view", nil)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized without API key or session")

		mockAccessUsecase.AssertNotCalled(t, "CheckAccess")
	})

	t.Run("Check With Invalid API Key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/check?user_id=user-1&patient_id=pat-001&access_type=view", nil)
		req.Header.Set("x-api-key", "wrong-key")

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "should return 401 Unauthorized for a forged API key")

		mockAccessUsecase.AssertNotCalled(t, "CheckAccess")
	})

	t.Run("Check With API Key", func(t *testing.T) {
		mockAccessUsecase.On("CheckAccess", mock.Anything, mock.MatchedBy(func(request *requests.CheckAccess) bool {
			return request.UserID == "user-1" && request.PatientID == "pat-001" && request.AccessType == constvars.AccessTypeView
		})).Return(&responses.AccessDecision{
			UserID:      "user-1",
			PatientID:   "pat-001",
			Allowed:     true,
			AccessLevel: constvars.AccessLevelRead,
		}, nil)

		req := httptest.NewRequest("GET", "/check?user_id=user-1&patient_id=pat-001&access_type=view", nil)
		req.Header.Set("x-api-key", testAPIKey)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK for the keyed internal caller")
		mockAccessUsecase.AssertExpectations(t)

		mockSessionService.AssertNotCalled(t, "GetSessionData")
	})

	t.Run("Check With Admin Session", func(t *testing.T) {
		mockSessionService.On("GetSessionData", mock.Anything, "session-admin").Return(&models.Session{
			ID:     "session-admin",
			UserID: "admin-1",
			Role:   constvars.RadgateRoleAdmin,
		}, nil)

		req := httptest.NewRequest("GET", "/check?user_id=user-1&patient_id=pat-001&access_type=view", nil)
		req.Header.Set("Authorization", "Bearer "+sessionToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "should return 200 OK for an admin session")
	})
}

func TestAccessRouter_SessionRolePolicy(t *testing.T) {
	logger := zap.NewNop()

	internalConfig := buildAuthTestConfig("test-internal-api-key-12345")

	mockAccessUsecase := new(MockAccessUsecase)
	mockSessionService := new(MockSessionService)

	accessController := access.NewAccessController(logger, mockAccessUsecase)

	middlewareInstance := &middlewares.Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		SessionService: mockSessionService,
		Enforcer:       buildAccessTestEnforcer(t),
	}

	router := chi.NewRouter()
	attachAccessRoutes(router, middlewareInstance, accessController)

	patientToken, err := utils.GenerateSessionJWT("session-patient", routerTestJWTSecret, 1)
	assert.NoError(t, err, "test session token should be generated")

	adminToken, err := utils.GenerateSessionJWT("session-admin", routerTestJWTSecret, 1)
	assert.NoError(t, err, "test session token should be generated")

	t.Run("Patient Session Checks Access", func(t *testing.T) {
		mockSessionService.On("GetSessionData", mock.Anything, "session-patient").Return(&models.Session{
			ID:     "session-patient",
			UserID: "patient-1",
			Role:   constvars.RadgateRolePatient,
		}, nil)
		mockAccessUsecase.On("CheckAccess", mock.Anything, mock.MatchedBy(func(request *requests.CheckAccess) bool {
			return request.UserID == "patient-1" && request.PatientID == "pat-001"
		})).Return(&responses.AccessDecision{
			UserID:      "patient-1",
			PatientID:   "pat-001",
			Allowed:     true,
			AccessLevel: constvars.AccessLevelFull,
		}, nil)

		req := httptest.NewRequest("GET", "/check?user_id=patient-1&patient_id=pat-001&access_type=view", nil)
		req.Header.Set("Authorization", "Bearer "+patientToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "any authenticated caller may ask for a decision")
	})

	t.Run("Patient Session Denied On Management Endpoint", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/grants", nil)
		req.Header.Set("Authorization", "Bearer "+patientToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code, "granting access is not part of the patient surface")

		mockAccessUsecase.AssertNotCalled(t, "GrantPatientAccess")
	})

	t.Run("Session Caller Cannot List Another User", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/users/user-9/patients", nil)
		req.Header.Set("Authorization", "Bearer "+patientToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code, "listing someone else's accessible set is admin-only")

		mockAccessUsecase.AssertNotCalled(t, "ListAccessiblePatients")
	})

	t.Run("Admin Session Lists Accessible Patients", func(t *testing.T) {
		mockSessionService.On("GetSessionData", mock.Anything, "session-admin").Return(&models.Session{
			ID:     "session-admin",
			UserID: "admin-1",
			Role:   constvars.RadgateRoleAdmin,
		}, nil)
		mockAccessUsecase.On("ListAccessiblePatients", mock.Anything, "user-9").Return(&responses.AccessiblePatients{
			UserID:             "user-9",
			UserRole:           constvars.RadgateRoleReferringDoctor,
			HasFullAccess:      false,
			AccessiblePatients: []string{"pat-001", "pat-002"},
			PatientCount:       2,
		}, nil)

		req := httptest.NewRequest("GET", "/users/user-9/patients", nil)
		req.Header.Set("Authorization", "Bearer "+adminToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "the parameterized policy row should match the concrete user path")
		mockAccessUsecase.AssertExpectations(t)
	})

	t.Run("Session Caller Lists Its Own Set", func(t *testing.T) {
		mockAccessUsecase.On("ListAccessiblePatients", mock.Anything, "patient-1").Return(&responses.AccessiblePatients{
			UserID:             "patient-1",
			UserRole:           constvars.RadgateRolePatient,
			AccessiblePatients: []string{"pat-001"},
			PatientCount:       1,
		}, nil)

		req := httptest.NewRequest("GET", "/users/patient-1/patients", nil)
		req.Header.Set("Authorization", "Bearer "+patientToken)

		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "a caller may always list its own accessible set")
	})
}
