package access

import (
	"context"
	"errors"
	"radgate-service/internal/app/models"
	"radgate-service/internal/app/services/core/audit"
	"radgate-service/internal/pkg/constvars"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"radgate-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockPatientRelationshipRepository struct {
	mock.Mock
}

func (m *MockPatientRelationshipRepository) UpsertGrant(ctx context.Context, record *models.PatientRelationship) (*models.PatientRelationship, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientRelationship), args.Error(1)
}

func (m *MockPatientRelationshipRepository) FindEffectiveByUserAndPatient(ctx context.Context, userID, patientID string, now time.Time) ([]models.PatientRelationship, error) {
	args := m.Called(ctx, userID, patientID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PatientRelationship), args.Error(1)
}

func (m *MockPatientRelationshipRepository) FindEffectiveByUser(ctx context.Context, userID string, now time.Time) ([]models.PatientRelationship, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PatientRelationship), args.Error(1)
}

func (m *MockPatientRelationshipRepository) FindByID(ctx context.Context, recordID string) (*models.PatientRelationship, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientRelationship), args.Error(1)
}

func (m *MockPatientRelationshipRepository) Deactivate(ctx context.Context, recordID string, now time.Time) error {
	args := m.Called(ctx, recordID, now)
	return args.Error(0)
}

type MockDoctorAssignmentRepository struct {
	mock.Mock
}

func (m *MockDoctorAssignmentRepository) UpsertAssignment(ctx context.Context, record *models.DoctorAssignment) (*models.DoctorAssignment, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DoctorAssignment), args.Error(1)
}

func (m *MockDoctorAssignmentRepository) FindEffectiveByDoctorAndPatient(ctx context.Context, doctorUserID, patientID string, now time.Time) ([]models.DoctorAssignment, error) {
	args := m.Called(ctx, doctorUserID, patientID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DoctorAssignment), args.Error(1)
}

func (m *MockDoctorAssignmentRepository) FindEffectiveByDoctor(ctx context.Context, doctorUserID string, now time.Time) ([]models.DoctorAssignment, error) {
	args := m.Called(ctx, doctorUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DoctorAssignment), args.Error(1)
}

func (m *MockDoctorAssignmentRepository) FindByID(ctx context.Context, recordID string) (*models.DoctorAssignment, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DoctorAssignment), args.Error(1)
}

func (m *MockDoctorAssignmentRepository) Deactivate(ctx context.Context, recordID string, now time.Time) error {
	args := m.Called(ctx, recordID, now)
	return args.Error(0)
}

type MockFamilyAccessRepository struct {
	mock.Mock
}

func (m *MockFamilyAccessRepository) UpsertFamilyAccess(ctx context.Context, record *models.FamilyAccess) (*models.FamilyAccess, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FamilyAccess), args.Error(1)
}

func (m *MockFamilyAccessRepository) FindVerifiedByParentAndChild(ctx context.Context, parentUserID, childPatientID string, now time.Time) ([]models.FamilyAccess, error) {
	args := m.Called(ctx, parentUserID, childPatientID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FamilyAccess), args.Error(1)
}

func (m *MockFamilyAccessRepository) FindVerifiedByParent(ctx context.Context, parentUserID string, now time.Time) ([]models.FamilyAccess, error) {
	args := m.Called(ctx, parentUserID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FamilyAccess), args.Error(1)
}

func (m *MockFamilyAccessRepository) FindByID(ctx context.Context, recordID string) (*models.FamilyAccess, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FamilyAccess), args.Error(1)
}

func (m *MockFamilyAccessRepository) MarkVerified(ctx context.Context, recordID, verifiedBy string, now time.Time) (*models.FamilyAccess, error) {
	args := m.Called(ctx, recordID, verifiedBy, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FamilyAccess), args.Error(1)
}

func (m *MockFamilyAccessRepository) Deactivate(ctx context.Context, recordID string, now time.Time) error {
	args := m.Called(ctx, recordID, now)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, userModel *models.User) (string, error) {
	args := m.Called(ctx, userModel)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, userModel *models.User) error {
	args := m.Called(ctx, userModel)
	return args.Error(0)
}

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) InsertEntry(ctx context.Context, entry *models.AccessAuditEntry) (string, error) {
	args := m.Called(ctx, entry)
	return args.String(0), args.Error(1)
}

func (m *MockAuditLogRepository) FindEntries(ctx context.Context, filter *audit.AuditFilter, page, pageSize int) ([]models.AccessAuditEntry, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.AccessAuditEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditLogRepository) FindAllEntries(ctx context.Context, filter *audit.AuditFilter) ([]models.AccessAuditEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AccessAuditEntry), args.Error(1)
}

type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) GetPatient(ctx context.Context, patientID string) (*responses.CatalogPatient, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*responses.CatalogPatient), args.Error(1)
}

func (m *MockCatalogClient) ListStudies(ctx context.Context, patientID string) ([]responses.CatalogStudy, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]responses.CatalogStudy), args.Error(1)
}

func (m *MockCatalogClient) SearchPatients(ctx context.Context, nameQuery string, limit int) ([]responses.CatalogPatient, error) {
	args := m.Called(ctx, nameQuery, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]responses.CatalogPatient), args.Error(1)
}

func (m *MockCatalogClient) PatientExists(ctx context.Context, patientID string) (bool, error) {
	args := m.Called(ctx, patientID)
	return args.Bool(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishAccessEvent(ctx context.Context, event *models.AccessEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type accessUsecaseMocks struct {
	relationships *MockPatientRelationshipRepository
	assignments   *MockDoctorAssignmentRepository
	family        *MockFamilyAccessRepository
	users         *MockUserRepository
	audit         *MockAuditLogRepository
	catalog       *MockCatalogClient
	publisher     *MockEventPublisher
}

func buildAccessUsecase() (AccessUsecase, *accessUsecaseMocks) {
	mocks := &accessUsecaseMocks{
		relationships: new(MockPatientRelationshipRepository),
		assignments:   new(MockDoctorAssignmentRepository),
		family:        new(MockFamilyAccessRepository),
		users:         new(MockUserRepository),
		audit:         new(MockAuditLogRepository),
		catalog:       new(MockCatalogClient),
		publisher:     new(MockEventPublisher),
	}
	usecase := NewAccessUsecase(
		mocks.relationships,
		mocks.assignments,
		mocks.family,
		mocks.users,
		mocks.audit,
		mocks.catalog,
		mocks.publisher,
		zap.NewNop(),
	)
	return usecase, mocks
}

func activeUser(id, role, patientID string) *models.User {
	return &models.User{
		ID:        id,
		Email:     "user@radgate.test",
		Name:      "Test User",
		Role:      role,
		PatientID: patientID,
		Active:    true,
	}
}

func auditEntryWith(granted bool, reason string) interface{} {
	return mock.MatchedBy(func(entry *models.AccessAuditEntry) bool {
		return entry.Granted == granted && entry.Reason == reason
	})
}

func TestAccessUsecase_CheckAccess_RoleFastPath(t *testing.T) {
	fullAccessRoles := []string{
		constvars.RadgateRoleAdmin,
		constvars.RadgateRoleRadiologist,
		constvars.RadgateRoleTechnician,
	}

	for _, role := range fullAccessRoles {
		t.Run(role+" Gets Full Access Without Relationship Lookups", func(t *testing.T) {
			usecase, mocks := buildAccessUsecase()
			mocks.users.On("GetUserByID", mock.Anything, "user-1").Return(activeUser("user-1", role, ""), nil)
			mocks.audit.On("InsertEntry", mock.Anything, auditEntryWith(true, "role "+role+" grants full access")).Return("audit-1", nil)

			decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
				UserID:    "user-1",
				PatientID: "patient-9",
			})

			assert.NoError(t, err)
			assert.True(t, decision.Allowed)
			assert.Equal(t, constvars.AccessLevelFull, decision.AccessLevel)
			mocks.relationships.AssertNotCalled(t, "FindEffectiveByUserAndPatient")
			mocks.assignments.AssertNotCalled(t, "FindEffectiveByDoctorAndPatient")
			mocks.family.AssertNotCalled(t, "FindVerifiedByParentAndChild")
			mocks.audit.AssertExpectations(t)
		})
	}
}

func TestAccessUsecase_CheckAccess_UnknownIdentities(t *testing.T) {
	t.Run("Unknown User Is Denied And Audited", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "ghost").Return(nil, nil)
		mocks.audit.On("InsertEntry", mock.Anything, auditEntryWith(false, "unknown user")).Return("audit-1", nil)

		decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "ghost",
			PatientID: "patient-9",
		})

		assert.NoError(t, err)
		assert.False(t, decision.Allowed)
		assert.Empty(t, decision.AccessLevel)
		mocks.audit.AssertExpectations(t)
	})

	t.Run("Deactivated User Is Denied", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		deactivated := activeUser("user-1", constvars.RadgateRoleAdmin, "")
		deactivated.Active = false
		mocks.users.On("GetUserByID", mock.Anything, "user-1").Return(deactivated, nil)
		mocks.audit.On("InsertEntry", mock.Anything, auditEntryWith(false, "user account deactivated")).Return("audit-1", nil)

		decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "user-1",
			PatientID: "patient-9",
		})

		assert.NoError(t, err)
		assert.False(t, decision.Allowed)
		mocks.audit.AssertExpectations(t)
	})
}

func TestAccessUsecase_CheckAccess_ReferringDoctor(t *testing.T) {
	t.Run("Active Assignment Grants Read", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "doc-1").Return(activeUser("doc-1", constvars.RadgateRoleReferringDoctor, ""), nil)
		mocks.assignments.On("FindEffectiveByDoctorAndPatient", mock.Anything, "doc-1", "patient-9", mock.Anything).Return([]models.DoctorAssignment{
			{DoctorUserID: "doc-1", PatientID: "patient-9", AssignmentType: constvars.AssignmentTypePrimary, Active: true},
		}, nil)
		mocks.relationships.On("FindEffectiveByUserAndPatient", mock.Anything, "doc-1", "patient-9", mock.Anything).Return([]models.PatientRelationship{}, nil)
		mocks.audit.On("InsertEntry", mock.Anything, auditEntryWith(true, "active primary assignment")).Return("audit-1", nil)

		decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "doc-1",
			PatientID: "patient-9",
		})

		assert.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, constvars.AccessLevelRead, decision.AccessLevel)
		mocks.audit.AssertExpectations(t)
	})

	t.Run("Direct Grant Raises Assignment Level", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "doc-1").Return(activeUser("doc-1", constvars.RadgateRoleReferringDoctor, ""), nil)
		mocks.assignments.On("FindEffectiveByDoctorAndPatient", mock.Anything, "doc-1", "patient-9", mock.Anything).Return([]models.DoctorAssignment{
			{DoctorUserID: "doc-1", PatientID: "patient-9", AssignmentType: constvars.AssignmentTypeConsultant, Active: true},
		}, nil)
		mocks.relationships.On("FindEffectiveByUserAndPatient", mock.Anything, "doc-1", "patient-9", mock.Anything).Return([]models.PatientRelationship{
			{UserID: "doc-1", PatientID: "patient-9", AccessLevel: constvars.AccessLevelDownload, Active: true},
		}, nil)
		mocks.audit.On("InsertEntry", mock.Anything, auditEntryWith(true, "direct grant (download)")).Return("audit-1", nil)

		decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "doc-1",
			PatientID: "patient-9",
		})

		assert.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, constvars.AccessLevelDownload, decision.AccessLevel)
		mocks.audit.AssertExpectations(t)
	})

	t.Run("No Relationship Is Denied", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "doc-1").Return(activeUser("doc-1", constvars.RadgateRoleReferringDoctor, ""), nil)
		mocks.assignments.On("FindEffectiveByDoctorAndPatient", mock.Anything, "doc-1", "patient-9", mock.Anything).Return([]models.DoctorAssignment{}, nil)
		mocks.relationships.On("FindEffectiveByUserAndPatient", mock.Anything, "doc-1", "patient-9", mock.Anything).Return([]models.PatientRelationship{}, nil)
		mocks.audit.On("InsertEntry", mock.Anything, auditEntryWith(false, "no active relationship")).Return("audit-1", nil)

		decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "doc-1",
			PatientID: "patient-9",
		})

		assert.NoError(t, err)
		assert.False(t, decision.Allowed)
		mocks.audit.AssertExpectations(t)
	})
}

func TestAccessUsecase_CheckAccess_Patient(t *testing.T) {
	t.Run("Own Record Grants Full Access", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "pat-1").Return(activeUser("pat-1", constvars.RadgateRolePatient, "patient-9"), nil)
		mocks.relationships.On("FindEffectiveByUserAndPatient", mock.Anything, "pat-1", "patient-9", mock.Anything).Return([]models.PatientRelationship{}, nil)
		mocks.audit.On("InsertEntry", mock.Anything, auditEntryWith(true, "patient accessing own record")).Return("audit-1", nil)

		decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "pat-1",
			PatientID: "patient-9",
		})

		assert.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, constvars.AccessLevelFull, decision.AccessLevel)
		mocks.family.AssertNotCalled(t, "FindVerifiedByParentAndChild")
		mocks.audit.AssertExpectations(t)
	})

	t.Run("Verified Family Access Grants Read", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "pat-1").Return(activeUser("pat-1", constvars.RadgateRolePatient, "patient-1"), nil)
		mocks.family.On("FindVerifiedByParentAndChild", mock.Anything, "pat-1", "patient-9", mock.Anything).Return([]models.FamilyAccess{
			{ParentUserID: "pat-1", ChildPatientID: "patient-9", RelationshipKind: constvars.FamilyKindGuardian, Verified: true, Active: true},
		}, nil)
		mocks.relationships.On("FindEffectiveByUserAndPatient", mock.Anything, "pat-1", "patient-9", mock.Anything).Return([]models.PatientRelationship{}, nil)
		mocks.audit.On("InsertEntry", mock.Anything, auditEntryWith(true, "verified family access (guardian)")).Return("audit-1", nil)

		decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "pat-1",
			PatientID: "patient-9",
		})

		assert.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, constvars.AccessLevelRead, decision.AccessLevel)
		mocks.audit.AssertExpectations(t)
	})

	t.Run("Unverified Family Access Is Denied", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "pat-1").Return(activeUser("pat-1", constvars.RadgateRolePatient, "patient-1"), nil)
		mocks.family.On("FindVerifiedByParentAndChild", mock.Anything, "pat-1", "patient-9", mock.Anything).Return([]models.FamilyAccess{}, nil)
		mocks.relationships.On("FindEffectiveByUserAndPatient", mock.Anything, "pat-1", "patient-9", mock.Anything).Return([]models.PatientRelationship{}, nil)
		mocks.audit.On("InsertEntry", mock.Anything, auditEntryWith(false, "no active relationship")).Return("audit-1", nil)

		decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "pat-1",
			PatientID: "patient-9",
		})

		assert.NoError(t, err)
		assert.False(t, decision.Allowed)
		mocks.audit.AssertExpectations(t)
	})
}

func TestAccessUsecase_CheckAccess_AuditTrail(t *testing.T) {
	t.Run("Exactly One Entry Per Decision", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "user-1").Return(activeUser("user-1", constvars.RadgateRoleAdmin, ""), nil)
		mocks.audit.On("InsertEntry", mock.Anything, mock.Anything).Return("audit-1", nil)

		_, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "user-1",
			PatientID: "patient-9",
		})

		assert.NoError(t, err)
		mocks.audit.AssertNumberOfCalls(t, "InsertEntry", 1)
	})

	t.Run("Audit Write Failure Fails The Check", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "user-1").Return(activeUser("user-1", constvars.RadgateRoleAdmin, ""), nil)
		mocks.audit.On("InsertEntry", mock.Anything, mock.Anything).Return("", errors.New("write concern failed"))

		decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "user-1",
			PatientID: "patient-9",
		})

		assert.Error(t, err)
		assert.Nil(t, decision)
	})

	t.Run("Store Failure Records Denial And Surfaces The Error", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		storeErr := exceptions.ErrMongoDBFindDocument(errors.New("connection reset"))
		mocks.users.On("GetUserByID", mock.Anything, "user-1").Return(nil, storeErr)
		mocks.audit.On("InsertEntry", mock.Anything, auditEntryWith(false, "authorization store unavailable")).Return("audit-1", nil)

		decision, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "user-1",
			PatientID: "patient-9",
		})

		assert.Nil(t, decision)
		assert.Equal(t, storeErr, err)
		mocks.audit.AssertExpectations(t)
	})

	t.Run("Network Fields Land On The Entry", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "user-1").Return(activeUser("user-1", constvars.RadgateRoleAdmin, ""), nil)
		mocks.audit.On("InsertEntry", mock.Anything, mock.MatchedBy(func(entry *models.AccessAuditEntry) bool {
			return entry.IPAddress == "203.0.113.7" && entry.UserAgent == "viewer/1.0" && entry.AccessType == constvars.AccessTypeView
		})).Return("audit-1", nil)

		_, err := usecase.CheckAccess(context.Background(), &requests.CheckAccess{
			UserID:    "user-1",
			PatientID: "patient-9",
			IPAddress: "203.0.113.7",
			UserAgent: "viewer/1.0",
		})

		assert.NoError(t, err)
		mocks.audit.AssertExpectations(t)
	})
}

func TestAccessUsecase_GrantPatientAccess(t *testing.T) {
	t.Run("Creates Grant With Acting Administrator", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.catalog.On("PatientExists", mock.Anything, "patient-9").Return(true, nil)
		mocks.users.On("GetUserByID", mock.Anything, "user-1").Return(activeUser("user-1", constvars.RadgateRolePatient, "patient-1"), nil)
		mocks.relationships.On("UpsertGrant", mock.Anything, mock.MatchedBy(func(record *models.PatientRelationship) bool {
			return record.GrantedBy == "admin-1" && record.AccessLevel == constvars.AccessLevelDownload && record.Active
		})).Return(&models.PatientRelationship{
			ID:          "rel-1",
			UserID:      "user-1",
			PatientID:   "patient-9",
			AccessLevel: constvars.AccessLevelDownload,
			GrantedBy:   "admin-1",
			Active:      true,
		}, nil)

		result, err := usecase.GrantPatientAccess(context.Background(), "admin-1", &requests.GrantPatientAccess{
			UserID:      "user-1",
			PatientID:   "patient-9",
			AccessLevel: constvars.AccessLevelDownload,
		})

		assert.NoError(t, err)
		assert.Equal(t, "rel-1", result.ID)
		assert.Equal(t, "admin-1", result.CreatedBy)
		mocks.relationships.AssertExpectations(t)
	})

	t.Run("Unknown Patient Is Rejected", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.catalog.On("PatientExists", mock.Anything, "patient-missing").Return(false, nil)

		result, err := usecase.GrantPatientAccess(context.Background(), "admin-1", &requests.GrantPatientAccess{
			UserID:      "user-1",
			PatientID:   "patient-missing",
			AccessLevel: constvars.AccessLevelRead,
		})

		assert.Nil(t, result)
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		mocks.relationships.AssertNotCalled(t, "UpsertGrant")
	})

	t.Run("Unknown User Is Rejected", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.catalog.On("PatientExists", mock.Anything, "patient-9").Return(true, nil)
		mocks.users.On("GetUserByID", mock.Anything, "ghost").Return(nil, nil)

		result, err := usecase.GrantPatientAccess(context.Background(), "admin-1", &requests.GrantPatientAccess{
			UserID:      "ghost",
			PatientID:   "patient-9",
			AccessLevel: constvars.AccessLevelRead,
		})

		assert.Nil(t, result)
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
		mocks.relationships.AssertNotCalled(t, "UpsertGrant")
	})

	t.Run("Catalog Outage Blocks The Grant", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		catalogErr := exceptions.ErrCatalogUnreachable(errors.New("dial tcp: refused"))
		mocks.catalog.On("PatientExists", mock.Anything, "patient-9").Return(false, catalogErr)

		result, err := usecase.GrantPatientAccess(context.Background(), "admin-1", &requests.GrantPatientAccess{
			UserID:      "user-1",
			PatientID:   "patient-9",
			AccessLevel: constvars.AccessLevelRead,
		})

		assert.Nil(t, result)
		assert.Equal(t, catalogErr, err)
		mocks.relationships.AssertNotCalled(t, "UpsertGrant")
	})
}

func TestAccessUsecase_AssignDoctor(t *testing.T) {
	t.Run("Rejects Users Outside The Referring Doctor Role", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "tech-1").Return(activeUser("tech-1", constvars.RadgateRoleTechnician, ""), nil)

		result, err := usecase.AssignDoctor(context.Background(), "admin-1", &requests.AssignDoctor{
			DoctorUserID:   "tech-1",
			PatientID:      "patient-9",
			AssignmentType: constvars.AssignmentTypePrimary,
		})

		assert.Nil(t, result)
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		mocks.assignments.AssertNotCalled(t, "UpsertAssignment")
	})

	t.Run("Creates Assignment With Expiry", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "doc-1").Return(activeUser("doc-1", constvars.RadgateRoleReferringDoctor, ""), nil)
		mocks.catalog.On("PatientExists", mock.Anything, "patient-9").Return(true, nil)
		mocks.assignments.On("UpsertAssignment", mock.Anything, mock.MatchedBy(func(record *models.DoctorAssignment) bool {
			return record.AssignedBy == "admin-1" && record.ExpiresAt != nil
		})).Return(&models.DoctorAssignment{
			ID:             "asg-1",
			DoctorUserID:   "doc-1",
			PatientID:      "patient-9",
			AssignmentType: constvars.AssignmentTypeTemporary,
			AssignedBy:     "admin-1",
			Active:         true,
		}, nil)

		result, err := usecase.AssignDoctor(context.Background(), "admin-1", &requests.AssignDoctor{
			DoctorUserID:   "doc-1",
			PatientID:      "patient-9",
			AssignmentType: constvars.AssignmentTypeTemporary,
			ExpiresAt:      "2026-12-31T00:00:00Z",
		})

		assert.NoError(t, err)
		assert.Equal(t, constvars.AssignmentTypeTemporary, result.Kind)
		mocks.assignments.AssertExpectations(t)
	})

	t.Run("Malformed Expiry Is Rejected", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "doc-1").Return(activeUser("doc-1", constvars.RadgateRoleReferringDoctor, ""), nil)
		mocks.catalog.On("PatientExists", mock.Anything, "patient-9").Return(true, nil)

		result, err := usecase.AssignDoctor(context.Background(), "admin-1", &requests.AssignDoctor{
			DoctorUserID:   "doc-1",
			PatientID:      "patient-9",
			AssignmentType: constvars.AssignmentTypePrimary,
			ExpiresAt:      "next tuesday",
		})

		assert.Nil(t, result)
		assert.Error(t, err)
		mocks.assignments.AssertNotCalled(t, "UpsertAssignment")
	})
}

func TestAccessUsecase_GrantFamilyAccess(t *testing.T) {
	t.Run("New Records Start Unverified And Raise A Notification", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "parent-1").Return(activeUser("parent-1", constvars.RadgateRolePatient, "patient-1"), nil)
		mocks.catalog.On("PatientExists", mock.Anything, "patient-child").Return(true, nil)
		mocks.family.On("UpsertFamilyAccess", mock.Anything, mock.MatchedBy(func(record *models.FamilyAccess) bool {
			return !record.Verified && record.GrantedBy == "admin-1"
		})).Return(&models.FamilyAccess{
			ID:               "fam-1",
			ParentUserID:     "parent-1",
			ChildPatientID:   "patient-child",
			RelationshipKind: constvars.FamilyKindParent,
			Active:           true,
		}, nil)
		mocks.publisher.On("PublishAccessEvent", mock.Anything, mock.MatchedBy(func(event *models.AccessEvent) bool {
			return event.Type == constvars.NotificationFamilyAccessPending && event.RecordID == "fam-1"
		})).Return(nil)

		result, err := usecase.GrantFamilyAccess(context.Background(), "admin-1", &requests.GrantFamilyAccess{
			ParentUserID:     "parent-1",
			ChildPatientID:   "patient-child",
			RelationshipKind: constvars.FamilyKindParent,
		})

		assert.NoError(t, err)
		assert.NotNil(t, result.Verified)
		assert.False(t, *result.Verified)
		mocks.publisher.AssertExpectations(t)
	})

	t.Run("Broker Outage Does Not Undo The Grant", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "parent-1").Return(activeUser("parent-1", constvars.RadgateRolePatient, "patient-1"), nil)
		mocks.catalog.On("PatientExists", mock.Anything, "patient-child").Return(true, nil)
		mocks.family.On("UpsertFamilyAccess", mock.Anything, mock.Anything).Return(&models.FamilyAccess{
			ID:               "fam-1",
			ParentUserID:     "parent-1",
			ChildPatientID:   "patient-child",
			RelationshipKind: constvars.FamilyKindParent,
			Active:           true,
		}, nil)
		mocks.publisher.On("PublishAccessEvent", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

		result, err := usecase.GrantFamilyAccess(context.Background(), "admin-1", &requests.GrantFamilyAccess{
			ParentUserID:     "parent-1",
			ChildPatientID:   "patient-child",
			RelationshipKind: constvars.FamilyKindParent,
		})

		assert.NoError(t, err)
		assert.Equal(t, "fam-1", result.ID)
	})
}

func TestAccessUsecase_VerifyFamilyAccess(t *testing.T) {
	t.Run("Marks The Record With The Verifying Administrator", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.family.On("FindByID", mock.Anything, "fam-1").Return(&models.FamilyAccess{
			ID: "fam-1", ParentUserID: "parent-1", ChildPatientID: "patient-child", Active: true,
		}, nil)
		mocks.family.On("MarkVerified", mock.Anything, "fam-1", "admin-1", mock.Anything).Return(&models.FamilyAccess{
			ID: "fam-1", ParentUserID: "parent-1", ChildPatientID: "patient-child", Verified: true, VerifiedBy: "admin-1", Active: true,
		}, nil)

		result, err := usecase.VerifyFamilyAccess(context.Background(), "admin-1", "fam-1")

		assert.NoError(t, err)
		assert.True(t, *result.Verified)
		mocks.family.AssertExpectations(t)
	})

	t.Run("Verifying Twice Is A NoOp", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.family.On("FindByID", mock.Anything, "fam-1").Return(&models.FamilyAccess{
			ID: "fam-1", ParentUserID: "parent-1", ChildPatientID: "patient-child", Verified: true, VerifiedBy: "admin-0", Active: true,
		}, nil)

		result, err := usecase.VerifyFamilyAccess(context.Background(), "admin-1", "fam-1")

		assert.NoError(t, err)
		assert.True(t, *result.Verified)
		mocks.family.AssertNotCalled(t, "MarkVerified")
	})

	t.Run("Unknown Record Returns Not Found", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.family.On("FindByID", mock.Anything, "fam-missing").Return(nil, nil)

		result, err := usecase.VerifyFamilyAccess(context.Background(), "admin-1", "fam-missing")

		assert.Nil(t, result)
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}

func TestAccessUsecase_RevokeAccess(t *testing.T) {
	t.Run("Deactivates The Record And Publishes", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.relationships.On("FindByID", mock.Anything, "rel-1").Return(&models.PatientRelationship{
			ID: "rel-1", UserID: "user-1", PatientID: "patient-9", Active: true,
		}, nil)
		mocks.relationships.On("Deactivate", mock.Anything, "rel-1", mock.Anything).Return(nil)
		mocks.publisher.On("PublishAccessEvent", mock.Anything, mock.MatchedBy(func(event *models.AccessEvent) bool {
			return event.Type == constvars.NotificationAccessRevoked && event.UserID == "user-1"
		})).Return(nil)

		err := usecase.RevokeAccess(context.Background(), "admin-1", constvars.RelationKindDirect, "rel-1")

		assert.NoError(t, err)
		mocks.relationships.AssertExpectations(t)
		mocks.publisher.AssertExpectations(t)
	})

	t.Run("Revoking Twice Is A NoOp", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.assignments.On("FindByID", mock.Anything, "asg-1").Return(&models.DoctorAssignment{
			ID: "asg-1", DoctorUserID: "doc-1", PatientID: "patient-9", Active: false,
		}, nil)

		err := usecase.RevokeAccess(context.Background(), "admin-1", constvars.RelationKindDoctor, "asg-1")

		assert.NoError(t, err)
		mocks.assignments.AssertNotCalled(t, "Deactivate")
	})

	t.Run("Unknown Kind Is Rejected", func(t *testing.T) {
		usecase, _ := buildAccessUsecase()

		err := usecase.RevokeAccess(context.Background(), "admin-1", "sponsorship", "rec-1")

		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
	})

	t.Run("Unknown Record Returns Not Found", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.family.On("FindByID", mock.Anything, "fam-missing").Return(nil, nil)

		err := usecase.RevokeAccess(context.Background(), "admin-1", constvars.RelationKindFamily, "fam-missing")

		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}

func TestAccessUsecase_ListAccessiblePatients(t *testing.T) {
	t.Run("Staff Roles Report Full Access Without Enumerating", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "rad-1").Return(activeUser("rad-1", constvars.RadgateRoleRadiologist, ""), nil)

		result, err := usecase.ListAccessiblePatients(context.Background(), "rad-1")

		assert.NoError(t, err)
		assert.True(t, result.HasFullAccess)
		assert.Empty(t, result.AccessiblePatients)
		mocks.relationships.AssertNotCalled(t, "FindEffectiveByUser")
	})

	t.Run("Patient Union Is Deduplicated And Sorted", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "pat-1").Return(activeUser("pat-1", constvars.RadgateRolePatient, "patient-b"), nil)
		mocks.family.On("FindVerifiedByParent", mock.Anything, "pat-1", mock.Anything).Return([]models.FamilyAccess{
			{ParentUserID: "pat-1", ChildPatientID: "patient-c", Verified: true, Active: true},
		}, nil)
		mocks.relationships.On("FindEffectiveByUser", mock.Anything, "pat-1", mock.Anything).Return([]models.PatientRelationship{
			{UserID: "pat-1", PatientID: "patient-a", AccessLevel: constvars.AccessLevelRead, Active: true},
			{UserID: "pat-1", PatientID: "patient-c", AccessLevel: constvars.AccessLevelRead, Active: true},
		}, nil)

		result, err := usecase.ListAccessiblePatients(context.Background(), "pat-1")

		assert.NoError(t, err)
		assert.False(t, result.HasFullAccess)
		assert.Equal(t, []string{"patient-a", "patient-b", "patient-c"}, result.AccessiblePatients)
		assert.Equal(t, 3, result.PatientCount)
	})

	t.Run("Doctor List Comes From Assignments And Grants", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "doc-1").Return(activeUser("doc-1", constvars.RadgateRoleReferringDoctor, ""), nil)
		mocks.assignments.On("FindEffectiveByDoctor", mock.Anything, "doc-1", mock.Anything).Return([]models.DoctorAssignment{
			{DoctorUserID: "doc-1", PatientID: "patient-z", Active: true},
		}, nil)
		mocks.relationships.On("FindEffectiveByUser", mock.Anything, "doc-1", mock.Anything).Return([]models.PatientRelationship{}, nil)

		result, err := usecase.ListAccessiblePatients(context.Background(), "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, []string{"patient-z"}, result.AccessiblePatients)
		mocks.family.AssertNotCalled(t, "FindVerifiedByParent")
	})

	t.Run("Unknown User Returns Not Found", func(t *testing.T) {
		usecase, mocks := buildAccessUsecase()
		mocks.users.On("GetUserByID", mock.Anything, "ghost").Return(nil, nil)

		result, err := usecase.ListAccessiblePatients(context.Background(), "ghost")

		assert.Nil(t, result)
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}
