package access

import (
	"context"
	"radgate-service/internal/app/models"
	"radgate-service/internal/pkg/dto/requests"
	"radgate-service/internal/pkg/dto/responses"
	"time"
)

// AccessUsecase owns every patient-level authorization decision and every
// relationship mutation. The acting administrator is always an explicit
// argument, never pulled from ambient state.
type AccessUsecase interface {
	CheckAccess(ctx context.Context, request *requests.CheckAccess) (*responses.AccessDecision, error)
	GrantPatientAccess(ctx context.Context, actorUserID string, request *requests.GrantPatientAccess) (*responses.RelationshipRecord, error)
	AssignDoctor(ctx context.Context, actorUserID string, request *requests.AssignDoctor) (*responses.RelationshipRecord, error)
	GrantFamilyAccess(ctx context.Context, actorUserID string, request *requests.GrantFamilyAccess) (*responses.RelationshipRecord, error)
	VerifyFamilyAccess(ctx context.Context, actorUserID, recordID string) (*responses.RelationshipRecord, error)
	RevokeAccess(ctx context.Context, actorUserID, relationKind, recordID string) error
	ListAccessiblePatients(ctx context.Context, userID string) (*responses.AccessiblePatients, error)
}

// Effective means active and not past expiry at the given instant. Expired
// rows stay in storage untouched; they just stop matching.

type PatientRelationshipRepository interface {
	UpsertGrant(ctx context.Context, record *models.PatientRelationship) (*models.PatientRelationship, error)
	FindEffectiveByUserAndPatient(ctx context.Context, userID, patientID string, now time.Time) ([]models.PatientRelationship, error)
	FindEffectiveByUser(ctx context.Context, userID string, now time.Time) ([]models.PatientRelationship, error)
	FindByID(ctx context.Context, recordID string) (*models.PatientRelationship, error)
	Deactivate(ctx context.Context, recordID string, now time.Time) error
}

type DoctorAssignmentRepository interface {
	UpsertAssignment(ctx context.Context, record *models.DoctorAssignment) (*models.DoctorAssignment, error)
	FindEffectiveByDoctorAndPatient(ctx context.Context, doctorUserID, patientID string, now time.Time) ([]models.DoctorAssignment, error)
	FindEffectiveByDoctor(ctx context.Context, doctorUserID string, now time.Time) ([]models.DoctorAssignment, error)
	FindByID(ctx context.Context, recordID string) (*models.DoctorAssignment, error)
	Deactivate(ctx context.Context, recordID string, now time.Time) error
}

type FamilyAccessRepository interface {
	UpsertFamilyAccess(ctx context.Context, record *models.FamilyAccess) (*models.FamilyAccess, error)
	FindVerifiedByParentAndChild(ctx context.Context, parentUserID, childPatientID string, now time.Time) ([]models.FamilyAccess, error)
	FindVerifiedByParent(ctx context.Context, parentUserID string, now time.Time) ([]models.FamilyAccess, error)
	FindByID(ctx context.Context, recordID string) (*models.FamilyAccess, error)
	MarkVerified(ctx context.Context, recordID, verifiedBy string, now time.Time) (*models.FamilyAccess, error)
	Deactivate(ctx context.Context, recordID string, now time.Time) error
}
