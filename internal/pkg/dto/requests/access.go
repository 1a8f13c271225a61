package requests

// GrantPatientAccess creates or updates the single active direct grant for a
// (user, patient) pair.
type GrantPatientAccess struct {
	UserID      string `json:"user_id" validate:"required"`
	PatientID   string `json:"patient_id" validate:"required"`
	AccessLevel string `json:"access_level" validate:"required,oneof=read download full"`
	ExpiresAt   string `json:"expires_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type AssignDoctor struct {
	DoctorUserID   string `json:"doctor_user_id" validate:"required"`
	PatientID      string `json:"patient_id" validate:"required"`
	AssignmentType string `json:"assignment_type" validate:"required,oneof=primary consultant temporary"`
	ExpiresAt      string `json:"expires_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type GrantFamilyAccess struct {
	ParentUserID     string `json:"parent_user_id" validate:"required"`
	ChildPatientID   string `json:"child_patient_id" validate:"required"`
	RelationshipKind string `json:"relationship_kind" validate:"required,oneof=parent guardian emergency_contact"`
	ExpiresAt        string `json:"expires_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// CheckAccess parameters arrive via query string on the check endpoint.
// The network fields are filled from the request, never from the caller, and
// end up on the audit entry.
type CheckAccess struct {
	UserID     string `validate:"required"`
	PatientID  string `validate:"required"`
	AccessType string `validate:"omitempty,oneof=view download share"`
	IPAddress  string `validate:"-"`
	UserAgent  string `validate:"-"`
}
