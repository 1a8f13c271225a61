package models

import "time"

// PatientRelationship is a direct grant from an administrator to a user for
// one patient at one access level. A (user, patient) pair holds at most one
// active row; regrants update it in place.
type PatientRelationship struct {
	ID          string     `bson:"_id,omitempty"`
	UserID      string     `bson:"userId"`
	PatientID   string     `bson:"patientId"`
	AccessLevel string     `bson:"accessLevel"`
	GrantedBy   string     `bson:"grantedBy"`
	Active      bool       `bson:"active"`
	ExpiresAt   *time.Time `bson:"expiresAt,omitempty"`
	TimeModel   `bson:",inline"`
}

// DoctorAssignment links a referring doctor to a patient under their care.
type DoctorAssignment struct {
	ID             string     `bson:"_id,omitempty"`
	DoctorUserID   string     `bson:"doctorUserId"`
	PatientID      string     `bson:"patientId"`
	AssignmentType string     `bson:"assignmentType"`
	AssignedBy     string     `bson:"assignedBy"`
	Active         bool       `bson:"active"`
	ExpiresAt      *time.Time `bson:"expiresAt,omitempty"`
	TimeModel      `bson:",inline"`
}

// FamilyAccess lets a parent or guardian view a child patient. Rows start
// unverified and contribute nothing until an administrator verifies them.
type FamilyAccess struct {
	ID               string     `bson:"_id,omitempty"`
	ParentUserID     string     `bson:"parentUserId"`
	ChildPatientID   string     `bson:"childPatientId"`
	RelationshipKind string     `bson:"relationshipKind"`
	Verified         bool       `bson:"verified"`
	VerifiedBy       string     `bson:"verifiedBy,omitempty"`
	VerifiedAt       *time.Time `bson:"verifiedAt,omitempty"`
	GrantedBy        string     `bson:"grantedBy"`
	Active           bool       `bson:"active"`
	ExpiresAt        *time.Time `bson:"expiresAt,omitempty"`
	TimeModel        `bson:",inline"`
}

// Expiry is never written back; a row past its expiresAt simply stops
// matching.
func effectiveAt(active bool, expiresAt *time.Time, now time.Time) bool {
	if !active {
		return false
	}
	if expiresAt == nil {
		return true
	}
	return expiresAt.After(now)
}

func (r *PatientRelationship) EffectiveAt(now time.Time) bool {
	return effectiveAt(r.Active, r.ExpiresAt, now)
}

func (a *DoctorAssignment) EffectiveAt(now time.Time) bool {
	return effectiveAt(a.Active, a.ExpiresAt, now)
}

func (f *FamilyAccess) EffectiveAt(now time.Time) bool {
	return f.Verified && effectiveAt(f.Active, f.ExpiresAt, now)
}
