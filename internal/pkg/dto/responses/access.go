package responses

// AccessDecision is the caller-visible result of a check. The reason stays
// coarse; the full denial reason lives in the audit trail only.
type AccessDecision struct {
	UserID      string `json:"user_id"`
	PatientID   string `json:"patient_id"`
	Allowed     bool   `json:"allowed"`
	AccessLevel string `json:"access_level,omitempty"`
}

type RelationshipRecord struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	PatientID   string `json:"patient_id"`
	AccessLevel string `json:"access_level,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Verified    *bool  `json:"verified,omitempty"`
	Active      bool   `json:"active"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

type AccessiblePatients struct {
	UserID             string   `json:"user_id"`
	UserRole           string   `json:"user_role"`
	HasFullAccess      bool     `json:"has_full_access"`
	AccessiblePatients []string `json:"accessible_patients"`
	PatientCount       int      `json:"patient_count"`
}
