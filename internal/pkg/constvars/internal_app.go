package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "RDGT_SVC_"

	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)

// Closed role set. Role changes are administrative mutations; accounts are
// deactivated, never deleted.
const (
	RadgateRoleAdmin           = "Admin"
	RadgateRoleRadiologist     = "Radiologist"
	RadgateRoleTechnician      = "Technician"
	RadgateRoleReferringDoctor = "Referring Doctor"
	RadgateRolePatient         = "Patient"
)

// Access levels, ordered read < download < full.
const (
	AccessLevelRead     = "read"
	AccessLevelDownload = "download"
	AccessLevelFull     = "full"
)

const (
	AssignmentTypePrimary    = "primary"
	AssignmentTypeConsultant = "consultant"
	AssignmentTypeTemporary  = "temporary"
)

const (
	FamilyKindParent           = "parent"
	FamilyKindGuardian         = "guardian"
	FamilyKindEmergencyContact = "emergency_contact"
)

// Access types recorded on audit entries.
const (
	AccessTypeView     = "view"
	AccessTypeDownload = "download"
	AccessTypeShare    = "share"
)

// Relation kinds addressed by revoke.
const (
	RelationKindDirect = "patient_relationship"
	RelationKindDoctor = "doctor_assignment"
	RelationKindFamily = "family_access"
)

const (
	NotificationFamilyAccessPending = "family_access_pending_verification"
	NotificationAccessRevoked       = "access_revoked"
)

// The relay token rides the redirect URL under this name exactly once; the
// viewer strips it on capture and moves to a cookie session.
const (
	ViewerRelayQueryParam   = "relay_token"
	ViewerSessionCookieName = "radgate_viewer_session"
)

const (
	CollectionUsers                = "users"
	CollectionPatientRelationships = "patient_relationships"
	CollectionDoctorAssignments    = "doctor_assignments"
	CollectionFamilyAccess         = "family_access"
	CollectionAccessAuditLog       = "access_audit_log"
	CollectionAdminNotifications   = "admin_notifications"
)
