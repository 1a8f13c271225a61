package constvars

const (
	// Generic messages
	ResponseSuccess = "success"
	ResponseError   = "error"

	// User-related messages
	UserCreatedSuccess     = "user created successfully"
	UserRoleUpdatedSuccess = "user role updated successfully"
	UserDeactivatedSuccess = "user deactivated successfully"

	// Auth messages
	LoginSuccess         = "successfully login"
	LogoutSuccess        = "successfully logout"
	TokenVerifiedSuccess = "token verified successfully"

	// Access management messages
	AccessGrantedSuccess        = "access granted successfully"
	DoctorAssignedSuccess       = "doctor assigned successfully"
	FamilyAccessCreatedSuccess  = "family access created, waiting for verification"
	FamilyAccessVerifiedSuccess = "family access verified successfully"
	AccessRevokedSuccess        = "access revoked successfully"
	AccessCheckSuccess          = "access check evaluated"
	AccessiblePatientsSuccess   = "accessible patients retrieved successfully"

	// Audit messages
	AuditEntriesSuccess = "audit entries retrieved successfully"
	AuditExportSuccess  = "audit export created successfully"

	// Catalog messages
	PatientGetSuccess     = "patient retrieved successfully"
	PatientSearchSuccess  = "patients retrieved successfully"
	StudiesListSuccess    = "studies retrieved successfully"
	NotificationsSuccess  = "notifications retrieved successfully"

	// Viewer messages
	ViewerSessionSuccess     = "session retrieved successfully"
	ViewerSessionEndedNotice = "session ended successfully"
	ViewerTokenExchanged     = "token exchanged successfully"
)
