package constvars

const (
	LoggingRequestIDKey   = "request_id"
	LoggingSessionDataKey = "session_data"
	LoggingMethodKey      = "method"
	LoggingEndpointKey    = "endpoint"
	LoggingRemoteAddrKey  = "remote_addr"
	LoggingUserAgentKey   = "user_agent"
	LoggingQueryKey       = "query"
	LoggingStatusCodeKey  = "status_code"
	LoggingDurationKey    = "duration"
	LoggingSuccessKey     = "success"

	LoggingUserIDKey      = "user_id"
	LoggingPatientIDKey   = "patient_id"
	LoggingRoleKey        = "role"
	LoggingOutcomeKey     = "outcome"
	LoggingAccessLevelKey = "access_level"
	LoggingDenyReasonKey  = "deny_reason"
)
