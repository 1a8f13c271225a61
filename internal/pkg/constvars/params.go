package constvars

const (
	URLParamUserID    = "user_id"
	URLParamPatientID = "patient_id"
	URLParamRecordID  = "record_id"
)

const (
	URLQueryParamSearch      = "q"
	URLQueryParamPatientID   = "patient_id"
	URLQueryParamUserID      = "user_id"
	URLQueryParamAccessType  = "access_type"
	URLQueryParamOutcome     = "outcome"
	URLQueryParamFrom        = "from"
	URLQueryParamTo          = "to"
	URLQueryParamPage        = "page"
	URLQueryParamPageSize    = "page_size"
	URLQueryParamRelayToken  = "relay_token"
	URLQueryParamRedirectURI = "redirect_uri"
)
