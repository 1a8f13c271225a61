package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":    "is required",
	"email":       "must be a valid email",
	"alphanum":    "must contain only alphanumeric characters",
	"min":         "must be at least %s characters long",
	"max":         "maximum at %s characters long",
	"eqfield":     "must match %s",
	"password":    "must be at least 8 characters long, contain at least one special character, and one uppercase letter",
	"numeric":     "must be a number",
	"len":         "must be %s characters long",
	"oneof":       "must be one of [%s]",
	"gt":          "must be greater than %s",
	"gte":         "must be greater than or equal to %s",
	"lt":          "must be less than %s",
	"lte":         "must be less than or equal to %s",
	"url":         "must be a valid URL",
	"uuid":        "must be a valid UUID",
	"datetime":    "must be a valid timestamp",
	"required_if": "is required when %s is %s",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":         true,
	"max":         true,
	"len":         true,
	"eqfield":     true,
	"gt":          true,
	"gte":         true,
	"lt":          true,
	"lte":         true,
	"oneof":       true,
	"required_if": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientInvalidEmailOrPassword        = "invalid email or password"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientAccessDenied                  = "you don't have access to this record"
	ErrClientPatientNotFound               = "patient record is not available"
	ErrClientEmailAlreadyExists            = "email already used"
	ErrClientAccountDeactivated            = "this account is deactivated"
	ErrClientTooManyLoginAttempts          = "too many attempts, please try again later"
)

// Error messages for developers
const (
	ErrDevInvalidInput         = "invalid input"
	ErrDevCannotParseJSON      = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON    = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseTime      = "cannot parse time into the given format"
	ErrDevFailedToHashPassword = "failed to hash password"
	ErrDevInvalidCredentials   = "invalid credentials"
	ErrDevCreateHTTPRequest    = "failed to create HTTP request"
	ErrDevSendHTTPRequest      = "failed to send HTTP request"

	// Usecase messages
	ErrDevEmailAlreadyExists    = "email already exists"
	ErrDevUserNotExists         = "user not exists in our system"
	ErrDevUserDeactivated       = "user account is deactivated"
	ErrDevRoleNotReferringDoctor = "assignment target user is not a Referring Doctor"
	ErrDevPatientNotInCatalog    = "patient identifier not present in imaging catalog"
	ErrDevPatientIDEmpty         = "patient identifier must be non-empty"
	ErrDevAccessDenied           = "access denied by authorization engine"
	ErrDevUnknownRelationKind    = "unknown relation kind"
	ErrDevRecordNotFound         = "relationship record not found"

	// Imaging catalog messages
	ErrDevCatalogPatientNotFound = "patient not found in imaging catalog"
	ErrDevCatalogGetPatient     = "failed to get patient from imaging catalog"
	ErrDevCatalogListStudies    = "failed to list studies from imaging catalog"
	ErrDevCatalogSearchPatients = "failed to search patients on imaging catalog"
	ErrDevCatalogDecodeResponse = "failed to decode imaging catalog response"
	ErrDevCatalogUnreachable    = "imaging catalog unreachable"

	// Authorization service messages (viewer side)
	ErrDevAccessServiceUnreachable   = "authorization service unreachable"
	ErrDevAccessServiceUnexpected    = "authorization service returned an unexpected status"
	ErrDevAccessServiceDecodeFailed  = "failed to decode authorization service response"
	ErrDevRelayTokenRejected         = "relay token rejected by authorization service"

	// Validation messages
	ErrDevValidationFailed           = "validation failed"
	ErrDevInvalidRequestPayload      = "invalid request payload"
	ErrDevMissingRequiredFields      = "missing required fields"
	ErrDevURLParamIDValidationFailed = "parameter %s validation failed"

	// Authentication messages
	ErrDevAuthSigningMethod         = "unexpected signing method"
	ErrDevAuthTokenInvalidOrExpired = "invalid or expired token"
	ErrDevAuthTokenMissing          = "token missing"
	ErrDevAuthInvalidSession        = "invalid session"
	ErrDevAuthPermissionDenied      = "permission denied"
	ErrDevAuthGenerateToken         = "failed to generate token"
	ErrDevAuthInvalidAPIKey         = "invalid internal service api key"

	// Database messages
	ErrDevDBFailedToInsertDocument   = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument   = "failed to update document into database"
	ErrDevDBFailedToFindDocument     = "failed when do find document on database"
	ErrDevDBFailedToIterateDocuments = "failed when iterating documents from database"
	ErrDevDBConnectionFailed         = "failed to connect to database"
	ErrDevDBStringNotObjectID        = "given ID is not valid object ID"

	// Minio messages
	ErrDevMinioFailedToCreateObject          = "failed to create object into minio storage with bucket name '%s'"
	ErrDevMinioFailedToGetObjectPresignedURL = "failed to get object URL from minio storage with bucket name '%s'"

	// Redis messages
	ErrDevRedisSetData        = "failed to SET data into redis"
	ErrDevRedisGetData        = "failed to GET data from redis"
	ErrDevRedisGetNoData      = "failed to GET data from redis, there is no data associated with key %s"
	ErrDevRedisDeleteData     = "failed to DELETE data from redis"
	ErrDevRedisIncrementValue = "failed to INCR data in redis"
	ErrDevRedisAddToSet       = "failed to SADD data into redis"
	ErrDevRedisGetSetMembers  = "failed to SMEMBERS data from redis"
	ErrDevRedisRemoveFromSet  = "failed to SREM data from redis"

	// Queue messages
	ErrDevQueuePublish = "failed to publish message to queue '%s'"
	ErrDevQueueConsume = "failed to consume message from queue '%s'"
	ErrDevQueueAck     = "failed to acknowledge queue message"

	// Server messages
	ErrDevServerInternalError    = "internal server error"
	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevServerParseSessionData = "failed to parse session data"
)

const (
	ErrFileLocationUnknown = "file location unknown"
	ErrLineLocationUnknown = "line location unknown"
)

const (
	ErrEnvParsing     = "Error parsing %s: %v, will use default value"
	ErrEnvKeyNotExist = "Error getting env key: %s, will use default value"
)
