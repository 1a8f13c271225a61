package config

type InternalConfig struct {
	App      App
	JWT      AppJWT
	Catalog  AppCatalog
	Viewer   AppViewer
	RabbitMQ AppRabbitMQ
	Audit    AppAudit
}

type App struct {
	Env                            string
	Port                           string
	Version                        string
	Address                        string
	Timezone                       string
	EndpointPrefix                 string
	MaxRequests                    int
	ShutdownTimeoutInSeconds       int
	MaxTimeRequestsPerSeconds      int
	RequestBodyLimitInMegabyte     int
	LoginSessionExpiredTimeInHours int
	// LoginMaxAttemptsPerMinute bounds credential guessing per client address.
	LoginMaxAttemptsPerMinute int
	// InternalServiceAPIKey authenticates service-to-service calls (the viewer
	// backend calling the access endpoints).
	InternalServiceAPIKey string
	// InternalAPIKeyRateLimit gives the viewer backend a larger per-second
	// budget than browser clients get.
	InternalAPIKeyRateLimit int
}

type AppJWT struct {
	Secret        string
	ExpTimeInHour int
	// RelayExpTimeInSeconds keeps the viewer hand-off token short-lived; it
	// appears in a URL once and must die quickly.
	RelayExpTimeInSeconds int
}

// AppCatalog points at the imaging metadata service. Radgate only ever reads
// from it.
type AppCatalog struct {
	BaseUrl          string
	Username         string
	Password         string
	TimeoutInSeconds int
}

type AppViewer struct {
	Port                        string
	PublicBaseUrl               string
	AccessServiceBaseUrl        string
	AccessServiceTimeoutInSecs  int
	SessionExpiredTimeInMinutes int
}

type AppRabbitMQ struct {
	NotificationQueue           string
	WorkerPollIntervalInSeconds int
	WorkerMaxBatch              int
	WorkerPrefetch              int
	// WorkerRetryThreshold is the failed-count at which a message moves to the
	// dead-letter queue instead of being requeued.
	WorkerRetryThreshold int
}

type AppAudit struct {
	ExportObjectPrefix                  string
	ExportPresignedURLExpiryTimeInHours int
}
