package config

import (
	"radgate-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "radgate"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "radgate-audit-exports"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                            utils.GetEnvString("APP_ENV", "development"),
			Port:                           utils.GetEnvString("APP_PORT", ":8080"),
			Version:                        utils.GetEnvString("APP_VERSION", "v1.0"),
			Address:                        utils.GetEnvString("APP_ADDRESS", "localhost"),
			Timezone:                       utils.GetEnvString("APP_TIMEZONE", "UTC"),
			EndpointPrefix:                 utils.GetEnvString("APP_ENDPOINT_PREFIX", "/api/v1"),
			MaxRequests:                    utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeoutInSeconds:       utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds:      utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 60),
			RequestBodyLimitInMegabyte:     utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 6),
			LoginSessionExpiredTimeInHours: utils.GetEnvInt("APP_LOGIN_SESSION_EXPIRED_TIME_IN_HOURS", 8),
			LoginMaxAttemptsPerMinute:      utils.GetEnvInt("APP_LOGIN_MAX_ATTEMPTS_PER_MINUTE", 5),
			InternalServiceAPIKey:          utils.GetEnvString("INTERNAL_SERVICE_API_KEY", ""),
			InternalAPIKeyRateLimit:        utils.GetEnvInt("INTERNAL_API_KEY_RATE_LIMIT", 300),
		},
		JWT: AppJWT{
			Secret:                utils.GetEnvString("JWT_SECRET", "anyjwt"),
			ExpTimeInHour:         utils.GetEnvInt("JWT_EXP_TIME_IN_HOUR", 8),
			RelayExpTimeInSeconds: utils.GetEnvInt("JWT_RELAY_EXP_TIME_IN_SECONDS", 300),
		},
		Catalog: AppCatalog{
			BaseUrl:          utils.GetEnvString("CATALOG_BASE_URL", "http://localhost:8042"),
			Username:         utils.GetEnvString("CATALOG_USERNAME", ""),
			Password:         utils.GetEnvString("CATALOG_PASSWORD", ""),
			TimeoutInSeconds: utils.GetEnvInt("CATALOG_TIMEOUT_IN_SECONDS", 10),
		},
		Viewer: AppViewer{
			Port:                        utils.GetEnvString("VIEWER_PORT", ":8090"),
			PublicBaseUrl:               utils.GetEnvString("VIEWER_PUBLIC_BASE_URL", "http://localhost:8090"),
			AccessServiceBaseUrl:        utils.GetEnvString("VIEWER_ACCESS_SERVICE_BASE_URL", "http://localhost:8080/api/v1"),
			AccessServiceTimeoutInSecs:  utils.GetEnvInt("VIEWER_ACCESS_SERVICE_TIMEOUT_IN_SECONDS", 10),
			SessionExpiredTimeInMinutes: utils.GetEnvInt("VIEWER_SESSION_EXPIRED_TIME_IN_MINUTES", 60),
		},
		RabbitMQ: AppRabbitMQ{
			NotificationQueue:           utils.GetEnvString("APP_RABBITMQ_NOTIFICATION_QUEUE", "radgate.access.notifications"),
			WorkerPollIntervalInSeconds: utils.GetEnvInt("APP_RABBITMQ_WORKER_POLL_INTERVAL_IN_SECONDS", 15),
			WorkerMaxBatch:              utils.GetEnvInt("APP_RABBITMQ_WORKER_MAX_BATCH", 20),
			WorkerPrefetch:              utils.GetEnvInt("APP_RABBITMQ_WORKER_PREFETCH", 20),
			WorkerRetryThreshold:        utils.GetEnvInt("APP_RABBITMQ_WORKER_RETRY_THRESHOLD", 5),
		},
		Audit: AppAudit{
			ExportObjectPrefix:                  utils.GetEnvString("AUDIT_EXPORT_OBJECT_PREFIX", "audit_export"),
			ExportPresignedURLExpiryTimeInHours: utils.GetEnvInt("AUDIT_EXPORT_PRESIGNED_URL_EXPIRY_TIME_IN_HOURS", 24),
		},
	}
}
