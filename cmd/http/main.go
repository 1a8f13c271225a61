package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"radgate-service/internal/app/config"
	"radgate-service/internal/app/delivery/http/middlewares"
	"radgate-service/internal/app/delivery/http/routers"
	"radgate-service/internal/app/drivers/database"
	"radgate-service/internal/app/drivers/logger"
	"radgate-service/internal/app/drivers/messaging"
	"radgate-service/internal/app/drivers/storage"
	"radgate-service/internal/app/services/core/access"
	"radgate-service/internal/app/services/core/audit"
	"radgate-service/internal/app/services/core/auth"
	"radgate-service/internal/app/services/core/catalog"
	"radgate-service/internal/app/services/core/notifications"
	"radgate-service/internal/app/services/core/roles"
	"radgate-service/internal/app/services/core/session"
	"radgate-service/internal/app/services/core/users"
	imaging "radgate-service/internal/app/services/imaging/catalog"
	"radgate-service/internal/app/services/shared/notifier"
	"radgate-service/internal/app/services/shared/redis"
	miniostorage "radgate-service/internal/app/services/shared/storage"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		log.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)

	enforcer, err := roles.NewEnforcer("resources/rbac_model.conf", "resources/rbac_policy.csv")
	if err != nil {
		log.Fatalf("Error building RBAC enforcer: %v", err)
	}

	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoClient,
		Redis:          redisClient,
		Minio:          minioClient,
		RabbitMQ:       rabbitConn,
		Enforcer:       enforcer,
		Logger:         zapLogger,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}
	bootstrapingTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Error closing application resources: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap *config.Bootstrap) {
	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	sessionService := session.NewSessionService(redisRepository)

	// Middlewares
	middlewareInstance := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig, sessionService, bootstrap.Enforcer)
	loginLimiter := middlewares.NewLoginRateLimiter(bootstrap.Logger, bootstrap.InternalConfig.App.LoginMaxAttemptsPerMinute)

	// Imaging catalog
	catalogClient := imaging.NewImagingCatalogClient(bootstrap.InternalConfig.Catalog, bootstrap.Logger)

	// Notifier queue
	queueService, err := notifier.NewService(
		bootstrap.RabbitMQ,
		bootstrap.Logger,
		bootstrap.InternalConfig.RabbitMQ.NotificationQueue,
		bootstrap.InternalConfig.RabbitMQ.WorkerPrefetch,
	)
	if err != nil {
		logrus.Fatalf("Failed to declare notification queues: %v", err)
	}

	// User
	userMongoRepository := users.NewUserMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	userUsecase := users.NewUserUsecase(userMongoRepository, sessionService, bootstrap.Logger)
	userController := users.NewUserController(bootstrap.Logger, userUsecase)

	// Audit
	auditLogMongoRepository := audit.NewAuditLogMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	minioStorage := miniostorage.NewMinioStorage(bootstrap.Minio)
	auditUsecase := audit.NewAuditUsecase(auditLogMongoRepository, minioStorage, bootstrap.InternalConfig, bootstrap.DriverConfig, bootstrap.Logger)
	auditController := audit.NewAuditController(bootstrap.Logger, auditUsecase)

	// Access
	patientRelationshipMongoRepository := access.NewPatientRelationshipMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	doctorAssignmentMongoRepository := access.NewDoctorAssignmentMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	familyAccessMongoRepository := access.NewFamilyAccessMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	accessUsecase := access.NewAccessUsecase(
		patientRelationshipMongoRepository,
		doctorAssignmentMongoRepository,
		familyAccessMongoRepository,
		userMongoRepository,
		auditLogMongoRepository,
		catalogClient,
		queueService,
		bootstrap.Logger,
	)
	accessController := access.NewAccessController(bootstrap.Logger, accessUsecase)

	// Auth
	authUsecase := auth.NewAuthUsecase(userMongoRepository, sessionService, bootstrap.InternalConfig, bootstrap.Logger)
	authController := auth.NewAuthController(bootstrap.Logger, authUsecase, bootstrap.InternalConfig)

	// Catalog proxy
	catalogUsecase := catalog.NewCatalogUsecase(accessUsecase, catalogClient, bootstrap.Logger)
	catalogController := catalog.NewCatalogController(bootstrap.Logger, catalogUsecase)

	// Notifications
	adminNotificationMongoRepository := notifications.NewAdminNotificationMongoRepository(bootstrap.MongoDB, bootstrap.DriverConfig.MongoDB.DbName)
	notificationUsecase := notifications.NewNotificationUsecase(adminNotificationMongoRepository, bootstrap.Logger)
	notificationController := notifications.NewNotificationController(bootstrap.Logger, notificationUsecase)

	// Notification worker
	worker := notifications.NewWorker(bootstrap.Logger, bootstrap.InternalConfig, queueService, redisRepository, adminNotificationMongoRepository)
	bootstrap.NotifierStop = worker.Start(context.Background())

	routers.SetupRoutes(
		bootstrap.Router,
		bootstrap.InternalConfig,
		middlewareInstance,
		loginLimiter,
		authController,
		accessController,
		userController,
		auditController,
		catalogController,
		notificationController,
	)
}
