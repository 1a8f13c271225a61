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
	"radgate-service/internal/app/services/core/session"
	imaging "radgate-service/internal/app/services/imaging/catalog"
	"radgate-service/internal/app/services/shared/redis"
	"radgate-service/internal/app/services/viewer"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// The viewer binary serves the study-viewing frontend. It holds no database
// of its own: sessions live in the shared Redis and every access decision is
// delegated to the authorization service.
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

	redisClient := database.NewRedisClient(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		Redis:          redisClient,
		Logger:         zapLogger,
		InternalConfig: internalConfig,
		DriverConfig:   driverConfig,
	}
	bootstrapingTheViewer(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.Viewer.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Viewer failed to start: %v", err)
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
		log.Fatalf("Viewer forced to shutdown: %v", err)
	}

	err = bootstrap.Shutdown(shutdownCtx)
	if err != nil {
		log.Fatalf("Error closing application resources: %v", err)
	}

	log.Println("Viewer exiting")
}

func bootstrapingTheViewer(bootstrap *config.Bootstrap) {
	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	sessionService := session.NewSessionService(redisRepository)

	// Middlewares. No enforcer: the viewer has no role-gated routes.
	middlewareInstance := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig, sessionService, nil)

	// Upstream clients
	catalogClient := imaging.NewImagingCatalogClient(bootstrap.InternalConfig.Catalog, bootstrap.Logger)
	accessClient := viewer.NewAccessServiceClient(
		bootstrap.InternalConfig.Viewer,
		bootstrap.InternalConfig.App.InternalServiceAPIKey,
		bootstrap.Logger,
	)

	// Viewer
	viewerUsecase := viewer.NewViewerUsecase(
		accessClient,
		catalogClient,
		sessionService,
		redisRepository,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	viewerController := viewer.NewViewerController(bootstrap.Logger, viewerUsecase, bootstrap.InternalConfig)

	routers.SetupViewerRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewareInstance, viewerController)
}
