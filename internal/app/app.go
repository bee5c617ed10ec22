package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediahub_backend/internal/config"
	"mediahub_backend/internal/handlers"
	"mediahub_backend/internal/logger"
	"mediahub_backend/internal/metrics"
	"mediahub_backend/internal/middleware"
	"mediahub_backend/internal/repositories"
	"mediahub_backend/internal/routes"
	"mediahub_backend/internal/services"
	"mediahub_backend/internal/storage"
	"mediahub_backend/internal/tracing"
	"mediahub_backend/internal/validator"
	"mediahub_backend/internal/workers"
	"mediahub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	defaultSQLiteDSN = "mediahub.db"
	mongoPingTimeout = 10 * time.Second
)

// Application holds everything built once at startup and shared by handlers.
type Application struct {
	Config   *config.Config
	Storage  storage.Storage
	Records  repositories.RecordRepository
	Metrics  *metrics.Collector
	Services *services.ServiceContainer
	Handlers *handlers.AppHandlers
	Router   *gin.Engine
}

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Server.Env,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracing", "error", err)
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(c)
	}()

	application, err := New(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize application", "error", err)
	}

	if err := application.Serve(ctx); err != nil {
		logger.Fatal("Server error", "error", err)
	}
}

// New builds the application from configuration. An unreachable record
// store or missing Cloudinary credentials are logged and do not abort startup.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	storageInstance, err := storage.NewStorage(ctx, storage.Config{
		Type:          cfg.Storage.Type,
		CloudinaryURL: cfg.Storage.CloudinaryURL,
		CloudName:     cfg.Storage.CloudName,
		APIKey:        cfg.Storage.APIKey,
		APISecret:     cfg.Storage.APISecret,
		BasePath:      cfg.Storage.BasePath,
		BaseURL:       cfg.Storage.BaseURL,
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Endpoint:      cfg.Storage.Endpoint,
		UseSSL:        cfg.Storage.UseSSL,
	})
	switch {
	case errors.Is(err, storage.ErrCloudinaryCredentials):
		// загрузки будут отвечать 500 с этим сообщением, листинг продолжает работать
		logger.Error("Storage is not configured, uploads will fail", "type", cfg.Storage.Type, "error", err)
		storageInstance = storage.NewUnavailableStorage(cfg.Storage.Type, err)
	case err != nil:
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	default:
		logger.Info("Storage initialized", "type", storageInstance.Name())
	}

	records := openRecordRepository(ctx, cfg)

	return NewWithDeps(cfg, storageInstance, records), nil
}

// NewWithDeps wires services, handlers and the router around ready-made
// storage and record store.
func NewWithDeps(cfg *config.Config, storageInstance storage.Storage, records repositories.RecordRepository) *Application {
	collector := metrics.New()

	serviceContainer := initializeServices(cfg, storageInstance, records, collector)
	appHandlers := initializeHandlers(cfg, serviceContainer)

	return &Application{
		Config:   cfg,
		Storage:  storageInstance,
		Records:  records,
		Metrics:  collector,
		Services: serviceContainer,
		Handlers: appHandlers,
		Router:   SetupRouter(appHandlers, collector),
	}
}

func SetupRouter(appHandlers *handlers.AppHandlers, collector *metrics.Collector) *gin.Engine {
	ginRouter := initializeGinRouter(collector)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

// Serve runs the HTTP server (and the metrics listener, if configured) until
// ctx is cancelled, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context) error {
	cfg := a.Config

	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	workers.NewStagingWorker(cfg.Upload.StagingDir, cfg.Upload.StagingTTL, cfg.Upload.SweepInterval).Start(sweepCtx)

	var handler http.Handler = a.Router
	if cfg.Tracing.Endpoint != "" {
		handler = tracing.Handler(handler, cfg.Tracing.ServiceName)
	}

	servers := []*http.Server{{Addr: cfg.Addr(), Handler: handler}}
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.Metrics.Handler())
		servers = append(servers, &http.Server{Addr: cfg.Metrics.Addr, Handler: mux})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info(fmt.Sprintf("🚀 Server starting on %s", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("Server stopped unexpectedly", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "addr", srv.Addr, "error", err)
		}
	}
	if err := a.Records.Close(shutdownCtx); err != nil {
		logger.Error("Failed to close record store", "error", err)
	}

	logger.Info("Server stopped")
	return serveErr
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage, records repositories.RecordRepository, collector *metrics.Collector) *services.ServiceContainer {
	uploader := services.NewMediaUploader(storageInstance, collector)
	uploadService := services.NewUploadService(uploader, records, services.UploadConfig{
		Folder:            cfg.Upload.Folder,
		CompensateOrphans: cfg.Upload.CompensateOrphans,
	})

	return &services.ServiceContainer{
		UploadService: uploadService,
		MediaUploader: uploader,
	}
}

func initializeHandlers(cfg *config.Config, serviceContainer *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		UploadHandler: handlers.NewUploadHandler(baseHandler, serviceContainer.UploadService, cfg.Upload.StagingDir, cfg.Upload.MaxMemory),
		RecordHandler: handlers.NewRecordHandler(baseHandler, serviceContainer.UploadService),
	}
}

func initializeGinRouter(collector *metrics.Collector) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(collector.Middleware())
	return router
}

// openRecordRepository never fails: connection problems are logged and
// replaced by a repository whose calls fail.
func openRecordRepository(ctx context.Context, cfg *config.Config) repositories.RecordRepository {
	switch cfg.Database.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		repo, err := openGormRepository(cfg)
		if err != nil {
			logConnectionFailure(cfg.Database.Driver, err)
			return repositories.NewUnavailableRecordRepository(err)
		}
		logger.Info("Database connected", "driver", cfg.Database.Driver)
		return repo
	default:
		logger.Info("Connecting to MongoDB...", "collection", cfg.Database.Collection)
		repo, err := repositories.NewMongoRecordRepository(repositories.MongoConfig{
			URI:        cfg.Database.MongoURI,
			Database:   cfg.Database.MongoDatabase,
			Collection: cfg.Database.Collection,
		})
		if err != nil {
			logConnectionFailure(config.DriverMongo, err)
			return repositories.NewUnavailableRecordRepository(err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, mongoPingTimeout)
		defer cancel()
		if err := repo.Ping(pingCtx); err != nil {
			// the driver reconnects on its own, so keep the client
			logConnectionFailure(config.DriverMongo, err)
			return repo
		}
		logger.Info("Database connected", "driver", config.DriverMongo)
		return repo
	}
}

func openGormRepository(cfg *config.Config) (*repositories.GormRecordRepository, error) {
	var dialector gorm.Dialector
	if cfg.Database.Driver == config.DriverPostgres {
		dialector = postgres.Open(cfg.Database.DSN)
	} else {
		dsn := cfg.Database.DSN
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		dialector = sqlite.Open(dsn)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	repo := repositories.NewGormRecordRepository(gormDB)
	if err := repo.AutoMigrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

func logConnectionFailure(driver string, err error) {
	appErr := apperrors.ConnectionFailure(err)
	logger.Error("Database connection failed",
		"driver", driver,
		"code", appErr.Code,
		"error", appErr.Message,
	)
}
