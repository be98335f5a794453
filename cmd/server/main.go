package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	appactivity "github.com/invtrack/backend/internal/application/activity"
	appbackup "github.com/invtrack/backend/internal/application/backup"
	appcatalog "github.com/invtrack/backend/internal/application/catalog"
	appidentity "github.com/invtrack/backend/internal/application/identity"
	appreport "github.com/invtrack/backend/internal/application/report"
	"github.com/invtrack/backend/internal/infrastructure/cache"
	"github.com/invtrack/backend/internal/infrastructure/config"
	"github.com/invtrack/backend/internal/infrastructure/logger"
	"github.com/invtrack/backend/internal/infrastructure/persistence"
	"github.com/invtrack/backend/internal/infrastructure/storage"
	"github.com/invtrack/backend/internal/interfaces/http/dto"
	"github.com/invtrack/backend/internal/interfaces/http/handler"
	"github.com/invtrack/backend/internal/interfaces/http/middleware"
	"github.com/invtrack/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	zapLogger, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer zapLogger.Sync()

	if err := dto.RegisterValidations(); err != nil {
		return fmt.Errorf("failed to register request validators: %w", err)
	}

	zapLogger.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLevel := gormlogger.Warn
	if cfg.Log.Level == "debug" {
		gormLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(zapLogger, gormLevel))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txRepo := persistence.NewGormTransactionRepository(db.DB)

	backupGateway := persistence.NewGormBackupGateway(db.DB, persistence.BackupGatewayConfig{
		DefaultAdminUsername:  cfg.Backup.DefaultAdminUsername,
		DefaultAdminPassword:  cfg.Backup.DefaultAdminPassword,
		DefaultImportPassword: cfg.Backup.DefaultImportPassword,
	})

	// The admin-user guarantee holds from first boot, not just after imports
	if err := backupGateway.EnsureDefaultAdmin(context.Background()); err != nil {
		return fmt.Errorf("failed to ensure default admin user: %w", err)
	}

	idempotencyStore, err := cache.NewIdempotencyStore(&cfg.Redis, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize idempotency store: %w", err)
	}
	defer idempotencyStore.Close()

	var archiver appbackup.Archiver
	if cfg.Archive.Enabled {
		s3Archiver, err := storage.NewS3SnapshotArchiver(&cfg.Archive,
			storage.WithLogger(zapLogger))
		if err != nil {
			return fmt.Errorf("failed to initialize snapshot archiver: %w", err)
		}
		archiver = s3Archiver
	}

	// Application services
	categoryService := appcatalog.NewCategoryService(categoryRepo, itemRepo)
	itemService := appcatalog.NewItemService(itemRepo, categoryRepo, txRepo)
	userService := appidentity.NewUserService(userRepo)
	transactionService := appactivity.NewTransactionService(txRepo, userRepo)
	dashboardService := appreport.NewDashboardService(itemRepo, categoryRepo, userRepo, txRepo)
	importService := appbackup.NewImportService(backupGateway, cfg.Backup.DefaultMinStockLevel, zapLogger)
	exportService := appbackup.NewExportService(backupGateway, archiver, zapLogger)

	engine, err := newEngine(cfg, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to configure http engine: %w", err)
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSystemHandler(db, cfg.App.Name))
	r.Register(handler.NewCategoryHandler(categoryService))
	r.Register(handler.NewItemHandler(itemService))
	r.Register(handler.NewUserHandler(userService))
	r.Register(handler.NewTransactionHandler(transactionService))
	r.Register(handler.NewReportHandler(dashboardService))
	r.Register(handler.NewBackupHandler(
		importService,
		exportService,
		idempotencyStore,
		cfg.Backup.ImportIdempotencyTTL,
		zapLogger,
	))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	zapLogger.Info("shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	zapLogger.Info("server stopped")
	return nil
}

func newEngine(cfg *config.Config, zapLogger *zap.Logger) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	proxies := cfg.HTTP.TrustedProxies
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := engine.SetTrustedProxies(proxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxy list: %w", err)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(logger.Recovery(zapLogger))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(zapLogger))
	engine.Use(middleware.CORSWithConfig(corsCfg))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	return engine, nil
}
