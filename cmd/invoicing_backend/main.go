package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/invobook/invoicing_app/internal/apperrors"
	"github.com/invobook/invoicing_app/internal/core/domain"
	portsrepo "github.com/invobook/invoicing_app/internal/core/ports/repositories"
	portssvc "github.com/invobook/invoicing_app/internal/core/ports/services"
	"github.com/invobook/invoicing_app/internal/core/services"
	"github.com/invobook/invoicing_app/internal/handlers"
	"github.com/invobook/invoicing_app/internal/middleware"
	"github.com/invobook/invoicing_app/internal/platform/config"
	"github.com/invobook/invoicing_app/internal/platform/events"
	"github.com/invobook/invoicing_app/internal/repositories/database/pgsql"
	"github.com/invobook/invoicing_app/internal/utils"
	"github.com/invobook/invoicing_app/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Invoicing Backend API
// @version 1.0
// @description Multi-tenant invoicing and cash management backend.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	// Notification events flow through Kafka when a broker is configured;
	// without one they stay local to the inbox table.
	var publisher events.Publisher
	if cfg.KafkaBroker != "" {
		publisher = events.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, cfg.NotificationWorkers, logger)
		logger.Info("Kafka notification publisher started", slog.String("broker", cfg.KafkaBroker), slog.String("topic", cfg.KafkaTopic))
	}

	container := services.NewServiceContainer(cfg, repos, publisher, logger)

	if err := bootstrapSuperadmin(context.Background(), cfg, repos, logger); err != nil {
		logger.Error("Failed to bootstrap superadmin", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background sweep that moves unpaid invoices past their due date to
	// OVERDUE, independent of read traffic.
	go runOverdueSweeper(rootCtx, cfg.SweepInterval, container.Invoice, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-rootCtx.Done()
	logger.Info("Shutdown signal received, draining...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	services.ShutdownServices(container)
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("Publisher close error", slog.String("error", err.Error()))
		}
	}
	posthogClient.Close()
	logger.Info("Server stopped.")
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection using the pgx stdlib driver.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// bootstrapSuperadmin ensures the configured platform operator account
// exists. A fresh deployment has no users, and SUPERADMIN accounts cannot
// be created through the API, so the first one comes from config.
func bootstrapSuperadmin(ctx context.Context, cfg *config.Config, repos portsrepo.RepositoryProvider, logger *slog.Logger) error {
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return nil
	}

	existing, err := repos.UserRepo.FindUserByEmail(ctx, cfg.BootstrapAdminEmail)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword(cfg.BootstrapAdminPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := domain.User{
		UserID:       uuid.NewString(),
		Email:        cfg.BootstrapAdminEmail,
		Name:         "Platform Admin",
		PasswordHash: hash,
		Role:         domain.RoleSuperadmin,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "system:bootstrap",
			LastUpdatedAt: now,
			LastUpdatedBy: "system:bootstrap",
		},
	}
	if err := repos.UserRepo.SaveUser(ctx, admin); err != nil {
		return err
	}
	logger.Info("Bootstrapped superadmin account", slog.String("email", cfg.BootstrapAdminEmail))
	return nil
}

// runOverdueSweeper periodically flips unpaid invoices past their due date
// to OVERDUE. It runs until ctx is cancelled.
func runOverdueSweeper(ctx context.Context, interval time.Duration, invoiceSvc portssvc.InvoiceSvcFacade, logger *slog.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := invoiceSvc.SweepOverdue(ctx, time.Now().UTC())
			if err != nil {
				logger.Error("Overdue sweep failed", slog.String("error", err.Error()))
				continue
			}
			if len(swept) > 0 {
				logger.Info("Overdue sweep completed", slog.Int("count", len(swept)))
			}
		}
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if cfg.FrontendBaseURL != "" {
		corsCfg.AllowOrigins = []string{cfg.FrontendBaseURL}
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowCredentials = !corsCfg.AllowAllOrigins
	return corsCfg
}
