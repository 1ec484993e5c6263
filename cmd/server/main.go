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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/healthtrack/healthtrack-api/internal/audit"
	"github.com/healthtrack/healthtrack-api/internal/config"
	"github.com/healthtrack/healthtrack-api/internal/dao"
	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/router"
	"github.com/healthtrack/healthtrack-api/internal/service"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

const startupTimeout = 30 * time.Second

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "healthtrack-api",
		Short:   "HealthTrack consent-gated health record API",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"), "path to the config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := database.Initialize(&cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("Schema is up to date")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users and data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			db, err := database.Initialize(&cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			return seedDemoData(cmd.Context(), db, logger)
		},
	}
}

func bootstrap() (*config.Config, *logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
	}).Debug("Configuration loaded")

	return cfg, logger, nil
}

func runServer() error {
	// GIN_MODE still overrides
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting HealthTrack API server...")

	db, err := database.Initialize(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	auditStore, err := audit.Open(ctx, &cfg.Audit)
	if err != nil {
		return fmt.Errorf("open audit store: %w", err)
	}
	auditLog := audit.NewLogger(auditStore, logger, cfg.Audit.WriteTimeout)
	defer func() {
		if err := auditLog.Close(); err != nil {
			logger.WithError(err).Error("Failed to close audit store")
		}
	}()

	consentDAO := dao.NewConsentDAO(db)
	statusAuditDAO := dao.NewStatusAuditDAO(db)
	userDAO := dao.NewUserDAO(db)
	recordDAO := dao.NewRecordDAO(db)
	profileDAO := dao.NewEmergencyProfileDAO(db)
	familyDAO := dao.NewFamilyMemberDAO(db)

	guard := service.NewAccessGuard(consentDAO, logger)
	services := router.Services{
		DB:        db,
		Users:     service.NewUserService(userDAO, logger),
		Auth:      service.NewAuthService(userDAO, cfg.Security.JWT, logger),
		Consents:  service.NewConsentService(consentDAO, statusAuditDAO, userDAO, db, logger),
		Doctors:   service.NewDoctorService(consentDAO, userDAO, recordDAO, guard, auditLog, logger),
		Records:   service.NewRecordService(recordDAO, auditLog, logger),
		Emergency: service.NewEmergencyService(profileDAO, logger),
		Family:    service.NewFamilyService(familyDAO, logger),
		Audit:     auditLog,
	}

	server := &http.Server{
		Addr:           cfg.Server.GetServerAddress(),
		Handler:        router.SetupRouter(services, cfg.CORS, logger),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	db.LogStats()
	logger.Info("Server exited gracefully")
	return nil
}
