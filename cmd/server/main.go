// Package main initializes and starts the BillboardWatch API server,
// setting up configuration, logging, database connections, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/BillboardWatch/internal/config"
	"github.com/atinyakov/BillboardWatch/internal/db"
	"github.com/atinyakov/BillboardWatch/internal/logger"
	"github.com/atinyakov/BillboardWatch/internal/repository"
	"github.com/atinyakov/BillboardWatch/internal/server/handler/http"
	"github.com/atinyakov/BillboardWatch/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Address

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT secret is required (-s flag or JWT_SECRET)")
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge expired one-time codes in the background.
	db.StartOTPCleaner(context.Background(), postgresDB, time.Hour, zapLogger)

	// Initialize repositories.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	reportRepo := repository.NewPostgresReportRepository(postgresDB)
	notificationRepo := repository.NewPostgresNotificationRepository(postgresDB)

	// Initialize business-logic services.
	tokens := service.NewTokenService(options.JWTSecret, 24*time.Hour)
	authService := service.NewAuthService(authRepo, tokens, zapLogger)
	reportService := service.NewReportService(reportRepo, notificationRepo, zapLogger)
	statsService := service.NewStatsService(reportRepo, reportRepo)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService}
	reportHandler := &http.ReportHandler{ReportService: reportService}
	statsHandler := &http.StatsHandler{StatsService: statsService}
	uploadHandler := &http.UploadHandler{Dir: "uploads", Log: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, reportHandler, statsHandler, uploadHandler, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
