package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ArowuTest/callops-backend/api/routes"
	"github.com/ArowuTest/callops-backend/internal/config"
	"github.com/ArowuTest/callops-backend/internal/handlers"
	"github.com/ArowuTest/callops-backend/internal/repositories"
	mongorepo "github.com/ArowuTest/callops-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/callops-backend/internal/services"
	"github.com/ArowuTest/callops-backend/pkg/blobstore"
	"github.com/ArowuTest/callops-backend/pkg/mongodb"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	var numberRepo repositories.PhoneNumberRepository = mongorepo.NewPhoneNumberRepository(db)
	var callRepo repositories.CallRepository = mongorepo.NewCallRepository(db)
	var adminRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	reports := blobstore.New(cfg)

	lifecycleService := services.NewLifecycleService(numberRepo)
	allocationService := services.NewAllocationService(numberRepo, lifecycleService, cfg)
	bulkService := services.NewBulkService(numberRepo, reports, cfg)
	numberService := services.NewNumberService(numberRepo, callRepo, lifecycleService, cfg)
	callService := services.NewCallService(callRepo, lifecycleService)
	authService := services.NewAuthService(adminRepo, cfg)

	handlerDeps := routes.HandlerDependencies{
		AuthHandler:   handlers.NewAuthHandler(authService),
		NumberHandler: handlers.NewNumberHandler(numberService, allocationService, bulkService),
		CallHandler:   handlers.NewCallHandler(callService),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

// setupLogger installs a text slog handler at the configured level
func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
