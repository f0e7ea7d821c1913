package main

import (
	"bijouterie_server/api"
	"bijouterie_server/config"
	"bijouterie_server/database"
	"bijouterie_server/services"
	"bijouterie_server/storage"
	"bijouterie_server/structs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

var logger *gecho.Logger
var cfg *structs.Config

// init function to load environment variables and initialize logger and database
func init() {
	envErr := godotenv.Load()

	cfg = config.GetConfig()
	logger = config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := database.Initialize(); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
}

func main() {
	ctx := context.Background()
	db := database.GetInstance()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to apply migrations", gecho.Field("error", err))
		}
		logger.Info("Database migrations applied")
	}

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize photo storage", gecho.Field("error", err), gecho.Field("backend", cfg.Storage.Backend))
	}

	sm := services.NewServiceManager(logger, cfg, db, blobs)

	if err := sm.UserService.BootstrapAdmin(ctx, cfg.Auth); err != nil {
		logger.Fatal("Failed to bootstrap admin account", gecho.Field("error", err))
	}

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Setup graceful shutdown BEFORE starting the server
	done := setupGracefulShutdown(logger, server, sm)

	logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to start server", gecho.Field("error", err))
		os.Exit(1)
	}

	<-done
}

// setupGracefulShutdown drains in-flight requests on SIGINT/SIGTERM, then closes the cache and database.
// The returned channel is closed once shutdown is complete.
func setupGracefulShutdown(logger *gecho.Logger, server *http.Server, sm *services.ServiceManager) <-chan struct{} {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	logger.Info("Graceful shutdown handler initialized")

	go func() {
		defer close(done)

		sig := <-c
		logger.Info("Received shutdown signal", gecho.Field("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown did not complete", gecho.Field("error", err))
		}
		if err := sm.CacheService.Close(); err != nil {
			logger.Warn("Failed to close cache connection", gecho.Field("error", err))
		}
		if err := database.CloseInstance(); err != nil {
			logger.Warn("Failed to close database", gecho.Field("error", err))
		}
	}()

	return done
}
