package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"arenasrv/api"
	"arenasrv/config"
	"arenasrv/database"
	"arenasrv/events"
	"arenasrv/notifier"
	"arenasrv/repository"
	"arenasrv/scheduler"
	"arenasrv/service"
	"arenasrv/storage"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting arena server...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	userService := service.NewUserService(uowFactory, cfg.StartingBalance)
	matchService := service.NewMatchService(uowFactory, cfg.PlatformFeeRate)
	resultService := service.NewResultService(uowFactory)

	// Screenshot storage is optional; without it clients submit URLs
	var screenshots *storage.ScreenshotStore
	if cfg.StorageBucket != "" {
		screenshots, err = storage.NewScreenshotStore(ctx, storage.Config{
			Endpoint:   cfg.StorageEndpoint,
			Region:     cfg.StorageRegion,
			Bucket:     cfg.StorageBucket,
			AccessKey:  cfg.StorageAccessKey,
			SecretKey:  cfg.StorageSecretKey,
			PublicBase: cfg.StoragePublicBase,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize screenshot storage: %w", err)
		}
		log.Println("Screenshot storage initialized")
	}

	// Review sweeper flags matches stuck in COMPLETED
	sweeper, err := scheduler.Start(resultService, cfg.ReviewWindow, cfg.ReviewSweepInterval)
	if err != nil {
		return fmt.Errorf("failed to start review sweeper: %w", err)
	}

	// Discord announcer is optional as well
	var announcer *notifier.Announcer
	if cfg.DiscordToken != "" && cfg.DiscordChannelID != "" {
		announcer, err = notifier.NewAnnouncer(cfg.DiscordToken, cfg.DiscordChannelID, eventBus)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord announcer: %w", err)
		}
	}

	// HTTP server with the websocket change feed
	feed := api.NewFeed(eventBus)
	server := api.NewServer(cfg, userService, matchService, resultService, screenshots, feed)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Routes(),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s in %s mode...", cfg.ListenAddr, cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if err := sweeper.Stop(); err != nil {
		log.Printf("Error stopping review sweeper: %v", err)
	}

	if announcer != nil {
		if err := announcer.Close(); err != nil {
			log.Printf("Error closing Discord announcer: %v", err)
		}
	}

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
