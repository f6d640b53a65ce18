package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/api"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/cfg"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/database"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/fetch"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/pipeline"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/review"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/sources"
	"github.com/mikku-01/Intelligent-Agent-For-Automated-Data-Collection-and-Processing/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogging(appConfig.Debug)

	log.Printf("Starting Intelligent Agent %s...", appConfig.Version)

	// Database connection and migrations
	log.Println("Connecting to database...")
	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}
	log.Printf("Database ready (schema version %d, dirty: %t)", version, dirty)

	// Load source configurations
	log.Printf("Loading source configurations from %s...", appConfig.SourcesDir)
	configCache := sources.NewConfigCache(appConfig.SourcesDir)
	if err := configCache.Run(); err != nil {
		log.Fatal("Failed to load source configurations: ", err)
	}
	log.Printf("Loaded %d source configurations", configCache.GetConfigCount())

	// Initialize core components
	entryRepo := database.NewEntryRepository(db)
	limiter := fetch.NewLimiter(appConfig.RateLimit, time.Duration(appConfig.RateWindow)*time.Second)
	client := fetch.NewClient(limiter, time.Duration(appConfig.FetchTimeout)*time.Second,
		appConfig.UserAgent, appConfig.MaxRetries)
	orchestrator := pipeline.NewOrchestrator(client, entryRepo)
	reviewManager := review.NewManager(entryRepo,
		time.Duration(appConfig.ReviewExpirationHours)*time.Hour)

	// Initialize and start scheduler
	log.Printf("Starting background scheduler with %d workers...", appConfig.WorkerCount)
	scheduler := tasks.NewScheduler(configCache, orchestrator, reviewManager)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler := api.NewHandler(entryRepo, reviewManager, configCache, orchestrator, scheduler)
	server := api.NewServer(apiHandler, appConfig.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("Intelligent Agent started successfully!")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	// Graceful shutdown
	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	log.Println("Intelligent Agent shutdown complete")
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
