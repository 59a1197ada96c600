package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NoMooncake/meal-planner/internal/clipper"
	"github.com/NoMooncake/meal-planner/internal/config"
	"github.com/NoMooncake/meal-planner/internal/database"
	"github.com/NoMooncake/meal-planner/internal/ghost"
	"github.com/NoMooncake/meal-planner/internal/history"
	"github.com/NoMooncake/meal-planner/internal/pricing"
	"github.com/NoMooncake/meal-planner/internal/recipe"
	"github.com/NoMooncake/meal-planner/internal/storage"
	"github.com/NoMooncake/meal-planner/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateTelegram(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// 2. Open the database and history repository
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repo := history.NewRepository(db.SQL)

	// 3. Load the catalog: local file when present, built-in samples otherwise
	catalog := recipe.SampleCatalog()
	if _, err := os.Stat(cfg.CatalogPath); err == nil {
		catalog, err = storage.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("Failed to load catalog from %s: %v", cfg.CatalogPath, err)
		}
		log.Printf("Loaded %d recipes from %s", catalog.Len(), cfg.CatalogPath)
	}

	// 4. Ghost recipe box, optional
	var ghostClient ghost.Client
	var recipeClipper *clipper.Clipper
	if cfg.GhostEnabled() {
		ghostClient = ghost.NewClient(cfg.GhostURL, cfg.GhostContentKey, cfg.GhostAdminKey)
		recipeClipper = clipper.NewClipper(ghostClient)
		log.Printf("Ghost recipe box enabled at %s", cfg.GhostURL)
	}

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, catalog, pricing.SampleBook(), ghostClient, recipeClipper, repo)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}
	bot.RegisterHandlers()

	// 6. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
