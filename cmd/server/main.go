package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"linkedin-leads/internal/api"
	"linkedin-leads/internal/browser"
	"linkedin-leads/internal/config"
	"linkedin-leads/internal/database"
	"linkedin-leads/internal/orchestrator"
	"linkedin-leads/internal/relevance"
	"linkedin-leads/internal/scraper"
	"linkedin-leads/internal/storage"
	"linkedin-leads/internal/utils"
)

func main() {
	fmt.Println("🚀 LinkedIn Lead Filter - upload/process/download API")
	fmt.Println(strings.Repeat("=", 60))

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	cfg := config.Load()

	store := storage.NewFileStore(cfg.UploadDir, cfg.ResultsDir)
	if err := store.EnsureDirs(); err != nil {
		log.Fatalf("❌ Failed to prepare data directories: %v", err)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("❌ Failed to open job database: %v", err)
	}

	classifier := relevance.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.LLMTimeout)
	validator := scraper.NewValidator(cfg, classifier)

	// One browser session per batch, created lazily when the batch starts
	// and always released when it ends.
	newSession := func(ctx context.Context) (scraper.Session, func(), error) {
		session, err := browser.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return session, session.Close, nil
	}

	processor := orchestrator.NewBatchProcessor(cfg, validator, newSession, db)
	handler := api.NewHandler(cfg, store, db, processor)

	utils.SetupSignalHandling(func() {
		if err := db.Close(); err != nil {
			log.Printf("⚠️ Failed to close database: %v", err)
		}
	})

	router := gin.Default()
	handler.Register(router)

	fmt.Printf("📂 Uploads: %s | Results: %s | DB: %s\n", cfg.UploadDir, cfg.ResultsDir, cfg.DBPath)
	fmt.Printf("🤖 Model backend: %s (%s)\n", cfg.OllamaURL, cfg.OllamaModel)
	fmt.Println(strings.Repeat("=", 60))

	log.Printf("Listening on %s", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
