package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pregnancy-companion/internal/app"
	"pregnancy-companion/internal/closer"
	"pregnancy-companion/internal/config"
	"pregnancy-companion/internal/database"
	"pregnancy-companion/internal/journal"
	"pregnancy-companion/internal/llm"
	"pregnancy-companion/internal/metrics"
	"pregnancy-companion/internal/notes"
	"pregnancy-companion/internal/nutrition"
	"pregnancy-companion/internal/profile"
	"pregnancy-companion/internal/refdata"
	"pregnancy-companion/internal/storage"
	"pregnancy-companion/internal/symptoms"
	"pregnancy-companion/internal/tasktracker"
	"pregnancy-companion/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize the SQLite database (journal backend and chat metrics)
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	metricsStore := metrics.NewStore(db.SQL)

	// 3. Load reference data (embedded defaults, overridable on disk)
	foodGuide := refdata.LoadFoodGuide(cfg.DataDir)
	weekGuide := refdata.LoadWeekGuide(cfg.DataDir)
	symptomGuide := refdata.LoadSymptomGuide(cfg.DataDir)

	// 4. Initialize stores
	profileStore, err := storage.NewProfileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize profile store: %v", err)
	}

	var history journal.HistoryStore
	if cfg.StorageBackend == "sqlite" {
		history = journal.NewRepository(db.SQL)
	} else {
		journalStore, err := storage.NewJournalStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize journal store: %v", err)
		}
		history = journalStore
	}

	taskLogStore, err := storage.NewTaskLogStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize task log store: %v", err)
	}

	// 5. Initialize the core services
	profileMgr := profile.NewManager(profileStore, weekGuide)

	session := journal.NewSession(history, profileMgr)
	analyzer := symptoms.NewAnalyzer(symptomGuide)
	advisor := nutrition.NewAdvisor(foodGuide, profileMgr)
	selector := closer.NewSelector(nil)

	// 6. Initialize the external sinks
	trackerClient := tasktracker.NewClient(cfg)
	notesClient := notes.NewClient(cfg)

	application := app.NewApp(profileMgr, session, analyzer, advisor, selector, history, trackerClient, notesClient, taskLogStore)

	// 7. Language model fallback for off-script chat (optional)
	var textGen llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		textGen = geminiClient
	} else {
		log.Println("GEMINI_API_KEY not set; off-script chat uses scripted replies")
	}

	// 8. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, application, textGen, metricsStore)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 9. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
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
