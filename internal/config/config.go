package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	DataDir        string
	DatabasePath   string
	StorageBackend string // "file" or "sqlite"

	GeminiAPIKey string

	// Telegram Config (Optional for CLI, required for Bot)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64

	// Task tracker sink (optional; sync degrades gracefully when unset)
	TaskTrackerURL       string
	TaskTrackerToken     string
	TaskTrackerProjectID string

	// Notes database sink (optional)
	NotesURL      string
	NotesAdminKey string
}

// NewFromEnv creates a new Config object from environment variables. A local
// .env file is loaded first when present.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	dataDir := os.Getenv("PREGNANCY_DATA_DIR")
	if dataDir == "" {
		dataDir = "pregnancy_data"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = dataDir + "/companion.db"
	}

	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = "file"
	}
	if backend != "file" && backend != "sqlite" {
		return nil, fmt.Errorf("STORAGE_BACKEND must be \"file\" or \"sqlite\", got %q", backend)
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")

	var allowedIDs []int64
	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	return &Config{
		DataDir:                dataDir,
		DatabasePath:           dbPath,
		StorageBackend:         backend,
		GeminiAPIKey:           geminiAPIKey,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		TaskTrackerURL:         os.Getenv("TASK_TRACKER_URL"),
		TaskTrackerToken:       os.Getenv("TASK_TRACKER_TOKEN"),
		TaskTrackerProjectID:   os.Getenv("TASK_TRACKER_PROJECT_ID"),
		NotesURL:               os.Getenv("NOTES_API_URL"),
		NotesAdminKey:          os.Getenv("NOTES_ADMIN_API_KEY"),
	}, nil
}

// RequireTelegram validates the bot-only settings.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}
