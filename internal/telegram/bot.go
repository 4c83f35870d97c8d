package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"pregnancy-companion/internal/app"
	"pregnancy-companion/internal/config"
	"pregnancy-companion/internal/llm"
	"pregnancy-companion/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the dialogue driver: it routes per-turn Telegram messages into the
// journal and safety core and relays the core's emissions to the sinks.
type Bot struct {
	api          *tgbotapi.BotAPI
	app          *app.App
	textGen      llm.TextGenerator
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, textGen llm.TextGenerator, metricsStore *metrics.Store) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		app:          application,
		textGen:      textGen,
		metricsStore: metricsStore,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}
	if !isAllowed {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	reply := b.routeMessage(update.Message)
	if reply == "" {
		return
	}

	msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending reply: %v", err)
	}
}

// routeMessage turns one Telegram message into one core interaction.
// Commands fill slots and trigger operations; plain text first goes through
// closure detection and otherwise falls back to small talk.
func (b *Bot) routeMessage(message *tgbotapi.Message) string {
	if message.IsCommand() {
		return b.handleCommand(message.Command(), strings.TrimSpace(message.CommandArguments()))
	}

	text := strings.TrimSpace(message.Text)
	if text == "" {
		return ""
	}

	if b.app.DetectClosure(text) {
		return b.app.HandleClosure(text)
	}

	return b.smallTalk(text)
}

func (b *Bot) handleCommand(command, args string) string {
	switch command {
	case "start":
		return b.app.Greeting()
	case "week":
		return b.app.WeekSummary()
	case "report":
		return b.app.WeeklyReport()
	case "symptom":
		if args == "" {
			return "Tell me the symptom, like /symptom nausea."
		}
		reply, _ := b.app.HandleSymptom(args)
		return reply
	case "mood":
		if args == "" {
			return "How are you feeling emotionally? For example /mood anxious."
		}
		return b.app.HandleEmotion(args)
	case "fatigue":
		if args == "" {
			return "How's your energy? For example /fatigue exhausted."
		}
		return b.app.HandleFatigue(args)
	case "food":
		if args == "" {
			return "What food are you wondering about? For example /food sushi."
		}
		return b.app.HandleFood(args)
	case "recommend":
		return b.app.Recommendations(5)
	case "tasks":
		if args == "" {
			return "List two or three care tasks, separated by commas."
		}
		return b.app.HandleTasks(args)
	case "recap":
		return b.app.Recap()
	case "save":
		reply, _ := b.app.SaveJournal()
		return reply
	case "remind":
		return b.app.SyncTasksToTracker()
	case "lmp":
		return b.setProfileDate(args, true)
	case "duedate":
		return b.setProfileDate(args, false)
	case "allergy":
		if args == "" {
			return "Which allergy should I remember? For example /allergy peanuts."
		}
		b.app.Profile.AddAllergy(args)
		return fmt.Sprintf("Got it, I'll keep %s away from your food suggestions.", strings.ToLower(args))
	default:
		return "I didn't recognize that command. Try /symptom, /mood, /fatigue, /food, /tasks, /recap, /save, /week, or /report."
	}
}

func (b *Bot) setProfileDate(args string, isLMP bool) string {
	if args == "" {
		return "Please give me a date like 2026-03-15."
	}
	date, err := time.Parse("2006-01-02", args)
	if err != nil {
		return "I couldn't read that date. Please use the YYYY-MM-DD format, like 2026-03-15."
	}

	if isLMP {
		b.app.Profile.SetLMP(date)
	} else {
		b.app.Profile.SetDueDate(date)
	}

	if week, trimester, ok := b.app.Profile.CurrentWeek(); ok {
		return fmt.Sprintf("Thanks! That puts you in week %d, trimester %d.", week, trimester)
	}
	return "Thanks, I've saved that."
}

// smallTalk answers off-script messages through the language model. The
// model never handles slots or safety; it only keeps the chat warm.
func (b *Bot) smallTalk(text string) string {
	if b.textGen == nil {
		return "I'm here for you. You can tell me about symptoms with /symptom, your mood with /mood, or ask about food with /food."
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	reply, err := b.textGen.GenerateContent(ctx, text)
	if err != nil {
		log.Printf("Warning: small talk generation failed: %v", err)
		return "I'm here for you. Tell me how you're feeling, or ask me about a symptom or a food."
	}

	if b.metricsStore != nil {
		if err := b.metricsStore.Record(metrics.ChatMetric{
			Model:       "gemini-2.0-flash",
			PromptChars: len(text),
			ReplyChars:  len(reply),
			LatencyMS:   time.Since(start).Milliseconds(),
		}); err != nil {
			log.Printf("Warning: failed to record chat metric: %v", err)
		}
	}
	return reply
}
