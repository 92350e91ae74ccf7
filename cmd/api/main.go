package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reminder-draft/config"
	_ "reminder-draft/docs" // Swagger docs
	tgDelivery "reminder-draft/internal/draft/delivery/telegram"
	"reminder-draft/internal/draft/repository/reminderd"
	"reminder-draft/internal/draft/usecase"
	"reminder-draft/internal/httpserver"
	"reminder-draft/pkg/datemath"
	"reminder-draft/pkg/gcalendar"
	"reminder-draft/pkg/gemini"
	"reminder-draft/pkg/log"
	"reminder-draft/pkg/telegram"
)

// @title       Reminder Draft API
// @description Chat-driven reminder drafting with Telegram, Gemini LLM and Google Calendar.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Reminder Draft...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Draft domain
	var telegramHandler tgDelivery.Handler

	if cfg.Telegram.BotToken != "" && cfg.ReminderStore.URL != "" {
		logger.Info(ctx, "Initializing draft domain...")

		// Telegram Bot client
		telegramBot := telegram.NewBot(cfg.Telegram.BotToken)

		// Gemini LLM client (optional: drafting degrades to deterministic-only)
		var geminiClient *gemini.Client
		if cfg.Gemini.APIKey != "" {
			geminiClient = gemini.NewClient(cfg.Gemini.APIKey)
			if cfg.Gemini.Model != "" {
				geminiClient.SetModel(cfg.Gemini.Model)
			}
		} else {
			logger.Warn(ctx, "GEMINI_API_KEY not set, LLM fallback disabled")
		}

		// Date resolver
		resolver, dtErr := datemath.NewResolver(cfg.Draft.Timezone, cfg.Draft.DayFirst)
		if dtErr != nil {
			logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Draft.Timezone, dtErr)
			resolver, _ = datemath.NewResolver("UTC", cfg.Draft.DayFirst)
		}

		// Reminder store repository
		storeClient := reminderd.NewClient(cfg.ReminderStore.URL, cfg.ReminderStore.AccessToken)
		reminderRepo := reminderd.New(storeClient, logger)

		// Google Calendar client (optional)
		var calendarClient *gcalendar.Client
		if cfg.GoogleCalendar.CredentialsPath != "" {
			calendarClient, err = gcalendar.NewClientFromCredentialsFile(ctx, cfg.GoogleCalendar.CredentialsPath)
			if err != nil {
				logger.Warnf(ctx, "Google Calendar not available (optional): %v", err)
			} else {
				logger.Info(ctx, "✅ Google Calendar initialized")
			}
		}

		// Draft UseCase
		draftUC := usecase.New(logger, geminiClient, calendarClient, reminderRepo, resolver, usecase.Config{
			Timezone:       cfg.Draft.Timezone,
			DayFirst:       cfg.Draft.DayFirst,
			SessionTimeout: cfg.Draft.SessionTimeout,
			MaxLLMItems:    cfg.Draft.MaxLLMItems,
			IngestPolicy:   usecase.IngestPolicy(cfg.Draft.IngestPolicy),
			LLMFallback:    cfg.Draft.LLMFallback && geminiClient != nil,
			ParseDebug:     cfg.Draft.ParseDebug,
		})

		// Telegram Delivery handler
		telegramHandler = tgDelivery.New(logger, draftUC, telegramBot, tgDelivery.SecurityConfig{
			WebhookSecret:   cfg.Telegram.WebhookSecret,
			RateLimitPerMin: cfg.Telegram.RateLimitPerMin,
		})

		// Register webhook: auto-detect ngrok or fallback to manual config
		webhookURL := cfg.Telegram.WebhookURL
		if webhookURL == "" {
			ngrokURL, ngrokErr := detectNgrokURL(ctx, "http://ngrok:4040")
			if ngrokErr != nil {
				logger.Warnf(ctx, "Could not detect ngrok URL: %v", ngrokErr)
			} else {
				webhookURL = ngrokURL + "/webhook/telegram"
				logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
			}
		}

		if webhookURL != "" {
			if whErr := telegramBot.SetWebhook(webhookURL, cfg.Telegram.WebhookSecret); whErr != nil {
				logger.Warnf(ctx, "Failed to set Telegram webhook: %v", whErr)
			} else {
				logger.Infof(ctx, "✅ Telegram webhook registered at %s", webhookURL)
			}
		}

		logger.Info(ctx, "Draft domain initialized successfully")
	} else {
		logger.Warn(ctx, "Draft domain skipped: TELEGRAM_BOT_TOKEN or REMINDER_STORE_URL is missing")
	}

	// 4. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 5. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
