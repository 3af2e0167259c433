package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	telegoBot "langcast-bot/bot"
	"langcast-bot/internal/announcements"
	"langcast-bot/internal/auth"
	"langcast-bot/internal/config"
	"langcast-bot/internal/database"
	"langcast-bot/internal/handlers"
	"langcast-bot/internal/locales"
	"langcast-bot/internal/ratelimit"
	"langcast-bot/internal/scheduler"
	"langcast-bot/internal/sessions"
	"langcast-bot/internal/translation"

	sentry "github.com/getsentry/sentry-go"
	telego "github.com/mymmrac/telego"
)

const (
	fetchTimeout    = 20 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize localization bundle
	locales.Init(cfg.DefaultLocale)

	// Initialize Sentry (if DSN is provided)
	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		Release:          cfg.Version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	// Creating context for application lifecycle
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	client, db, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
			sentry.CaptureException(err)
		} else {
			log.Println("Disconnected from MongoDB.")
		}
	}()

	// 1. Session store, loaded once from the durable mirror
	store := sessions.NewStore(database.NewMongoGroupRepository(db))
	if err := store.Load(ctx); err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to load group sessions: %v", err)
	}

	operatorChecker, err := auth.NewOperatorChecker(store, cfg.Debug)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create operator checker: %v", err)
	}

	// 2. Translation service with cache and retry
	translatorClient := translation.NewOpenAIClient(cfg.TranslatorBaseURL, cfg.TranslatorAPIKey, cfg.TranslatorModel, cfg.TranslatorTimeout)
	targets := append(cfg.Languages.All(), cfg.ReverseLanguage)
	translator := translation.NewService(translatorClient, targets, translation.Options{
		Placeholder: locales.Text(cfg.DefaultLocale, locales.MsgTranslationUnavailable, nil),
	})

	// 3. Create the raw telego bot instance
	var bot *telego.Bot
	if cfg.Debug {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultDebugLogger())
	} else {
		bot, err = telego.NewBot(cfg.BotToken, telego.WithDefaultLogger(false, false))
	}
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create telego bot: %v", err)
	}
	me, err := bot.GetMe(ctx)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to get bot info: %v", err)
	}
	log.Printf("Authorized as @%s", me.Username)
	messenger := telegoBot.NewTelegramMessenger(bot, nil)

	// 4. Announcement matching and broadcasting
	fetcher := announcements.NewHTTPFetcher(fetchTimeout, "langcast-bot/"+cfg.Version)
	matcher := announcements.NewMatcher(fetcher, cfg.AnnouncementIndexURL, cfg.AnnouncementDateLayout, cfg.Languages, announcements.DefaultSelectors())
	broadcaster := announcements.NewBroadcaster(matcher, messenger, announcements.DefaultSendDelay)

	// 5. Event dispatcher
	dispatcher := handlers.NewDispatcher(handlers.Config{
		ConfigureCommand: cfg.ConfigureCommand,
		BroadcastCommand: cfg.BroadcastCommand,
		Locale:           cfg.DefaultLocale,
		Location:         cfg.Location,
		Debug:            cfg.Debug,
	}, handlers.Deps{
		Languages:    cfg.Languages,
		Reverse:      cfg.ReverseLanguage,
		Store:        store,
		Checker:      operatorChecker,
		Translator:   translator,
		Broadcaster:  broadcaster,
		Limiter:      ratelimit.NewGroupLimiter(ratelimit.DefaultInterval, nil),
		Messenger:    messenger,
		ActionLogger: database.NewMongoActionLogger(db),
	})

	// 6. Daily broadcast job
	daily, err := scheduler.New(scheduler.Config{
		Hour:     cfg.BroadcastHour,
		Minute:   cfg.BroadcastMinute,
		Location: cfg.Location,
	}, store, broadcaster)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	daily.Start()

	// 7. Long polling and the bot wrapper
	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{AllowedUpdates: telegoBot.AllowedUpdates})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to start long polling: %v", err)
	}

	appBot, err := telegoBot.New(telegoBot.BotDeps{
		Bot:         bot,
		UpdatesChan: updates,
		Handler:     dispatcher,
		Debug:       cfg.Debug,
		Locale:      cfg.DefaultLocale,
		Commands:    []string{cfg.ConfigureCommand, cfg.BroadcastCommand},
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal(err)
	}
	if err := appBot.SetupCommands(ctx); err != nil {
		log.Printf("Warning: %v", err)
		sentry.CaptureException(err)
	}

	// Blocks until ctx is cancelled (SIGINT, SIGTERM) and in-flight updates finish
	appBot.Start(ctx)

	log.Println("Shutting down bot...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	daily.Stop(shutdownCtx)

	log.Println("Bot shutdown complete.")
}
