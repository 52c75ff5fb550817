package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on minimal images

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"seasonal_food_bot/internal/app"
	"seasonal_food_bot/internal/infra/catalog"
	"seasonal_food_bot/internal/infra/config"
	idb "seasonal_food_bot/internal/infra/database"
	"seasonal_food_bot/internal/infra/logger"
	"seasonal_food_bot/internal/infra/platform"
	"seasonal_food_bot/internal/infra/scheduler"
	"seasonal_food_bot/internal/infra/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.For("main")
	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"timezone":    cfg.Timezone,
		"data_dir":    cfg.DataDir,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	if err := idb.Migrate(ctx, db, logger.For("migrate")); err != nil {
		mainLogger.WithError(err).Fatal("Could not apply migrations")
	}
	mainLogger.Info("Database connection established and migrated.")

	settingsRepo := idb.NewPostgresSettingsRepository(db)
	notificationRepo := idb.NewPostgresNotificationRepository(db)

	// Telegram bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.For("telebot").WithError(err)
			if c != nil && c.Chat() != nil {
				entry = entry.WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Bot handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	botClient := telegram.NewTelebotAdapter(bot)

	// Services
	catalogLoader := catalog.NewLoader(cfg.DataDir, cfg.CatalogTTL, logger.For("catalog"))
	platforms := platform.NewService(notificationRepo, botClient, logger.For("platform"))
	notificationService := app.NewNotificationServiceImpl(logger.For("notification_service"))
	settingsService := app.NewSettingsService(
		settingsRepo,
		catalogLoader,
		platforms,
		notificationService,
		time.Now,
		cfg.Location,
		logger.For("settings_service"),
	)
	calendarService := app.NewCalendarService(catalogLoader, time.Now, cfg.Location, logger.For("calendar_service"))

	// Handlers
	handlerLogger := logger.For("telegram")
	telegram.RegisterBotCommands(bot, handlerLogger)
	telegram.RegisterCalendarHandlers(ctx, bot, calendarService, handlerLogger)
	telegram.RegisterSettingsHandlers(ctx, bot, settingsService, handlerLogger)
	telegram.RegisterCallbackHandlers(ctx, bot, calendarService, settingsService, handlerLogger)

	// Scheduler
	notifScheduler := scheduler.NewNotificationScheduler(
		notificationRepo,
		botClient,
		settingsService,
		cfg.Location,
		logger.For("scheduler"),
		cfg.CronSpecDispatch,
		cfg.CronSpecRefresh,
	)
	if err := notifScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	mainLogger.Info("Application setup complete. Bot and Scheduler are running.")
	go bot.Start()

	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	notifScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
