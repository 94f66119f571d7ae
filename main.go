package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"walkboard/board"
	"walkboard/bot"
	"walkboard/config"
	controller "walkboard/controllers"
	"walkboard/middleware"
	"walkboard/models"
	"walkboard/remote"
	"walkboard/routes"
	"walkboard/storage"
	"walkboard/utils"
	"walkboard/worker"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.AppConfig

	flushSentry, err := utils.InitSentry(cfg.SentryDSN, cfg.Environment)
	if err != nil {
		logrus.Warnf("Sentry disabled: %v", err)
	}
	defer flushSentry()

	// Walk history is optional
	if err := config.ConnectDB(); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	teams, err := config.LoadTeams(cfg.TeamsFile)
	if err != nil {
		logrus.Fatalf("Failed to load teams: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		logrus.Fatalf("Failed to load time zone: %v", err)
	}

	client := remote.NewClient(cfg.RemoteSyncURL, remote.Options{
		Location: loc,
		Logger:   logrus.WithField("component", "remote"),
	})
	history := storage.NewHistory(config.DB)

	opts := []board.Option{
		board.WithRecorder(history),
		board.WithClock(func() time.Time { return time.Now().In(loc) }),
	}
	if client.Enabled() {
		opts = append(opts, board.WithPusher(client))
	} else {
		logrus.Warn("REMOTE_SYNC_URL not set, running on the local board only")
	}
	store := board.NewStore(board.NewState(teams, models.Settings{
		WalkDuration:   cfg.WalkDuration,
		AutoAddFriends: cfg.AutoAddFriends,
		CurrentTeamID:  cfg.DefaultTeamID,
	}), opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background workers
	var poller controller.Poller
	if client.Enabled() {
		go client.Run(ctx)
		syncWorker := worker.NewSyncWorker(client, store, cfg.PollInterval, logrus.WithField("component", "sync"))
		go syncWorker.Start(ctx)
		poller = syncWorker
	}

	sweeper := worker.NewWalkSweeper(store, cfg.SweepInterval, logrus.WithField("component", "sweeper"))
	go sweeper.Start(ctx)

	if cfg.TelegramBotToken != "" {
		telegram := bot.NewTelegramBot(store, cfg.TelegramBotToken)
		go func() {
			if err := telegram.Start(ctx); err != nil {
				utils.LogError("telegram_bot", err, nil)
			}
		}()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "walkboard",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(middleware.CORS(middleware.BoardCORSConfig(middleware.ParseOrigins(cfg.CORSOrigins))))

	routes.SetupRoutes(app, routes.Dependencies{
		Store:       store,
		Poller:      poller,
		History:     history,
		Preferences: storage.NewPreferences(config.DB),
		JWTSecret:   cfg.JWTSecret,
		RateLimit:   cfg.RateLimitMutations,
		RateStorage: middleware.RateLimitStorage(cfg.Redis),

		TelegramBotToken: cfg.TelegramBotToken,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logrus.Info("Shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logrus.Errorf("Shutdown failed: %v", err)
		}
	}()

	// Start server
	logrus.Infof("🚀 Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
