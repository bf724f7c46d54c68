package main // Entry point package

import (
	"context"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"

	"github.com/the-umedov/moviebot/internal/bot"
	"github.com/the-umedov/moviebot/internal/config"
	"github.com/the-umedov/moviebot/internal/database"
	"github.com/the-umedov/moviebot/internal/handler"
	"github.com/the-umedov/moviebot/internal/logger"
	"github.com/the-umedov/moviebot/internal/membership"
	"github.com/the-umedov/moviebot/internal/queue"
	"github.com/the-umedov/moviebot/internal/repository"
	"github.com/the-umedov/moviebot/internal/router"
	queue_publisher "github.com/the-umedov/moviebot/internal/service"
	"github.com/the-umedov/moviebot/internal/session"
)

// reconnectDelay is the fixed pause between update-loop restarts.  The
// process is designed to never permanently die from a transient Telegram or
// network error.
const reconnectDelay = 5 * time.Second

func main() {
	cfg := config.Load() // Load environment config

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	sugar := zlog.Sugar()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		sugar.Fatalw("database connection failed", "err", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		sugar.Fatalw("database migration failed", "err", err)
	}
	repo := repository.NewMovieRepo(db)

	// Session storage: Redis when reachable, in-process map otherwise.
	var sessions session.Store
	if rdb := config.NewRedisClient(); rdb != nil {
		sessions = session.NewRedisStore(rdb)
		sugar.Infow("session store: redis")
	} else {
		sessions = session.NewMemoryStore()
		sugar.Warnw("session store: redis unavailable, using in-memory store")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		sugar.Fatalw("telegram authorization failed", "err", err)
	}
	sugar.Infow("telegram bot authorized", "username", api.Self.UserName)

	oracle := membership.NewChannelOracle(api, cfg.ChannelID, sugar)
	gate := membership.NewGate(oracle, cfg.ChannelInvite)
	b := bot.New(api, repo, sessions, gate, cfg.ChannelID, queue_publisher.PublishMovieSaved, sugar)

	// Background consumer writing movie.saved events to logs/movies.log.
	go func() {
		if err := queue.StartMovieSavedConsumer(); err != nil {
			sugar.Errorw("movie consumer stopped", "err", err)
		}
	}()

	// Ops HTTP surface: health check and read-only catalogue listing.
	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, handler.NewMovieHandler(repo))
	go func() {
		addr := ":" + cfg.Port
		sugar.Infow("ops server listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil {
			sugar.Fatalw("ops server failed", "err", err)
		}
	}()

	// Drop any leftover webhook so long polling does not conflict with it.
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		sugar.Warnw("webhook cleanup failed", "err", err)
	}

	for {
		if err := bot.Poll(api, b); err != nil {
			sugar.Errorw("update loop ended, restarting", "err", err, "delay", reconnectDelay)
			time.Sleep(reconnectDelay)
		}
	}
}
