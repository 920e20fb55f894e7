// Package main contains the entrypoint for the city map Telegram bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbot "github.com/go-telegram/bot"

	"citymapbot/internal/bot"
	"citymapbot/internal/bot/handlers"
	"citymapbot/internal/bot/tasks"
	"citymapbot/internal/config"
	"citymapbot/internal/database"
	"citymapbot/internal/logger"
	"citymapbot/internal/mapping"
	"citymapbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires all components (config, logger, db, store, renderer, telegram
// bot, scheduler), starts the bot, and returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.New(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	// The renderer resolves city names through the store.
	gazetteer := mapping.GazetteerFunc(func(ctx context.Context, name string) (mapping.Point, bool, error) {
		city, err := store.ResolveCity(ctx, name)
		if err != nil || city == nil {
			return mapping.Point{}, false, err
		}
		return mapping.Point{Lat: city.Lat, Lng: city.Lng}, true, nil
	})

	renderer, err := mapping.NewRenderer(gazetteer, mapping.Settings{
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		BasemapDir: cfg.Render.BasemapDir,
		TileURL:    cfg.Render.TileURL,
		TileZoom:   cfg.Render.TileZoom,
		MaxTiles:   cfg.Render.MaxTiles,
	}, log)
	if err != nil {
		log.Error("Failed to create map renderer", "error", err)
		return 1
	}

	deps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Store:    store,
		Renderer: renderer,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
	}
	tg, err := telegram.NewBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(deps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Config: cfg,
		Store:  store,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	app := bot.NewBot(log, tg, sched)

	log.Info("Starting bot")
	runErr := app.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		return 1
	}

	log.Info("Bot stopped gracefully")
	return 0
}
