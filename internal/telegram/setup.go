// Package telegram handles construction of the Telegram bot instance and
// registration of its command handlers.
package telegram

import (
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"

	"citymapbot/internal/bot/handlers"
)

// NewBot creates a Telegram bot instance for the given token.
func NewBot(token string, logger *slog.Logger, opts ...bot.Option) (*bot.Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "telegram_bot")

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Error("Failed to create Telegram bot instance", "error", err)
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	log.Info("Telegram bot instance created")
	return b, nil
}

// applyMiddleware wraps a handler with a slice of middleware, first entry
// outermost.
func applyMiddleware(handler bot.HandlerFunc, mw []bot.Middleware) bot.HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// RegisterHandlers registers the command handlers with the bot instance.
func RegisterHandlers(b *bot.Bot, logger *slog.Logger, registered map[string]handlers.RegisteredHandler) error {
	if b == nil {
		return fmt.Errorf("bot instance cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "handler_registry")

	for _, reg := range registered {
		if reg.Handler == nil {
			log.Warn("Skipping registration for nil handler", "pattern", reg.Pattern)
			continue
		}

		final := applyMiddleware(reg.Handler, reg.Middleware)
		b.RegisterHandler(reg.HandlerType, reg.Pattern, reg.MatchType, final)
		log.Debug("Registered handler", "pattern", reg.Pattern, "match_type", reg.MatchType)
	}

	log.Info("Registered Telegram handlers", "count", len(registered))
	return nil
}
