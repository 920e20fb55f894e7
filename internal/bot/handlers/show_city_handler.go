package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"citymapbot/internal/mapping"
)

// NewShowCityHandler returns a handler for the /show_city command: it
// renders a single named city on the map and replies with the image.
func NewShowCityHandler(deps HandlerDeps) bot.HandlerFunc {
	return showCityHandler{deps}.Handle
}

type showCityHandler struct {
	deps HandlerDeps
}

func (h showCityHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "show_city")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Show city handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	name := commandArgument(update.Message.Text)
	if name == "" {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ProvideCity)
		return
	}

	log.InfoContext(ctx, "Handling /show_city command", "chat_id", chatID, "city", name)

	err := sendMap(ctx, b, log, h.deps, chatID, []string{name})
	switch {
	case errors.Is(err, mapping.ErrNoCities):
		// The single requested name did not resolve.
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.UnknownCity)
	case err != nil:
		log.ErrorContext(ctx, "Failed to send city map", "error", err, "chat_id", chatID, "city", name)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
	}
}
