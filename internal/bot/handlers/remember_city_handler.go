package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewRememberCityHandler returns a handler for the /remember_city command:
// it links the named city to the requesting chat.
func NewRememberCityHandler(deps HandlerDeps) bot.HandlerFunc {
	return rememberCityHandler{deps}.Handle
}

type rememberCityHandler struct {
	deps HandlerDeps
}

func (h rememberCityHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "remember_city")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Remember city handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	name := commandArgument(update.Message.Text)
	if name == "" {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.ProvideCity)
		return
	}

	log.InfoContext(ctx, "Handling /remember_city command", "chat_id", chatID, "city", name)

	saved, err := h.deps.Store.AddUserCity(ctx, chatID, name)
	if err != nil {
		log.ErrorContext(ctx, "Failed to save user city", "error", err, "chat_id", chatID, "city", name)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	if !saved {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.UnknownCity)
		return
	}
	sendText(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.CitySaved, name))
}
