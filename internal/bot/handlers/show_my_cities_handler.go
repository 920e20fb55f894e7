package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewShowMyCitiesHandler returns a handler for the /show_my_cities command:
// it renders every city the chat has saved and replies with the image.
func NewShowMyCitiesHandler(deps HandlerDeps) bot.HandlerFunc {
	return showMyCitiesHandler{deps}.Handle
}

type showMyCitiesHandler struct {
	deps HandlerDeps
}

func (h showMyCitiesHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "show_my_cities")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Show my cities handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	log.InfoContext(ctx, "Handling /show_my_cities command", "chat_id", chatID)

	cities, err := h.deps.Store.ListUserCities(ctx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list user cities", "error", err, "chat_id", chatID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	if len(cities) == 0 {
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.NoCities)
		return
	}

	if err := sendMap(ctx, b, log, h.deps, chatID, cities); err != nil {
		log.ErrorContext(ctx, "Failed to send cities map", "error", err, "chat_id", chatID)
		sendText(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
	}
}
