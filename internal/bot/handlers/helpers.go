package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"citymapbot/internal/mapping"
)

// mappingOptions builds the render options from the configured defaults.
func mappingOptions(deps HandlerDeps) mapping.Options {
	return mapping.Options{
		MarkerStyle: deps.Config.Render.MarkerStyle,
		Background:  deps.Config.Render.Background,
	}
}

// commandArgument extracts the free-text argument following a command, e.g.
// "Moscow" from "/show_city Moscow" or "/show_city@somebot Moscow". Returns
// an empty string when no argument is present.
func commandArgument(text string) string {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// sendMap renders the given cities to a temporary PNG and sends it as a
// photo. The temporary file is removed on every path, including send failure.
func sendMap(ctx context.Context, b *bot.Bot, log *slog.Logger, deps HandlerDeps, chatID int64, cityNames []string) error {
	tmp, err := os.CreateTemp("", "citymap-*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp map file: %w", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer func() {
		if err := os.Remove(path); err != nil {
			log.WarnContext(ctx, "Failed to remove temp map file", "path", path, "error", err)
		}
	}()

	opts := mappingOptions(deps)
	if err := deps.Renderer.Render(ctx, path, cityNames, opts); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open rendered map: %w", err)
	}
	defer f.Close()

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: "map.png",
			Data:     f,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send map photo: %w", err)
	}
	return nil
}

// sendText sends a plain text reply, logging failures.
func sendText(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", chatID)
	}
}
