// Package tasks implements the bot's scheduled background tasks.
package tasks

import (
	"log/slog"

	"citymapbot/internal/config"
	"citymapbot/internal/database"
)

// TaskDeps contains the dependencies available to scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
}
