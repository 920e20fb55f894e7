// Package handlers contains the Telegram command handlers and their
// registration logic.
package handlers

import (
	"log/slog"

	"citymapbot/internal/config"
	"citymapbot/internal/database"
	"citymapbot/internal/mapping"
)

// HandlerDeps provides dependencies for Telegram command handlers. Handlers
// receive everything explicitly; there is no package-level bot state.
type HandlerDeps struct {
	Logger   *slog.Logger
	Config   *config.Config
	Store    database.Store
	Renderer *mapping.Renderer
}
