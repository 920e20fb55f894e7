// Package config provides configuration loading, defaulting, and validation
// for the city map bot. Values come from defaults, an optional YAML file, and
// BOT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Database DatabaseConfig `mapstructure:"database"`
	Render   RenderConfig   `mapstructure:"render"`
	Messages MessagesConfig `mapstructure:"messages"`
}

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot API credentials.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// DatabaseConfig holds the sqlite storage settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`

	// MaintenanceCron schedules the periodic sqlite VACUUM.
	MaintenanceCron string `mapstructure:"maintenance_cron" validate:"required"`
}

// RenderConfig holds map rendering settings.
type RenderConfig struct {
	Width  int `mapstructure:"width"  validate:"min=64,max=4096"`
	Height int `mapstructure:"height" validate:"min=64,max=4096"`

	// MarkerStyle and Background are the defaults applied when a render
	// request does not specify its own.
	MarkerStyle string `mapstructure:"marker_style" validate:"required"`
	Background  string `mapstructure:"background"   validate:"oneof=default image"`

	// BasemapDir points at a directory of Natural Earth GeoJSON layers used
	// by the vector background. Missing layers are skipped at render time.
	BasemapDir string `mapstructure:"basemap_dir"`

	// Tile settings for the raster background.
	TileURL  string `mapstructure:"tile_url" validate:"required"`
	TileZoom int    `mapstructure:"tile_zoom" validate:"min=0,max=19"`
	MaxTiles int    `mapstructure:"max_tiles" validate:"min=1"`
}

// MessagesConfig holds the user-facing reply strings.
type MessagesConfig struct {
	Welcome      string `mapstructure:"welcome"`
	Help         string `mapstructure:"help"`
	UnknownCity  string `mapstructure:"unknown_city"`
	CitySaved    string `mapstructure:"city_saved"`
	NoCities     string `mapstructure:"no_cities"`
	ProvideCity  string `mapstructure:"provide_city"`
	GeneralError string `mapstructure:"general_error"`
}

// Load reads configuration from the given path (optional), applies defaults
// and BOT_* environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about, and the
	// token deliberately has no default.
	v.MustBindEnv("telegram.token")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env must suffice.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	v.SetDefault("database.path", "storage.db")
	v.SetDefault("database.maintenance_cron", "0 4 * * *")

	v.SetDefault("render.width", 1000)
	v.SetDefault("render.height", 500)
	v.SetDefault("render.marker_style", "default")
	v.SetDefault("render.background", "default")
	v.SetDefault("render.basemap_dir", "basemap")
	v.SetDefault("render.tile_url", "https://tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("render.tile_zoom", 8)
	v.SetDefault("render.max_tiles", 64)

	v.SetDefault("messages.welcome", "Hi! I can show cities on a world map. Send /help for the list of commands.")
	v.SetDefault("messages.help", "Available commands:\n/show_city <name> - Show a city on the map.\n/remember_city <name> - Remember a city.\n/show_my_cities - Show all remembered cities on the map.")
	v.SetDefault("messages.unknown_city", "I don't know that city. Make sure it is spelled in English!")
	v.SetDefault("messages.city_saved", "City %s saved!")
	v.SetDefault("messages.no_cities", "You haven't added any cities yet.")
	v.SetDefault("messages.provide_city", "Please provide a city name after the command.")
	v.SetDefault("messages.general_error", "Something went wrong. Please try again later.")
}
