// Package config loads the blog configuration from a .env file, an optional
// config.yaml and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"discord-blog/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingRequired is returned when a required setting has no value.
var ErrMissingRequired = errors.New("missing required configuration")

// envBindings maps configuration keys to the environment variables that feed them.
var envBindings = []struct {
	key      string
	env      string
	required bool
}{
	{"website.url", "WEBSITE_NAME", true},
	{"discord.channel_id", "DISCORD_CHANNEL_ID", true},
	{"discord.app_id", "DISCORD_APP_ID", true},
	{"discord.app_secret", "DISCORD_APP_SECRET", true},
	{"discord.bot_token", "BOT_TOKEN", true},
	{"blog.avatar_file", "CHANNEL_PHOTO_NAME", false},
	{"blog.db_file", "DB_FILE_NAME", false},
	{"blog.templates_path", "TEMPLATES_PATH", false},
	{"website.title", "WEBSITE_TITLE", false},
	{"website.description", "WEBSITE_DESCRIPTION", false},
	{"server.expose", "BLOG_EXPOSE_WAY", false},
	{"server.port", "HTTP_SERVER_PORT", false},
	{"metrics.addr", "METRICS_ADDR", false},
	{"bot.refresh_schedule", "REFRESH_SCHEDULE", false},
	{"bot.admin_channel_id", "ADMIN_CHANNEL_ID", false},
	{"bot.admin_user_ids", "ADMIN_USER_IDS", false},
	{"logging.development", "LOG_DEVELOPMENT", false},
}

// Load builds the configuration. Sources, lowest priority first:
// 1. defaults
// 2. config.yaml in the working directory, or the file at path when given
// 3. environment variables, including those loaded from a .env file
func Load(path string) (models.Config, error) {
	// A missing .env file is normal in production.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return models.Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	for _, b := range envBindings {
		if err := v.BindEnv(b.key, b.env); err != nil {
			return models.Config{}, fmt.Errorf("bind %s: %w", b.env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return models.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return models.Config{}, fmt.Errorf("read config.yaml: %w", err)
			}
		}
	}

	if err := checkRequired(v); err != nil {
		return models.Config{}, err
	}

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return models.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return models.Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("blog.avatar_file", "avatar_photo.jpg")
	v.SetDefault("blog.db_file", "posts.json")
	v.SetDefault("blog.templates_path", "templates")
	v.SetDefault("server.expose", "file")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", false)
}

func checkRequired(v *viper.Viper) error {
	var missing []string
	for _, b := range envBindings {
		if b.required && strings.TrimSpace(v.GetString(b.key)) == "" {
			missing = append(missing, b.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}
	return nil
}

// Validate enforces values that cannot be caught by decoding alone.
func Validate(cfg models.Config) error {
	switch cfg.Server.Expose {
	case "file", "http":
	default:
		return fmt.Errorf("BLOG_EXPOSE_WAY must be file or http, got %q", cfg.Server.Expose)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("HTTP_SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if strings.TrimSpace(cfg.Blog.AvatarFile) == "" {
		return fmt.Errorf("CHANNEL_PHOTO_NAME must not be empty")
	}
	return nil
}
