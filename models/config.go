package models

// Config is the whole runtime configuration. It is built once by config.Load and
// handed to every component.
type Config struct {
	Website WebsiteConfig `json:"website" mapstructure:"website"`
	Discord DiscordConfig `json:"discord" mapstructure:"discord"`
	Blog    BlogConfig    `json:"blog" mapstructure:"blog"`
	Server  ServerConfig  `json:"server" mapstructure:"server"`
	Bot     BotConfig     `json:"bot" mapstructure:"bot"`
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// WebsiteConfig describes the published site. Title and Description override the
// values fetched from the channel when non-empty. An empty value, including
// WEBSITE_TITLE or WEBSITE_DESCRIPTION set to "", means no override: the config
// layer does not tell set-but-empty apart from unset.
type WebsiteConfig struct {
	URL         string `json:"url" mapstructure:"url"`
	Title       string `json:"title" mapstructure:"title"`
	Description string `json:"description" mapstructure:"description"`
}

// DiscordConfig holds the mirrored channel and the pre-issued credentials.
type DiscordConfig struct {
	ChannelID string `json:"channel_id" mapstructure:"channel_id"`
	AppID     string `json:"app_id" mapstructure:"app_id"`
	AppSecret string `json:"app_secret" mapstructure:"app_secret"`
	BotToken  string `json:"bot_token" mapstructure:"bot_token"`
}

// BlogConfig holds local file locations.
type BlogConfig struct {
	AvatarFile    string `json:"avatar_file" mapstructure:"avatar_file"`
	DBFile        string `json:"db_file" mapstructure:"db_file"`
	TemplatesPath string `json:"templates_path" mapstructure:"templates_path"`
}

// ServerConfig controls the optional static file server.
type ServerConfig struct {
	Expose string `json:"expose" mapstructure:"expose"` // file or http
	Port   int    `json:"port" mapstructure:"port"`
}

// BotConfig holds listen-mode extras.
type BotConfig struct {
	RefreshSchedule string   `json:"refresh_schedule" mapstructure:"refresh_schedule"` // cron spec, empty disables
	AdminChannelID  string   `json:"admin_channel_id" mapstructure:"admin_channel_id"`
	AdminUserIDs    []string `json:"admin_user_ids" mapstructure:"admin_user_ids"`
}

// MetricsConfig controls the Prometheus listener.
type MetricsConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `json:"development" mapstructure:"development"`
}

// ExposeHTTP reports whether the static file server should run.
func (c ServerConfig) ExposeHTTP() bool {
	return c.Expose == "http"
}
