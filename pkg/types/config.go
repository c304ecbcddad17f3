package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// DocumentConfig locates the catechism text.
type DocumentConfig struct {
	// Path is the local UTF-8 text file loaded at startup (default "catechism.txt").
	Path string `json:"path" yaml:"path" mapstructure:"path" validate:"required"`

	// SourceURL is where the fetch command downloads the text from.
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty" mapstructure:"source_url" validate:"omitempty,url"`
}

// DiscordConfig holds the gateway settings for the chat transport.
type DiscordConfig struct {
	// Enabled controls whether serve connects to Discord.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Token is the bot token, without the "Bot " prefix. Falls back to
	// .secrets/discord-bot-token when empty.
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token" validate:"required_if=Enabled true"`

	// SyncGuilds also registers slash commands per guild at startup so they
	// show up without waiting for global propagation.
	SyncGuilds bool `json:"sync_guilds" yaml:"sync_guilds" mapstructure:"sync_guilds"`
}

// ReplyConfig shapes how requests are recognised and answered.
type ReplyConfig struct {
	// Marker is the request prefix matched case-insensitively (default "CCC").
	Marker string `json:"marker" yaml:"marker" mapstructure:"marker" validate:"required,alphanum"`

	// MaxLength is the number of characters of quote text kept before
	// truncation (default 4000).
	MaxLength int `json:"max_length" yaml:"max_length" mapstructure:"max_length" validate:"gt=0"`

	// Footer is the embed footer text.
	Footer string `json:"footer" yaml:"footer" mapstructure:"footer"`

	// Color is the embed colour as a 24-bit RGB value (default 0xFFD700).
	Color int `json:"color" yaml:"color" mapstructure:"color" validate:"gte=0,lte=16777215"`
}

// HTTPConfig holds the HTTP API settings.
type HTTPConfig struct {
	// Enabled controls whether serve starts the HTTP API.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr" validate:"required_if=Enabled true"`

	// AllowedOrigins lists CORS origins. Empty allows none.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// RateLimit is the sustained request rate in requests per second
	// (default 20). Zero disables limiting.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`

	// RateBurst is the number of requests allowed above RateLimit in a
	// burst (default 40).
	RateBurst int `json:"rate_burst" yaml:"rate_burst" mapstructure:"rate_burst" validate:"gte=0"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// StatsConfig holds the lookup log settings.
type StatsConfig struct {
	// Enabled controls whether lookups are recorded.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file (default "data/lookups.db").
	Path string `json:"path" yaml:"path" mapstructure:"path" validate:"required_if=Enabled true"`
}

// Config groups every setting of the bot.
type Config struct {
	Document DocumentConfig `json:"document" yaml:"document" mapstructure:"document"`
	Discord  DiscordConfig  `json:"discord" yaml:"discord" mapstructure:"discord"`
	Reply    ReplyConfig    `json:"reply" yaml:"reply" mapstructure:"reply"`
	HTTP     HTTPConfig     `json:"http" yaml:"http" mapstructure:"http"`
	Stats    StatsConfig    `json:"stats" yaml:"stats" mapstructure:"stats"`

	// LogLevel is one of debug, info, warn, error (default info).
	LogLevel string `json:"log_level" yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Document: DocumentConfig{Path: "catechism.txt"},
		Discord:  DiscordConfig{Enabled: true, SyncGuilds: true},
		Reply: ReplyConfig{
			Marker:    "CCC",
			MaxLength: 4000,
			Footer:    "Catechism Bot",
			Color:     0xFFD700,
		},
		HTTP: HTTPConfig{
			Addr:            ":8080",
			RateLimit:       20,
			RateBurst:       40,
			ShutdownTimeout: 10 * time.Second,
		},
		Stats:    StatsConfig{Path: "data/lookups.db"},
		LogLevel: "info",
	}
}

// Validate checks the struct tags of every section.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
