// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the catechism-bot CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/catechism-bot/internal/secrets"
	"github.com/pdiddy/catechism-bot/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the catechism-bot CLI.
var rootCmd = &cobra.Command{
	Use:   "catechism-bot",
	Short: "Quote paragraphs of the Catechism in chat",
	Long: `catechism-bot answers "CCC <number>" requests with the cleaned text of that
paragraph. The serve command connects to Discord and starts an HTTP API; quote,
stats and fetch work against the local text file and lookup log.`,
	SilenceUsage: true,
}

// persistentPreRun configures logging and loads secrets before every command.
// It is attached in init to avoid an initialization cycle with rootCmd.
func persistentPreRun(cmd *cobra.Command, args []string) error {
	setupLogging()

	s, err := secrets.Load(".secrets/")
	if err != nil {
		return err
	}
	loadedSecrets = s
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		log.Debug().Strs("keys", keys).Msg("loaded secrets")
	}
	return nil
}

func init() {
	rootCmd.PersistentPreRunE = persistentPreRun
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./catechism-bot.yaml or ~/.config/catechism-bot/catechism-bot.yaml)")
	rootCmd.PersistentFlags().String("file", "", "catechism text file (overrides document.path)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	_ = viper.BindPFlag("document.path", rootCmd.PersistentFlags().Lookup("file"))
}

func initConfig() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("catechism-bot")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "catechism-bot"))
		}
	}

	setDefaults(types.DefaultConfig())

	viper.SetEnvPrefix("CATECHISM_BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("discord.token", "CATECHISM_BOT_DISCORD_TOKEN", "DISCORD_BOT_TOKEN")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment overrides reach
// Unmarshal.
func setDefaults(d types.Config) {
	viper.SetDefault("document.path", d.Document.Path)
	viper.SetDefault("document.source_url", d.Document.SourceURL)

	viper.SetDefault("discord.enabled", d.Discord.Enabled)
	viper.SetDefault("discord.token", d.Discord.Token)
	viper.SetDefault("discord.sync_guilds", d.Discord.SyncGuilds)

	viper.SetDefault("reply.marker", d.Reply.Marker)
	viper.SetDefault("reply.max_length", d.Reply.MaxLength)
	viper.SetDefault("reply.footer", d.Reply.Footer)
	viper.SetDefault("reply.color", d.Reply.Color)

	viper.SetDefault("http.enabled", d.HTTP.Enabled)
	viper.SetDefault("http.addr", d.HTTP.Addr)
	viper.SetDefault("http.allowed_origins", d.HTTP.AllowedOrigins)
	viper.SetDefault("http.rate_limit", d.HTTP.RateLimit)
	viper.SetDefault("http.rate_burst", d.HTTP.RateBurst)
	viper.SetDefault("http.shutdown_timeout", d.HTTP.ShutdownTimeout)

	viper.SetDefault("stats.enabled", d.Stats.Enabled)
	viper.SetDefault("stats.path", d.Stats.Path)

	viper.SetDefault("log_level", d.LogLevel)
}

// loadConfig unmarshals the merged configuration and fills the Discord
// token from .secrets/ when none is configured.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	cfg.Discord.Token = loadedSecrets.Or(secrets.DiscordToken, cfg.Discord.Token)
	return cfg, nil
}

// setupLogging configures the global zerolog logger. --verbose wins over
// log_level.
func setupLogging() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	level, err := zerolog.ParseLevel(viper.GetString("log_level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
