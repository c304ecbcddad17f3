// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/catechism-bot/internal/discord"
	"github.com/pdiddy/catechism-bot/internal/document"
	"github.com/pdiddy/catechism-bot/internal/httpapi"
	"github.com/pdiddy/catechism-bot/internal/reply"
	"github.com/pdiddy/catechism-bot/internal/stats"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and serve the HTTP API",
	Long: `Serve loads the catechism text, then answers requests on Discord and over
HTTP until interrupted. A missing or unreadable text file does not stop the
bot: every request is answered with a "not loaded" message until a reload
succeeds. Send SIGHUP or POST /api/v1/reload to reread the file.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !cfg.Discord.Enabled && !cfg.HTTP.Enabled {
		return fmt.Errorf("nothing to serve: enable discord or http")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	docs := document.NewHolder(nil)
	if err := docs.Reload(cfg.Document.Path); err != nil {
		log.Warn().Str("path", cfg.Document.Path).Msg("starting without catechism text")
	}

	opts := reply.Options{Marker: cfg.Reply.Marker, MaxLength: cfg.Reply.MaxLength}
	if cfg.Stats.Enabled {
		store, err := stats.Open(cfg.Stats.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Recorder = store
	}
	handler := reply.NewHandler(docs, cfg.Document.Path, opts)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		reloadOnHangup(gctx, docs, cfg.Document.Path)
		return nil
	})

	if cfg.Discord.Enabled {
		bot := discord.New(handler, cfg.Discord.Token, cfg.Discord, cfg.Reply)
		g.Go(func() error { return bot.Run(gctx) })
	}

	if cfg.HTTP.Enabled {
		srv := httpapi.NewServer(handler, docs, cfg.Document.Path, cfg.HTTP)
		g.Go(func() error { return srv.Run(gctx, cfg.HTTP.Addr, cfg.HTTP.ShutdownTimeout) })
	}

	log.Info().
		Bool("discord", cfg.Discord.Enabled).
		Bool("http", cfg.HTTP.Enabled).
		Bool("stats", cfg.Stats.Enabled).
		Msg("catechism-bot running, press Ctrl+C to stop")

	return g.Wait()
}

// reloadOnHangup rereads path on every SIGHUP until ctx is done.
func reloadOnHangup(ctx context.Context, docs *document.Holder, path string) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := docs.Reload(path); err != nil {
				log.Error().Err(err).Msg("reload failed, keeping previous text")
				continue
			}
			log.Info().Str("path", path).Msg("catechism text reloaded")
		}
	}
}

func init() {
	serveCmd.Flags().Bool("http", false, "serve the HTTP API (overrides http.enabled)")
	serveCmd.Flags().String("addr", "", "HTTP listen address (overrides http.addr)")
	serveCmd.Flags().Bool("discord", true, "connect to Discord (overrides discord.enabled)")
	serveCmd.Flags().Bool("stats", false, "record lookups (overrides stats.enabled)")

	_ = viper.BindPFlag("http.enabled", serveCmd.Flags().Lookup("http"))
	_ = viper.BindPFlag("http.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("discord.enabled", serveCmd.Flags().Lookup("discord"))
	_ = viper.BindPFlag("stats.enabled", serveCmd.Flags().Lookup("stats"))

	rootCmd.AddCommand(serveCmd)
}
