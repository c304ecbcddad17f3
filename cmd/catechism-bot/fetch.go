// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pdiddy/catechism-bot/internal/document"
	"github.com/pdiddy/catechism-bot/internal/httputil"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the catechism text file",
	Long: `Fetch downloads the plain-text catechism from --url (or document.source_url)
and writes it to --out (or document.path). The file is replaced atomically, so
a running bot can be told to reload straight after. The download is checked by
loading it the same way serve does.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	url, _ := cmd.Flags().GetString("url")
	if url == "" {
		url = cfg.Document.SourceURL
	}
	if url == "" {
		return fmt.Errorf("no source: pass --url or set document.source_url")
	}
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = cfg.Document.Path
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := &http.Client{Timeout: timeout}
	n, err := httputil.Download(ctx, client, url, out, "catechism-bot/"+version)
	if err != nil {
		return err
	}
	log.Info().Str("url", url).Str("path", out).Int64("bytes", n).Msg("downloaded catechism text")

	if _, err := document.Load(out); err != nil {
		return fmt.Errorf("downloaded file is not usable: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d bytes to %s\n", n, out)
	return nil
}

func init() {
	fetchCmd.Flags().String("url", "", "source URL of the plain-text catechism")
	fetchCmd.Flags().String("out", "", "destination file (default: document.path)")
	fetchCmd.Flags().Duration("timeout", 2*time.Minute, "overall download timeout")

	rootCmd.AddCommand(fetchCmd)
}
