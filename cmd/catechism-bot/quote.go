// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/catechism-bot/internal/document"
	"github.com/pdiddy/catechism-bot/internal/reply"
	"github.com/pdiddy/catechism-bot/internal/stats"
)

var quoteCmd = &cobra.Command{
	Use:   "quote <number | message>",
	Short: "Print the cleaned text of one paragraph",
	Long: `Quote looks up a paragraph in the local text file and prints it the way the
bot would answer. The argument is either a bare number ("27") or a message
containing a request ("what does CCC 27 say?").`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuote,
}

// quoteResult is the machine-readable form of a reply.
type quoteResult struct {
	ID        string `json:"id" yaml:"id"`
	Outcome   string `json:"outcome" yaml:"outcome"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Text      string `json:"text" yaml:"text"`
	Truncated bool   `json:"truncated" yaml:"truncated"`
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(80)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	docs := document.NewHolder(nil)
	// The not-loaded reply reports a failed load.
	_ = docs.Reload(cfg.Document.Path)

	opts := reply.Options{Marker: cfg.Reply.Marker, MaxLength: cfg.Reply.MaxLength}
	if cfg.Stats.Enabled {
		store, err := stats.Open(cfg.Stats.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.Recorder = store
	}
	h := reply.NewHandler(docs, cfg.Document.Path, opts)

	arg := strings.Join(args, " ")
	r, ok := quoteRequest(context.Background(), h, arg)
	if !ok {
		return fmt.Errorf("no paragraph number in %q", arg)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	if err := writeQuote(os.Stdout, r, jsonOutput, yamlOutput); err != nil {
		return err
	}
	if r.Kind != reply.KindFound {
		return fmt.Errorf("paragraph %s: %s", r.ID, r.Kind.Outcome())
	}
	return nil
}

// quoteRequest treats a bare number as a paragraph ID and anything else as
// a chat message.
func quoteRequest(ctx context.Context, h *reply.Handler, arg string) (reply.Reply, bool) {
	if isDigits(arg) {
		return h.Lookup(ctx, arg, "cli"), true
	}
	return h.Handle(ctx, arg, "cli")
}

func writeQuote(w io.Writer, r reply.Reply, jsonOutput, yamlOutput bool) error {
	res := quoteResult{
		ID:        r.ID,
		Outcome:   string(r.Kind.Outcome()),
		Text:      r.Text(),
		Truncated: r.Truncated,
	}
	if r.Kind == reply.KindFound {
		res.Title = r.Title()
		res.Text = r.Body
	}

	switch {
	case jsonOutput:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case yamlOutput:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(res)
	default:
		_, err := fmt.Fprintln(w, renderQuote(r))
		return err
	}
}

// renderQuote styles a reply for the terminal.
func renderQuote(r reply.Reply) string {
	if r.Kind != reply.KindFound {
		return errorStyle.Render(r.Text())
	}
	out := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("📖 "+r.Title()),
		bodyStyle.Render(r.Body),
	)
	if r.Truncated {
		out = lipgloss.JoinVertical(lipgloss.Left, out, mutedStyle.Render("(truncated)"))
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func init() {
	quoteCmd.Flags().Bool("json", false, "output as JSON")
	quoteCmd.Flags().Bool("yaml", false, "output as YAML")
	quoteCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(quoteCmd)
}
