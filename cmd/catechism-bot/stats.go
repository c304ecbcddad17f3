// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/catechism-bot/internal/stats"
	"github.com/pdiddy/catechism-bot/pkg/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the most requested paragraphs",
	Long: `Stats reads the lookup log written by serve (with stats.enabled) and lists
the most requested paragraph numbers with how often each was found.`,
	RunE: runStats,
}

// statsReport is the machine-readable form of the stats output.
type statsReport struct {
	Total int                 `json:"total" yaml:"total"`
	Top   []types.LookupCount `json:"top" yaml:"top"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := stats.Open(cfg.Stats.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	limit, _ := cmd.Flags().GetInt("limit")
	top, err := store.Top(ctx, limit)
	if err != nil {
		return err
	}
	total, err := store.Total(ctx)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	yamlOutput, _ := cmd.Flags().GetBool("yaml")
	return writeStats(os.Stdout, statsReport{Total: total, Top: top}, jsonOutput, yamlOutput)
}

func writeStats(w io.Writer, rep statsReport, jsonOutput, yamlOutput bool) error {
	switch {
	case jsonOutput:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case yamlOutput:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rep)
	}

	if len(rep.Top) == 0 {
		fmt.Fprintln(w, "No lookups recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-8s  %-6s  %-6s  %s\n", "Rank", "Para", "Count", "Found", "Last seen")
	fmt.Fprintln(w, strings.Repeat("-", 50))
	for i, c := range rep.Top {
		fmt.Fprintf(w, "%-4d  %-8s  %-6d  %-6d  %s\n",
			i+1, c.ID, c.Count, c.Found, c.LastSeen.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(w, "\n%d lookups total\n", rep.Total)
	return nil
}

func init() {
	statsCmd.Flags().Int("limit", 10, "number of paragraphs to list")
	statsCmd.Flags().Bool("json", false, "output as JSON")
	statsCmd.Flags().Bool("yaml", false, "output as YAML")
	statsCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(statsCmd)
}
