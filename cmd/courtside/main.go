package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/courtside/internal/dvp"
	"github.com/stitts-dev/courtside/internal/enhancers"
	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/pipeline"
	"github.com/stitts-dev/courtside/pkg/logger"
)

var (
	slatePath   string
	markdown    bool
	historyPath string
	disabled    []string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "courtside",
	Short: "NBA player-prop recommendations from a slate file",
	Long: `courtside composes per-game recommendation buckets and the daily
conservative/aggressive tickets from a JSON slate file.

Examples:
  courtside compose --slate slate.json
  courtside compose --slate slate.json --game 0022600123 --markdown
  courtside multiple --slate slate.json --history tickets.db
  courtside tickets --history tickets.db --date 2026-10-16`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&slatePath, "slate", "", "Path to a JSON slate file (- for stdin)")
	rootCmd.PersistentFlags().BoolVar(&markdown, "markdown", false, "Render markdown instead of JSON")
	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "", "SQLite file for ticket history")
	rootCmd.PersistentFlags().StringSliceVar(&disabled, "disable", nil, "Enhancers to skip: pace, vacuum, rotation, ceiling")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	log := logger.InitLogger(logLevel, true)
	log.SetOutput(os.Stderr)
	return log
}

// newComposer ranks defenses from the slate's own recent stats, falling
// back to the built-in table when the slate carries none.
func newComposer(log *logrus.Logger, slate models.Slate) (*pipeline.Composer, error) {
	opts := pipeline.DefaultOptions()
	opts.Enhancers = enhancers.AllEnabled()
	for _, name := range disabled {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "pace":
			opts.Enhancers.Pace = false
		case "vacuum":
			opts.Enhancers.Vacuum = false
		case "rotation":
			opts.Enhancers.Rotation = false
		case "ceiling":
			opts.Enhancers.Ceiling = false
		default:
			return nil, fmt.Errorf("unknown enhancer %q", name)
		}
	}
	matchups := dvp.NewAnalyzer(dvp.FallbackTable())
	matchups.Load(dvp.Generate(dvp.SamplesFromSlate(slate)))
	return pipeline.New(opts, matchups, log), nil
}

func loadSlate(path string, stdin io.Reader) (models.Slate, error) {
	var slate models.Slate
	if path == "" {
		return slate, fmt.Errorf("--slate is required")
	}

	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return slate, fmt.Errorf("failed to open slate: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&slate); err != nil {
		return slate, fmt.Errorf("failed to decode slate: %w", err)
	}
	if len(slate.Games) == 0 {
		return slate, fmt.Errorf("slate has no games")
	}
	return slate, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
