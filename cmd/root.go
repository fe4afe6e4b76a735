// Package cmd provides CLI commands for hepbib.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "hepbib",
	Short: "Build BibTeX entries from HEP catalog records",
	Long: `hepbib looks up a record in CDS, INSPIRE or arXiv and renders it as a
BibTeX @article entry.

Each source has a profile: a YAML rule table that says where every field
lives in the catalog document. Profiles are embedded and can be replaced
by files in $HEPBIB_PROFILE_DIR (default $XDG_CONFIG_HOME/hepbib/profiles).

Examples:
  hepbib lookup cds CMS-PAS-HIG-16-027
  hepbib lookup inspire 1480079 --pdf
  hepbib lookup arxiv 1501.00001 --format json
  hepbib convert cds -i record.xml
  hepbib url inspire 1480079`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(urlCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(profilesCmd)
}
