package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/hepbib/extract"
	"github.com/lehigh-university-libraries/hepbib/fetch"
	"github.com/lehigh-university-libraries/hepbib/profile"
)

var (
	timeout time.Duration
	noCache bool
	retries int
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <source> <id>",
	Short: "Fetch a record and render it as BibTeX",
	Long: `Fetch a record from a catalog and render it.

Arguments:
  source  Catalog (cds, inspire, arxiv, or auto to guess from the id)
  id      Report number (cds), record id (inspire) or arXiv id

Responses are cached in $XDG_CACHE_HOME/hepbib.

Examples:
  hepbib lookup cds CMS-PAS-HIG-16-027
  hepbib lookup inspire 1480079 -o entry.bib
  hepbib lookup arxiv arXiv:1501.00001v2 --pdf --no-cache
  hepbib lookup auto hep-ph/0101001`,
	Args: cobra.ExactArgs(2),
	RunE: runLookup,
}

func init() {
	addOutputFlags(lookupCmd)
	lookupCmd.Flags().DurationVar(&timeout, "timeout", fetch.DefaultTimeout, "Timeout for the whole lookup")
	lookupCmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the response cache")
	lookupCmd.Flags().IntVar(&retries, "retries", 0, "Maximum HTTP attempts (default: pester default)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	res, err := registry.Resolve(profile.Kind(args[0]), args[1])
	if err != nil {
		return err
	}
	slog.Debug("resolved", "profile", res.Profile.Name, "url", res.QueryURL)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := fetch.New(fetch.Options{
		Timeout:    timeout,
		MaxRetries: retries,
		NoCache:    noCache,
	})
	body, err := client.Get(ctx, res.QueryURL)
	if err != nil {
		return fmt.Errorf("%s: %w", res.Profile.Name, err)
	}

	entry, err := extract.BuildFromReader(bytes.NewReader(body), res.Profile)
	if err != nil {
		return err
	}

	return writeEntry(cmd, entry)
}
