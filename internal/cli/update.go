package cli

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gojiplus/lostyears/internal/cache"
	"github.com/gojiplus/lostyears/internal/fetch"
	"github.com/gojiplus/lostyears/internal/source"
)

var updateTimeout time.Duration

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update [source...]",
	Short: "Download updated reference data from the upstream agencies",
	Long: `Update downloads fresh copies of the reference datasets:

  ssa   scrapes the SSA period life table (ssa.gov)
  who   queries the WHO GHO OData API
  hld   downloads the Human Life-Table Database bundle (lifetable.de)

With no arguments all sources are updated. Requests are rate-limited and
robots.txt is honored; payloads are cached so re-runs within the cache TTL
stay offline.`,
	Args: cobra.ArbitraryArgs,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().DurationVar(&updateTimeout, "timeout", 10*time.Minute, "total timeout for the update run")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayered(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}
	fetcher := fetch.New(cfg.Update, store, cfg.Cache.TTL)

	sources := args
	if len(sources) == 0 {
		for _, s := range source.NewRegistry().All() {
			sources = append(sources, s.Name())
		}
	}

	failures := 0
	for _, name := range sources {
		fmt.Fprintf(os.Stderr, "⚙️  Updating %s...\n", name)

		var err error
		switch name {
		case "ssa":
			err = updateSSA(ctx, fetcher, cfg.Data.Dir)
		case "who":
			err = updateWHO(ctx, fetcher, cfg.Data.Dir)
		case "hld":
			err = updateHLD(ctx, fetcher, cfg.Data.Dir)
		default:
			err = fmt.Errorf("unknown data source %q", name)
		}

		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s updated\n", name)
	}

	if failures > 0 {
		return fmt.Errorf("%d source update(s) failed", failures)
	}
	return nil
}

func updateSSA(ctx context.Context, f *fetch.Fetcher, dataDir string) error {
	payload, err := f.Fetch(ctx, fetch.SSATableURL)
	if err != nil {
		return err
	}

	t, err := fetch.ParseSSATable(payload)
	if err != nil {
		return err
	}

	path := filepath.Join(dataDir, "ssa", "ssa.csv")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return t.WriteFile(path)
}

func updateWHO(ctx context.Context, f *fetch.Fetcher, dataDir string) error {
	payload, err := f.Fetch(ctx, fetch.WHOAPIURL)
	if err != nil {
		return err
	}

	t, err := fetch.ParseWHOData(payload)
	if err != nil {
		return err
	}

	path := filepath.Join(dataDir, "who", "who.csv.gz")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return t.WriteFile(path)
}

func updateHLD(ctx context.Context, f *fetch.Fetcher, dataDir string) error {
	payload, err := f.Fetch(ctx, fetch.HLDZipURL)
	if err != nil {
		return err
	}

	data, err := fetch.ExtractHLDData(payload)
	if err != nil {
		return err
	}

	path := filepath.Join(dataDir, "hld", "hld.csv.gz")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return writeGzip(path, data)
}

// writeGzip writes raw bytes gzip-compressed.
func writeGzip(path string, data []byte) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return gz.Close()
}
