package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gojiplus/lostyears/internal/model"
	"github.com/gojiplus/lostyears/internal/pipeline"
	"github.com/gojiplus/lostyears/internal/table"
)

// appendOptions carries the per-command flag values for the three append
// commands (ssa, hld, who).
type appendOptions struct {
	ageColumn     string
	sexColumn     string
	yearColumn    string
	countryColumn string
	output        string
	report        string
	unmatched     string
	concurrency   int
}

// newAppendCommand builds an append command for one data source. The
// commands only differ in which source they run and whether a country
// column participates.
func newAppendCommand(name, short, defaultOutput string, hasCountry bool) *cobra.Command {
	opts := &appendOptions{}

	cmd := &cobra.Command{
		Use:   name + " <input>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppend(name, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ageColumn, "age", "a", "age", "column name of age in the input file")
	cmd.Flags().StringVarP(&opts.sexColumn, "sex", "s", "sex", "column name of sex in the input file")
	cmd.Flags().StringVarP(&opts.yearColumn, "year", "y", "year", "column name of year in the input file")
	if hasCountry {
		cmd.Flags().StringVarP(&opts.countryColumn, "country", "c", "country", "column name of country in the input file")
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", defaultOutput, "output file")
	cmd.Flags().StringVar(&opts.report, "report", "", "write a JSON run report to this path")
	cmd.Flags().StringVar(&opts.unmatched, "unmatched", "", "policy for unmatched rows: null or drop (default: source policy)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "number of join workers (default: config)")

	return cmd
}

func runAppend(sourceName, inputPath string, opts *appendOptions) error {
	cfg := loadConfig()
	if opts.unmatched != "" {
		if opts.unmatched != "null" && opts.unmatched != "drop" {
			return fmt.Errorf("invalid --unmatched policy %q (want null or drop)", opts.unmatched)
		}
		cfg.Join.Unmatched = opts.unmatched
	}
	if opts.concurrency > 0 {
		cfg.Join.Concurrency = opts.concurrency
	}

	p := pipeline.NewPipeline(cfg)
	src, err := p.Source(sourceName)
	if err != nil {
		return err
	}

	mapping := table.Mapping{
		"age":  opts.ageColumn,
		"sex":  opts.sexColumn,
		"year": opts.yearColumn,
	}
	if src.Spec.HasCountry {
		mapping["country"] = opts.countryColumn
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Input:  %s\n", inputPath)
		fmt.Fprintf(os.Stderr, "Output: %s\n", opts.output)
		fmt.Fprintf(os.Stderr, "Source: %s\n\n", sourceName)
	}

	report, err := p.ProcessFile(src, inputPath, opts.output, mapping)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer()
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", opts.output)
	renderer.Summary(os.Stderr, report)

	if opts.report != "" {
		if err := renderer.RenderJSON(report, opts.report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote report %s\n", opts.report)
	}

	return nil
}

// loadConfig resolves the runtime configuration from defaults, the config
// file and LOSTYEARS_* environment variables.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if v := viper.GetString("data.dir"); v != "" {
		cfg.Data.Dir = v
	}
	if v := viper.GetString("join.unmatched"); v != "" {
		cfg.Join.Unmatched = v
	}
	if v := viper.GetInt("join.concurrency"); v > 0 {
		cfg.Join.Concurrency = v
	}
	if viper.IsSet("cache.enabled") {
		cfg.Cache.Enabled = viper.GetBool("cache.enabled")
	}
	if v := viper.GetString("cache.dir"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.Cache.TTL = v
	}
	if v := viper.GetString("update.user_agent"); v != "" {
		cfg.Update.UserAgent = v
	}
	if v := viper.GetDuration("update.timeout"); v > 0 {
		cfg.Update.Timeout = v
	}
	if v := viper.GetFloat64("update.requests_per_second"); v > 0 {
		cfg.Update.RequestsPerSecond = v
	}
	cfg.Output.Verbose = verbose

	return cfg
}
