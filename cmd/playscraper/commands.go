package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-scrape-play/config"
	"github.com/aluiziolira/go-scrape-play/models"
	"github.com/aluiziolira/go-scrape-play/scraper"
)

// options holds the persistent flag values shared by every subcommand.
type options struct {
	configFile  string
	baseURL     string
	lang        string
	country     string
	layout      string
	delay       time.Duration
	timeout     time.Duration
	output      string
	format      string
	metricsAddr string
	workers     int
	verbose     bool
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&options{})
}

func buildRootCmd(opts *options) *cobra.Command {
	defaults := config.DefaultConfig()

	root := &cobra.Command{
		Use:           "playscraper",
		Short:         "playscraper extracts app listings and metadata from the Play Store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger, level := newLogger(opts.verbose)
			slog.SetDefault(logger)
			slog.SetLogLoggerLevel(level.Level())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file overlaid on the defaults")
	flags.StringVar(&opts.baseURL, "base-url", defaults.BaseURL, "Storefront origin")
	flags.StringVar(&opts.lang, "lang", defaults.Lang, "Default language (hl)")
	flags.StringVar(&opts.country, "country", defaults.Country, "Default country (gl)")
	flags.StringVar(&opts.layout, "layout", defaults.Layout, "Markup layout: current or legacy")
	flags.DurationVar(&opts.delay, "delay", defaults.Delay, "Minimum delay between requests, 0 disables")
	flags.DurationVar(&opts.timeout, "timeout", defaults.Timeout, "Per request timeout")
	flags.StringVarP(&opts.output, "output", "o", defaults.OutputFile, `Output file path, "-" for stdout`)
	flags.StringVar(&opts.format, "format", defaults.OutputFormat, "Output format: csv, json, or dual")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", defaults.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	flags.IntVar(&opts.workers, "workers", defaults.Workers, "Output pipeline workers; more than one may reorder records")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		newAppCmd(opts),
		newListCmd(opts),
		newChunkCmd(opts),
		newSearchCmd(opts),
		newCategoriesCmd(opts),
		newCollectionsCmd(),
	)
	return root
}

// loadConfig layers defaults, the optional YAML file, SCRAPER_* variables and
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := config.LoadFile(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}
	if flags.Changed("lang") {
		cfg.Lang = opts.lang
	}
	if flags.Changed("country") {
		cfg.Country = opts.country
	}
	if flags.Changed("layout") {
		cfg.Layout = opts.layout
	}
	if flags.Changed("delay") {
		cfg.Delay = opts.delay
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("output") {
		cfg.OutputFile = opts.output
	}
	if flags.Changed("format") {
		cfg.OutputFormat = opts.format
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *config.Config) error {
	stringVars := map[string]*string{
		"SCRAPER_BASE_URL":     &cfg.BaseURL,
		"SCRAPER_LANG":         &cfg.Lang,
		"SCRAPER_COUNTRY":      &cfg.Country,
		"SCRAPER_LAYOUT":       &cfg.Layout,
		"SCRAPER_OUTPUT":       &cfg.OutputFile,
		"SCRAPER_FORMAT":       &cfg.OutputFormat,
		"SCRAPER_METRICS_ADDR": &cfg.MetricsAddr,
	}
	for key, target := range stringVars {
		if value, ok := config.EnvString(key); ok {
			*target = value
		}
	}

	if value, ok, err := config.EnvDuration("SCRAPER_DELAY"); err != nil {
		return fmt.Errorf("invalid SCRAPER_DELAY: %w", err)
	} else if ok {
		cfg.Delay = value
	}
	if value, ok, err := config.EnvDuration("SCRAPER_TIMEOUT"); err != nil {
		return fmt.Errorf("invalid SCRAPER_TIMEOUT: %w", err)
	} else if ok {
		cfg.Timeout = value
	}
	if value, ok, err := config.EnvInt("SCRAPER_WORKERS"); err != nil {
		return fmt.Errorf("invalid SCRAPER_WORKERS: %w", err)
	} else if ok {
		cfg.Workers = value
	}
	return nil
}

func toRecords[T models.Record](items []T) []models.Record {
	records := make([]models.Record, 0, len(items))
	for _, item := range items {
		records = append(records, item)
	}
	return records
}

// listingOrDetail runs list, or list followed by app lookups when detail is
// set, and picks the matching CSV header.
func listingOrDetail(detail bool, list func(*scraper.Scraper) ([]*models.ListingEntry, error), apps func(*scraper.Scraper) ([]*models.AppRecord, error)) ([]string, produceFunc) {
	if detail {
		return models.AppCSVHeader, func(s *scraper.Scraper) ([]models.Record, error) {
			found, err := apps(s)
			return toRecords(found), err
		}
	}
	return models.ListingCSVHeader, func(s *scraper.Scraper) ([]models.Record, error) {
		found, err := list(s)
		return toRecords(found), err
	}
}

func newAppCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "app <id>...",
		Short: "Fetches the detail page of one or more apps.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runScrape(cmd.Context(), cfg, models.AppCSVHeader, func(s *scraper.Scraper) ([]models.Record, error) {
				apps, err := s.Apps(args, scraper.Locale{})
				return toRecords(apps), err
			})
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var category string
	var detail bool

	cmd := &cobra.Command{
		Use:   "list <collection>",
		Short: "Pages through a whole collection.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			collection := args[0]
			header, produce := listingOrDetail(detail,
				func(s *scraper.Scraper) ([]*models.ListingEntry, error) {
					return s.List(collection, category, scraper.Locale{})
				},
				func(s *scraper.Scraper) ([]*models.AppRecord, error) {
					return s.DetailList(collection, category, scraper.Locale{})
				},
			)
			return runScrape(cmd.Context(), cfg, header, produce)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Category id, e.g. GAME_ARCADE")
	cmd.Flags().BoolVar(&detail, "detail", false, "Fetch the detail page of every listed app")
	return cmd
}

func newChunkCmd(opts *options) *cobra.Command {
	var category string
	var detail bool

	cmd := &cobra.Command{
		Use:   "chunk <collection> <start> <num>",
		Short: "Fetches one page of a collection.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := scraper.ParseBound("start", args[1])
			if err != nil {
				return err
			}
			num, err := scraper.ParseBound("num", args[2])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			collection := args[0]
			header, produce := listingOrDetail(detail,
				func(s *scraper.Scraper) ([]*models.ListingEntry, error) {
					return s.ListChunk(collection, category, start, num, scraper.Locale{})
				},
				func(s *scraper.Scraper) ([]*models.AppRecord, error) {
					return s.DetailListChunk(collection, category, start, num, scraper.Locale{})
				},
			)
			return runScrape(cmd.Context(), cfg, header, produce)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "Category id, e.g. GAME_ARCADE")
	cmd.Flags().BoolVar(&detail, "detail", false, "Fetch the detail page of every listed app")
	return cmd
}

func newSearchCmd(opts *options) *cobra.Command {
	var price, rating string
	var detail bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Runs a store search and follows every result page.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			query := args[0]
			priceFilter := scraper.PriceFilter(price)
			ratingFilter := scraper.RatingFilter(rating)
			header, produce := listingOrDetail(detail,
				func(s *scraper.Scraper) ([]*models.ListingEntry, error) {
					return s.Search(query, priceFilter, ratingFilter, scraper.Locale{})
				},
				func(s *scraper.Scraper) ([]*models.AppRecord, error) {
					return s.DetailSearch(query, priceFilter, ratingFilter, scraper.Locale{})
				},
			)
			return runScrape(cmd.Context(), cfg, header, produce)
		},
	}
	cmd.Flags().StringVar(&price, "price", string(scraper.PriceAll), "Price filter: all, free, or paid")
	cmd.Flags().StringVar(&rating, "rating", string(scraper.RatingAll), "Rating filter: all or 4+")
	cmd.Flags().BoolVar(&detail, "detail", false, "Fetch the detail page of every result")
	return cmd
}

func newCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Lists the category ids linked from the apps landing page.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			s, err := scraper.NewScraper(cfg)
			if err != nil {
				return fmt.Errorf("initialising scraper: %w", err)
			}
			categories, err := s.Categories()
			if err != nil {
				return err
			}
			for _, category := range categories {
				fmt.Fprintln(cmd.OutOrStdout(), category)
			}
			return nil
		},
	}
}

func newCollectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "Lists the collection ids accepted by list and chunk.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, collection := range scraper.Collections() {
				fmt.Fprintln(cmd.OutOrStdout(), collection)
			}
		},
	}
}
