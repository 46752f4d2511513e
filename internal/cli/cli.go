package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pfrederiksen/catalog-courses/internal/catalog"
	"github.com/pfrederiksen/catalog-courses/internal/config"
	"github.com/pfrederiksen/catalog-courses/internal/logger"
	"github.com/pfrederiksen/catalog-courses/internal/pipeline"
	"github.com/pfrederiksen/catalog-courses/internal/prereq"
	"github.com/pfrederiksen/catalog-courses/internal/requirements"
	"github.com/pfrederiksen/catalog-courses/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess        = 0
	ExitError          = 1
	ExitPrereqsMissing = 2
)

// errPrereqsMissing signals a completed check that found missing prerequisites
var errPrereqsMissing = errors.New("prerequisites missing")

var (
	flagConfig    string
	flagDataDir   string
	flagLogLevel  string
	flagVerbose   bool
	flagProgram   string
	flagDelay     time.Duration
	flagFormat    string
	flagSort      string
	flagCompleted []string
)

// NewRootCmd creates the root command. Without a subcommand it scrapes.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog-courses",
		Short: "Scrape degree program requirements from the university catalog",
		Long: `A CLI tool that scrapes degree program requirement tables from the course
catalog, looks up each course's prerequisites and saves one JSON document per
program. Saved documents can be listed and used for prerequisite checks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultFile, "JSON5 config file (a .local variant is merged on top)")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Directory for program documents (overrides config)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and detailed output")

	addScrapeFlags(cmd)

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCheckCmd())

	return cmd
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape one or all programs and save their documents",
		Args:  cobra.NoArgs,
		RunE:  runScrape,
	}
	addScrapeFlags(cmd)
	return cmd
}

func addScrapeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProgram, "program", "all", "Program key (e.g., ce, math-minor) or 'all'")
	cmd.Flags().DurationVar(&flagDelay, "delay", 0, "Pause after each prerequisite lookup (default from config)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
}

// setup configures logging and loads the config for a command run
func setup(cmd *cobra.Command) (config.Config, error) {
	level, ok := logger.ParseLevel(flagLogLevel)
	if !ok {
		return config.Config{}, fmt.Errorf("invalid log level: %s", flagLogLevel)
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	logger.Debug("Loaded config", logger.Fields{
		"config":   flagConfig,
		"data_dir": cfg.DataDir,
		"programs": cfg.ProgramKeys(),
	})

	return cfg, nil
}

// runScrape scrapes the selected programs, saves their documents and reports
// what changed since the previous run
func runScrape(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	keys, err := selectPrograms(cfg, flagProgram)
	if err != nil {
		return err
	}

	delay := cfg.Delay()
	if cmd.Flags().Changed("delay") {
		delay = flagDelay
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	fetcher := catalog.NewFetcherWithOptions(cfg.Timeout(), cfg.UserAgent)
	resolver := prereq.New(fetcher).WithDelay(delay)
	if cfg.SearchURL != "" {
		resolver = resolver.WithSearchURL(cfg.SearchURL)
	}
	runner := pipeline.New(fetcher, resolver)

	result := &OutputResult{
		ScrapedAt: time.Now().UTC(),
		Programs:  make([]ProgramResult, 0, len(keys)),
	}

	for _, key := range keys {
		program, err := cfg.Program(key)
		if err != nil {
			return err
		}

		previous, err := store.LoadProgram(program.Output)
		if err != nil {
			logger.Warn("Ignoring unreadable previous document", logger.Fields{
				"program": key,
				"file":    program.Output,
			}, err)
			previous = nil
		}

		doc, err := runner.Run(cmd.Context(), program)
		if err != nil {
			return err
		}

		path, err := store.SaveProgram(program.Output, doc)
		if err != nil {
			return fmt.Errorf("saving %s: %w", program.Name, err)
		}

		diff := pipeline.Diff(previous, doc)
		result.Programs = append(result.Programs, ProgramResult{
			Key:     key,
			Program: program.Name,
			Records: len(doc.Records),
			Path:    path,
			Added:   diff.Added,
			Removed: diff.Removed,
			Changed: diff.Changed,
		})
	}

	logger.Debug("Run metrics", logger.Fields{
		"metrics": logger.GetMetricsSnapshot(),
	})

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// selectPrograms resolves the --program value to program keys
func selectPrograms(cfg config.Config, program string) ([]string, error) {
	key := strings.ToLower(strings.TrimSpace(program))
	if key == "" {
		return nil, fmt.Errorf("--program is required")
	}
	if key == "all" {
		return cfg.ProgramKeys(), nil
	}
	if _, err := cfg.Program(key); err != nil {
		return nil, err
	}
	return []string{key}, nil
}

// loadDocument reads the saved document of a program
func loadDocument(cfg config.Config, key string) (config.Program, *requirements.Program, error) {
	program, err := cfg.Program(strings.ToLower(strings.TrimSpace(key)))
	if err != nil {
		return program, nil, err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return program, nil, fmt.Errorf("initializing storage: %w", err)
	}

	doc, err := store.LoadProgram(program.Output)
	if err != nil {
		return program, nil, fmt.Errorf("loading %s: %w", program.Name, err)
	}
	if doc.Name == "" && len(doc.Records) == 0 {
		return program, nil, fmt.Errorf("no saved document at %s; run scrape --program %s first", store.Path(program.Output), key)
	}
	return program, doc, nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}

	stop()
	if errors.Is(err, errPrereqsMissing) {
		os.Exit(ExitPrereqsMissing)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(ExitError)
}
