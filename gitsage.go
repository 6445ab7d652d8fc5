// Package gitsage wires configuration, storage and the service layer into an
// embeddable application facade. Frontends construct an App, hand it a model
// backend and an open repository, and call the services through accessors.
package gitsage

import (
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"

	"github.com/tildaslashalef/gitsage/internal/config"
	"github.com/tildaslashalef/gitsage/internal/database"
	"github.com/tildaslashalef/gitsage/internal/loggy"
	"github.com/tildaslashalef/gitsage/pkg/analysis"
	"github.com/tildaslashalef/gitsage/pkg/assistant"
	"github.com/tildaslashalef/gitsage/pkg/extractor"
	"github.com/tildaslashalef/gitsage/pkg/project"
	"github.com/tildaslashalef/gitsage/pkg/vcs"
)

// App represents the application instance with its dependencies
type App struct {
	cfg       *config.Config
	logger    *loggy.Logger
	extractor *extractor.Service
	analysis  *analysis.Service
	assistant *assistant.Service
	projects  *project.Service
}

// Option customizes App construction
type Option func(*options)

type options struct {
	cfg       *config.Config
	generator assistant.Generator
	lister    vcs.ChangeLister
	gitRepo   *git.Repository
}

// WithConfig supplies a prebuilt configuration instead of loading one from
// the environment
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithGenerator supplies the model backend the assistant talks to. Without
// one, assistant operations fail with a configuration error.
func WithGenerator(g assistant.Generator) Option {
	return func(o *options) { o.generator = g }
}

// WithChangeLister supplies the per-commit change source used by analysis
func WithChangeLister(l vcs.ChangeLister) Option {
	return func(o *options) { o.lister = l }
}

// WithGitRepository wraps an already-open go-git repository as the change
// source. WithChangeLister takes precedence when both are given.
func WithGitRepository(repo *git.Repository) Option {
	return func(o *options) { o.gitRepo = repo }
}

// New initializes a new application instance with all its dependencies
func New(opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := o.cfg
	if cfg == nil {
		loaded, err := config.LoadFromEnv("", "")
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		cfg = loaded
	}
	config.Set(cfg)

	if err := initLogger(cfg); err != nil {
		return nil, err
	}
	logger := loggy.GetGlobalLogger()

	loggy.Info("Application initializing",
		"version", os.Getenv("VERSION"),
		"log_level", cfg.Logging.Level,
	)

	if err := database.InitDB(cfg); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	db, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database connection: %w", err)
	}

	if _, err := database.RunMigrations(); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	lister := o.lister
	if lister == nil && o.gitRepo != nil {
		lister = vcs.NewGitLister(o.gitRepo, logger)
	}

	extractorService := extractor.NewService(logger)

	analysisService := analysis.NewService(
		lister,
		analysis.NewSQLRepository(db, logger),
		policyFromConfig(cfg.Analysis),
		fetchFromConfig(cfg.Analysis),
		logger,
	)

	assistantService := assistant.NewService(
		o.generator,
		extractorService,
		assistant.NewSQLRepository(db, logger),
		assistant.RetryOptions{
			MaxAttempts:    cfg.Assistant.MaxAttempts,
			InitialBackoff: cfg.Assistant.InitialBackoff,
			MaxElapsedTime: cfg.Assistant.MaxElapsedTime,
		},
		logger,
	)

	projectService := project.NewService(db, logger)

	loggy.Info("Application initialized successfully")

	return &App{
		cfg:       cfg,
		logger:    logger,
		extractor: extractorService,
		analysis:  analysisService,
		assistant: assistantService,
		projects:  projectService,
	}, nil
}

// NewFromEnv initializes the application from environment configuration
// alone. Equivalent to New with no options.
func NewFromEnv() (*App, error) {
	return New()
}

// initLogger initializes the logging system
func initLogger(cfg *config.Config) error {
	err := loggy.Init(loggy.Config{
		Level:      config.ParseLogLevel(cfg.Logging.Level),
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	return nil
}

// policyFromConfig maps configured overrides onto the default analysis
// policy. Empty keyword lists keep the built-in defaults.
func policyFromConfig(cfg config.AnalysisConfig) analysis.Policy {
	policy := analysis.DefaultPolicy()
	if len(cfg.CriticalPatterns) > 0 {
		policy.CriticalPatterns = cfg.CriticalPatterns
	}
	if len(cfg.ExcludedPaths) > 0 {
		policy.ExcludedPaths = cfg.ExcludedPaths
	}
	if len(cfg.SourcePrefixes) > 0 {
		policy.SourcePrefixes = cfg.SourcePrefixes
	}
	if cfg.HotspotLimit > 0 {
		policy.HotspotLimit = cfg.HotspotLimit
	}
	return policy
}

func fetchFromConfig(cfg config.AnalysisConfig) analysis.FetchOptions {
	return analysis.FetchOptions{
		Concurrency: cfg.FetchConcurrency,
		PerSecond:   cfg.FetchesPerSec,
		Burst:       cfg.FetchBurst,
	}
}

// Config returns the configuration the app was built with
func (a *App) Config() *config.Config {
	return a.cfg
}

// Extractor returns the structured text extraction service
func (a *App) Extractor() *extractor.Service {
	return a.extractor
}

// Analysis returns the diff impact and history analysis service
func (a *App) Analysis() *analysis.Service {
	return a.analysis
}

// Assistant returns the generation pipeline service
func (a *App) Assistant() *assistant.Service {
	return a.assistant
}

// Projects returns the project registry service
func (a *App) Projects() *project.Service {
	return a.projects
}

// Close gracefully shuts down the application
func (a *App) Close() error {
	loggy.Info("Shutting down application")

	if err := database.CloseDB(); err != nil {
		loggy.Error("Error closing database connection", "error", err)
		return err
	}

	return nil
}
