package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lerda8/data-retrieving-training/internal/config"
	"github.com/lerda8/data-retrieving-training/internal/hint"
	"github.com/lerda8/data-retrieving-training/internal/llm"
	"github.com/lerda8/data-retrieving-training/internal/playground"
	"github.com/lerda8/data-retrieving-training/internal/question"
	"github.com/lerda8/data-retrieving-training/internal/schema"
	"github.com/lerda8/data-retrieving-training/internal/session"
	"github.com/lerda8/data-retrieving-training/internal/validate"
)

// app bundles the wired collaborators for one learner session.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	catalog  *schema.Catalog
	machine  *session.Machine
	executor *playground.Executor // nil unless a playground is configured
}

// buildApp loads configuration and wires the full trainer. Configuration
// problems are fatal here; nothing downstream ever re-checks credentials.
func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("load schema catalog: %w", err)
	}

	base, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	// Generation gets one retry; validation and hints must not retry, a
	// duplicated judgement would risk duplicated progress.
	generating := llm.NewResilientProvider(base, llm.ResilientConfig{
		Timeout:     cfg.RequestTimeout,
		MaxAttempts: 2,
		Logger:      logger,
	})
	judging := llm.NewResilientProvider(base, llm.ResilientConfig{
		Timeout:     cfg.RequestTimeout,
		MaxAttempts: 1,
		Logger:      logger,
	})

	machine := session.NewMachine(
		catalog,
		question.NewGenerator(generating),
		validate.NewValidator(judging, logger),
		hint.NewGenerator(judging, logger),
		session.Policy{KeepProgressOnIndustryChange: cfg.KeepProgressOnIndustryChange},
		logger,
	)

	a := &app{cfg: cfg, logger: logger, catalog: catalog, machine: machine}

	if cfg.PlaygroundDriver != "" {
		executor, err := playground.Open(cfg.PlaygroundDriver, cfg.PlaygroundDSN, cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("open playground: %w", err)
		}
		a.executor = executor
	}

	return a, nil
}

func (a *app) close() {
	if a.executor != nil {
		a.executor.Close()
	}
}

func loadCatalog(cfg *config.Config) (*schema.Catalog, error) {
	if cfg.SchemasPath == "" {
		return schema.BuiltIn(), nil
	}
	return schema.NewLoader(cfg.SchemasPath).LoadCatalog()
}

func buildProvider(cfg *config.Config) (llm.Provider, error) {
	registry := llm.NewRegistry()

	switch cfg.LLMProvider {
	case "claude":
		registry.Register("claude", llm.NewClaudeProvider(llm.ClaudeConfig{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
		}))
	case "openai":
		registry.Register("openai", llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
		}))
	default:
		return nil, fmt.Errorf("unknown LLM provider %q (want claude or openai)", cfg.LLMProvider)
	}

	if err := registry.SetDefault(cfg.LLMProvider); err != nil {
		return nil, err
	}
	return registry.Default()
}
