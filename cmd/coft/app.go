package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/coft-dev/coft/internal/ai"
	"github.com/coft-dev/coft/internal/catalog"
	"github.com/coft-dev/coft/internal/harness"
	"github.com/coft-dev/coft/internal/orchestration"
	"github.com/coft-dev/coft/internal/projectconfig"
	"github.com/coft-dev/coft/internal/store"
	"github.com/coft-dev/coft/internal/workbench"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	debug     bool
	buildsDir string
}

// app is everything a command needs, built from .coft.yaml and the flags.
type app struct {
	cfg     *projectconfig.ProjectConfig
	store   *store.Store
	runner  *orchestration.Runner
	session *workbench.Session
}

func loadApp(ctx context.Context, opts *globalOptions) (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Could not load .env", "error", err)
	}

	cfg, err := projectconfig.Load(".")
	if err != nil {
		return nil, err
	}

	if err := ensureBuildsDir(cfg, opts.buildsDir); err != nil {
		return nil, err
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(dataDir)
	if err != nil {
		return nil, err
	}

	var runnerOpts []orchestration.RunnerOption
	if cfg.Harness.Command != "" {
		runnerOpts = append(runnerOpts, orchestration.WithHarnessCommand(cfg.Harness.Command))
	}
	runner := orchestration.NewRunner(cfg.Paths.PathsFile, &harness.ExecInvoker{Timeout: cfg.HarnessTimeout()}, runnerOpts...)

	sessionOpts := []workbench.Option{workbench.WithLanguage(cfg.Harness.Language)}
	if key := cfg.APIKey(); key != "" {
		svc, err := ai.NewGeminiService(ctx, ai.Config{
			APIKey:  key,
			Model:   cfg.AI.Model,
			Locale:  cfg.AI.Locale,
			Timeout: cfg.AITimeout(),
		})
		if err != nil {
			return nil, err
		}
		sessionOpts = append(sessionOpts, workbench.WithAI(svc))
	} else {
		slog.Debug("AI features disabled", "env", cfg.AI.APIKeyEnv)
	}

	return &app{
		cfg:     cfg,
		store:   st,
		runner:  runner,
		session: workbench.New(cfg.Paths.PathsFile, runner, st, sessionOpts...),
	}, nil
}

// ensureBuildsDir records the builds directory in the paths file. An explicit
// flag always wins; otherwise the configured directory is used the first
// time, when it exists.
func ensureBuildsDir(cfg *projectconfig.ProjectConfig, flagDir string) error {
	if flagDir != "" {
		abs, err := catalog.WriteBuildsDir(cfg.Paths.PathsFile, flagDir)
		if err != nil {
			return err
		}
		slog.Debug("Problem-builds directory saved", "dir", abs, "paths_file", cfg.Paths.PathsFile)
		return nil
	}

	if _, err := catalog.ResolveBuildsDir(cfg.Paths.PathsFile); !errors.Is(err, catalog.ErrConfigurationMissing) {
		return nil
	}
	if info, err := os.Stat(cfg.Paths.ProblemBuilds); err != nil || !info.IsDir() {
		return nil
	}
	if _, err := catalog.WriteBuildsDir(cfg.Paths.PathsFile, cfg.Paths.ProblemBuilds); err != nil {
		return fmt.Errorf("saving problem-builds directory: %w", err)
	}
	return nil
}
