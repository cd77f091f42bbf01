package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/extractify/internal/extract"
	"github.com/sells-group/extractify/internal/pipeline"
	"github.com/sells-group/extractify/internal/store"
	anthropicpkg "github.com/sells-group/extractify/pkg/anthropic"
)

// appEnv holds the initialized store and pipeline shared by the bulk,
// conversations, and serve commands.
type appEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// newResolver builds the hybrid resolver from config. Without an API key
// the resolver runs pattern-only; disableModel forces that even when a
// key is present.
func newResolver(disableModel bool) *extract.Resolver {
	timeout := time.Duration(cfg.Extract.TimeoutSecs) * time.Second

	if disableModel || cfg.Anthropic.Key == "" {
		if !disableModel {
			zap.L().Debug("EXTRACTIFY_ANTHROPIC_KEY not set, model extraction disabled")
		}
		return extract.NewResolver(nil, timeout)
	}

	client := anthropicpkg.NewClient(cfg.Anthropic.Key,
		anthropicpkg.WithRateLimit(cfg.Anthropic.RateLimit),
	)
	modelExtractor := extract.NewClaudeExtractor(client, cfg.Anthropic.Model, cfg.Extract.MaxChars)
	zap.L().Info("model extraction enabled", zap.String("model", cfg.Anthropic.Model))
	return extract.NewResolver(modelExtractor, timeout)
}

// initStore opens the configured database backend.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Store.DatabaseURL); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, eris.Wrap(err, "create database directory")
			}
		}
		return store.NewSQLite(cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// initEnv sets up the store and pipeline. Callers should defer env.Close().
func initEnv(ctx context.Context, disableModel bool) (*appEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	p := pipeline.New(newResolver(disableModel), cfg.Extract.Concurrency)
	return &appEnv{Store: st, Pipeline: p}, nil
}
