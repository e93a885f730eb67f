// Package app assembles the resolver and its collaborators for the CLI and
// HTTP surfaces. Wiring is explicit: the provider registry and cache backend
// are constructed here and injected, never reached through globals.
package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"linksum/internal/cache"
	"linksum/internal/config"
	"linksum/internal/transcript"
)

// BuildResolver wires a resolver from configuration. The returned store is
// handed back so the caller owns its lifecycle; Close it when done.
func BuildResolver(cfg *config.Config, logger *zap.Logger) (*transcript.Resolver, cache.Store, error) {
	store, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	resolver := transcript.NewResolver(transcript.DefaultRegistry(), transcript.Config{
		Store:      store,
		Client:     &http.Client{Timeout: cfg.FetchTimeout},
		Timeout:    cfg.FetchTimeout,
		ApifyToken: cfg.ApifyToken,
		Logger:     logger,
	})
	return resolver, store, nil
}

func buildStore(cfg *config.Config) (cache.Store, error) {
	if cfg.RedisAddr != "" {
		return cache.NewRedisStore(cfg.RedisAddr), nil
	}
	if cfg.DBPath == "" {
		return cache.NewMemoryStore(), nil
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	return cache.NewSQLiteStore(cfg.DBPath)
}
