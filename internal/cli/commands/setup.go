package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/hbnb/internal/cli/config"
	"github.com/leapstack-labs/hbnb/internal/storage"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Store  *storage.Storage
}

// NewCommandContext creates a CommandContext with the configured storage
// opened and loaded. Returns the context and a cleanup function that must be
// called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	backend, err := storage.OpenBackend(cfg.Backend, cfg.Path)
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.Open(cmd.Context(), backend, logger)
	if err != nil {
		_ = backend.Close()
		return nil, nil, fmt.Errorf("failed to open %s storage at %s: %w", cfg.Backend, cfg.Path, err)
	}
	logger.Debug("storage opened",
		slog.String("backend", cfg.Backend),
		slog.String("path", cfg.Path),
		slog.Int("objects", store.Len()))

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Store:  store,
	}, cleanup, nil
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	backend := getEnvOrDefault(config.EnvPrefix+"BACKEND", config.DefaultBackend)
	return &config.Config{
		Backend:     backend,
		Path:        getEnvOrDefault(config.EnvPrefix+"PATH", storage.DefaultPath(backend)),
		Prompt:      getEnvOrDefault(config.EnvPrefix+"PROMPT", config.DefaultPrompt),
		HistoryFile: os.Getenv(config.EnvPrefix + "HISTORY_FILE"),
		Verbose:     os.Getenv(config.EnvPrefix+"VERBOSE") == "true",
		LogFormat:   getEnvOrDefault(config.EnvPrefix+"LOG_FORMAT", config.DefaultLogFormat),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
