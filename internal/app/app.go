// Package app wires the criteria store, execution history and logging
// into one application instance the CLI commands operate on.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vk/checkwavego/internal/criteria"
	"github.com/vk/checkwavego/internal/ctxlog"
	"github.com/vk/checkwavego/internal/hclcfg"
	"github.com/vk/checkwavego/internal/history"
	"github.com/vk/checkwavego/internal/persist"
)

// Options control how New assembles the application.
type Options struct {
	// SettingsPath is an optional TOML settings file.
	SettingsPath string
	// CriteriaPath is an optional .hcl file or directory of criteria
	// definitions, loaded after the seed graph.
	CriteriaPath string
	// NoSeed skips the built-in default criteria.
	NoSeed bool
	// LogLevel and LogFormat override the settings file when non-empty.
	LogLevel  string
	LogFormat string
}

// App encapsulates the store, history log, logger and settings.
type App struct {
	Store    *criteria.Store
	History  *history.Log
	Logger   *slog.Logger
	Settings Settings
}

// New builds a ready App: settings, logger, seeded store, criteria files
// and any previously saved dependency config and history.
func New(errW io.Writer, opts Options) (*App, error) {
	settings, err := LoadSettings(opts.SettingsPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		settings.Log.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		settings.Log.Format = opts.LogFormat
	}

	logger := newLogger(settings.Log.Level, settings.Log.Format, errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	store := criteria.NewStore()
	if !opts.NoSeed {
		criteria.Seed(store)
		logger.Debug("Seeded default criteria.", "count", store.Len())
	}

	if opts.CriteriaPath != "" {
		n, err := hclcfg.NewLoader().LoadPath(ctx, store, opts.CriteriaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load criteria definitions: %w", err)
		}
		logger.Debug("Criteria definitions loaded.", "path", opts.CriteriaPath, "count", n)
	}

	// A previously saved dependency config overlays seed and file
	// definitions; a missing file is not an error.
	configPath := filepath.Join(settings.ConfigDir, persist.ConfigFileName)
	snapshot, err := persist.Load(store, configPath)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		logger.Debug("Saved dependency config merged.", "path", configPath, "criteria", len(snapshot.Dependencies))
	}

	log := history.NewLog()
	if err := persist.LoadHistory(log, settings.ConfigDir); err != nil {
		return nil, err
	}

	return &App{
		Store:    store,
		History:  log,
		Logger:   logger,
		Settings: settings,
	}, nil
}

// Context returns a context carrying the application logger.
func (a *App) Context() context.Context {
	return ctxlog.WithLogger(context.Background(), a.Logger)
}
