// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/pdiddy/roster-rules/internal/metadata"
	"github.com/pdiddy/roster-rules/internal/resolve"
	"github.com/pdiddy/roster-rules/internal/roster"
	"github.com/pdiddy/roster-rules/internal/view"
	"github.com/pdiddy/roster-rules/pkg/types"
)

// setConfigDefaults registers every configuration key so that
// ROSTER_RULES_* environment variables are seen by loadConfig.
func setConfigDefaults() {
	viper.SetDefault("language", types.BaseLanguage)
	viper.SetDefault("store.path", types.DefaultStorePath)
	viper.SetDefault("resolver.timeout", types.DefaultTimeout)
	viper.SetDefault("resolver.user_agent", types.DefaultUserAgent)
	viper.SetDefault("resolver.source", types.DefaultSource)
	viper.SetDefault("resolver.medium", types.DefaultMedium)
	viper.SetDefault("resolver.max_concurrent", 0)
	viper.SetDefault("resolver.metadata_file", "")
}

// loadConfig reads the pipeline configuration from viper (config file,
// ROSTER_RULES_* environment, bound flags) and applies defaults.
func loadConfig() (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg.Defaults(), nil
}

// newResolver builds a resolver over the configured metadata table.
func newResolver(cfg types.ResolverConfig) (*resolve.Resolver, error) {
	table := metadata.Default()
	if cfg.MetadataFile != "" {
		t, err := metadata.Load(cfg.MetadataFile)
		if err != nil {
			return nil, err
		}
		table = t
	}
	slog.Debug("rule metadata loaded", "entries", table.Len(), "file", cfg.MetadataFile)

	fetcher := resolve.NewHTTPFetcher(nil, cfg)
	return resolve.New(table, fetcher, resolve.Options{
		Logger:        slog.Default(),
		MaxConcurrent: cfg.MaxConcurrent,
	}), nil
}

// fileAccessor serves a single roster read from a file.
type fileAccessor struct {
	roster *types.Roster
}

func (a fileAccessor) Get(_ context.Context, id string) (*types.Roster, bool, error) {
	if a.roster == nil || a.roster.ID != id {
		return nil, false, nil
	}
	return a.roster, true, nil
}

// rosterSource returns the roster named by args or --file, and a closer
// for any store it opened.
func rosterSource(cfg types.PipelineConfig, file string, args []string) (view.Accessor, string, func(), error) {
	if file != "" {
		r, err := roster.LoadFile(file)
		if err != nil {
			return nil, "", nil, err
		}
		return fileAccessor{roster: r}, r.ID, func() {}, nil
	}

	if len(args) != 1 {
		return nil, "", nil, fmt.Errorf("provide a roster ID or --file")
	}
	store, err := roster.Open(cfg.Store)
	if err != nil {
		return nil, "", nil, err
	}
	return store, args[0], func() { store.Close() }, nil
}
