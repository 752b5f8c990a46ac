// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Default values applied by the Defaults methods.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "roster-rules/0.1"
	DefaultSource    = "roster-rules"
	DefaultMedium    = "referral"
	DefaultStorePath = "data/rosters.db"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "roster-rules/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ResolverConfig holds settings for rule description resolution.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Source and Medium are sent as utm_source and utm_medium on every
	// content request to identify the caller and the fetch purpose,
	// alongside minimal=true.
	Source string `json:"source" yaml:"source" mapstructure:"source"`
	Medium string `json:"medium" yaml:"medium" mapstructure:"medium"`

	// MaxConcurrent caps in-flight fetches per batch. Zero means one
	// goroutine per rule.
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent" mapstructure:"max_concurrent"`

	// MetadataFile is an optional YAML rule-metadata table that replaces
	// the embedded default.
	MetadataFile string `json:"metadata_file,omitempty" yaml:"metadata_file,omitempty" mapstructure:"metadata_file"`
}

// Defaults returns a copy of c with zero fields set to their defaults.
func (c ResolverConfig) Defaults() ResolverConfig {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Source == "" {
		c.Source = DefaultSource
	}
	if c.Medium == "" {
		c.Medium = DefaultMedium
	}
	return c
}

// StoreConfig holds settings for the roster store.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// Defaults returns a copy of c with zero fields set to their defaults.
func (c StoreConfig) Defaults() StoreConfig {
	if c.Path == "" {
		c.Path = DefaultStorePath
	}
	return c
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	// Language selects the localized rules text (default BaseLanguage).
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	Resolver ResolverConfig `json:"resolver" yaml:"resolver" mapstructure:"resolver"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
}

// Defaults returns a copy of c with every stage's defaults applied.
func (c PipelineConfig) Defaults() PipelineConfig {
	if c.Language == "" {
		c.Language = BaseLanguage
	}
	c.Resolver = c.Resolver.Defaults()
	c.Store = c.Store.Defaults()
	return c
}
