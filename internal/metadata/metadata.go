// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata holds the rule-metadata table: a static mapping from a
// normalized rule key to the location of the rule's description.
package metadata

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/roster-rules/internal/normalize"
	"github.com/pdiddy/roster-rules/pkg/types"
)

//go:embed rules.yaml
var embeddedRules []byte

// KeyFunc folds a canonical rule name into a table key.
type KeyFunc func(name string) string

// Table maps rule keys to metadata entries.
type Table struct {
	key     KeyFunc
	entries map[string]types.RuleMetadata
}

// tableFile is the on-disk YAML layout.
type tableFile struct {
	// BaseURL resolves relative content locations.
	BaseURL string                        `yaml:"base_url"`
	Rules   map[string]types.RuleMetadata `yaml:"rules"`
}

// New builds a table from entries keyed by rule name. Names are folded
// with key; a nil key uses normalize.LookupKey.
func New(entries map[string]types.RuleMetadata, key KeyFunc) *Table {
	if key == nil {
		key = normalize.LookupKey
	}
	t := &Table{key: key, entries: make(map[string]types.RuleMetadata, len(entries))}
	for name, entry := range entries {
		t.entries[key(name)] = entry
	}
	return t
}

// Parse reads a YAML table. Relative content locations are resolved
// against the file's base_url.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rule metadata: %w", err)
	}

	var base *url.URL
	if f.BaseURL != "" {
		u, err := url.Parse(f.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base_url %q: %w", f.BaseURL, err)
		}
		base = u
	}

	for name, entry := range f.Rules {
		if entry.ContentLocation == "" || base == nil {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(entry.ContentLocation))
		if err != nil {
			return nil, fmt.Errorf("parsing content_location of %q: %w", name, err)
		}
		entry.ContentLocation = base.ResolveReference(ref).String()
		f.Rules[name] = entry
	}
	return New(f.Rules, nil), nil
}

// Load reads a YAML table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule metadata %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the table embedded in the binary.
func Default() *Table {
	t, err := Parse(embeddedRules)
	if err != nil {
		panic(fmt.Sprintf("embedded rule metadata: %v", err))
	}
	return t
}

// Key returns the table key for name.
func (t *Table) Key(name string) string {
	return t.key(name)
}

// Lookup returns the entry for a canonical rule name.
func (t *Table) Lookup(name string) (types.RuleMetadata, bool) {
	entry, ok := t.entries[t.key(name)]
	return entry, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
