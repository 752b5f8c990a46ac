// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package view drives a rules page for one roster: it recomputes the
// canonical rule list when the roster or language changes, requests the
// rule descriptions, and exposes what a presentation layer needs.
package view

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/pdiddy/roster-rules/internal/extract"
	"github.com/pdiddy/roster-rules/internal/resolve"
	"github.com/pdiddy/roster-rules/internal/sanitize"
	"github.com/pdiddy/roster-rules/pkg/types"
)

// Accessor reads rosters by ID. A missing roster is reported with
// found=false and a nil error.
type Accessor interface {
	Get(ctx context.Context, id string) (r *types.Roster, found bool, err error)
}

// LanguageProvider reports the current display language.
type LanguageProvider interface {
	Language() string
}

// Language is a fixed LanguageProvider.
type Language string

// Language returns l.
func (l Language) Language() string { return string(l) }

// Printer starts printing the page. Completion is reported back through
// View.AfterPrint.
type Printer interface {
	Print() error
}

// Options configures a View.
type Options struct {
	// Logger receives roster read failures. Defaults to slog.Default().
	Logger *slog.Logger

	// Printer is invoked by Print. Without one, Print is a no-op.
	Printer Printer
}

// View holds the page state of one roster.
type View struct {
	accessor Accessor
	language LanguageProvider
	resolver *resolve.Resolver
	printer  Printer
	logger   *slog.Logger

	mu           sync.Mutex
	rosterID     string
	refreshed    bool
	lastSnapshot []byte
	lastLang     string
	roster       *types.Roster
	rules        []string
	printing     bool
}

// New returns a View with no roster selected.
func New(accessor Accessor, language LanguageProvider, resolver *resolve.Resolver, opts Options) *View {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &View{
		accessor: accessor,
		language: language,
		resolver: resolver,
		printer:  opts.Printer,
		logger:   logger,
	}
}

// SetRoster selects the roster to display. It takes effect on the next
// Refresh.
func (v *View) SetRoster(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rosterID = id
}

// Refresh reads the selected roster and recomputes the rule list when
// the roster's content or the language changed since the last refresh,
// then requests the descriptions of the list. The returned channel is
// closed when the current batch settles. A roster that is missing or
// cannot be read yields an empty list.
func (v *View) Refresh(ctx context.Context) <-chan struct{} {
	lang := v.language.Language()

	v.mu.Lock()
	id := v.rosterID
	v.mu.Unlock()

	roster := v.load(ctx, id)
	snapshot := fingerprint(roster)

	v.mu.Lock()
	if v.refreshed && snapshot != nil && lang == v.lastLang && bytes.Equal(snapshot, v.lastSnapshot) {
		v.roster = roster
		rules := v.rules
		v.mu.Unlock()
		return v.resolver.Request(ctx, rules)
	}
	v.mu.Unlock()

	rules := extract.SpecialRules(roster, lang)

	v.mu.Lock()
	v.refreshed = true
	v.lastSnapshot = snapshot
	v.lastLang = lang
	v.roster = roster
	v.rules = rules
	v.mu.Unlock()

	v.logger.Debug("rules recomputed", "roster", id, "language", lang, "rules", len(rules))
	return v.resolver.Request(ctx, rules)
}

// fingerprint encodes the content of r for change detection. It is
// taken at read time, so later in-place edits of r still count as
// changes. A nil result never matches.
func fingerprint(r *types.Roster) []byte {
	if r == nil {
		return []byte("null")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil
	}
	return data
}

func (v *View) load(ctx context.Context, id string) *types.Roster {
	if id == "" {
		return nil
	}
	roster, found, err := v.accessor.Get(ctx, id)
	if err != nil {
		v.logger.Warn("reading roster failed", "roster", id, "error", err)
		return nil
	}
	if !found {
		v.logger.Debug("roster not found", "roster", id)
		return nil
	}
	return roster
}

// Roster returns the roster of the last refresh, or nil.
func (v *View) Roster() *types.Roster {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.roster
}

// Language returns the language of the last refresh.
func (v *View) Language() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastLang
}

// Rules returns a copy of the canonical rule list.
func (v *View) Rules() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.rules == nil {
		return []string{}
	}
	return slices.Clone(v.rules)
}

// Loading reports whether descriptions are still being resolved.
func (v *View) Loading() bool {
	return v.resolver.Loading()
}

// Contents returns the resolved descriptions. A rule without an entry has
// no description available.
func (v *View) Contents() map[string]sanitize.HTML {
	return v.resolver.Contents()
}

// Print starts a print unless one is already pending. A pending print
// ends with AfterPrint.
func (v *View) Print() error {
	v.mu.Lock()
	if v.printing || v.printer == nil {
		v.mu.Unlock()
		return nil
	}
	v.printing = true
	v.mu.Unlock()

	if err := v.printer.Print(); err != nil {
		v.mu.Lock()
		v.printing = false
		v.mu.Unlock()
		return err
	}
	return nil
}

// AfterPrint marks the pending print as complete.
func (v *View) AfterPrint() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.printing = false
}

// Printing reports whether a print is pending.
func (v *View) Printing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.printing
}
