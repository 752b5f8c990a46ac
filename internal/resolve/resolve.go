// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve maps canonical rule names to sanitized descriptions.
//
// Resolve fetches every description of a batch concurrently and returns
// once all fetches have settled. A rule without metadata, without a
// content location, or whose fetch or parse fails is simply absent from
// the result; failures are logged and never affect the rest of the batch.
//
// Request runs Resolve in the background for a view. Each request whose
// names differ from the previous one starts a new generation, and a batch
// only publishes its results if its generation is still the latest when
// it settles.
package resolve

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/pdiddy/roster-rules/internal/sanitize"
	"github.com/pdiddy/roster-rules/pkg/types"
)

// Lookup finds the metadata entry of a canonical rule name.
type Lookup interface {
	Lookup(name string) (types.RuleMetadata, bool)
}

// Options configures a Resolver.
type Options struct {
	// Logger receives fetch failures. Defaults to slog.Default().
	Logger *slog.Logger

	// MaxConcurrent caps in-flight fetches per batch; zero is unbounded.
	MaxConcurrent int

	// OnLoading is called with the new value on every change of the
	// loading flag, in order. It runs with the resolver's state locked and
	// must not call back into the Resolver.
	OnLoading func(loading bool)
}

// outcome is a settled description lookup.
type outcome struct {
	content sanitize.HTML
	ok      bool
}

// Resolver resolves rule descriptions and holds the latest resolved set.
type Resolver struct {
	lookup        Lookup
	fetcher       Fetcher
	logger        *slog.Logger
	maxConcurrent int
	onLoading     func(bool)

	cacheMu sync.Mutex
	cache   map[string]outcome // by content location

	mu         sync.Mutex
	generation uint64
	started    bool
	requested  []string
	latestDone chan struct{}
	loading    bool
	contents   map[string]sanitize.HTML
}

// New returns a Resolver reading metadata from lookup and pages from fetcher.
func New(lookup Lookup, fetcher Fetcher, opts Options) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		lookup:        lookup,
		fetcher:       fetcher,
		logger:        logger,
		maxConcurrent: opts.MaxConcurrent,
		onLoading:     opts.OnLoading,
		cache:         make(map[string]outcome),
		contents:      make(map[string]sanitize.HTML),
	}
}

// Resolve fetches the descriptions of names concurrently and returns the
// ones that resolved. It returns after every fetch has settled. An empty
// batch returns an empty map without any network activity.
func (r *Resolver) Resolve(ctx context.Context, names []string) map[string]sanitize.HTML {
	out := make(map[string]sanitize.HTML)
	if len(names) == 0 {
		return out
	}

	type result struct {
		name string
		outcome
	}

	ch := make(chan result, len(names))
	var wg sync.WaitGroup

	var sem chan struct{}
	if r.maxConcurrent > 0 {
		sem = make(chan struct{}, r.maxConcurrent)
	}

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		entry, found := r.lookup.Lookup(name)
		if !found || !entry.HasContent() {
			r.logger.Debug("no description available", "rule", name)
			continue
		}

		wg.Add(1)
		go func(name, location string) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			ch <- result{name: name, outcome: r.describe(ctx, name, location)}
		}(name, entry.ContentLocation)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	for res := range ch {
		if res.ok {
			out[res.name] = res.content
		}
	}
	return out
}

// describe fetches and sanitizes one description page. Settled outcomes
// are cached for the Resolver's lifetime; fetch failures are not.
func (r *Resolver) describe(ctx context.Context, name, location string) outcome {
	r.cacheMu.Lock()
	cached, hit := r.cache[location]
	r.cacheMu.Unlock()
	if hit {
		return cached
	}

	body, err := r.fetcher.Fetch(ctx, location)
	if err != nil {
		r.logger.Warn("fetching rule description failed", "rule", name, "location", location, "error", err)
		return outcome{}
	}

	var res outcome
	content, ok, err := sanitize.Document(bytes.NewReader(body))
	switch {
	case err != nil:
		r.logger.Warn("parsing rule description failed", "rule", name, "location", location, "error", err)
	case !ok:
		r.logger.Debug("rule description has no content section", "rule", name, "location", location)
	default:
		res = outcome{content: content, ok: true}
	}

	r.cacheMu.Lock()
	r.cache[location] = res
	r.cacheMu.Unlock()
	return res
}

// Request starts resolving names in the background and returns a channel
// closed when that batch settles, whether its results were published or
// discarded. Requesting the same names as the latest request returns the
// latest request's channel. An empty request publishes an empty mapping
// immediately.
func (r *Resolver) Request(ctx context.Context, names []string) <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started && slices.Equal(r.requested, names) {
		return r.latestDone
	}

	r.started = true
	r.generation++
	gen := r.generation
	r.requested = slices.Clone(names)
	done := make(chan struct{})
	r.latestDone = done

	if len(names) == 0 {
		r.contents = make(map[string]sanitize.HTML)
		r.setLoading(false)
		close(done)
		return done
	}

	r.setLoading(true)
	go func() {
		defer close(done)
		contents := r.Resolve(ctx, names)

		r.mu.Lock()
		defer r.mu.Unlock()
		if gen != r.generation {
			r.logger.Debug("discarding superseded batch", "generation", gen, "latest", r.generation)
			return
		}
		r.contents = contents
		r.setLoading(false)
	}()
	return done
}

// setLoading updates the loading flag. The caller holds r.mu.
func (r *Resolver) setLoading(loading bool) {
	if r.loading == loading {
		return
	}
	r.loading = loading
	if r.onLoading != nil {
		r.onLoading(loading)
	}
}

// Loading reports whether the latest request is still in flight.
func (r *Resolver) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Contents returns a copy of the latest published mapping. A missing name
// means no description is available.
func (r *Resolver) Contents() map[string]sanitize.HTML {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]sanitize.HTML, len(r.contents))
	for k, v := range r.contents {
		out[k] = v
	}
	return out
}

// Content returns the published description of name.
func (r *Resolver) Content(name string) (sanitize.HTML, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contents[name]
	return c, ok
}
