// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pdiddy/roster-rules/internal/httputil"
	"github.com/pdiddy/roster-rules/pkg/types"
)

// Fetcher retrieves the body of a rule description page.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// HTTPFetcher fetches description pages over HTTP. Every request carries
// utm_source, utm_medium and minimal=true.
type HTTPFetcher struct {
	client *http.Client
	cfg    types.ResolverConfig
}

// NewHTTPFetcher returns a fetcher using client, or a client with the
// configured timeout when client is nil.
func NewHTTPFetcher(client *http.Client, cfg types.ResolverConfig) *HTTPFetcher {
	cfg = cfg.Defaults()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPFetcher{client: client, cfg: cfg}
}

func (f *HTTPFetcher) params() url.Values {
	return url.Values{
		"utm_source": {f.cfg.Source},
		"utm_medium": {f.cfg.Medium},
		"minimal":    {"true"},
	}
}

// Fetch returns the body of the page at location.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	u, err := httputil.Decorate(location, f.params())
	if err != nil {
		return nil, err
	}
	return httputil.Get(ctx, f.client, u, f.cfg.UserAgent, "text/html")
}
