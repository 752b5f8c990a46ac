// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorate(t *testing.T) {
	params := url.Values{
		"utm_source": {"roster-rules"},
		"utm_medium": {"referral"},
		"minimal":    {"true"},
	}

	got, err := Decorate("https://rules.test/special-rules/fear", params)
	require.NoError(t, err)
	assert.Equal(t, "https://rules.test/special-rules/fear?minimal=true&utm_medium=referral&utm_source=roster-rules", got)

	got, err = Decorate("https://rules.test/fear?lang=de&minimal=false", params)
	require.NoError(t, err)
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "de", u.Query().Get("lang"))
	assert.Equal(t, []string{"true"}, u.Query()["minimal"])

	got, err = Decorate("https://rules.test/fear", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://rules.test/fear", got)
}

func TestDecorateRejectsInvalid(t *testing.T) {
	_, err := Decorate("ftp://rules.test/fear", nil)
	assert.Error(t, err)

	_, err = Decorate("special-rules/fear", nil)
	assert.Error(t, err)

	_, err = Decorate("http://[::1", nil)
	assert.Error(t, err)
}

func TestGet_Success(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, "<p>ok</p>")
	}))
	defer ts.Close()

	body, err := Get(context.Background(), ts.Client(), ts.URL, "test/0.1", "text/html")
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", string(body))
	assert.Equal(t, "test/0.1", gotUA)
	assert.Equal(t, "text/html", gotAccept)
}

func TestGet_StatusError(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := Get(context.Background(), ts.Client(), ts.URL, "", "")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	// No retry on 429.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	addr := ts.URL
	ts.Close()

	_, err := Get(context.Background(), http.DefaultClient, addr, "", "")
	assert.Error(t, err)
}

func TestGet_ContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Get(ctx, ts.Client(), ts.URL, "", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGet_RejectsLargeBody(t *testing.T) {
	old := MaxBodyBytes
	MaxBodyBytes = 8
	defer func() { MaxBodyBytes = old }()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/exact" {
			fmt.Fprint(w, strings.Repeat("a", 8))
			return
		}
		fmt.Fprint(w, strings.Repeat("a", 9))
	}))
	defer ts.Close()

	body, err := Get(context.Background(), ts.Client(), ts.URL+"/exact", "", "")
	require.NoError(t, err)
	assert.Len(t, body, 8)

	body, err = Get(context.Background(), ts.Client(), ts.URL+"/over", "", "")
	assert.ErrorIs(t, err, ErrBodyTooLarge)
	assert.Nil(t, body)
}
