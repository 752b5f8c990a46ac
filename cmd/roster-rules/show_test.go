// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/roster-rules/internal/metadata"
	"github.com/pdiddy/roster-rules/internal/resolve"
	"github.com/pdiddy/roster-rules/internal/view"
	"github.com/pdiddy/roster-rules/pkg/types"
)

type sectionFetcher struct{}

func (sectionFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	return []byte(`<div class="article-section-rich-text"><p>about ` + location + `</p></div>`), nil
}

func sampleView(t *testing.T, printer view.Printer) *view.View {
	t.Helper()
	r := &types.Roster{
		ID:   "orcs",
		Name: "Orc Warband",
		Core: []types.Unit{{
			ID:           "boyz",
			Name:         types.LocalizedText{"en": "Orc Boyz"},
			SpecialRules: types.LocalizedText{"en": "Frenzy, Warband"},
		}},
	}
	table := metadata.New(map[string]types.RuleMetadata{
		"Frenzy": {ContentLocation: "https://rules.test/frenzy"},
	}, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	res := resolve.New(table, sectionFetcher{}, resolve.Options{Logger: logger})
	v := view.New(fileAccessor{roster: r}, view.Language("en"), res, view.Options{Logger: logger, Printer: printer})

	v.SetRoster("orcs")
	select {
	case <-v.Refresh(context.Background()):
	case <-time.After(5 * time.Second):
		t.Fatal("batch did not settle")
	}
	return v
}

func TestFileAccessor(t *testing.T) {
	acc := fileAccessor{roster: &types.Roster{ID: "a"}}

	r, found, err := acc.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", r.ID)

	_, found, err = acc.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPageOf(t *testing.T) {
	v := sampleView(t, nil)

	page := pageOf(v, true)
	assert.Equal(t, "Orc Warband", page.Title)
	assert.Equal(t, "en", page.Language)
	assert.False(t, page.Loading)
	assert.Equal(t, []string{"Frenzy", "Warband"}, page.Rules)
	assert.Contains(t, page.Contents, "Frenzy")
	assert.Equal(t, []string{"Orc Boyz"}, page.Sources["Warband"])

	assert.Nil(t, pageOf(v, false).Sources)
}

func TestPagePrinter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.html")
	printer := &pagePrinter{path: path}
	v := sampleView(t, printer)
	printer.view = v

	require.NoError(t, v.Print())
	assert.False(t, v.Printing(), "printer signals completion")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>Orc Warband - Special Rules</title>")
	assert.Contains(t, string(data), "about https://rules.test/frenzy")
	assert.Contains(t, string(data), "description not available")
}

func TestShowRejectsUnknownFormatBeforeWork(t *testing.T) {
	out := filepath.Join(t.TempDir(), "rules.out")
	flags := map[string]string{
		"format": "pdf",
		"output": out,
		"file":   filepath.Join(t.TempDir(), "missing.yaml"),
	}
	for name, value := range flags {
		require.NoError(t, showCmd.Flags().Set(name, value))
	}
	t.Cleanup(func() {
		for name := range flags {
			f := showCmd.Flags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})

	err := runShow(showCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "pdf"`)
	assert.NoFileExists(t, out)
}

func TestWritePage(t *testing.T) {
	v := sampleView(t, nil)
	for _, format := range []string{"table", "json", "yaml", "html"} {
		var buf strings.Builder
		require.NoError(t, writePage(pageOf(v, false), format, &buf), format)
		assert.Contains(t, buf.String(), "Frenzy", format)
	}
	assert.Error(t, writePage(pageOf(v, false), "pdf", io.Discard))
}
