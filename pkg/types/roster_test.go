// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizedTextText(t *testing.T) {
	text := LocalizedText{"en": "Fear", "de": "Angst", "fr": "  "}

	tests := []struct {
		name string
		lang string
		want string
	}{
		{"exact", "de", "Angst"},
		{"base fallback", "es", "Fear"},
		{"region falls back to language", "de-AT", "Angst"},
		{"underscore region", "de_CH", "Angst"},
		{"upper case", "DE", "Angst"},
		{"blank entry falls back", "fr", "Fear"},
		{"empty language", "", "Fear"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, text.Text(tt.lang))
		})
	}
}

func TestLocalizedTextNil(t *testing.T) {
	var text LocalizedText
	assert.Equal(t, "", text.Text("en"))
	assert.Equal(t, "", LocalizedText{"de": "Angst"}.Text("fr"))
}

func TestRosterComposition(t *testing.T) {
	assert.Equal(t, "grand-army", (&Roster{ArmyComposition: "grand-army", Army: "legacy"}).Composition())
	assert.Equal(t, "legacy", (&Roster{Army: "legacy"}).Composition())
	assert.Equal(t, "", (&Roster{}).Composition())
}

func TestRosterUnits(t *testing.T) {
	r := &Roster{
		Characters: []Unit{{ID: "general"}},
		Core:       []Unit{{ID: "spears"}, {ID: "archers"}},
		Allies:     []Unit{{ID: "ally"}},
	}
	units := r.Units()
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	assert.Equal(t, []string{"general", "spears", "archers", "ally"}, ids)
	assert.Empty(t, (&Roster{}).Units())
}

func TestPipelineConfigDefaults(t *testing.T) {
	cfg := PipelineConfig{}.Defaults()
	assert.Equal(t, BaseLanguage, cfg.Language)
	assert.Equal(t, DefaultTimeout, cfg.Resolver.Timeout)
	assert.Equal(t, DefaultUserAgent, cfg.Resolver.UserAgent)
	assert.Equal(t, DefaultSource, cfg.Resolver.Source)
	assert.Equal(t, DefaultMedium, cfg.Resolver.Medium)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)

	custom := PipelineConfig{Language: "de", Store: StoreConfig{Path: "x.db"}}.Defaults()
	assert.Equal(t, "de", custom.Language)
	assert.Equal(t, "x.db", custom.Store.Path)
}
