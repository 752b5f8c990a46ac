// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for roster-rules.
//
// Roster documents are read-only input: a roster groups units into
// categories, each unit (and each detachment attached to it) carries a
// localized, comma-delimited special rules string, and both may carry
// army-composition-specific replacements for that string.
package types

import "strings"

// BaseLanguage is the language every LocalizedText is expected to carry.
// Lookups for any other language fall back to it.
const BaseLanguage = "en"

// LocalizedText maps a language code (e.g. "en", "de", "fr") to text.
// A nil or empty LocalizedText means the text is absent.
type LocalizedText map[string]string

// Text returns the entry for lang. A region-qualified code ("de-AT")
// also tries its base language ("de"). When no entry matches, the
// BaseLanguage entry is returned. Blank entries count as missing.
func (t LocalizedText) Text(lang string) string {
	if len(t) == 0 {
		return ""
	}
	for _, code := range languageCandidates(lang) {
		if s, ok := t[code]; ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// languageCandidates lists the codes to try for lang, most specific first.
func languageCandidates(lang string) []string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	lang = strings.ReplaceAll(lang, "_", "-")

	var codes []string
	if lang != "" {
		codes = append(codes, lang)
		if i := strings.Index(lang, "-"); i > 0 {
			codes = append(codes, lang[:i])
		}
	}
	return append(codes, BaseLanguage)
}

// CompositionRules holds the army-composition-specific replacement for a
// unit's or detachment's special rules.
type CompositionRules struct {
	SpecialRules LocalizedText `json:"specialRules,omitempty" yaml:"specialRules,omitempty"`
}

// Detachment is a sub-entry attached to a unit. It has the same rule
// fields as a Unit but no nested detachments.
type Detachment struct {
	Name LocalizedText `json:"name,omitempty" yaml:"name,omitempty"`

	// SpecialRules is the direct rules text.
	SpecialRules LocalizedText `json:"specialRules,omitempty" yaml:"specialRules,omitempty"`

	// ArmyComposition maps a composition key to a replacement for SpecialRules.
	ArmyComposition map[string]CompositionRules `json:"armyComposition,omitempty" yaml:"armyComposition,omitempty"`
}

// Unit is a single roster entry.
type Unit struct {
	ID   string        `json:"id,omitempty" yaml:"id,omitempty"`
	Name LocalizedText `json:"name,omitempty" yaml:"name,omitempty"`

	// SpecialRules is the direct rules text, e.g.
	// {"en": "Impact Hits (1), Always Strikes First {p.12}"}.
	SpecialRules LocalizedText `json:"specialRules,omitempty" yaml:"specialRules,omitempty"`

	// ArmyComposition maps a composition key to a replacement for SpecialRules.
	ArmyComposition map[string]CompositionRules `json:"armyComposition,omitempty" yaml:"armyComposition,omitempty"`

	Detachments []Detachment `json:"detachments,omitempty" yaml:"detachments,omitempty"`
}

// DisplayName returns the unit name in lang, falling back to its ID.
func (u Unit) DisplayName(lang string) string {
	if name := u.Name.Text(lang); name != "" {
		return name
	}
	return u.ID
}

// Roster is a composite army list.
type Roster struct {
	// ID identifies the roster in the store.
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// ArmyComposition selects composition-specific rule overrides.
	ArmyComposition string `json:"armyComposition,omitempty" yaml:"armyComposition,omitempty"`

	// Army is the legacy selector, used when ArmyComposition is empty.
	Army string `json:"army,omitempty" yaml:"army,omitempty"`

	Characters  []Unit `json:"characters,omitempty" yaml:"characters,omitempty"`
	Core        []Unit `json:"core,omitempty" yaml:"core,omitempty"`
	Special     []Unit `json:"special,omitempty" yaml:"special,omitempty"`
	Rare        []Unit `json:"rare,omitempty" yaml:"rare,omitempty"`
	Mercenaries []Unit `json:"mercenaries,omitempty" yaml:"mercenaries,omitempty"`
	Allies      []Unit `json:"allies,omitempty" yaml:"allies,omitempty"`
}

// Composition returns the active army composition key.
func (r *Roster) Composition() string {
	if r.ArmyComposition != "" {
		return r.ArmyComposition
	}
	return r.Army
}

// Units returns every unit of every category in a single slice.
func (r *Roster) Units() []Unit {
	categories := [][]Unit{r.Characters, r.Core, r.Special, r.Rare, r.Mercenaries, r.Allies}

	n := 0
	for _, c := range categories {
		n += len(c)
	}
	units := make([]Unit, 0, n)
	for _, c := range categories {
		units = append(units, c...)
	}
	return units
}
