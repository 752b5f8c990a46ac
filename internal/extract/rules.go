// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract collects the special rules referenced by a roster into
// a canonical, deduplicated, locale-sorted list.
package extract

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pdiddy/roster-rules/internal/normalize"
	"github.com/pdiddy/roster-rules/pkg/types"
)

// ruleDelimiter separates rules inside a localized rules string.
const ruleDelimiter = ", "

// ruleSource is the rule-bearing part shared by units and detachments.
type ruleSource struct {
	specialRules types.LocalizedText
	composition  map[string]types.CompositionRules
}

func unitSource(u types.Unit) ruleSource {
	return ruleSource{specialRules: u.SpecialRules, composition: u.ArmyComposition}
}

func detachmentSource(d types.Detachment) ruleSource {
	return ruleSource{specialRules: d.SpecialRules, composition: d.ArmyComposition}
}

// ruleText resolves the rules bundle for selector: the composition
// override when one is present, the direct rules otherwise. The result
// may be empty.
func ruleText(src ruleSource, selector string) types.LocalizedText {
	if override, ok := src.composition[selector]; ok && len(override.SpecialRules) > 0 {
		return override.SpecialRules
	}
	return src.specialRules
}

// tokens splits the localized text of bundle into canonical rule names.
func tokens(bundle types.LocalizedText, lang string) []string {
	text := bundle.Text(lang)
	if text == "" {
		return nil
	}

	var out []string
	for _, tok := range strings.Split(normalize.StripAnnotations(text), ruleDelimiter) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, normalize.NormalizeParameterizedRule(tok))
	}
	return out
}

// walk calls fn for every canonical rule name of every unit and of every
// detachment attached to it. Detachments are read independently of their
// parent unit.
func walk(roster *types.Roster, lang string, fn func(unit types.Unit, rule string)) {
	selector := roster.Composition()
	for _, u := range roster.Units() {
		for _, rule := range tokens(ruleText(unitSource(u), selector), lang) {
			fn(u, rule)
		}
		for _, d := range u.Detachments {
			for _, rule := range tokens(ruleText(detachmentSource(d), selector), lang) {
				fn(u, rule)
			}
		}
	}
}

// SpecialRules returns the canonical special rule names referenced by
// roster in lang, without duplicates and sorted for that language. A nil
// roster yields an empty list.
func SpecialRules(roster *types.Roster, lang string) []string {
	if roster == nil {
		return []string{}
	}

	set := make(map[string]struct{})
	walk(roster, lang, func(_ types.Unit, rule string) {
		set[rule] = struct{}{}
	})
	return sortedKeys(set, lang)
}

// Sources maps each canonical rule name of roster to the sorted names of
// the units that reference it, directly or through a detachment.
func Sources(roster *types.Roster, lang string) map[string][]string {
	out := make(map[string][]string)
	if roster == nil {
		return out
	}

	sets := make(map[string]map[string]struct{})
	walk(roster, lang, func(u types.Unit, rule string) {
		if sets[rule] == nil {
			sets[rule] = make(map[string]struct{})
		}
		sets[rule][u.DisplayName(lang)] = struct{}{}
	})
	for rule, units := range sets {
		out[rule] = sortedKeys(units, lang)
	}
	return out
}

func sortedKeys(set map[string]struct{}, lang string) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	SortLocale(keys, lang)
	return keys
}

// SortLocale sorts list in place using the collation rules of lang. An
// unparseable language tag falls back to the root collation. Strings the
// collator considers equal keep their byte order, so the result does not
// depend on the input order.
func SortLocale(list []string, lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	c := collate.New(tag)

	sort.Strings(list)
	slices.SortStableFunc(list, func(a, b string) int {
		return c.CompareString(a, b)
	})
}
