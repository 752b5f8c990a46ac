// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes a roster's rules page as a text table, JSON,
// YAML, or standalone HTML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/roster-rules/internal/sanitize"
)

// Unavailable is shown for a rule without a resolved description.
const Unavailable = "description not available"

// Page is everything rendered for one roster.
type Page struct {
	Title    string
	Language string
	Loading  bool

	// Rules is the canonical rule list in display order.
	Rules []string

	// Contents maps rule names to descriptions. Missing names render as
	// Unavailable.
	Contents map[string]sanitize.HTML

	// Sources optionally maps rule names to the units referencing them.
	Sources map[string][]string
}

// Entry is one rendered rule.
type Entry struct {
	Name        string   `json:"name" yaml:"name"`
	Available   bool     `json:"available" yaml:"available"`
	Description string   `json:"description" yaml:"description"`
	Units       []string `json:"units,omitempty" yaml:"units,omitempty"`
}

// document is the JSON and YAML shape of a Page.
type document struct {
	Title    string  `json:"title,omitempty" yaml:"title,omitempty"`
	Language string  `json:"language,omitempty" yaml:"language,omitempty"`
	Loading  bool    `json:"loading" yaml:"loading"`
	Rules    []Entry `json:"rules" yaml:"rules"`
}

// Entries returns one entry per rule with its description markup, or
// Unavailable.
func (p Page) Entries() []Entry {
	entries := make([]Entry, 0, len(p.Rules))
	for _, name := range p.Rules {
		e := Entry{Name: name, Description: Unavailable, Units: p.Sources[name]}
		if c, ok := p.Contents[name]; ok && !c.IsZero() {
			e.Available = true
			e.Description = c.String()
		}
		entries = append(entries, e)
	}
	return entries
}

func (p Page) document() document {
	return document{Title: p.Title, Language: p.Language, Loading: p.Loading, Rules: p.Entries()}
}

// FormatTable writes the rules as a plain-text table to w. Descriptions
// are reduced to their text and truncated.
func FormatTable(p Page, w io.Writer) {
	if p.Title != "" {
		fmt.Fprintln(w, p.Title)
		fmt.Fprintln(w)
	}
	if len(p.Rules) == 0 {
		fmt.Fprintln(w, "No special rules found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-32s  %s\n", "#", "Rule", "Description")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	available := 0
	for i, name := range p.Rules {
		desc := Unavailable
		if c, ok := p.Contents[name]; ok && !c.IsZero() {
			desc = truncate(c.Text(), 70)
			available++
		}
		fmt.Fprintf(w, "%-4d  %-32s  %s\n", i+1, truncate(name, 32), desc)
		if units := p.Sources[name]; len(units) > 0 {
			fmt.Fprintf(w, "%-4s  %-32s  used by: %s\n", "", "", strings.Join(units, ", "))
		}
	}

	fmt.Fprintf(w, "\n%d rules (%d with descriptions)", len(p.Rules), available)
	if p.Loading {
		fmt.Fprint(w, ", still loading")
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the page as indented JSON to w.
func FormatJSON(p Page, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p.document())
}

// FormatYAML writes the page as YAML to w.
func FormatYAML(p Page, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(p.document())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
