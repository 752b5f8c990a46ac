// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes special rule names.
//
// Two independent steps are provided. NormalizeParameterizedRule collapses
// variable numeric or dice parameters ("Impact Hits (D3)") into a fixed
// placeholder so that the same rule taken by units with different values
// is listed once. LookupKey folds a canonical name into the key used to
// find the rule's description metadata.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Placeholder replaces a variable parameter in a canonical rule name.
const Placeholder = "X"

// parameterPattern matches "<name> (<parameter>)" where the parameter is
// the single trailing parenthetical and contains no nested parentheses.
var parameterPattern = regexp.MustCompile(`^(.+?)\s*\(([^()]*)\)\s*$`)

// annotationPattern matches bracketed page references such as " {p.12}".
var annotationPattern = regexp.MustCompile(`\s*\{[^}]*\}`)

// NormalizeParameterizedRule rewrites the trailing parameter of a rule
// name to the placeholder when the parameter is numeric or dice notation
// (its first character is a digit, "d" or "D"), e.g. "Impact Hits (1)"
// and "Impact Hits (D3+1)" both become "Impact Hits (X)". Free-text
// qualifiers such as "(per model)" are kept, and text without a trailing
// parenthetical is returned unchanged.
func NormalizeParameterizedRule(text string) string {
	m := parameterPattern.FindStringSubmatch(text)
	if m == nil {
		return text
	}

	name := strings.TrimSpace(m[1])
	param := strings.TrimSpace(m[2])
	if name == "" || param == "" || param == Placeholder {
		return text
	}
	if !isVariable(param) {
		return text
	}
	return name + " (" + Placeholder + ")"
}

// isVariable reports whether param starts like a number or a dice roll.
func isVariable(param string) bool {
	c := param[0]
	return (c >= '0' && c <= '9') || c == 'd' || c == 'D'
}

// StripAnnotations removes bracketed page references, together with any
// whitespace directly before them: "Fear {p.12}" becomes "Fear".
func StripAnnotations(text string) string {
	return annotationPattern.ReplaceAllString(text, "")
}

// LookupKey returns the metadata key for a canonical rule name: page
// references and diacritics are removed, letters are lower-cased,
// hyphens and slashes become spaces, other punctuation except
// parentheses and "+" is dropped, and runs of whitespace collapse to a
// single space. "Always Strikes First" and
// "always strikes first!" share the key "always strikes first".
func LookupKey(name string) string {
	s := StripAnnotations(name)

	// A transform chain keeps state, so each call builds its own.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}

	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
			b.WriteRune(r)
		case r == '(', r == ')', r == '+':
			b.WriteRune(r)
		case r == '-', r == '/':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
