// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RuleMetadata describes where the description of a special rule lives.
type RuleMetadata struct {
	// ContentLocation is the URL of the rule's description page. Empty
	// means no description is available.
	ContentLocation string `json:"content_location,omitempty" yaml:"content_location,omitempty"`
}

// HasContent reports whether the entry points at a description.
func (m RuleMetadata) HasContent() bool {
	return m.ContentLocation != ""
}
