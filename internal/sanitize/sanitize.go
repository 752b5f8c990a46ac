// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sanitize turns a fetched rule description page into markup that
// can be embedded directly in rendered output.
//
// Only the rich-text article sections of the page are kept. Inside them,
// vector graphics, active content and nested intro blocks are removed and
// every hyperlink is replaced by its text. The result is an HTML value, which no other
// package can construct, so raw fetched text cannot be mistaken for
// sanitized markup.
package sanitize

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Class names identifying description blocks in a rules page.
const (
	SectionClass = "article-section-rich-text"
	IntroClass   = "article-section-intro"
)

// removedElements are dropped together with their content.
var removedElements = map[string]bool{
	"svg":    true,
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
	"embed":  true,
}

// HTML is sanitized markup produced by Document.
type HTML struct {
	markup string
}

// String returns the markup.
func (h HTML) String() string {
	return h.markup
}

// IsZero reports whether h holds no markup.
func (h HTML) IsZero() bool {
	return h.markup == ""
}

// Text returns the text of h with runs of whitespace collapsed to single
// spaces.
func (h HTML) Text() string {
	if h.markup == "" {
		return ""
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(h.markup), body)
	if err != nil {
		return ""
	}
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(textContent(n))
		b.WriteByte(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Document parses a description page and returns the sanitized content
// of its rich-text sections concatenated in document order. ok is false
// when the page has no qualifying section.
func Document(r io.Reader) (content HTML, ok bool, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return HTML{}, false, fmt.Errorf("parsing document: %w", err)
	}

	blocks := sections(doc)
	if len(blocks) == 0 {
		return HTML{}, false, nil
	}

	var b strings.Builder
	for _, n := range blocks {
		clean(n)
		if err := html.Render(&b, n); err != nil {
			return HTML{}, false, fmt.Errorf("rendering section: %w", err)
		}
	}
	return HTML{markup: b.String()}, true, nil
}

// sections returns the outermost elements carrying SectionClass but not
// IntroClass.
func sections(n *html.Node) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, SectionClass) && !hasClass(n, IntroClass) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// linkElements are replaced by their text content in every namespace.
var linkElements = map[string]bool{
	"a":    true,
	"area": true,
}

// clean removes unwanted elements and nested intro blocks below n,
// flattens hyperlinks into plain text, and strips event handler
// attributes.
func clean(n *html.Node) {
	stripHandlers(n)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			switch {
			case removedElements[c.Data], hasClass(c, IntroClass):
				n.RemoveChild(c)
			case linkElements[c.Data]:
				n.InsertBefore(&html.Node{Type: html.TextNode, Data: textContent(c)}, c)
				n.RemoveChild(c)
			default:
				clean(c)
			}
		}
		c = next
	}
}

func stripHandlers(n *html.Node) {
	if n.Type != html.ElementNode {
		return
	}
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if strings.HasPrefix(strings.ToLower(a.Key), "on") {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

// textContent concatenates the text below n, skipping removed elements.
func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && removedElements[n.Data]:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}
