// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Language}}">
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}} - {{end}}Special Rules</title>
</head>
<body>
<h1>{{if .Title}}{{.Title}}{{else}}Special Rules{{end}}</h1>
{{- if .Loading}}
<p class="loading">Loading descriptions…</p>
{{- end}}
{{- if not .Rules}}
<p>No special rules found.</p>
{{- end}}
{{- range .Rules}}
<section class="rule">
<h2>{{.Name}}</h2>
{{- if .Units}}
<p class="units">{{range $i, $u := .Units}}{{if $i}}, {{end}}{{$u}}{{end}}</p>
{{- end}}
{{- if .Available}}
<div class="description">{{.Description}}</div>
{{- else}}
<p class="unavailable">{{.Description}}</p>
{{- end}}
</section>
{{- end}}
</body>
</html>
`))

// htmlRule is a rule prepared for the page template.
type htmlRule struct {
	Name        string
	Units       []string
	Available   bool
	Description template.HTML
}

// FormatHTML writes the page as a standalone HTML document to w. Only
// sanitized descriptions are embedded as markup; everything else is
// escaped.
func FormatHTML(p Page, w io.Writer) error {
	rules := make([]htmlRule, 0, len(p.Rules))
	for _, name := range p.Rules {
		r := htmlRule{Name: name, Units: p.Sources[name], Description: Unavailable}
		if c, ok := p.Contents[name]; ok && !c.IsZero() {
			r.Available = true
			r.Description = template.HTML(c.String())
		}
		rules = append(rules, r)
	}

	data := struct {
		Title    string
		Language string
		Loading  bool
		Rules    []htmlRule
	}{p.Title, p.Language, p.Loading, rules}

	if data.Language == "" {
		data.Language = "en"
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
