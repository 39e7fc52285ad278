// Package render exports a catalog as a static HTML site: one index page
// listing the topics and one page per topic with every entry, its rendered
// description and its worked example.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/stlref/stlref"
)

// Renderer converts catalog markdown to HTML and writes site pages.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer. GFM tables are enabled because topic summaries
// use them for category overviews.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// Markdown renders a markdown fragment to HTML.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// topicPage is the data handed to the topic template.
type topicPage struct {
	Title   string
	Summary template.HTML
	Entries []entryView
}

type entryView struct {
	Name        string
	Category    string
	Description template.HTML
	Example     *stlref.Example
	Inputs      string // preformatted example inputs, empty without example
}

type indexPage struct {
	Topics []indexTopic
}

type indexTopic struct {
	Slug    string
	Title   string
	Entries int
}

// WriteSite renders the whole catalog into dir, creating it if needed.
// Pages are written as index.html plus <slug>.html per topic.
func (r *Renderer) WriteSite(c *stlref.Catalog, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create site dir: %w", err)
	}

	idx := indexPage{}
	for _, t := range c.Topics() {
		idx.Topics = append(idx.Topics, indexTopic{Slug: t.Slug, Title: t.Title, Entries: len(t.Entries)})

		page, err := r.topicPage(t)
		if err != nil {
			return fmt.Errorf("topic %s: %w", t.Slug, err)
		}
		var buf bytes.Buffer
		if err := topicTmpl.Execute(&buf, page); err != nil {
			return fmt.Errorf("topic %s: %w", t.Slug, err)
		}
		if err := os.WriteFile(filepath.Join(dir, t.Slug+".html"), buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s.html: %w", t.Slug, err)
		}
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, idx); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write index.html: %w", err)
	}
	return nil
}

func (r *Renderer) topicPage(t stlref.Topic) (topicPage, error) {
	summary, err := r.Markdown(t.Summary)
	if err != nil {
		return topicPage{}, err
	}
	page := topicPage{Title: t.Title, Summary: summary}
	for _, e := range t.Entries {
		desc, err := r.Markdown(e.Description)
		if err != nil {
			return topicPage{}, fmt.Errorf("entry %s: %w", e.Name, err)
		}
		page.Entries = append(page.Entries, entryView{
			Name:        e.Name,
			Category:    e.Category,
			Description: desc,
			Example:     e.Example,
			Inputs:      formatInputs(e.Example),
		})
	}
	return page, nil
}

// formatInputs prints the example's populated input fields on one line.
func formatInputs(ex *stlref.Example) string {
	if ex == nil {
		return ""
	}
	var parts []string
	if len(ex.Values) > 0 {
		parts = append(parts, fmt.Sprintf("values: %v", ex.Values))
	}
	if len(ex.Other) > 0 {
		parts = append(parts, fmt.Sprintf("other: %v", ex.Other))
	}
	if ex.Arg != 0 {
		parts = append(parts, fmt.Sprintf("arg: %d", ex.Arg))
	}
	if ex.Bits != "" {
		parts = append(parts, fmt.Sprintf("bits: %s", ex.Bits))
	}
	if ex.OtherBits != "" {
		parts = append(parts, fmt.Sprintf("other bits: %s", ex.OtherBits))
	}
	if ex.Width != 0 {
		parts = append(parts, fmt.Sprintf("width: %d", ex.Width))
	}
	return strings.Join(parts, ", ")
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>stlref — standard library reference catalog</title>
</head>
<body>
<h1>Reference Catalog</h1>
<ul>
{{- range .Topics}}
<li><a href="{{.Slug}}.html">{{.Title}}</a> ({{.Entries}} operations)</li>
{{- end}}
</ul>
</body>
</html>
`))

var topicTmpl = template.Must(template.New("topic").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} — stlref</title>
</head>
<body>
<p><a href="index.html">&larr; all topics</a></p>
<h1>{{.Title}}</h1>
{{.Summary}}
{{- range .Entries}}
<section id="{{.Name}}">
<h2><code>{{.Name}}</code></h2>
<p><em>{{.Category}}</em></p>
{{.Description}}
{{- if .Example}}
<dl>
<dt>Input</dt><dd><code>{{.Inputs}}</code></dd>
<dt>Invocation</dt><dd><code>{{.Example.Invocation}}</code></dd>
<dt>Output</dt><dd><pre>{{.Example.Output}}</pre></dd>
</dl>
{{- end}}
</section>
{{- end}}
</body>
</html>
`))
