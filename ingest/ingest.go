// Package ingest drafts catalog topics from external reference material.
//
// A Draft is reduced source text (a reference web page, a PDF manual page)
// that an author turns into a proper topic: Skeleton produces a TOML-ready
// topic whose entries are paragraph stubs to be renamed, described and given
// worked examples by hand. Drafts never enter the published catalog
// directly: a skeleton carries no ops or worked examples until the author
// completes it.
package ingest

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/BurntSushi/toml"
	readability "github.com/go-shiori/go-readability"

	"github.com/stlref/stlref"
)

// maxSummaryLen caps the skeleton summary so a long source document does
// not become a single enormous paragraph.
const maxSummaryLen = 600

// Draft is extracted source material for a new topic.
type Draft struct {
	Title  string
	Text   string
	Source string // where the material came from (URL or file name)
}

// FromHTML reduces a reference web page to a Draft using readability
// extraction. pageURL resolves relative links and is recorded as the
// draft's source. Extracted text keeps the source markup's raw whitespace,
// so it is normalized here: runs collapse to single spaces and blank-line
// runs become one paragraph break.
func FromHTML(r io.Reader, pageURL string) (Draft, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return Draft{}, fmt.Errorf("parse url %q: %w", pageURL, err)
	}
	article, err := readability.FromReader(r, parsed)
	if err != nil {
		return Draft{}, fmt.Errorf("extract article: %w", err)
	}
	text := normalizeWhitespace(article.TextContent)
	if text == "" {
		return Draft{}, fmt.Errorf("no readable text in %s", pageURL)
	}
	return Draft{Title: article.Title, Text: text, Source: pageURL}, nil
}

// FromText wraps already-plain text as a Draft.
func FromText(title, text, source string) Draft {
	return Draft{Title: title, Text: strings.TrimSpace(text), Source: source}
}

// Skeleton turns the draft into a topic skeleton. The first paragraph
// becomes the summary (truncated to a readable length); each following
// paragraph becomes a stub entry named draft_01, draft_02, ... for the
// author to rename and complete.
func (d Draft) Skeleton(slug string) stlref.Topic {
	paragraphs := splitParagraphs(d.Text)

	t := stlref.Topic{Slug: slug, Title: d.Title}
	if len(paragraphs) > 0 {
		t.Summary = truncate(paragraphs[0], maxSummaryLen)
		paragraphs = paragraphs[1:]
	}
	for i, p := range paragraphs {
		t.Entries = append(t.Entries, stlref.Entry{
			Name:        fmt.Sprintf("draft_%02d", i+1),
			Description: truncate(p, maxSummaryLen),
		})
	}
	return t
}

// EncodeTOML writes a topic in the authored TOML format, ready to be placed
// under docs/topics and edited.
func EncodeTOML(w io.Writer, t stlref.Topic) error {
	if err := toml.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("encode topic: %w", err)
	}
	return nil
}

// normalizeWhitespace collapses whitespace runs within lines to single
// spaces, joins adjacent lines into one paragraph, and reduces blank-line
// runs to a single paragraph break.
func normalizeWhitespace(text string) string {
	var b strings.Builder
	blank := true
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			blank = true
			continue
		}
		if b.Len() > 0 {
			if blank {
				b.WriteString("\n\n")
			} else {
				b.WriteByte(' ')
			}
		}
		blank = false
		b.WriteString(strings.Join(fields, " "))
	}
	return b.String()
}

// splitParagraphs breaks text on blank lines and drops whitespace-only
// fragments.
func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.Join(strings.Fields(p), " "))
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := strings.LastIndexByte(s[:n], ' ')
	if cut <= 0 {
		cut = n
	}
	return s[:cut] + "…"
}
